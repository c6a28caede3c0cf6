package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BadgeSet is the set of badge IDs a user has earned. Once earned, a badge
// is never removed. Stored as a JSONB array of IDs.
type BadgeSet map[string]bool

// Value implements driver.Valuer.
func (s BadgeSet) Value() (driver.Value, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return json.Marshal(ids)
}

// Scan implements sql.Scanner.
func (s *BadgeSet) Scan(value interface{}) error {
	*s = BadgeSet{}
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for BadgeSet: %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	for _, id := range ids {
		(*s)[id] = true
	}
	return nil
}

// Has reports whether the badge is in the set.
func (s BadgeSet) Has(id string) bool {
	return s[id]
}

// Add inserts a badge ID. Adding an existing ID is a no-op.
func (s *BadgeSet) Add(id string) {
	if *s == nil {
		*s = BadgeSet{}
	}
	(*s)[id] = true
}

// User represents an account in the system.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null;size:255" json:"username"`
	Email      string    `gorm:"size:255" json:"email"`
	Points     int       `gorm:"not null;default:0" json:"points"`
	Reputation int       `gorm:"not null;default:0" json:"reputation"`
	Credits    int       `gorm:"not null;default:0" json:"credits"`
	VotesGiven int       `gorm:"not null;default:0" json:"votes_given"`
	Badges     BadgeSet  `gorm:"type:jsonb" json:"badges"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}
