// Package models defines domain models for the location engine.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VoteType is the kind of vote a user holds on a location.
type VoteType string

// Vote type constants.
const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Valid reports whether the vote type is one of the known kinds.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Verification status constants. The status only ever moves toward verified.
const (
	StatusUnverified = "unverified"
	StatusPending    = "pending"
	StatusVerified   = "verified"
)

// VoterMap maps a user ID to the single vote they currently hold on a
// location. Stored as JSONB alongside the tallies derived from it.
type VoterMap map[uint]VoteType

// Value implements driver.Valuer for JSONB storage.
func (m VoterMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *VoterMap) Scan(value interface{}) error {
	if value == nil {
		*m = VoterMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for VoterMap: %T", value)
	}
	if len(data) == 0 {
		*m = VoterMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// CountVotes recomputes the tallies from the map. Callers persist these
// derived counts so a retried write converges to the same state.
func (m VoterMap) CountVotes() (upvotes, downvotes int) {
	for _, vt := range m {
		switch vt {
		case VoteUp:
			upvotes++
		case VoteDown:
			downvotes++
		}
	}
	return upvotes, downvotes
}

// PointsEntry is one event in a location's append-only points ledger.
type PointsEntry struct {
	Amount int       `json:"amount"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// PointsHistory is the append-only ledger of point-affecting events.
type PointsHistory []PointsEntry

// Value implements driver.Valuer for JSONB storage.
func (h PointsHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner.
func (h *PointsHistory) Scan(value interface{}) error {
	if value == nil {
		*h = PointsHistory{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PointsHistory: %T", value)
	}
	if len(data) == 0 {
		*h = PointsHistory{}
		return nil
	}
	return json.Unmarshal(data, h)
}

// Location represents a geotagged post dropped by a user.
type Location struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	CreatorID          uint          `gorm:"not null;index" json:"creator_id"`
	Creator            User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Latitude           float64       `gorm:"not null" json:"latitude"`
	Longitude          float64       `gorm:"not null" json:"longitude"`
	Description        string        `gorm:"type:text" json:"description"`
	MediaRefs          string        `gorm:"type:text" json:"media_refs"`
	Upvotes            int           `gorm:"not null;default:0" json:"upvotes"`
	Downvotes          int           `gorm:"not null;default:0" json:"downvotes"`
	Voters             VoterMap      `gorm:"type:jsonb" json:"voters"`
	VerificationStatus string        `gorm:"size:20;not null;default:'unverified';index" json:"verification_status"`
	TotalPoints        int           `gorm:"not null;default:0" json:"total_points"`
	PointsHistory      PointsHistory `gorm:"type:jsonb" json:"points_history"`
	Credits            int           `gorm:"not null;default:0" json:"credits"`
	AutoDelete         bool          `gorm:"not null;default:false;index" json:"auto_delete"`
	DeleteAt           *time.Time    `gorm:"index" json:"delete_at"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Location model.
func (Location) TableName() string {
	return "locations"
}

// NetVotes returns upvotes minus downvotes.
func (l *Location) NetVotes() int {
	return l.Upvotes - l.Downvotes
}

// IsVerified reports whether the location has reached verified status.
func (l *Location) IsVerified() bool {
	return l.VerificationStatus == StatusVerified
}

// AppendPoints records a point-affecting event in the ledger and updates
// the running total.
func (l *Location) AppendPoints(amount int, reason string, at time.Time) {
	l.TotalPoints += amount
	l.PointsHistory = append(l.PointsHistory, PointsEntry{
		Amount: amount,
		Reason: reason,
		At:     at,
	})
}
