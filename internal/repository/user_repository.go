package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID. Returns models.ErrUserNotFound when absent.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// Update updates a user.
func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// List retrieves all users.
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListByPoints retrieves the top users ordered by points descending.
func (r *UserRepository) ListByPoints(limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("points DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by points: %w", err)
	}
	return users, nil
}

// AddVoteReward atomically grants the vote participation reward: points for
// casting plus the votesGiven counter. Safe under concurrent contributions.
func (r *UserRepository) AddVoteReward(userID uint, points int) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"points":      gorm.Expr("points + ?", points),
			"votes_given": gorm.Expr("votes_given + ?", 1),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to add vote reward for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// AddPoints atomically adds points and reputation to a user.
func (r *UserRepository) AddPoints(userID uint, points, reputation int) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"points":     gorm.Expr("points + ?", points),
			"reputation": gorm.Expr("reputation + ?", reputation),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to add points for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// DebitCredits atomically spends credits, guarded so the balance never goes
// negative. Returns models.ErrInsufficientCredits when the balance is too low.
func (r *UserRepository) DebitCredits(userID uint, amount int) error {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit credits for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrInsufficientCredits
	}
	return nil
}

// UpdateBadges persists the badge set only. The set is union-only; callers
// never remove entries.
func (r *UserRepository) UpdateBadges(user *models.User) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("badges", user.Badges).Error
	if err != nil {
		return fmt.Errorf("failed to update badges for user %d: %w", user.ID, err)
	}
	return nil
}
