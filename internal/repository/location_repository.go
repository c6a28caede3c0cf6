package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
)

// LocationRepository handles location-related database operations.
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *DB) *LocationRepository {
	return &LocationRepository{db: db.DB}
}

// WithTx returns a repository bound to the given transaction.
func (r *LocationRepository) WithTx(tx *gorm.DB) *LocationRepository {
	return &LocationRepository{db: tx}
}

// Create inserts a new location.
func (r *LocationRepository) Create(loc *models.Location) error {
	if err := r.db.Create(loc).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// GetByID retrieves a location by ID. Returns models.ErrLocationNotFound
// when the row is absent.
func (r *LocationRepository) GetByID(id uint) (*models.Location, error) {
	var loc models.Location
	if err := r.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return &loc, nil
}

// Save persists all fields of a location.
func (r *LocationRepository) Save(loc *models.Location) error {
	if err := r.db.Save(loc).Error; err != nil {
		return fmt.Errorf("failed to save location %d: %w", loc.ID, err)
	}
	return nil
}

// UpdateVoteState writes the voters map and the tallies derived from it.
// The tallies are always recomputed from the map, so a retried write after a
// partial failure converges to the same state.
func (r *LocationRepository) UpdateVoteState(loc *models.Location) error {
	up, down := loc.Voters.CountVotes()
	loc.Upvotes = up
	loc.Downvotes = down
	err := r.db.Model(&models.Location{}).
		Where("id = ?", loc.ID).
		Updates(map[string]interface{}{
			"voters":    loc.Voters,
			"upvotes":   up,
			"downvotes": down,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update vote state for location %d: %w", loc.ID, err)
	}
	return nil
}

// ClaimVerification performs the compare-and-set transition to verified.
// Returns true only for the single caller that flipped the status; that
// result is the sole authorization for paying the creator bonus.
func (r *LocationRepository) ClaimVerification(id uint) (bool, error) {
	res := r.db.Model(&models.Location{}).
		Where("id = ? AND verification_status <> ?", id, models.StatusVerified).
		Update("verification_status", models.StatusVerified)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim verification for location %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdatePointsLedger writes the points total and append-only history.
func (r *LocationRepository) UpdatePointsLedger(loc *models.Location) error {
	err := r.db.Model(&models.Location{}).
		Where("id = ?", loc.ID).
		Updates(map[string]interface{}{
			"total_points":   loc.TotalPoints,
			"points_history": loc.PointsHistory,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update points ledger for location %d: %w", loc.ID, err)
	}
	return nil
}

// AddCredits adds to a location's credit balance.
func (r *LocationRepository) AddCredits(id uint, amount int) error {
	err := r.db.Model(&models.Location{}).
		Where("id = ?", id).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to add credits to location %d: %w", id, err)
	}
	return nil
}

// ListByCreator retrieves all locations created by a user.
func (r *LocationRepository) ListByCreator(creatorID uint) ([]models.Location, error) {
	var locs []models.Location
	if err := r.db.Where("creator_id = ?", creatorID).Find(&locs).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations for creator %d: %w", creatorID, err)
	}
	return locs, nil
}

// DeleteExpired removes every location flagged for auto-deletion whose
// deadline has passed, in a single transaction. Returns the number deleted.
// Deletion is terminal and idempotent; a repeated call matches nothing.
func (r *LocationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("auto_delete = ? AND delete_at <= ?", true, now).
			Delete(&models.Location{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired locations: %w", err)
	}
	return deleted, nil
}
