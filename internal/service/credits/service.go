// Package credits handles attaching spendable credits to a location.
package credits

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// Service moves credits from a creator's balance onto their location.
type Service struct {
	db           *repository.DB
	locationRepo *repository.LocationRepository
	userRepo     *repository.UserRepository
	log          *logger.Logger
}

// NewService creates a new credits service.
func NewService(
	db *repository.DB,
	locationRepo *repository.LocationRepository,
	userRepo *repository.UserRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		db:           db,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		log:          log,
	}
}

// Attach debits amount from the creator, credits the location, and records
// the event in the points ledger, in one transaction. The debit is guarded so
// the attached credits can never exceed the creator's balance at assignment
// time.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Attach(ctx context.Context, locationID, userID uint, amount int) (*models.Location, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidCreditAmount
	}

	loc, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc.CreatorID != userID {
		return nil, models.ErrNotCreator
	}

	err = s.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).DebitCredits(userID, amount); err != nil {
			return err
		}
		if err := s.locationRepo.WithTx(tx).AddCredits(locationID, amount); err != nil {
			return err
		}
		loc.AppendPoints(amount, "credits_attached", time.Now())
		return s.locationRepo.WithTx(tx).UpdatePointsLedger(loc)
	})
	if err != nil {
		if models.IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to attach credits to location %d: %w", locationID, err)
	}

	loc.Credits += amount

	s.log.Info().
		Uint("location_id", locationID).
		Uint("user_id", userID).
		Int("amount", amount).
		Int("credits", loc.Credits).
		Msg("Credits attached")

	return loc, nil
}
