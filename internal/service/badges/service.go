// Package badges provides badge evaluation and awarding.
package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/Apixa25/XHere-Web-sub000/internal/cache"
	prommetrics "github.com/Apixa25/XHere-Web-sub000/internal/metrics"
	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// LocationRepository interface for location reads.
type LocationRepository interface {
	ListByCreator(creatorID uint) ([]models.Location, error)
}

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	UpdateBadges(user *models.User) error
	List() ([]models.User, error)
}

// StatsCache interface for the user statistics snapshot cache.
type StatsCache interface {
	Get(ctx context.Context, userID uint) (*models.UserStats, error)
	Set(ctx context.Context, userID uint, stats *models.UserStats) error
}

// Service evaluates the badge catalog against user statistics and awards
// newly satisfied badges. Evaluation is pure given the snapshot; the only
// side effect is persisting the grown badge set.
type Service struct {
	catalog      []models.Badge
	locationRepo LocationRepository
	userRepo     UserRepository
	cache        StatsCache
	log          *logger.Logger
}

// NewService creates a new badge service. statsCache may be nil.
func NewService(
	catalog []models.Badge,
	locationRepo *repository.LocationRepository,
	userRepo *repository.UserRepository,
	statsCache *cache.StatsCache,
	log *logger.Logger,
) *Service {
	s := &Service{
		catalog:      catalog,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		log:          log,
	}
	if statsCache != nil {
		s.cache = statsCache
	}
	return s
}

// NewServiceWithInterfaces creates a new badge service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	catalog []models.Badge,
	locationRepo LocationRepository,
	userRepo UserRepository,
	statsCache StatsCache,
	log *logger.Logger,
) *Service {
	return &Service{
		catalog:      catalog,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		cache:        statsCache,
		log:          log,
	}
}

// CheckAndAward evaluates the catalog for one user and returns only the
// badges newly earned by this call. Repeated calls with unchanged stats
// return an empty result; earned badges are never revoked.
func (s *Service) CheckAndAward(ctx context.Context, userID uint) ([]models.Badge, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.buildStats(ctx, user)
	if err != nil {
		return nil, err
	}

	var newlyEarned []models.Badge
	for _, badge := range s.catalog {
		if user.Badges.Has(badge.ID) {
			continue
		}
		if badge.Satisfied(stats) {
			user.Badges.Add(badge.ID)
			newlyEarned = append(newlyEarned, badge)
		}
	}

	if len(newlyEarned) == 0 {
		return nil, nil
	}

	if err := s.userRepo.UpdateBadges(user); err != nil {
		return nil, fmt.Errorf("failed to persist badges for user %d: %w", userID, err)
	}

	for _, badge := range newlyEarned {
		prommetrics.RecordBadgeAwarded(badge.ID)
		s.log.Info().
			Uint("user_id", userID).
			Str("badge", badge.ID).
			Msg("Badge awarded")
	}

	return newlyEarned, nil
}

// EvaluateAll runs CheckAndAward for every user. Typically invoked by the
// scheduled job. Returns the number of badges awarded.
func (s *Service) EvaluateAll(ctx context.Context) (int, error) {
	s.log.Info().Msg("Starting badge evaluation for all users")
	start := time.Now()

	users, err := s.userRepo.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	awarded := 0
	for i := range users {
		earned, err := s.CheckAndAward(ctx, users[i].ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", users[i].ID).
				Msg("Failed to evaluate badges")
			continue
		}
		awarded += len(earned)
	}

	s.log.Info().
		Int("users_evaluated", len(users)).
		Int("badges_awarded", awarded).
		Dur("duration", time.Since(start)).
		Msg("Badge evaluation complete")

	return awarded, nil
}

// Catalog returns the ordered badge table.
func (s *Service) Catalog() []models.Badge {
	return s.catalog
}

// UserBadges returns the catalog entries a user has earned.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) UserBadges(ctx context.Context, userID uint) ([]models.Badge, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	var earned []models.Badge
	for _, badge := range s.catalog {
		if user.Badges.Has(badge.ID) {
			earned = append(earned, badge)
		}
	}
	return earned, nil
}
