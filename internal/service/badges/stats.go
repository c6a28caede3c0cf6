package badges

import (
	"context"
	"fmt"
	"math"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
)

// areaBucket is a one-degree grid cell. Distinct cells approximate
// geographic diversity; this is not a precise metric.
type areaBucket struct {
	lat int
	lng int
}

func bucketFor(lat, lng float64) areaBucket {
	return areaBucket{
		lat: int(math.Floor(lat)),
		lng: int(math.Floor(lng)),
	}
}

// buildStats assembles the UserStats snapshot, consulting the cache first.
func (s *Service) buildStats(ctx context.Context, user *models.User) (*models.UserStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, user.ID)
		if err != nil {
			s.log.Debug().Err(err).Uint("user_id", user.ID).Msg("Stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	locs, err := s.locationRepo.ListByCreator(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats for user %d: %w", user.ID, err)
	}

	stats := &models.UserStats{
		TotalLocations:  len(locs),
		TotalVotesGiven: user.VotesGiven,
	}

	areas := make(map[areaBucket]bool)
	for i := range locs {
		loc := &locs[i]
		if loc.IsVerified() {
			stats.VerifiedLocations++
		}
		stats.TotalUpvotesReceived += loc.Upvotes
		areas[bucketFor(loc.Latitude, loc.Longitude)] = true
	}
	stats.UniqueAreas = len(areas)

	if s.cache != nil {
		if err := s.cache.Set(ctx, user.ID, stats); err != nil {
			s.log.Debug().Err(err).Uint("user_id", user.ID).Msg("Stats cache write failed")
		}
	}

	return stats, nil
}
