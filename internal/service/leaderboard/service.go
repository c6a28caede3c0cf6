// Package leaderboard provides point and reputation rankings.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// UserRepository interface for user reads.
type UserRepository interface {
	ListByPoints(limit int) ([]models.User, error)
}

// Entry represents a single entry in the leaderboard.
type Entry struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Points     int    `json:"points"`
	Reputation int    `json:"reputation"`
	VotesGiven int    `json:"votes_given"`
	BadgeCount int    `json:"badge_count"`
	Rank       int    `json:"rank"`
}

// Service builds leaderboards from persisted user aggregates.
type Service struct {
	userRepo UserRepository
	log      *logger.Logger
}

// NewService creates a new leaderboard service.
func NewService(userRepo *repository.UserRepository, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, log: log}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, log: log}
}

// GetLeaderboard returns the top users by points.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	users, err := s.userRepo.ListByPoints(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for i := range users {
		u := &users[i]
		entries = append(entries, Entry{
			UserID:     u.ID,
			Username:   u.Username,
			Points:     u.Points,
			Reputation: u.Reputation,
			VotesGiven: u.VotesGiven,
			BadgeCount: len(u.Badges),
			Rank:       i + 1,
		})
	}

	return entries, nil
}
