package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

type mockUserRepository struct {
	users []models.User
	err   error
	limit int
}

func (m *mockUserRepository) ListByPoints(limit int) ([]models.User, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.users) {
		return m.users[:limit], nil
	}
	return m.users, nil
}

func TestGetLeaderboard(t *testing.T) {
	repo := &mockUserRepository{
		users: []models.User{
			{ID: 2, Username: "high", Points: 100, Reputation: 20, VotesGiven: 12,
				Badges: models.BadgeSet{"super_voter": true}},
			{ID: 1, Username: "mid", Points: 50, Reputation: 10},
			{ID: 3, Username: "low", Points: 5},
		},
	}
	service := NewServiceWithInterfaces(repo, logger.NewNop())

	entries, err := service.GetLeaderboard(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Username != "high" || first.Rank != 1 {
		t.Errorf("Unexpected leader: %+v", first)
	}
	if first.BadgeCount != 1 {
		t.Errorf("Expected 1 badge for leader, got %d", first.BadgeCount)
	}
	if entries[2].Rank != 3 {
		t.Errorf("Expected rank 3 last, got %d", entries[2].Rank)
	}
}

func TestGetLeaderboardDefaultLimit(t *testing.T) {
	repo := &mockUserRepository{}
	service := NewServiceWithInterfaces(repo, logger.NewNop())

	if _, err := service.GetLeaderboard(context.Background(), 0); err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if repo.limit != 10 {
		t.Errorf("Expected default limit 10, got %d", repo.limit)
	}
}

func TestGetLeaderboardRepoError(t *testing.T) {
	repo := &mockUserRepository{err: errors.New("connection refused")}
	service := NewServiceWithInterfaces(repo, logger.NewNop())

	if _, err := service.GetLeaderboard(context.Background(), 5); err == nil {
		t.Fatal("Expected error from repository failure")
	}
}
