package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/badges"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

type countingUserRepository struct {
	listCalls atomic.Int32
}

func (r *countingUserRepository) GetByID(uint) (*models.User, error) {
	return nil, models.ErrUserNotFound
}

func (r *countingUserRepository) UpdateBadges(*models.User) error { return nil }

func (r *countingUserRepository) List() ([]models.User, error) {
	r.listCalls.Add(1)
	return nil, nil
}

type emptyLocationRepository struct{}

func (emptyLocationRepository) ListByCreator(uint) ([]models.Location, error) {
	return nil, nil
}

func newTestBadgeService(userRepo badges.UserRepository) *badges.Service {
	return badges.NewServiceWithInterfaces(
		badges.DefaultCatalog(), emptyLocationRepository{}, userRepo, nil, logger.NewNop(),
	)
}

func TestStartDisabled(t *testing.T) {
	cfg := &config.SchedulerConfig{Enabled: false}
	service := NewService(cfg, newTestBadgeService(&countingUserRepository{}), logger.NewNop())

	if err := service.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	service.Stop() // no-op without a cron instance
}

func TestStartInvalidTimezone(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:             true,
		BadgeEvaluationCron: "0 3 * * *",
		Timezone:            "Mars/Olympus_Mons",
	}
	service := NewService(cfg, newTestBadgeService(&countingUserRepository{}), logger.NewNop())

	if err := service.Start(); err == nil {
		t.Fatal("Expected error for invalid timezone")
	}
}

func TestStartInvalidCronExpression(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:             true,
		BadgeEvaluationCron: "not a schedule",
		Timezone:            "UTC",
	}
	service := NewService(cfg, newTestBadgeService(&countingUserRepository{}), logger.NewNop())

	if err := service.Start(); err == nil {
		t.Fatal("Expected error for invalid cron expression")
	}
}

func TestScheduledEvaluationRuns(t *testing.T) {
	userRepo := &countingUserRepository{}
	cfg := &config.SchedulerConfig{
		Enabled:             true,
		BadgeEvaluationCron: "@every 20ms",
		Timezone:            "UTC",
	}
	service := NewService(cfg, newTestBadgeService(userRepo), logger.NewNop())

	if err := service.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer service.Stop()

	deadline := time.After(2 * time.Second)
	for userRepo.listCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Badge evaluation never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunBadgeEvaluationDirect(t *testing.T) {
	userRepo := &countingUserRepository{}
	service := NewService(
		&config.SchedulerConfig{Enabled: true},
		newTestBadgeService(userRepo),
		logger.NewNop(),
	)

	service.runBadgeEvaluation(context.Background())
	if userRepo.listCalls.Load() != 1 {
		t.Errorf("Expected one evaluation pass, got %d", userRepo.listCalls.Load())
	}
}
