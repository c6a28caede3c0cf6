// Package scheduler runs the periodic badge evaluation job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/badges"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// Service schedules the full badge evaluation sweep. Per-user evaluation
// also happens on demand; the cron job catches users whose stats changed
// through paths that never call CheckAndAward.
type Service struct {
	cfg          *config.SchedulerConfig
	badgeService *badges.Service
	log          *logger.Logger
	cron         *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.SchedulerConfig, badgeService *badges.Service, log *logger.Logger) *Service {
	return &Service{
		cfg:          cfg,
		badgeService: badgeService,
		log:          log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.cfg.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.cfg.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.cfg.BadgeEvaluationCron, func() {
		s.runBadgeEvaluation(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register badge evaluation job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.cfg.BadgeEvaluationCron).
		Str("timezone", s.cfg.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started")

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running job.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

func (s *Service) runBadgeEvaluation(ctx context.Context) {
	awarded, err := s.badgeService.EvaluateAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Scheduled badge evaluation failed")
		return
	}
	s.log.Info().Int("badges_awarded", awarded).Msg("Scheduled badge evaluation finished")
}
