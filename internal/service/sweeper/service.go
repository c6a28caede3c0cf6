// Package sweeper runs the periodic expiration sweep that removes locations
// past their self-destruct deadline.
package sweeper

import (
	"context"
	"time"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	prommetrics "github.com/Apixa25/XHere-Web-sub000/internal/metrics"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// LocationDeleter interface for the batch delete operation.
type LocationDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service deletes expired auto-delete locations on a fixed interval. Ticks
// run sequentially in one goroutine and never overlap; each tick has a
// bounded timeout. A failed tick is logged and the next tick retries;
// deletion is terminal and idempotent, so no in-progress state is kept.
type Service struct {
	repo        LocationDeleter
	interval    time.Duration
	tickTimeout time.Duration
	now         func() time.Time
	log         *logger.Logger

	stop chan struct{}
	done chan struct{}
}

// NewService creates a new expiration sweeper.
func NewService(repo *repository.LocationRepository, cfg *config.SweeperConfig, log *logger.Logger) *Service {
	return NewServiceWithInterfaces(repo, cfg.IntervalDuration(), cfg.TickTimeoutDuration(), time.Now, log)
}

// NewServiceWithInterfaces creates a sweeper with injected dependencies
// (useful for testing).
func NewServiceWithInterfaces(
	repo LocationDeleter,
	interval, tickTimeout time.Duration,
	now func() time.Time,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		interval:    interval,
		tickTimeout: tickTimeout,
		now:         now,
		log:         log,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Service) Start() {
	go s.run()
	s.log.Info().
		Dur("interval", s.interval).
		Dur("tick_timeout", s.tickTimeout).
		Msg("Expiration sweeper started")
}

// Stop signals the loop to exit and waits for the current tick to finish.
func (s *Service) Stop() {
	close(s.stop)
	<-s.done
	s.log.Info().Msg("Expiration sweeper stopped")
}

func (s *Service) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
			if _, err := s.RunTick(ctx); err != nil {
				s.log.Error().Err(err).Msg("Expiration sweep tick failed")
			}
			cancel()
		}
	}
}

// RunTick performs one sweep: a single transactional batch delete of every
// location whose deadline has passed. Returns the number deleted. Zero is a
// normal outcome. Also callable directly for testing.
func (s *Service) RunTick(ctx context.Context) (int64, error) {
	start := time.Now()

	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		prommetrics.RecordSweeperTick("error", 0, time.Since(start))
		return 0, err
	}

	prommetrics.RecordSweeperTick("ok", deleted, time.Since(start))

	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("Expired locations removed")
	} else {
		s.log.Debug().Msg("Expiration sweep found nothing to delete")
	}

	return deleted, nil
}
