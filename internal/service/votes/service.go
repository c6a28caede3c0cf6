// Package votes implements the vote ledger: per-location vote bookkeeping,
// tally maintenance, and the one-way verification transition.
package votes

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	prommetrics "github.com/Apixa25/XHere-Web-sub000/internal/metrics"
	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/reputation"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// StatsInvalidator drops cached user statistics after a cast changes them.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

// Result is the vote ledger's answer to a cast: the updated tallies and the
// location's verification status.
type Result struct {
	Upvotes            int    `json:"upvotes"`
	Downvotes          int    `json:"downvotes"`
	VerificationStatus string `json:"verification_status"`
}

// Service handles vote casting and the verification transition.
type Service struct {
	db           *repository.DB
	locationRepo *repository.LocationRepository
	reputation   *reputation.Service
	cache        StatsInvalidator
	threshold    int
	locks        *locationLocks
	log          *logger.Logger
}

// NewService creates a new vote ledger service. cache may be nil when no
// stats cache is configured.
func NewService(
	db *repository.DB,
	locationRepo *repository.LocationRepository,
	reputationService *reputation.Service,
	cache StatsInvalidator,
	cfg config.EngineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		db:           db,
		locationRepo: locationRepo,
		reputation:   reputationService,
		cache:        cache,
		threshold:    cfg.VerificationThreshold,
		locks:        newLocationLocks(),
		log:          log,
	}
}

// CastVote records one vote per user per location. A repeated identical vote
// fails with models.ErrAlreadyVoted; an opposite vote flips. Crossing the
// net-vote threshold transitions the location to verified and pays the
// creator bonus in the same transaction, guarded by a compare-and-set on the
// status column so the bonus cannot double-fire.
func (s *Service) CastVote(ctx context.Context, locationID, userID uint, voteType models.VoteType) (*Result, error) {
	if !voteType.Valid() {
		return nil, models.ErrInvalidVoteType
	}

	start := time.Now()
	unlock := s.locks.Lock(locationID)
	defer unlock()

	loc, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		prommetrics.RecordVoteCast(string(voteType), "not_found")
		return nil, err
	}

	previous, voted := loc.Voters[userID]
	if voted && previous == voteType {
		prommetrics.RecordVoteCast(string(voteType), "already_voted")
		return nil, models.ErrAlreadyVoted
	}

	if loc.Voters == nil {
		loc.Voters = models.VoterMap{}
	}
	loc.Voters[userID] = voteType
	up, down := loc.Voters.CountVotes()

	wantVerify := up-down >= s.threshold && !loc.IsVerified()
	claimed := false

	err = s.db.DB.Transaction(func(tx *gorm.DB) error {
		txLocs := s.locationRepo.WithTx(tx)

		if err := txLocs.UpdateVoteState(loc); err != nil {
			return err
		}

		if wantVerify {
			won, err := txLocs.ClaimVerification(loc.ID)
			if err != nil {
				return err
			}
			// Only the CAS winner pays the bonus; a concurrent loser
			// still observes the verified status.
			loc.VerificationStatus = models.StatusVerified
			if won {
				claimed = true
				if err := s.reputation.OnVerified(tx, loc); err != nil {
					return err
				}
			}
		}

		return s.reputation.OnVoteCast(tx, userID)
	})
	if err != nil {
		prommetrics.RecordVoteCast(string(voteType), "error")
		return nil, fmt.Errorf("failed to cast vote on location %d: %w", locationID, err)
	}

	outcome := "new"
	if voted {
		outcome = "flip"
		prommetrics.RecordVoteFlip()
	}
	prommetrics.RecordVoteCast(string(voteType), outcome)
	if claimed {
		prommetrics.RecordVerification()
	}
	prommetrics.ObserveCastVote(time.Since(start))

	s.invalidateStats(ctx, userID, loc.CreatorID)

	s.log.Info().
		Uint("location_id", locationID).
		Uint("user_id", userID).
		Str("vote_type", string(voteType)).
		Str("outcome", outcome).
		Int("upvotes", up).
		Int("downvotes", down).
		Bool("verified_now", claimed).
		Msg("Vote cast")

	return &Result{
		Upvotes:            up,
		Downvotes:          down,
		VerificationStatus: loc.VerificationStatus,
	}, nil
}

// invalidateStats drops cached snapshots for the voter and the creator.
// Best effort; a stale cache entry only delays badge eligibility.
func (s *Service) invalidateStats(ctx context.Context, voterID, creatorID uint) {
	if s.cache == nil {
		return
	}
	for _, id := range []uint{voterID, creatorID} {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Debug().Err(err).Uint("user_id", id).Msg("Failed to invalidate stats cache")
		}
	}
}
