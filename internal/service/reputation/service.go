// Package reputation applies point and reputation deltas triggered by vote
// events and verification transitions.
package reputation

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	prommetrics "github.com/Apixa25/XHere-Web-sub000/internal/metrics"
	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// Service grants rewards. Both entry points run inside the vote ledger's
// transaction; idempotency comes from the caller (the participation reward
// fires once per accepted cast, the verification bonus once per CAS win).
type Service struct {
	userRepo     *repository.UserRepository
	locationRepo *repository.LocationRepository
	cfg          config.EngineConfig
	log          *logger.Logger
}

// NewService creates a new reputation service.
func NewService(
	userRepo *repository.UserRepository,
	locationRepo *repository.LocationRepository,
	cfg config.EngineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		locationRepo: locationRepo,
		cfg:          cfg,
		log:          log,
	}
}

// OnVoteCast grants the vote participation reward to the caster: points plus
// the votesGiven counter, as atomic increments in the caller's transaction.
func (s *Service) OnVoteCast(tx *gorm.DB, voterID uint) error {
	if err := s.userRepo.WithTx(tx).AddVoteReward(voterID, s.cfg.VoterRewardPoints); err != nil {
		return fmt.Errorf("failed to grant vote reward: %w", err)
	}
	prommetrics.RecordPointsAwarded("vote_cast", s.cfg.VoterRewardPoints)
	return nil
}

// OnVerified pays the creator's verification bonus and records it in the
// location's points ledger. Only the vote ledger's CAS-winning branch may
// call this; that ordering is what makes the bonus fire exactly once.
func (s *Service) OnVerified(tx *gorm.DB, loc *models.Location) error {
	if err := s.userRepo.WithTx(tx).AddPoints(loc.CreatorID, s.cfg.CreatorBonusPoints, s.cfg.CreatorBonusRep); err != nil {
		return fmt.Errorf("failed to grant verification bonus: %w", err)
	}

	loc.AppendPoints(s.cfg.CreatorBonusPoints, "verification_bonus", time.Now())
	if err := s.locationRepo.WithTx(tx).UpdatePointsLedger(loc); err != nil {
		return fmt.Errorf("failed to record verification bonus: %w", err)
	}

	prommetrics.RecordPointsAwarded("verification_bonus", s.cfg.CreatorBonusPoints)

	s.log.Info().
		Uint("location_id", loc.ID).
		Uint("creator_id", loc.CreatorID).
		Int("points", s.cfg.CreatorBonusPoints).
		Int("reputation", s.cfg.CreatorBonusRep).
		Msg("Verification bonus granted")

	return nil
}
