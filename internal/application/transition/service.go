package transition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
)

// Scheduler arms and disarms expiry timers.
type Scheduler interface {
	Schedule(accreditationID uuid.UUID, expireAfter time.Duration)
	Cancel(accreditationID uuid.UUID)
}

// Service is the single logical writer for accreditation status. It is safe
// to call concurrently for different ids; for a given id the dispatcher lane
// guarantees one Apply runs at a time.
type Service struct {
	repo    accreditation.Repository
	sched   Scheduler
	expiry  time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewService creates a transition applier.
func NewService(repo accreditation.Repository, sched Scheduler, expiry time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		sched:   sched,
		expiry:  expiry,
		metrics: m,
		logger:  logger.With().Str("service", "transition").Logger(),
	}
}

// Apply moves an accreditation to the requested status if the change is
// legal, appending a history entry holding the superseded status in the same
// unit. Illegal and loopback requests are discarded without any write and
// reported as false. A redelivered request naturally lands here as a no-op
// once the record no longer matches its pre-condition.
func (s *Service) Apply(ctx context.Context, accreditationID uuid.UUID, target accreditation.Status) (bool, error) {
	rec, err := s.repo.GetByID(ctx, accreditationID)
	if err != nil {
		return false, fmt.Errorf("load accreditation: %w", err)
	}
	if rec == nil {
		s.logger.Error().
			Str("accreditation_id", accreditationID.String()).
			Msg("no state change possible for unknown accreditation")
		return false, accreditation.ErrNotFound
	}

	if !accreditation.CanTransition(rec.Status, target) {
		s.metrics.TransitionsNoop.Inc()
		s.logger.Warn().
			Str("accreditation_id", accreditationID.String()).
			Str("current", string(rec.Status)).
			Str("target", string(target)).
			Msg("no state change possible, request discarded")
		return false, nil
	}

	now := time.Now().UTC()
	applied, err := s.repo.ApplyStatusChange(ctx, accreditationID, rec.Status, target, now)
	if err != nil {
		return false, fmt.Errorf("apply status change: %w", err)
	}
	if !applied {
		// the record moved between the read and the guarded update
		s.metrics.TransitionsNoop.Inc()
		s.logger.Warn().
			Str("accreditation_id", accreditationID.String()).
			Str("target", string(target)).
			Msg("status changed underneath request, discarded")
		return false, nil
	}

	s.metrics.TransitionsApplied.WithLabelValues(string(target)).Inc()
	s.logger.Info().
		Str("accreditation_id", accreditationID.String()).
		Str("from", string(rec.Status)).
		Str("to", string(target)).
		Msg("accreditation state changed")

	if rec.Status == accreditation.StatusPending && target == accreditation.StatusConfirmed {
		s.sched.Schedule(accreditationID, s.expiry)
	}
	if rec.Status == accreditation.StatusConfirmed && target == accreditation.StatusExpired {
		// the timer also self-disarms on its next tick, this just frees it early
		s.sched.Cancel(accreditationID)
	}
	return true, nil
}
