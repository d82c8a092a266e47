package expiry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
)

// Submitter enqueues transition requests onto the update channel.
type Submitter interface {
	Submit(accreditationID uuid.UUID, target accreditation.Status) error
}

// Scheduler owns one recurring expiry check per confirmed accreditation. A
// firing check never writes the store: its only side effect is submitting an
// EXPIRED request through the update channel, which keeps the timer path and
// the user path serialized on the same per-id lane.
type Scheduler struct {
	repo         accreditation.Repository
	submitter    Submitter
	pollInterval time.Duration
	metrics      *metrics.Metrics
	logger       zerolog.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates an expiry scheduler polling at the given interval.
func NewScheduler(repo accreditation.Repository, submitter Submitter, pollInterval time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		repo:         repo,
		submitter:    submitter,
		pollInterval: pollInterval,
		metrics:      m,
		logger:       logger.With().Str("service", "expiry").Logger(),
		timers:       make(map[uuid.UUID]chan struct{}),
	}
}

// Schedule arms a recurring expiry check for the accreditation. Arming an
// already-armed id is a no-op, so duplicate CONFIRMED applications cannot
// stack timers.
func (s *Scheduler) Schedule(accreditationID uuid.UUID, expireAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[accreditationID]; ok {
		return
	}
	stop := make(chan struct{})
	s.timers[accreditationID] = stop
	s.metrics.ExpiryTimersArmed.Inc()
	s.wg.Add(1)
	go s.run(accreditationID, expireAfter, stop)
	s.logger.Debug().
		Str("accreditation_id", accreditationID.String()).
		Dur("expire_after", expireAfter).
		Msg("expiry timer armed")
}

// Cancel disarms the timer for the accreditation. Cancelling a disarmed or
// unknown id is a no-op.
func (s *Scheduler) Cancel(accreditationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop, ok := s.timers[accreditationID]
	if !ok {
		return
	}
	delete(s.timers, accreditationID)
	s.metrics.ExpiryTimersArmed.Dec()
	close(stop)
}

// Rearm schedules timers for every confirmed accreditation, recovering armed
// state after a process restart.
func (s *Scheduler) Rearm(ctx context.Context, expireAfter time.Duration) error {
	recs, err := s.repo.ListByStatus(ctx, accreditation.StatusConfirmed)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		s.Schedule(rec.AccreditationID, expireAfter)
	}
	if len(recs) > 0 {
		s.logger.Info().Int("count", len(recs)).Msg("re-armed expiry timers for confirmed accreditations")
	}
	return nil
}

// Stop disarms every timer and waits for the check goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, stop := range s.timers {
		delete(s.timers, id)
		s.metrics.ExpiryTimersArmed.Dec()
		close(stop)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Armed reports whether a timer is currently armed for the accreditation.
func (s *Scheduler) Armed(accreditationID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[accreditationID]
	return ok
}

// run carries only plain data into the goroutine; collaborators are resolved
// from the scheduler itself on every tick.
func (s *Scheduler) run(accreditationID uuid.UUID, expireAfter time.Duration, stop chan struct{}) {
	defer s.wg.Done()
	defer s.release(accreditationID, stop)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if done := s.check(accreditationID, expireAfter); done {
				return
			}
		}
	}
}

// check runs one firing of the timer. It returns true when the timer should
// disarm: the record is gone, has left CONFIRMED, or the expiry was submitted.
func (s *Scheduler) check(accreditationID uuid.UUID, expireAfter time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec, err := s.repo.GetByID(ctx, accreditationID)
	if err != nil {
		// transient store failure, leave the timer armed for the next tick
		s.logger.Warn().Err(err).
			Str("accreditation_id", accreditationID.String()).
			Msg("expiry check could not load accreditation")
		return false
	}
	if rec == nil {
		return true
	}
	if rec.Status != accreditation.StatusConfirmed {
		// a user-triggered transition got there first
		return true
	}
	if time.Since(rec.LastUpdateTime) < expireAfter {
		return false
	}

	if err := s.submitter.Submit(accreditationID, accreditation.StatusExpired); err != nil {
		s.logger.Error().Err(err).
			Str("accreditation_id", accreditationID.String()).
			Msg("could not submit expiry transition")
		return false
	}
	s.metrics.Expirations.Inc()
	s.logger.Info().
		Str("accreditation_id", accreditationID.String()).
		Msg("expiry deadline reached, transition submitted")
	return true
}

// release removes the registry entry when a timer disarms itself. It leaves
// the entry alone if Cancel already replaced or removed it.
func (s *Scheduler) release(accreditationID uuid.UUID, stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.timers[accreditationID]; ok && cur == stop {
		delete(s.timers, accreditationID)
		s.metrics.ExpiryTimersArmed.Dec()
	}
}
