package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
)

// ErrClosed is returned by Submit after the dispatcher has been closed.
var ErrClosed = errors.New("dispatcher closed")

// Handler applies a transition request. A false result means the request was
// discarded as a no-op; an error means delivery should be retried.
type Handler interface {
	Apply(ctx context.Context, accreditationID uuid.UUID, target accreditation.Status) (bool, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, accreditationID uuid.UUID, target accreditation.Status) (bool, error)

func (f HandlerFunc) Apply(ctx context.Context, accreditationID uuid.UUID, target accreditation.Status) (bool, error) {
	return f(ctx, accreditationID, target)
}

// Request is one transition request traveling through the channel.
type Request struct {
	AccreditationID uuid.UUID
	Target          accreditation.Status
}

// Dispatcher delivers transition requests to the handler with a sequential
// lane per accreditation id: requests for the same id run strictly in
// submission order, one at a time, while different ids proceed concurrently.
// The lane-per-key contract is what lets the handler run without row locks.
type Dispatcher struct {
	handler    Handler
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	maxRetries int
	backoff    time.Duration

	mu     sync.Mutex
	lanes  map[uuid.UUID]*lane
	closed bool
	wg     sync.WaitGroup
}

// lane is the pending queue for one accreditation id. Lanes are created
// lazily on first submit and removed once drained.
type lane struct {
	queue []Request
}

// NewDispatcher creates a dispatcher delivering to the given handler.
func NewDispatcher(handler Handler, maxRetries int, backoff time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Dispatcher{
		handler:    handler,
		logger:     logger.With().Str("service", "dispatch").Logger(),
		metrics:    m,
		maxRetries: maxRetries,
		backoff:    backoff,
		lanes:      make(map[uuid.UUID]*lane),
	}
}

// Submit enqueues a transition request onto the lane for its id. It returns
// once the request is queued; the apply happens asynchronously.
func (d *Dispatcher) Submit(accreditationID uuid.UUID, target accreditation.Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	req := Request{AccreditationID: accreditationID, Target: target}
	if l, ok := d.lanes[accreditationID]; ok {
		// a lane worker is live for this id; it will pick this up in order
		l.queue = append(l.queue, req)
		return nil
	}
	l := &lane{queue: []Request{req}}
	d.lanes[accreditationID] = l
	d.wg.Add(1)
	go d.runLane(accreditationID, l)
	return nil
}

// Close stops accepting new requests and waits for all lanes to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// runLane drains one id's queue sequentially, then tears the lane down. The
// next request for the id is not taken until the previous apply has fully
// completed, including retries.
func (d *Dispatcher) runLane(accreditationID uuid.UUID, l *lane) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(l.queue) == 0 {
			delete(d.lanes, accreditationID)
			d.mu.Unlock()
			return
		}
		req := l.queue[0]
		l.queue = l.queue[1:]
		d.mu.Unlock()

		d.deliver(req)
	}
}

// deliver invokes the handler with the dispatcher's retry policy. Exhaustion
// is logged loudly and counted; it is never silently dropped.
func (d *Dispatcher) deliver(req Request) {
	var err error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			d.metrics.DispatchRetries.Inc()
			time.Sleep(d.backoff)
		}
		_, err = d.handler.Apply(context.Background(), req.AccreditationID, req.Target)
		if err == nil {
			return
		}
		if errors.Is(err, accreditation.ErrNotFound) {
			// nothing to retry against
			d.logger.Error().
				Str("accreditation_id", req.AccreditationID.String()).
				Str("target", string(req.Target)).
				Msg("transition request for unknown accreditation discarded")
			return
		}
		d.logger.Warn().Err(err).
			Str("accreditation_id", req.AccreditationID.String()).
			Str("target", string(req.Target)).
			Int("attempt", attempt+1).
			Msg("transition apply failed")
	}
	d.metrics.DispatchExhausted.Inc()
	d.logger.Error().Err(err).
		Str("accreditation_id", req.AccreditationID.String()).
		Str("target", string(req.Target)).
		Int("attempts", d.maxRetries+1).
		Msg("transition request dropped after exhausting retries")
}
