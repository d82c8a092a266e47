package accreditation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	domain "github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
)

// Dispatcher enqueues transition requests onto the update channel.
type Dispatcher interface {
	Submit(accreditationID uuid.UUID, target domain.Status) error
}

// DocumentInput carries the document submitted with a new accreditation.
type DocumentInput struct {
	Name        string
	ContentType string
	Content     string
}

// HistoryItem is one row of an accreditation's status timeline.
type HistoryItem struct {
	Status         domain.Status
	Category       domain.Category
	LastUpdateTime time.Time
}

// Service is the synchronous entry point for accreditation requests. Creation
// writes the store directly; transitions are handed to the update channel and
// applied asynchronously.
type Service struct {
	repo       domain.Repository
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewService creates an accreditation service.
func NewService(repo domain.Repository, dispatcher Dispatcher, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger.With().Str("service", "accreditation").Logger(),
	}
}

// Create validates and persists a new accreditation in PENDING status together
// with its backing document, as one unit. An owner with a pending
// accreditation cannot open another one. The check is safe to do here because
// creation is synchronous; only updates travel through the queue, so no
// creation can be hiding in it.
func (s *Service) Create(ctx context.Context, userID, category string, doc DocumentInput) (uuid.UUID, error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return uuid.Nil, err
	}
	if err := domain.ValidateContentType(doc.ContentType); err != nil {
		return uuid.Nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list accreditations: %w", err)
	}
	for _, rec := range existing {
		if rec.Status == domain.StatusPending {
			s.logger.Error().
				Str("user_id", userID).
				Str("pending_id", rec.AccreditationID.String()).
				Msg("found pending accreditation, creation rejected")
			return uuid.Nil, &domain.PendingExistsError{ExistingID: rec.AccreditationID}
		}
	}

	checksum := blake2b.Sum256([]byte(doc.Content))
	now := time.Now().UTC()
	document := &domain.Document{
		DocumentID:  uuid.New(),
		Name:        doc.Name,
		ContentType: doc.ContentType,
		Content:     doc.Content,
		Checksum:    checksum[:],
	}
	rec := &domain.Accreditation{
		AccreditationID: uuid.New(),
		UserID:          userID,
		Category:        cat,
		Status:          domain.StatusPending,
		DocumentID:      document.DocumentID,
		LastUpdateTime:  now,
		CreatedAt:       now,
	}
	if err := s.repo.CreateWithDocument(ctx, rec, document); err != nil {
		return uuid.Nil, fmt.Errorf("create accreditation: %w", err)
	}

	s.metrics.AccreditationsCreated.Inc()
	s.logger.Debug().
		Str("accreditation_id", rec.AccreditationID.String()).
		Str("user_id", userID).
		Msg("saved new accreditation")
	return rec.AccreditationID, nil
}

// RequestTransition validates the request and submits it to the update
// channel. It returns once the request is queued; the caller does not wait
// for the apply. FAILED is rejected here because it is terminal: no legal
// transition can race it back out, so the synchronous check cannot go stale.
// Any other illegality is decided on the lane, where two callers racing to
// confirm the same pending accreditation are serialized.
func (s *Service) RequestTransition(ctx context.Context, rawID, outcome string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, rawID)
	}
	target, err := domain.ParseStatus(outcome)
	if err != nil {
		return err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load accreditation: %w", err)
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if rec.Status == domain.StatusFailed {
		s.logger.Error().
			Str("accreditation_id", id.String()).
			Msg("accreditation already failed, cannot change state further")
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, rec.Status, target)
	}

	if err := s.dispatcher.Submit(id, target); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	s.logger.Debug().
		Str("accreditation_id", id.String()).
		Str("target", string(target)).
		Msg("accreditation state change request queued")
	return nil
}

// GetUserAccreditations lists all accreditations for an owner. A record whose
// update is still queued shows its pre-transition status; reads do not wait
// on the lane.
func (s *Service) GetUserAccreditations(ctx context.Context, userID string) ([]*domain.Accreditation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetHistory returns the superseded statuses of an accreditation in
// transition order. The live status is the present, not the past, so it is
// not part of the returned list.
func (s *Service) GetHistory(ctx context.Context, rawID string) ([]HistoryItem, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, rawID)
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load accreditation: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			Status:         e.OldStatus,
			Category:       rec.Category,
			LastUpdateTime: e.LastUpdateTime,
		})
	}
	return items, nil
}

// GetDocument returns the document backing an accreditation.
func (s *Service) GetDocument(ctx context.Context, rawID string) (*domain.Document, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, rawID)
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load accreditation: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	doc, err := s.repo.GetDocument(ctx, rec.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
