package accreditation

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for accreditations.
type Repository interface {
	// CreateWithDocument persists the document and the record as one unit.
	CreateWithDocument(ctx context.Context, acc *Accreditation, doc *Document) error
	GetByID(ctx context.Context, accreditationID uuid.UUID) (*Accreditation, error)
	ListByUser(ctx context.Context, userID string) ([]*Accreditation, error)
	ListByStatus(ctx context.Context, status Status) ([]*Accreditation, error)
	// ApplyStatusChange appends a history entry holding the superseded status
	// and moves the record to the new status with a fresh timestamp, in one
	// unit. The update is guarded by the expected current status: if the
	// record no longer matches, nothing is written and false is returned.
	ApplyStatusChange(ctx context.Context, accreditationID uuid.UUID, from, to Status, at time.Time) (bool, error)
	ListHistory(ctx context.Context, accreditationID uuid.UUID) ([]*HistoryEntry, error)
	GetDocument(ctx context.Context, documentID uuid.UUID) (*Document, error)
}
