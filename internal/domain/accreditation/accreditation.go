package accreditation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents accreditation status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusExpired   Status = "EXPIRED"
	StatusFailed    Status = "FAILED"
)

// Category represents how the accreditation claim is backed.
type Category string

const (
	CategoryByIncome   Category = "BY_INCOME"
	CategoryByNetWorth Category = "BY_NET_WORTH"
)

// Accreditation represents a user-submitted accreditation request.
type Accreditation struct {
	ID              int64     `json:"id"`
	AccreditationID uuid.UUID `json:"accreditationId"`
	UserID          string    `json:"userId"`
	Category        Category  `json:"category"`
	Status          Status    `json:"status"`
	DocumentID      uuid.UUID `json:"documentId"`
	LastUpdateTime  time.Time `json:"lastUpdateTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HistoryEntry records a superseded status for an accreditation. The new
// status is not stored: it is the next entry's old status, or the record's
// live status for the most recent entry.
type HistoryEntry struct {
	ID              int64     `json:"id"`
	HistoryID       uuid.UUID `json:"historyId"`
	AccreditationID uuid.UUID `json:"accreditationId"`
	OldStatus       Status    `json:"oldStatus"`
	LastUpdateTime  time.Time `json:"lastUpdateTime"`
}

// Document is the content blob backing an accreditation, created once at
// record creation and never mutated.
type Document struct {
	ID          int64     `json:"id"`
	DocumentID  uuid.UUID `json:"documentId"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Content     string    `json:"content"`
	Checksum    []byte    `json:"checksum"`
}

// ParseStatus converts an outcome string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusExpired, StatusFailed:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

// ParseCategory converts a category string to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryByIncome, CategoryByNetWorth:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// CanTransition reports whether a requested status change is legal. Anything
// outside the table, including current == requested, is a no-op: it must not
// be persisted and must not produce a history entry.
func CanTransition(current, requested Status) bool {
	switch {
	case current != StatusFailed && requested == StatusFailed:
		return true
	case current == StatusPending && requested == StatusConfirmed:
		return true
	case current == StatusConfirmed && requested == StatusExpired:
		return true
	}
	return false
}

// ValidateContentType checks the declared content-type tag of a document.
// Only the type/subtype shape is validated, not the content itself.
func ValidateContentType(ct string) error {
	parts := strings.SplitN(ct, "/", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, ct)
	}
	if strings.ContainsAny(ct, " \t") {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, ct)
	}
	return nil
}
