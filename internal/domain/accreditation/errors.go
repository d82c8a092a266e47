package accreditation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no accreditation exists for an id.
	ErrNotFound = errors.New("accreditation not found")
	// ErrInvalidID is returned when an id does not parse as a UUID.
	ErrInvalidID = errors.New("invalid accreditation id")
	// ErrInvalidCategory is returned for an unknown accreditation category.
	ErrInvalidCategory = errors.New("invalid accreditation category")
	// ErrInvalidOutcome is returned for an unknown target status.
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrInvalidContentType is returned when a document's content-type tag is malformed.
	ErrInvalidContentType = errors.New("invalid document content type")
	// ErrIllegalTransition is returned when a transition is rejected synchronously.
	ErrIllegalTransition = errors.New("illegal state transition")
	// ErrDispatchFailed is returned when a transition request could not be enqueued.
	ErrDispatchFailed = errors.New("transition dispatch failed")
)

// PendingExistsError rejects creation while the owner already has a pending
// accreditation. The existing id is carried so callers can surface it.
type PendingExistsError struct {
	ExistingID uuid.UUID
}

func (e *PendingExistsError) Error() string {
	return fmt.Sprintf("pending accreditation already exists: %s", e.ExistingID)
}
