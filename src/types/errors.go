package types

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound                 = errors.New("record not found")
	ErrInvalidState             = errors.New("operation not allowed in the current state")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrCancellationWindowClosed = errors.New("registrations can only be cancelled more than 24 hours before the event")
	ErrStorageConflict          = errors.New("conflicting concurrent update")
)

// InsufficientInventoryError reports how many tickets the pool still holds.
type InsufficientInventoryError struct {
	TicketType TicketType
	Remaining  int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("Not enough %s tickets available. Only %d remaining", e.TicketType, e.Remaining)
}

// AlreadyCheckedInError carries the timestamp of the original check-in.
type AlreadyCheckedInError struct {
	At time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("Ticket already checked in at %s", e.At.Format(time.RFC3339))
}
