package ticket

import (
	"errors"
	"fmt"
)

var (
	ErrMissingID     = errors.New("ticket no is required")
	ErrDuplicateID   = errors.New("ticket no already exists")
	ErrRequiredField = errors.New("field is required")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidStatus = errors.New("unknown ticket status")
)

// DuplicateIDError is returned when a new ticket number is already taken in
// its collection.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("ticket no %q already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// ValidationError rejects a draft before anything is persisted. Reason is one
// of the Err* values of this package.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Field == "" || e.Field == "id" {
		return e.Reason.Error()
	}
	return e.Field + ": " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Message returns the text shown next to the ticket number field, or the
// error text for any other failure.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingID):
		return "Ticket No is required."
	case errors.Is(err, ErrDuplicateID):
		return "This Ticket No already exists."
	case err == nil:
		return ""
	}
	return err.Error()
}
