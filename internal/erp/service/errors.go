package service

import (
	"errors"
	"fmt"
)

// PersistenceError wraps a storage failure. Its message is the storage
// layer's own message; the operation is never retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// MixDesignWarning 配合比合计不为 100%
type MixDesignWarning struct {
	Total string
}

func (w *MixDesignWarning) Error() string {
	return fmt.Sprintf("mix design total is %s%%, expected 100%%", w.Total)
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidUnit        = errors.New("unknown unit of measure")
	ErrNotMixComponent    = errors.New("material is not a mix design component")

	ErrDefaultUsersInRelease = errors.New("auth.users is empty: built-in accounts are not allowed in release mode")
)
