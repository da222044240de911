package social

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced to callers. Match with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrStore             = errors.New("store error")
)

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes every StoreError match ErrStore.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeError(err error, op string) error {
	return errors.WithStack(&StoreError{Op: op, Err: err})
}
