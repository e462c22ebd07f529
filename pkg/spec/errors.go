package spec

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested spec does not exist.
var ErrNotFound = errors.New("spec not found")

// NotFoundError wraps ErrNotFound with the missing id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("spec not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
