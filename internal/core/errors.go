package core

import (
	"errors"
	"fmt"

	"chemstate/pkg/domain"
)

// ErrSolutionRequired is wrapped by the FatalError returned when a step is exported
// without a solution.
var ErrSolutionRequired = errors.New("solution required")

// ErrNilEntity is returned by Put for a nil record.
var ErrNilEntity = errors.New("nil entity")

// ErrNotFound is returned when a collection has no record with the requested id.
type ErrNotFound struct {
	Kind domain.Kind
	ID   int
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ErrMissingReference is returned when a mix references a solution that does not
// exist.
type ErrMissingReference struct {
	MixID int
	ID    int
}

func (e ErrMissingReference) Error() string {
	return fmt.Sprintf("mix %d references missing solution %d", e.MixID, e.ID)
}

// FatalError marks a condition after which no calculation can proceed. The Service
// reports it and stops the process.
type FatalError struct {
	Op  string
	ID  int
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
