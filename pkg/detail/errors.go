package detail

import (
	"errors"
	"fmt"

	"github.com/younsl/pricenexus/pkg/backend"
)

var (
	// ErrNotFound matches lookups where the requested VM is absent
	ErrNotFound = errors.New("vm not found")

	// ErrEmpty matches queries that succeeded but returned no rows
	ErrEmpty = errors.New("empty result")
)

// NotFoundError reports a VM missing from a lookup response
type NotFoundError struct {
	Region string
	Size   string

	// NoRows is set when the backend returned nothing at all
	NoRows bool
}

func (e *NotFoundError) Error() string {
	if e.NoRows {
		return fmt.Sprintf("No data found for %s in %s", e.Size, e.Region)
	}
	return fmt.Sprintf("VM %s not found in region %s", e.Size, e.Region)
}

// Is makes NotFoundError match ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// EmptyResultError reports a variants query without rows
type EmptyResultError struct {
	Message string
}

func (e *EmptyResultError) Error() string { return e.Message }

// Is makes EmptyResultError match ErrEmpty
func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmpty
}

// LoadError wraps a failed backend call with the action that failed
type LoadError struct {
	Action string
	Err    error
}

func (e *LoadError) Error() string {
	return e.Action + ": " + backend.ErrorMessage(e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
