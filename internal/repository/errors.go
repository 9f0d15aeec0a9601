package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates an update or delete matched no task.
	ErrNotFound = errors.New("task not found")

	// ErrStoreUnavailable indicates the store could not be reached.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// StoreError is a rejection reported by the store itself: an error payload
// from the REST API or a server error from Postgres.
type StoreError struct {
	Op      string
	Status  int // HTTP status, 0 for database backends
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *StoreError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: store rejected request", e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Details != "" {
		b.WriteString(" (" + e.Details + ")")
	}
	return b.String()
}

// IsStoreError reports whether err carries a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
