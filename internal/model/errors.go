package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidQuery is returned when a search is missing its keywords.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrJobNotFound is returned by lookups for unknown or expired job ids.
	ErrJobNotFound = errors.New("job not found")

	// ErrSourceTimeout marks an adapter that did not answer within its budget.
	ErrSourceTimeout = errors.New("source timed out")
)

// HTTPError wraps a non-2xx upstream status.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
