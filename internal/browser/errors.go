package browser

import (
	"context"
	"errors"
	"fmt"
)

// TimeoutError indicates a navigation or selector wait exceeded its bound.
type TimeoutError struct {
	Op     string // "navigate" or "wait"
	Target string // URL or selector
	Err    error
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: timeout: %v", e.Op, e.Target, e.Err)
}

func (e TimeoutError) Unwrap() error {
	return e.Err
}

// StatusError is returned by the HTTP driver for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// classify wraps deadline errors into TimeoutError and leaves the rest annotated.
func classify(op, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError{Op: op, Target: target, Err: err}
	}
	return fmt.Errorf("%s %s: %w", op, target, err)
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var te TimeoutError
	return errors.As(err, &te)
}
