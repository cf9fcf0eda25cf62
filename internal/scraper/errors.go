package scraper

import (
	"errors"
	"fmt"

	"zoneh-archiver/internal/browser"
)

// RowError indicates a single listing row could not be scanned for mirrors.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ExtractionError indicates the content query failed on a mirror page.
type ExtractionError struct {
	URL string
	Err error
}

func (e ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e ExtractionError) Unwrap() error {
	return e.Err
}

// ErrorKind labels err for logs and metrics.
func ErrorKind(err error) string {
	if err == nil {
		return "unknown"
	}
	if browser.IsTimeout(err) {
		return "timeout"
	}
	var status browser.StatusError
	if errors.As(err, &status) {
		return "status"
	}
	var extraction ExtractionError
	if errors.As(err, &extraction) {
		return "extraction"
	}
	var row RowError
	if errors.As(err, &row) {
		return "row"
	}
	return "other"
}
