package storage

import (
	"context"
	"fmt"
)

// Record is one extracted mirror page as it lands in the output file.
type Record struct {
	URL     string
	Content string
}

// Format renders the record in the output file layout.
func (r Record) Format() string {
	return fmt.Sprintf("=== URL: %s ===\n%s\n\n", r.URL, r.Content)
}

// Writer appends records. Nothing is ever read back.
type Writer interface {
	Append(ctx context.Context, record Record) error
}
