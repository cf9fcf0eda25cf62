package textfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"zoneh-archiver/internal/storage"
)

// Writer appends records to a flat text file. The file is opened for each
// record and closed right after, so a crashed run keeps every completed append.
type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Append(ctx context.Context, record storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if _, err := f.WriteString(record.Format()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append record for %s: %w", record.URL, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
