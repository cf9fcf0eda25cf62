package textfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"zoneh-archiver/internal/storage"
)

func TestAppendFormatsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "defaces.txt")
	w := NewWriter(path)
	ctx := context.Background()

	if err := w.Append(ctx, storage.Record{URL: "https://www.zone-h.org/mirror/id/1", Content: "Hacked by X\nGreetings"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append(ctx, storage.Record{URL: "https://www.zone-h.org/mirror/id/2", Content: "owned"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "=== URL: https://www.zone-h.org/mirror/id/1 ===\nHacked by X\nGreetings\n\n" +
		"=== URL: https://www.zone-h.org/mirror/id/2 ===\nowned\n\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestAppendKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaces.txt")
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewWriter(path).Append(context.Background(), storage.Record{URL: "u", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous run\n=== URL: u ===\nc\n\n" {
		t.Errorf("file content = %q", data)
	}
}
