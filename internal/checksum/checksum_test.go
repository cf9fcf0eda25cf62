package checksum

import (
	"testing"
)

func TestGenerateContentHash(t *testing.T) {
	gen := NewGenerator()

	url := "https://www.zone-h.org/mirror/id/4242"
	content := "Hacked by X\nGreetings"

	hash1 := gen.GenerateContentHash(url, content)
	hash2 := gen.GenerateContentHash(url, content)

	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}

	if len(hash1) != 64 {
		t.Errorf("Hash wrong length: %d, expected 64", len(hash1))
	}

	if hash1 == gen.GenerateContentHash(url, "Hacked by Y") {
		t.Errorf("Hash should change when content changes")
	}
	if hash1 == gen.GenerateContentHash("https://www.zone-h.org/mirror/id/1", content) {
		t.Errorf("Hash should change when URL changes")
	}
}
