package normalize

import (
	"net/url"
	"testing"
)

func TestLabelEquals(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Mirror", true},
		{"  MIRROR\n", true},
		{"mirror", true},
		{"Mirrors", false},
		{"mir ror", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LabelEquals(tt.label, "mirror"); got != tt.want {
			t.Errorf("LabelEquals(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://www.zone-h.org")

	tests := []struct {
		href     string
		expected string
		wantErr  bool
	}{
		{"/mirror/id/4242", "https://www.zone-h.org/mirror/id/4242", false},
		{" /mirror/id/1 ", "https://www.zone-h.org/mirror/id/1", false},
		{"https://mirror.example/x", "https://mirror.example/x", false},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveURL(base, tt.href)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveURL(%q) error = %v, wantErr %v", tt.href, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.href, got, tt.expected)
		}
	}
}

func TestJoinBlocks(t *testing.T) {
	if got := JoinBlocks([]string{"Hacked by X", "Greetings"}); got != "Hacked by X\nGreetings" {
		t.Errorf("JoinBlocks = %q", got)
	}
	if got := JoinBlocks(nil); got != "" {
		t.Errorf("JoinBlocks(nil) = %q", got)
	}
}
