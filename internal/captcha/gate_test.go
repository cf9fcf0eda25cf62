package captcha

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"zoneh-archiver/internal/browser"
	"zoneh-archiver/internal/observability"
)

type stubPage struct {
	browser.Page
	doc *browser.Document
}

func newStubPage(t *testing.T, html string) *stubPage {
	t.Helper()
	doc, err := browser.ParseHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}
	return &stubPage{doc: doc}
}

func (p *stubPage) Has(selector string) (bool, error) { return p.doc.Has(selector), nil }
func (p *stubPage) URL() string                       { return "https://archive.test/" }

type countingPrompt struct{ calls int }

func (p *countingPrompt) Wait(context.Context) error {
	p.calls++
	return nil
}

type countingPersister struct {
	calls int
	err   error
}

func (p *countingPersister) Persist(browser.CookieStore) error {
	p.calls++
	return p.err
}

func TestCheckWithoutMarkerNeverPrompts(t *testing.T) {
	prompt := &countingPrompt{}
	persister := &countingPersister{}
	gate := NewGate("", prompt, persister, observability.NewNopLogger(), nil)

	solved, err := gate.Check(context.Background(), newStubPage(t, `<table id="ldeface"></table>`))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if solved {
		t.Errorf("solved = true on an unchallenged page")
	}
	if prompt.calls != 0 || persister.calls != 0 {
		t.Errorf("prompt=%d persist=%d, want 0/0", prompt.calls, persister.calls)
	}
}

func TestCheckWithMarkerPromptsThenPersists(t *testing.T) {
	prompt := &countingPrompt{}
	persister := &countingPersister{}
	metrics := observability.NewMetrics()
	gate := NewGate("#cryptogram", prompt, persister, observability.NewNopLogger(), metrics)

	solved, err := gate.Check(context.Background(), newStubPage(t, `<form><img id="cryptogram"></form>`))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !solved {
		t.Errorf("solved = false on a challenged page")
	}
	if prompt.calls != 1 || persister.calls != 1 {
		t.Errorf("prompt=%d persist=%d, want 1/1", prompt.calls, persister.calls)
	}
}

func TestCheckPropagatesPersistFailure(t *testing.T) {
	persister := &countingPersister{err: errors.New("disk full")}
	gate := NewGate("#cryptogram", &countingPrompt{}, persister, observability.NewNopLogger(), nil)

	_, err := gate.Check(context.Background(), newStubPage(t, `<div id="cryptogram"></div>`))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Check error = %v, want persist failure", err)
	}
}

func TestConsolePromptWaitsForLine(t *testing.T) {
	var out bytes.Buffer
	p := &ConsolePrompt{In: strings.NewReader("\n"), Out: &out}

	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !strings.Contains(out.String(), "press Enter") {
		t.Errorf("prompt not printed: %q", out.String())
	}
}

func TestConsolePromptClosedInputIsNotASolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no newline", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ConsolePrompt{In: strings.NewReader(tt.input), Out: &bytes.Buffer{}}
			if err := p.Wait(context.Background()); !errors.Is(err, io.EOF) {
				t.Errorf("Wait = %v, want io.EOF", err)
			}
		})
	}
}

func TestCheckClosedInputDoesNotPersist(t *testing.T) {
	persister := &countingPersister{}
	prompt := &ConsolePrompt{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	gate := NewGate("#cryptogram", prompt, persister, observability.NewNopLogger(), nil)

	solved, err := gate.Check(context.Background(), newStubPage(t, `<img id="cryptogram">`))
	if err == nil || solved {
		t.Errorf("Check = (%v, %v), want an error and no solve", solved, err)
	}
	if persister.calls != 0 {
		t.Errorf("session persisted without a solve")
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestConsolePromptHonoursContext(t *testing.T) {
	p := &ConsolePrompt{In: blockingReader{}, Out: &bytes.Buffer{}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}
}
