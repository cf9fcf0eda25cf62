package captcha

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"zoneh-archiver/internal/browser"
	"zoneh-archiver/internal/observability"
)

const DefaultMarker = "#cryptogram"

// Prompter blocks until a human signals the challenge has been solved.
type Prompter interface {
	Wait(ctx context.Context) error
}

// Persister saves the session right after a solve.
type Persister interface {
	Persist(page browser.CookieStore) error
}

// Gate stands in front of every content read.
type Gate struct {
	marker    string
	prompter  Prompter
	persister Persister
	logger    *observability.Logger
	metrics   *observability.Metrics
}

func NewGate(marker string, prompter Prompter, persister Persister, logger *observability.Logger, metrics *observability.Metrics) *Gate {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Gate{
		marker:    marker,
		prompter:  prompter,
		persister: persister,
		logger:    logger,
		metrics:   metrics,
	}
}

// IsChallenged reports whether the challenge marker is on the current page.
// A failed query counts as no challenge.
func (g *Gate) IsChallenged(page browser.Page) bool {
	has, err := page.Has(g.marker)
	if err != nil {
		g.logger.Warn("Challenge check failed", "url", page.URL(), "marker", g.marker, "error", err.Error())
		return false
	}
	return has
}

// AwaitManualSolve blocks without a timeout until the operator confirms, then
// persists the session. Persist failures are returned to the caller.
func (g *Gate) AwaitManualSolve(ctx context.Context, page browser.Page) error {
	g.metrics.IncCaptcha()

	if err := g.prompter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for CAPTCHA solve: %w", err)
	}

	if err := g.persister.Persist(page); err != nil {
		return fmt.Errorf("persisting session after CAPTCHA: %w", err)
	}

	g.logger.Info("Session saved after CAPTCHA", "url", page.URL())
	return nil
}

// Check runs the challenge test and, when challenged, the manual solve.
// solved tells the caller to repeat its navigation once.
func (g *Gate) Check(ctx context.Context, page browser.Page) (solved bool, err error) {
	if !g.IsChallenged(page) {
		return false, nil
	}

	g.logger.Warn("CAPTCHA detected, manual solve required", "url", page.URL())
	if err := g.AwaitManualSolve(ctx, page); err != nil {
		return false, err
	}
	return true, nil
}

// ConsolePrompt asks on Out and waits for a line on In.
type ConsolePrompt struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func NewConsolePrompt() *ConsolePrompt {
	return &ConsolePrompt{In: os.Stdin, Out: color.Output}
}

func (p *ConsolePrompt) Wait(ctx context.Context) error {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	_, _ = color.New(color.FgYellow, color.Bold).Fprint(p.Out, "Please solve the CAPTCHA and press Enter to continue...")

	done := make(chan error, 1)
	go func() {
		_, err := p.reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("operator input closed before confirmation: %w", err)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
