package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zoneh-archiver/internal/browser"
	"zoneh-archiver/internal/captcha"
	"zoneh-archiver/internal/checksum"
	"zoneh-archiver/internal/config"
	"zoneh-archiver/internal/observability"
	"zoneh-archiver/internal/scraper"
	"zoneh-archiver/internal/session"
	"zoneh-archiver/internal/storage"
)

type Orchestrator struct {
	cfg      *config.Config
	logger   *observability.Logger
	metrics  *observability.Metrics
	page     browser.Page
	session  *session.Manager
	gate     *captcha.Gate
	scraper  *scraper.Scraper
	writer   storage.Writer
	checksum *checksum.Generator
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	metrics *observability.Metrics,
	page browser.Page,
	sm *session.Manager,
	gate *captcha.Gate,
	s *scraper.Scraper,
	w storage.Writer,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		page:     page,
		session:  sm,
		gate:     gate,
		scraper:  s,
		writer:   w,
		checksum: checksum.NewGenerator(),
	}
}

type RunStats struct {
	PagesProcessed int
	PagesAbandoned int
	MirrorsFound   int
	MirrorsSaved   int
	MirrorsEmpty   int
	MirrorsFailed  int
	CaptchaSolves  int
	InitialAuth    bool
	StoppedReason  string
}

// Run восстанавливает или создаёт сессию и обходит страницы архива 1..N по порядку.
// Ошибки страницы или зеркала логируются и пропускаются; прогон прерывают только
// ошибки файла сессии, прерванный ввод оператора и отмена контекста.
func (o *Orchestrator) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	defer func() {
		o.metrics.SetDuration(time.Since(start).Seconds())
	}()

	stats := &RunStats{}
	pages := o.cfg.Archive.Pages

	// Сессия: cookies из файла или первичная авторизация
	if err := o.startSession(ctx, stats); err != nil {
		stats.StoppedReason = fmt.Sprintf("session setup failed: %v", err)
		return stats, err
	}

	o.logger.Info("Starting crawl",
		"pages", pages,
		"listing_url", o.cfg.Archive.ListingURL,
		"output", o.cfg.Output.Path,
	)

	for pageNum := 1; pageNum <= pages; pageNum++ {
		if err := ctx.Err(); err != nil {
			stats.StoppedReason = fmt.Sprintf("cancelled before page %d", pageNum)
			return stats, err
		}

		// Обрабатываем страницу листинга
		processed, err := o.processPage(ctx, pageNum, stats)
		if err != nil {
			stats.StoppedReason = fmt.Sprintf("fatal error at page %d: %v", pageNum, err)
			return stats, err
		}
		if !processed {
			stats.PagesAbandoned++
			o.metrics.IncPage("abandoned")
			continue
		}

		stats.PagesProcessed++
		o.metrics.IncPage("processed")

		// Пауза между страницами
		if err := sleepCtx(ctx, o.cfg.GetPageDelay()); err != nil {
			stats.StoppedReason = fmt.Sprintf("cancelled after page %d", pageNum)
			return stats, err
		}
	}

	stats.StoppedReason = fmt.Sprintf("reached page limit %d", pages)
	o.logger.Info("Crawl completed",
		"pages_processed", stats.PagesProcessed,
		"pages_abandoned", stats.PagesAbandoned,
		"mirrors_found", stats.MirrorsFound,
		"mirrors_saved", stats.MirrorsSaved,
		"mirrors_empty", stats.MirrorsEmpty,
		"mirrors_failed", stats.MirrorsFailed,
		"captcha_solves", stats.CaptchaSolves,
		"duration", time.Since(start).String(),
	)

	return stats, nil
}

// startSession ставит сохранённые cookies, а если файла нет, проходит авторизацию
// через главную страницу архива и сохраняет сессию.
func (o *Orchestrator) startSession(ctx context.Context, stats *RunStats) error {
	cookies, err := o.session.Restore(o.page)
	switch {
	case err == nil:
		o.logger.Info("Session restored", "cookies", len(cookies), "path", o.session.Path())
		return nil
	case errors.Is(err, session.ErrNotFound):
		o.logger.Info("No saved session, starting initial authentication", "path", o.session.Path())
	default:
		o.metrics.IncError("session")
		return fmt.Errorf("failed to restore session: %w", err)
	}

	// Файла нет: первичная авторизация
	stats.InitialAuth = true
	authURL := o.cfg.Archive.AuthURL

	if err := o.page.Navigate(ctx, authURL, o.cfg.GetPageTimeout()); err != nil {
		o.metrics.IncError(scraper.ErrorKind(err))
		o.logger.Warn("Initial authentication page failed to load", "url", authURL, "error", err.Error())
	}

	solved, err := o.gate.Check(ctx, o.page)
	if err != nil {
		o.metrics.IncError("session")
		return err
	}
	if solved {
		// Gate уже сохранил сессию
		stats.CaptchaSolves++
		return nil
	}

	if err := o.session.Persist(o.page); err != nil {
		o.metrics.IncError("session")
		return fmt.Errorf("failed to persist session: %w", err)
	}
	o.logger.Info("Session saved", "path", o.session.Path())
	return nil
}

// processPage возвращает false, если листинг прочитать не удалось (страница брошена).
func (o *Orchestrator) processPage(ctx context.Context, pageNum int, stats *RunStats) (bool, error) {
	listingURL := o.cfg.GetListingURL(pageNum)
	o.logger.Info("Processing page", "page", pageNum, "url", listingURL)

	if err := o.open(ctx, listingURL, o.cfg.Selectors.ListContainer, stats); err != nil {
		if isFatal(err) {
			return false, err
		}
		o.metrics.IncError(scraper.ErrorKind(err))
		o.logger.Error("Listing page abandoned",
			"page", pageNum,
			"url", listingURL,
			"error", err.Error(),
		)
		return false, nil
	}

	// Сначала собираем все ссылки на зеркала, потом обходим их
	refs, err := o.scraper.CollectMirrors(o.page)
	if err != nil {
		o.metrics.IncError(scraper.ErrorKind(err))
		o.logger.Error("Failed to collect mirrors",
			"page", pageNum,
			"url", listingURL,
			"error", err.Error(),
		)
		return false, nil
	}

	stats.MirrorsFound += len(refs)
	o.logger.Info("Mirrors collected", "page", pageNum, "mirrors", len(refs))

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		o.logger.Info("Processing mirror",
			"page", pageNum,
			"mirror", fmt.Sprintf("%d/%d", i+1, len(refs)),
			"row", ref.Row,
			"url", ref.URL,
		)

		if err := o.processMirror(ctx, pageNum, ref, stats); err != nil {
			return false, err
		}
	}

	return true, nil
}

// processMirror возвращает только фатальные ошибки.
func (o *Orchestrator) processMirror(ctx context.Context, pageNum int, ref scraper.MirrorRef, stats *RunStats) error {
	if err := o.open(ctx, ref.URL, "", stats); err != nil {
		if isFatal(err) {
			return err
		}
		stats.MirrorsFailed++
		o.metrics.IncMirror("failed")
		o.metrics.IncError(scraper.ErrorKind(err))
		o.logger.Error("Error processing mirror URL",
			"page", pageNum,
			"row", ref.Row,
			"url", ref.URL,
			"error", err.Error(),
		)
		return nil
	}

	// Извлекаем содержимое .defaces
	content, err := o.scraper.ExtractContent(o.page)
	if err != nil {
		o.metrics.IncError(scraper.ErrorKind(err))
		o.logger.Error("Error extracting content",
			"page", pageNum,
			"row", ref.Row,
			"url", ref.URL,
			"error", err.Error(),
		)
		content = ""
	}

	if content == "" {
		stats.MirrorsEmpty++
		o.metrics.IncMirror("empty")
		o.logger.Info("No defaces content found", "page", pageNum, "row", ref.Row, "url", ref.URL)
	} else {
		record := storage.Record{URL: ref.URL, Content: content}
		if err := o.writer.Append(ctx, record); err != nil {
			stats.MirrorsFailed++
			o.metrics.IncMirror("failed")
			o.metrics.IncError("write")
			o.logger.Error("Failed to save content",
				"page", pageNum,
				"row", ref.Row,
				"url", ref.URL,
				"error", err.Error(),
			)
			return nil
		}

		stats.MirrorsSaved++
		o.metrics.IncMirror("saved")
		o.metrics.IncRecords()
		o.logger.Info("Content saved",
			"page", pageNum,
			"row", ref.Row,
			"url", ref.URL,
			"bytes", len(content),
			"content_hash", o.checksum.GenerateContentHash(ref.URL, content),
		)
	}

	return sleepCtx(ctx, o.cfg.GetMirrorDelay())
}

// open загружает target, ждёт selector (если задан) и прогоняет CAPTCHA gate.
// После решения загрузка повторяется ровно один раз. Ошибка загрузки без маркера
// CAPTCHA возвращается как есть; ошибки gate приходят как FatalError.
func (o *Orchestrator) open(ctx context.Context, target, selector string, stats *RunStats) error {
	loadErr := o.load(ctx, target, selector)
	if loadErr != nil && !o.gate.IsChallenged(o.page) {
		return loadErr
	}

	// Страница могла не загрузиться из-за CAPTCHA
	solved, err := o.gate.Check(ctx, o.page)
	if err != nil {
		o.metrics.IncError("session")
		return FatalError{Op: "captcha", Err: err}
	}
	if !solved {
		return loadErr
	}

	// Повторяем загрузку один раз
	stats.CaptchaSolves++
	o.logger.Info("Reloading after CAPTCHA", "url", target)
	return o.load(ctx, target, selector)
}

func (o *Orchestrator) load(ctx context.Context, target, selector string) error {
	if err := o.page.Navigate(ctx, target, o.cfg.GetPageTimeout()); err != nil {
		return err
	}
	if selector == "" {
		return nil
	}
	return o.page.WaitFor(ctx, selector, o.cfg.GetWaitTimeout())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
