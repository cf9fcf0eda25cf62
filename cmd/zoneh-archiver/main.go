package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zoneh-archiver/internal/app"
	"zoneh-archiver/internal/browser"
	"zoneh-archiver/internal/captcha"
	"zoneh-archiver/internal/config"
	"zoneh-archiver/internal/observability"
	"zoneh-archiver/internal/scraper"
	"zoneh-archiver/internal/session"
	"zoneh-archiver/internal/storage/textfile"
)

const defaultConfigPath = "configs/config.yaml"

var (
	configPath string
	pages      int
	driver     string
	headless   bool
	cookieFile string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:          "zoneh-archiver",
	Short:        "Archive defacement mirrors from the zone-h.org published=0 listing",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (default is "+defaultConfigPath+" when present)")
	rootCmd.Flags().IntVar(&pages, "pages", 0, "number of listing pages to crawl")
	rootCmd.Flags().StringVar(&driver, "driver", "", "browser driver: rod or http")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run the rod browser without a window")
	rootCmd.Flags().StringVar(&cookieFile, "cookies", "", "session cookie file")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "append-only output file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("pages") {
		cfg.Archive.Pages = pages
	}
	if flags.Changed("driver") {
		cfg.Browser.Driver = driver
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if flags.Changed("cookies") {
		cfg.Session.CookieFile = cookieFile
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	logger, err := observability.NewLogger(cfg.Observability.LogPath, cfg.Observability.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	metrics := observability.NewMetrics()
	defer func() {
		if err := metrics.WriteTextfile(cfg.Observability.MetricsPath); err != nil {
			logger.Warn("Failed to write metrics", "path", cfg.Observability.MetricsPath, "error", err.Error())
		}
	}()

	baseURL, err := cfg.GetBaseURL()
	if err != nil {
		return err
	}

	page, err := openPage(cfg)
	if err != nil {
		logger.Error("Failed to start browser", "driver", cfg.Browser.Driver, "error", err.Error())
		return err
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err.Error())
		}
	}()

	ctx, cancel := app.GracefulShutdown(logger)
	defer cancel()

	sessions := session.NewManager(cfg.Session.CookieFile)
	gate := captcha.NewGate(cfg.Selectors.ChallengeMarker, captcha.NewConsolePrompt(), sessions, logger, metrics)
	s := scraper.NewScraper(cfg.Selectors, baseURL, logger)
	writer := textfile.NewWriter(cfg.Output.Path)

	orch := app.NewOrchestrator(cfg, logger, metrics, page, sessions, gate, s, writer)

	logger.Info("Starting zoneh-archiver",
		"driver", cfg.Browser.Driver,
		"pages", cfg.Archive.Pages,
		"cookies", cfg.Session.CookieFile,
		"output", cfg.Output.Path,
	)

	stats, err := orch.Run(ctx)
	if err != nil {
		logger.Error("Run stopped", "reason", stats.StoppedReason, "error", err.Error())
		return err
	}

	logger.Info("Run finished",
		"reason", stats.StoppedReason,
		"records", stats.MirrorsSaved,
	)
	return nil
}

func openPage(cfg *config.Config) (browser.Page, error) {
	if cfg.Browser.Driver == config.DriverHTTP {
		page, err := browser.NewHTTPPage(browser.HTTPOptions{
			UserAgent:      cfg.Browser.UserAgent,
			AcceptLanguage: cfg.Browser.AcceptLanguage,
		})
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	page, err := browser.LaunchRod(browser.RodOptions{
		ChromePath: cfg.Browser.ChromePath,
		Headless:   cfg.Browser.Headless,
		UserAgent:  cfg.Browser.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
