package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"zoneh-archiver/internal/scraper"
)

type Config struct {
	Browser       BrowserConfig       `yaml:"browser"`
	Archive       ArchiveConfig       `yaml:"archive"`
	Delays        DelaysConfig        `yaml:"delays"`
	Session       SessionConfig       `yaml:"session"`
	Output        OutputConfig        `yaml:"output"`
	Selectors     scraper.Selectors   `yaml:"selectors"`
	SelectorsFile string              `yaml:"selectors_file"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type BrowserConfig struct {
	Driver         string `yaml:"driver"` // rod | http
	ChromePath     string `yaml:"chrome_path"`
	Headless       bool   `yaml:"headless"`
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	PageTimeoutS   int    `yaml:"page_timeout_s"`
	WaitTimeoutS   int    `yaml:"wait_timeout_s"`
}

type ArchiveConfig struct {
	BaseURL    string `yaml:"base_url"`
	AuthURL    string `yaml:"auth_url"`
	ListingURL string `yaml:"listing_url"` // ровно один %d под номер страницы
	Pages      int    `yaml:"pages"`
}

type DelaysConfig struct {
	MirrorMS int `yaml:"mirror_ms"`
	PageMS   int `yaml:"page_ms"`
}

type SessionConfig struct {
	CookieFile string `yaml:"cookie_file"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

type ObservabilityConfig struct {
	LogPath     string `yaml:"log_path"`
	LogLevel    string `yaml:"log_level"`
	MetricsPath string `yaml:"metrics_path"`
}

const (
	DriverRod  = "rod"
	DriverHTTP = "http"
)

// Default задаёт значения для запуска без конфига: видимый браузер, две страницы,
// файлы в рабочей директории.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Driver:       DriverRod,
			Headless:     false,
			PageTimeoutS: 60,
			WaitTimeoutS: 60,
		},
		Archive: ArchiveConfig{
			BaseURL:    "https://www.zone-h.org",
			AuthURL:    "https://www.zone-h.org/archive/published=0",
			ListingURL: "https://www.zone-h.org/archive/published=0/page=%d",
			Pages:      2,
		},
		Delays: DelaysConfig{
			MirrorMS: 1000,
			PageMS:   2000,
		},
		Session: SessionConfig{
			CookieFile: "cookies.json",
		},
		Output: OutputConfig{
			Path: "defaces.txt",
		},
		Selectors: scraper.DefaultSelectors(),
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Валидация
func (c *Config) Validate() error {
	if c.Browser.Driver != DriverRod && c.Browser.Driver != DriverHTTP {
		return fmt.Errorf("browser.driver must be 'rod' or 'http'")
	}
	if c.Browser.PageTimeoutS <= 0 {
		return fmt.Errorf("browser.page_timeout_s must be > 0")
	}
	if c.Browser.WaitTimeoutS <= 0 {
		return fmt.Errorf("browser.wait_timeout_s must be > 0")
	}
	if _, err := c.GetBaseURL(); err != nil {
		return err
	}
	if c.Archive.AuthURL == "" {
		return fmt.Errorf("archive.auth_url is required")
	}
	if strings.Count(c.Archive.ListingURL, "%d") != 1 {
		return fmt.Errorf("archive.listing_url must contain exactly one %%d")
	}
	if c.Archive.Pages <= 0 {
		return fmt.Errorf("archive.pages must be > 0")
	}
	if c.Delays.MirrorMS < 0 {
		return fmt.Errorf("delays.mirror_ms must be >= 0")
	}
	if c.Delays.PageMS < 0 {
		return fmt.Errorf("delays.page_ms must be >= 0")
	}
	if c.Session.CookieFile == "" {
		return fmt.Errorf("session.cookie_file is required")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	if err := validateSelectors(&c.Selectors); err != nil {
		return err
	}
	return nil
}

// Геттеры
func (c *Config) GetPageTimeout() time.Duration {
	return time.Duration(c.Browser.PageTimeoutS) * time.Second
}

func (c *Config) GetWaitTimeout() time.Duration {
	return time.Duration(c.Browser.WaitTimeoutS) * time.Second
}

func (c *Config) GetMirrorDelay() time.Duration {
	return time.Duration(c.Delays.MirrorMS) * time.Millisecond
}

func (c *Config) GetPageDelay() time.Duration {
	return time.Duration(c.Delays.PageMS) * time.Millisecond
}

func (c *Config) GetBaseURL() (*url.URL, error) {
	u, err := url.Parse(c.Archive.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("archive.base_url is invalid: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("archive.base_url must be absolute")
	}
	return u, nil
}

func (c *Config) GetListingURL(page int) string {
	return fmt.Sprintf(c.Archive.ListingURL, page)
}
