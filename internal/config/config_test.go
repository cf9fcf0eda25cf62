package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.GetListingURL(3); got != "https://www.zone-h.org/archive/published=0/page=3" {
		t.Errorf("GetListingURL(3) = %q", got)
	}
	if cfg.GetPageTimeout() != 60*time.Second {
		t.Errorf("GetPageTimeout = %v", cfg.GetPageTimeout())
	}
	if cfg.GetMirrorDelay() != time.Second || cfg.GetPageDelay() != 2*time.Second {
		t.Errorf("delays = %v/%v", cfg.GetMirrorDelay(), cfg.GetPageDelay())
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
browser:
  driver: http
  page_timeout_s: 15
archive:
  pages: 7
delays:
  mirror_ms: 0
output:
  path: out/defaces.txt
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Browser.Driver != DriverHTTP {
		t.Errorf("driver = %q", cfg.Browser.Driver)
	}
	if cfg.Archive.Pages != 7 {
		t.Errorf("pages = %d", cfg.Archive.Pages)
	}
	if cfg.Delays.MirrorMS != 0 || cfg.Delays.PageMS != 2000 {
		t.Errorf("delays = %+v", cfg.Delays)
	}
	if cfg.Browser.WaitTimeoutS != 60 {
		t.Errorf("wait timeout default lost: %d", cfg.Browser.WaitTimeoutS)
	}
	if cfg.Selectors.ContentSelector != ".defaces" {
		t.Errorf("selector default lost: %q", cfg.Selectors.ContentSelector)
	}
}

func TestLoadConfigWithSelectorsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "selectors.yaml", `
content_selector: "div.defacement"
challenge_marker: "#captcha"
`)
	path := writeFile(t, dir, "config.yaml", "selectors_file: selectors.yaml\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Selectors.ContentSelector != "div.defacement" || cfg.Selectors.ChallengeMarker != "#captcha" {
		t.Errorf("selectors not applied: %+v", cfg.Selectors)
	}
	if cfg.Selectors.RowSelector != "#ldeface tr:not(:first-child)" {
		t.Errorf("unset selector should keep default: %q", cfg.Selectors.RowSelector)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"driver", func(c *Config) { c.Browser.Driver = "selenium" }, "browser.driver"},
		{"pages", func(c *Config) { c.Archive.Pages = 0 }, "archive.pages"},
		{"listing url", func(c *Config) { c.Archive.ListingURL = "https://x/page" }, "listing_url"},
		{"base url", func(c *Config) { c.Archive.BaseURL = "/relative" }, "base_url"},
		{"negative delay", func(c *Config) { c.Delays.PageMS = -1 }, "delays.page_ms"},
		{"cookie file", func(c *Config) { c.Session.CookieFile = "" }, "cookie_file"},
		{"selector", func(c *Config) { c.Selectors.ContentSelector = "" }, "content_selector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.errSub)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("expected error for missing config file")
	}
}
