package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"zoneh-archiver/internal/browser"
)

// ErrNotFound is returned by Restore when no cookie file exists yet.
var ErrNotFound = errors.New("session cookie file not found")

// Manager keeps the authenticated browsing state in a flat JSON file.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) Path() string {
	return m.path
}

// Persist overwrites the cookie file with the page's current cookies.
func (m *Manager) Persist(page browser.CookieStore) error {
	cookies, err := page.Cookies()
	if err != nil {
		return fmt.Errorf("failed to export cookies: %w", err)
	}
	return m.Save(cookies)
}

// Save writes cookies verbatim.
func (m *Manager) Save(cookies []browser.Cookie) error {
	if cookies == nil {
		cookies = []browser.Cookie{}
	}

	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// Load reads the cookie file without installing it anywhere.
func (m *Manager) Load() ([]browser.Cookie, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, m.path)
		}
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file %s: %w", m.path, err)
	}
	return cookies, nil
}

// Restore loads the cookie file and installs it into page. A missing file is
// reported as ErrNotFound and the caller must authenticate interactively.
func (m *Manager) Restore(page browser.CookieStore) ([]browser.Cookie, error) {
	cookies, err := m.Load()
	if err != nil {
		return nil, err
	}

	if err := page.SetCookies(cookies); err != nil {
		return nil, fmt.Errorf("failed to install cookies: %w", err)
	}
	return cookies, nil
}
