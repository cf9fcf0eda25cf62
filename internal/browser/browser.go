package browser

import (
	"context"
	"time"
)

// Page is the single browsing context the crawler drives. Implementations are
// not safe for concurrent use.
type Page interface {
	// Navigate loads url and blocks until the document is loaded or timeout elapses.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitFor blocks until selector matches at least one element or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Has reports whether selector matches in the current document without waiting.
	Has(selector string) (bool, error)
	QueryAll(selector string) ([]Element, error)
	URL() string

	CookieStore

	Close() error
}

// CookieStore exports and imports the cookies of a browsing context.
type CookieStore interface {
	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error
}

// Element is a handle to a node of the current document.
type Element interface {
	// Text returns the node's textContent.
	Text() (string, error)
	// Attribute returns the raw attribute value and whether it is present.
	Attribute(name string) (string, bool, error)
	QueryAll(selector string) ([]Element, error)
}

// Cookie mirrors the cookie shape browser engines accept for import/export.
// Expires is seconds since the epoch, -1 for session cookies.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// IsSession reports whether the cookie has no expiry.
func (c Cookie) IsSession() bool {
	return c.Expires <= 0
}
