package browser

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// HTTPOptions configures the plain HTTP driver.
type HTTPOptions struct {
	UserAgent      string
	AcceptLanguage string
	Client         *http.Client // optional, a default client is built when nil
}

// HTTPPage is a script-less Page: each navigation is one GET whose body is
// parsed into a Document. Cookies live in a jar and are tracked with their
// attributes so they can be exported in the browser shape.
type HTTPPage struct {
	client  *http.Client
	opts    HTTPOptions
	current string
	doc     *Document

	cookies []Cookie
}

func NewHTTPPage(opts HTTPOptions) (*HTTPPage, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	client.Jar = jar

	page := &HTTPPage{client: client, opts: opts}

	// Cookies set on redirect hops reach the jar without passing through
	// Navigate, so they are tracked here as well.
	next := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if req.Response != nil && len(via) > 0 {
			page.trackCookies(req.Response, via[len(via)-1].URL.Hostname())
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}

	return page, nil
}

func (p *HTTPPage) Navigate(ctx context.Context, urlStr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("invalid URL %s: %w", urlStr, err)
	}

	if p.opts.UserAgent != "" {
		req.Header.Set("User-Agent", p.opts.UserAgent)
	}
	if p.opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", p.opts.AcceptLanguage)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	// A failed navigation must not leave the previous document behind.
	p.doc = nil
	p.current = urlStr

	resp, err := p.client.Do(req)
	if err != nil {
		return classify("navigate", urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	final := req.URL
	if resp.Request != nil {
		final = resp.Request.URL
	}
	p.current = final.String()
	p.trackCookies(resp, final.Hostname())

	// Error bodies are parsed too so a challenge served with a 403 is still
	// visible to Has.
	doc, parseErr := p.parseBody(resp)
	if parseErr == nil {
		p.doc = doc
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusError{URL: urlStr, StatusCode: resp.StatusCode}
	}
	if parseErr != nil {
		return classify("navigate", urlStr, parseErr)
	}
	return nil
}

func (p *HTTPPage) parseBody(resp *http.Response) (*Document, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}
	return ParseHTML(reader)
}

// WaitFor cannot wait for anything to appear in a static document, so a miss
// is reported as a timeout straight away.
func (p *HTTPPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.doc != nil && p.doc.Has(selector) {
		return nil
	}
	return TimeoutError{Op: "wait", Target: selector, Err: context.DeadlineExceeded}
}

func (p *HTTPPage) Has(selector string) (bool, error) {
	if p.doc == nil {
		return false, nil
	}
	return p.doc.Has(selector), nil
}

func (p *HTTPPage) QueryAll(selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("query %s: no document loaded", selector)
	}
	return p.doc.QueryAll(selector), nil
}

func (p *HTTPPage) URL() string {
	return p.current
}

func (p *HTTPPage) Cookies() ([]Cookie, error) {
	out := make([]Cookie, len(p.cookies))
	copy(out, p.cookies)
	return out, nil
}

func (p *HTTPPage) SetCookies(cookies []Cookie) error {
	for _, c := range cookies {
		u := cookieURL(c)
		if u == nil {
			return fmt.Errorf("cookie %s: empty domain", c.Name)
		}
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if strings.HasPrefix(c.Domain, ".") {
			hc.Domain = c.Domain
		}
		if !c.IsSession() {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		p.client.Jar.SetCookies(u, []*http.Cookie{hc})
		p.remember(c)
	}
	return nil
}

func (p *HTTPPage) Close() error {
	p.client.CloseIdleConnections()
	p.doc = nil
	return nil
}

func (p *HTTPPage) trackCookies(resp *http.Response, host string) {
	for _, hc := range resp.Cookies() {
		c := Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Domain:   hc.Domain,
			Path:     hc.Path,
			Expires:  -1,
			HTTPOnly: hc.HttpOnly,
			Secure:   hc.Secure,
			SameSite: sameSiteName(hc.SameSite),
		}
		if c.Domain == "" {
			c.Domain = host
		} else if !strings.HasPrefix(c.Domain, ".") {
			c.Domain = "." + c.Domain
		}
		if c.Path == "" {
			c.Path = "/"
		}
		switch {
		case hc.MaxAge < 0:
			p.forget(c)
			continue
		case hc.MaxAge > 0:
			c.Expires = float64(time.Now().Add(time.Duration(hc.MaxAge) * time.Second).Unix())
		case !hc.Expires.IsZero():
			if hc.Expires.Before(time.Now()) {
				p.forget(c)
				continue
			}
			c.Expires = float64(hc.Expires.Unix())
		}
		p.remember(c)
	}
}

func (p *HTTPPage) remember(c Cookie) {
	for i, existing := range p.cookies {
		if sameCookie(existing, c) {
			p.cookies[i] = c
			return
		}
	}
	p.cookies = append(p.cookies, c)
}

func (p *HTTPPage) forget(c Cookie) {
	for i, existing := range p.cookies {
		if sameCookie(existing, c) {
			p.cookies = append(p.cookies[:i], p.cookies[i+1:]...)
			return
		}
	}
}

func sameCookie(a, b Cookie) bool {
	return a.Name == b.Name && a.Domain == b.Domain && a.Path == b.Path
}

func cookieURL(c Cookie) *url.URL {
	host := strings.TrimPrefix(c.Domain, ".")
	if host == "" {
		return nil
	}
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &url.URL{Scheme: scheme, Host: host, Path: path}
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}
