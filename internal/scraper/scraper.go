package scraper

import (
	"fmt"
	"net/url"

	"zoneh-archiver/internal/browser"
	"zoneh-archiver/internal/normalize"
	"zoneh-archiver/internal/observability"
)

type Scraper struct {
	selectors Selectors
	baseURL   *url.URL
	logger    *observability.Logger
}

func NewScraper(selectors Selectors, baseURL *url.URL, logger *observability.Logger) *Scraper {
	return &Scraper{
		selectors: selectors,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// CollectMirrors walks the listing rows of the current page, header row
// excluded, and returns one MirrorRef per anchor labeled as a mirror, in
// document order. A row that fails is logged and skipped; only a failed row
// query is returned as an error.
func (s *Scraper) CollectMirrors(page browser.Page) ([]MirrorRef, error) {
	rows, err := page.QueryAll(s.selectors.RowSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing rows: %w", err)
	}

	s.logger.Info("Listing rows found", "rows", len(rows), "url", page.URL())

	var refs []MirrorRef
	for i, row := range rows {
		rowIndex := i + 1

		found, err := s.mirrorsInRow(row, rowIndex)
		refs = append(refs, found...)
		if err != nil {
			rowErr := RowError{Row: rowIndex, Err: err}
			s.logger.Warn("Error collecting mirror URL from row",
				"row", rowIndex,
				"url", page.URL(),
				"error", rowErr.Error(),
			)
		}
	}

	return refs, nil
}

func (s *Scraper) mirrorsInRow(row browser.Element, rowIndex int) ([]MirrorRef, error) {
	anchors, err := row.QueryAll(s.selectors.AnchorSelector)
	if err != nil {
		return nil, err
	}

	var refs []MirrorRef
	for _, a := range anchors {
		label, err := a.Text()
		if err != nil {
			return refs, fmt.Errorf("anchor text: %w", err)
		}
		if !normalize.LabelEquals(label, s.selectors.MirrorLabel) {
			continue
		}

		href, ok, err := a.Attribute("href")
		if err != nil {
			return refs, fmt.Errorf("anchor href: %w", err)
		}
		if !ok || href == "" {
			continue
		}

		abs, err := normalize.ResolveURL(s.baseURL, href)
		if err != nil {
			return refs, err
		}
		refs = append(refs, MirrorRef{Row: rowIndex, URL: abs})
	}

	return refs, nil
}

// ExtractContent joins the text of every content element on the current page
// with newlines. An empty string means there was nothing to save.
func (s *Scraper) ExtractContent(page browser.Page) (string, error) {
	elements, err := page.QueryAll(s.selectors.ContentSelector)
	if err != nil {
		return "", ExtractionError{URL: page.URL(), Err: err}
	}

	blocks := make([]string, 0, len(elements))
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			return "", ExtractionError{URL: page.URL(), Err: err}
		}
		blocks = append(blocks, text)
	}

	return normalize.JoinBlocks(blocks), nil
}
