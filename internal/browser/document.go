package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed, static DOM. It backs the HTTP driver, which cannot run
// scripts, so whatever the server returned is all there will ever be.
type Document struct {
	doc *goquery.Document
}

func ParseHTML(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

func ParseHTMLString(html string) (*Document, error) {
	return ParseHTML(strings.NewReader(html))
}

func (d *Document) Has(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

func (d *Document) QueryAll(selector string) []Element {
	return wrapSelection(d.doc.Find(selector))
}

type docElement struct {
	sel *goquery.Selection
}

func wrapSelection(sel *goquery.Selection) []Element {
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, docElement{sel: s})
	})
	return elements
}

func (e docElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e docElement) Attribute(name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e docElement) QueryAll(selector string) ([]Element, error) {
	return wrapSelection(e.sel.Find(selector)), nil
}
