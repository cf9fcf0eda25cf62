package browser

import (
	"testing"
)

const listingHTML = `
<html><body>
<table id="ldeface">
	<tr><th>Time</th><th>Notifier</th><th>Mirror</th></tr>
	<tr><td>2024/01/01</td><td>X</td><td><a href="/mirror/id/1"> Mirror </a></td></tr>
	<tr><td>2024/01/02</td><td>Y</td><td><a href="/notifier/y">Y</a></td></tr>
</table>
</body></html>`

func TestDocumentQueryAll(t *testing.T) {
	doc, err := ParseHTMLString(listingHTML)
	if err != nil {
		t.Fatalf("ParseHTMLString: %v", err)
	}

	if !doc.Has("#ldeface") {
		t.Fatalf("expected #ldeface to be present")
	}
	if doc.Has("#cryptogram") {
		t.Errorf("did not expect #cryptogram")
	}

	rows := doc.QueryAll("#ldeface tr:not(:first-child)")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	anchors, err := rows[0].QueryAll("a")
	if err != nil {
		t.Fatalf("QueryAll(a): %v", err)
	}
	if len(anchors) != 1 {
		t.Fatalf("anchors = %d, want 1", len(anchors))
	}

	text, _ := anchors[0].Text()
	if text != " Mirror " {
		t.Errorf("Text() = %q, want %q", text, " Mirror ")
	}

	href, ok, _ := anchors[0].Attribute("href")
	if !ok || href != "/mirror/id/1" {
		t.Errorf("Attribute(href) = %q, %v", href, ok)
	}

	if _, ok, _ := anchors[0].Attribute("title"); ok {
		t.Errorf("Attribute(title) should be absent")
	}
}
