package ifixit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips HTML markup from an upstream rendered-text fragment and
// collapses runs of whitespace. Entity decoding is handled by the parser.
// Returns the empty string when the fragment has no text content or cannot
// be parsed.
func CleanText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
