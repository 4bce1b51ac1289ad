package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// unavailableMarkers are phrases arXiv uses on the placeholder page served
// when a paper has no HTML rendering. Matched case-insensitively.
var unavailableMarkers = []string{
	"no html available",
	"no html for",
	"html is not available",
	"does not have an html version",
	"not found",
}

// DetectUnavailable reports whether body is arXiv's "no HTML rendering"
// placeholder rather than a paper. A page carrying a LaTeXML document root
// is always treated as available, so a paper that mentions "not found" in
// its text is not rejected.
func DetectUnavailable(body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	if doc.Find(".ltx_document, .ltx_page_main").Length() > 0 {
		return false
	}
	var texts []string
	texts = append(texts, doc.Find("title").Text())
	doc.Find("h1, h2, h3, p").Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	for _, t := range texts {
		t = strings.ToLower(strings.Join(strings.Fields(t), " "))
		for _, m := range unavailableMarkers {
			if strings.Contains(t, m) {
				return true
			}
		}
	}
	return false
}
