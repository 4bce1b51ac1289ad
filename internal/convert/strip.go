package convert

import "regexp"

var (
	blockClose     = regexp.MustCompile(`(?i)</(?:p|div|section|article)>`)
	blockOpen      = regexp.MustCompile(`(?i)<(?:p|div|section|article)\b[^>]*>`)
	listItemOpen   = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	listItemClose  = regexp.MustCompile(`(?i)</li>`)
	listContainer  = regexp.MustCompile(`(?i)</?(?:ul|ol)\b[^>]*>`)
	equationNumber = regexp.MustCompile(`(?i)<span[^>]*class="[^"]*ltx_tag_equation[^"]*"[^>]*>\((\d+)\)</span>`)
)

// StripTags turns block boundaries into blank lines and list items into
// "- " lines, keeps "(N)" equation numbers, then removes every remaining tag.
func StripTags(doc string) string {
	doc = blockClose.ReplaceAllString(doc, "\n\n")
	doc = blockOpen.ReplaceAllString(doc, "\n")
	doc = listItemOpen.ReplaceAllString(doc, "\n- ")
	doc = listItemClose.ReplaceAllString(doc, "")
	doc = listContainer.ReplaceAllString(doc, "\n")
	doc = equationNumber.ReplaceAllString(doc, "(${1})")
	return stripMarkup(doc)
}
