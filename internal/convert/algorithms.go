package convert

import (
	"regexp"
	"strings"
)

var listingLine = regexp.MustCompile(`(?is)<div\b[^>]*class="[^"]*ltx_listingline[^"]*"[^>]*>(.*?)</div>`)

// ConvertAlgorithms renders algorithm floats as an optional bold title (the
// caption) followed by a fenced code block of the listing lines. A float
// without listing lines disappears.
func ConvertAlgorithms(doc string) string {
	return figureEl.rewrite(doc, isAlgorithmFloat, renderAlgorithm)
}

func renderAlgorithm(_ map[string]string, inner string) string {
	var title string
	if m := figureCaption.FindStringSubmatch(inner); m != nil {
		title = flatten(m[1])
	}
	var lines []string
	for _, m := range listingLine.FindAllStringSubmatch(inner, -1) {
		if line := strings.TrimSpace(stripMarkup(m[1])); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n")
	if title != "" {
		b.WriteString("**" + title + "**\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n```\n\n")
	return b.String()
}
