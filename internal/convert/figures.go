package convert

import (
	"regexp"
	"strings"
)

var (
	figureEl      = newElement("figure")
	tableEl       = newElement("table")
	imgTag        = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	figureCaption = regexp.MustCompile(`(?is)<figcaption\b[^>]*>(.*?)</figcaption>`)
	figureClose   = regexp.MustCompile(`(?i)^</figure>`)
)

// figureAlt is the alt text of images inside figures; the caption is
// rendered on its own line below them.
const figureAlt = "Figure"

// imageAlt is used for a standalone image with a missing or empty alt.
const imageAlt = "Image"

// ConvertFigures renders each figure as its images followed by its caption
// in italics. Algorithm floats are left for ConvertAlgorithms, and tables
// inside a figure (LaTeXML table floats) are kept after the caption for
// ConvertTables. Images outside figures become standalone image references.
func ConvertFigures(doc string) string {
	doc = figureEl.rewrite(doc, func(attrs map[string]string) bool {
		return !isAlgorithmFloat(attrs)
	}, renderFigure)
	return convertStandaloneImages(doc)
}

func isAlgorithmFloat(attrs map[string]string) bool {
	return hasClassPrefix(attrs, "ltx_float_algorithm")
}

func renderFigure(_ map[string]string, inner string) string {
	var parts []string
	for _, tag := range imgTag.FindAllString(inner, -1) {
		if src := tagAttrs(tag)["src"]; src != "" {
			parts = append(parts, "!["+figureAlt+"]("+src+")")
		}
	}
	// Subfigure captions come first; the float's own caption is the last one.
	if caps := figureCaption.FindAllStringSubmatch(inner, -1); len(caps) > 0 {
		if text := flatten(caps[len(caps)-1][1]); text != "" {
			parts = append(parts, "\n*"+text+"*")
		}
	}
	var tables []string
	for _, loc := range outerElements(tableEl, inner) {
		tables = append(tables, inner[loc[0]:loc[1]])
	}
	if len(parts) == 0 && len(tables) == 0 {
		return ""
	}
	out := "\n\n" + strings.Join(parts, "\n") + "\n\n"
	for _, t := range tables {
		out += t + "\n\n"
	}
	return out
}

// outerElements returns the spans of top-level, closed occurrences of e in s.
func outerElements(e element, s string) [][2]int {
	var spans [][2]int
	pos := 0
	for pos < len(s) {
		loc := e.open.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, openEnd := pos+loc[0], pos+loc[1]
		_, end := e.closeOf(s, openEnd)
		if end < 0 {
			pos = openEnd
			continue
		}
		spans = append(spans, [2]int{start, end})
		pos = end
	}
	return spans
}

// convertStandaloneImages rewrites images that are not directly followed by
// a closing </figure> (those belong to a figure left in place).
func convertStandaloneImages(doc string) string {
	var b strings.Builder
	pos := 0
	for _, loc := range imgTag.FindAllStringIndex(doc, -1) {
		if insideFigure(doc[loc[1]:]) {
			continue
		}
		b.WriteString(doc[pos:loc[0]])
		b.WriteString(renderImage(doc[loc[0]:loc[1]]))
		pos = loc[1]
	}
	b.WriteString(doc[pos:])
	return b.String()
}

func insideFigure(rest string) bool {
	i := strings.IndexByte(rest, '<')
	return i >= 0 && figureClose.MatchString(rest[i:])
}

func renderImage(tag string) string {
	attrs := tagAttrs(tag)
	src := attrs["src"]
	if src == "" {
		return ""
	}
	alt := strings.TrimSpace(attrs["alt"])
	if alt == "" {
		alt = imageAlt
	}
	return "\n\n![" + alt + "](" + src + ")\n\n"
}
