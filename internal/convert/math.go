package convert

import (
	"regexp"
	"strings"
)

var (
	mathElement   = regexp.MustCompile(`(?is)<math\b[^>]*>.*?</math>`)
	mathOpenTag   = regexp.MustCompile(`(?i)^<math\b[^>]*>`)
	texAnnotation = regexp.MustCompile(`(?s)<annotation[^>]*encoding="application/x-tex"[^>]*>(.*?)</annotation>`)

	// Only the three entities LaTeXML escapes inside annotations; the rest
	// are left for Cleanup.
	annotationEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// ExtractMath replaces each <math> element with the LaTeX source from its
// application/x-tex annotation: $$TEX$$ on its own paragraph for
// display="block", $TEX$ otherwise. Without an annotation the element's
// visible text is kept.
func ExtractMath(doc string) string {
	return mathElement.ReplaceAllStringFunc(doc, renderMath)
}

func renderMath(el string) string {
	m := texAnnotation.FindStringSubmatch(el)
	if m == nil {
		return strings.TrimSpace(stripMarkup(el))
	}
	tex := annotationEntities.Replace(strings.TrimSpace(m[1]))
	if isBlockMath(el) {
		return "\n\n$$" + tex + "$$\n\n"
	}
	return "$" + tex + "$"
}

func isBlockMath(el string) bool {
	open := mathOpenTag.FindString(el)
	if attrs := tagAttrs(open); attrs != nil {
		if mode, ok := attrs["display"]; ok {
			return strings.EqualFold(strings.TrimSpace(mode), "block")
		}
	}
	return strings.Contains(el, `display="block"`)
}
