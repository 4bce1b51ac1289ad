package convert

import (
	"regexp"
	"strings"
)

var headingPatterns [6]*regexp.Regexp

func init() {
	for i := range headingPatterns {
		n := string(rune('1' + i))
		headingPatterns[i] = regexp.MustCompile(`(?is)<h` + n + `\b[^>]*>(.*?)</h` + n + `>`)
	}
}

var (
	boldElement   = regexp.MustCompile(`(?is)<(?:strong|b)\b[^>]*>(.*?)</(?:strong|b)>`)
	italicElement = regexp.MustCompile(`(?is)<(?:em|i)\b[^>]*>(.*?)</(?:em|i)>`)
	codeElement   = regexp.MustCompile(`(?is)<code\b[^>]*>(.*?)</code>`)
	lineBreak     = regexp.MustCompile(`(?i)<br\b[^>]*>`)
	thematicBreak = regexp.MustCompile(`(?i)<hr\b[^>]*>`)
	linkElement   = regexp.MustCompile(`(?is)(<a\b[^>]*>)(.*?)</a>`)
	citeElement   = regexp.MustCompile(`(?is)<cite\b[^>]*>(.*?)</cite>`)
	selfRefLabel  = regexp.MustCompile(`ltx_ref_self">([^<]+)<`)
)

// sameDocumentHost marks links into the arXiv HTML rendering of a paper;
// those become in-document anchors.
const sameDocumentHost = "arxiv.org/html"

// ConvertSemantic rewrites headings, emphasis, inline code, line and
// thematic breaks, links and citations to Markdown.
func ConvertSemantic(doc string) string {
	for i, re := range headingPatterns {
		level := strings.Repeat("#", i+1)
		doc = re.ReplaceAllStringFunc(doc, func(el string) string {
			text := flatten(re.FindStringSubmatch(el)[1])
			if text == "" {
				return ""
			}
			return "\n\n" + level + " " + text + "\n\n"
		})
	}

	// Emphasis keeps inner markup; it may hold links or math converted later.
	doc = boldElement.ReplaceAllString(doc, "**${1}**")
	doc = italicElement.ReplaceAllString(doc, "*${1}*")
	doc = codeElement.ReplaceAllString(doc, "`${1}`")
	doc = lineBreak.ReplaceAllString(doc, "\n")
	doc = thematicBreak.ReplaceAllString(doc, "\n\n---\n\n")

	doc = linkElement.ReplaceAllStringFunc(doc, renderLink)
	doc = citeElement.ReplaceAllStringFunc(doc, renderCitation)
	return doc
}

func renderLink(el string) string {
	m := linkElement.FindStringSubmatch(el)
	text := flatten(m[2])
	href := strings.TrimSpace(tagAttrs(m[1])["href"])
	if href == "" || text == "" {
		return text
	}
	if strings.Contains(href, sameDocumentHost) {
		anchor := href
		if i := strings.LastIndexByte(href, '#'); i >= 0 {
			anchor = href[i+1:]
		}
		return "[" + text + "](#" + anchor + ")"
	}
	return "[" + text + "](" + href + ")"
}

func renderCitation(el string) string {
	inner := citeElement.FindStringSubmatch(el)[1]
	var refs []string
	for _, m := range selfRefLabel.FindAllStringSubmatch(inner, -1) {
		refs = append(refs, m[1])
	}
	if len(refs) > 0 {
		return "[" + strings.Join(refs, ", ") + "]"
	}
	return "[" + strings.TrimSpace(stripMarkup(inner)) + "]"
}
