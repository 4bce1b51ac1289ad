package convert

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// markupTag matches one tag-shaped token. A '<' followed by a space or digit
// (as in "x < y" inside recovered LaTeX) is not a tag.
var markupTag = regexp.MustCompile(`<[/!?]?[A-Za-z][^>]*>`)

// stripMarkup removes every tag-shaped token from s.
func stripMarkup(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// flatten removes nested markup and collapses whitespace runs to single spaces.
func flatten(s string) string {
	return strings.Join(strings.Fields(stripMarkup(s)), " ")
}

// tagAttrs reads the attributes of a single opening tag such as
// `<img src="a.png" alt="x">`. Keys are lower-cased and values entity-decoded
// by the tokenizer. Anything that does not tokenize as a tag yields nil.
func tagAttrs(tag string) map[string]string {
	z := html.NewTokenizer(strings.NewReader(tag))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
	default:
		return nil
	}
	tok := z.Token()
	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		if _, dup := attrs[a.Key]; !dup {
			attrs[a.Key] = a.Val
		}
	}
	return attrs
}

// hasClassPrefix reports whether any class token starts with prefix.
func hasClassPrefix(attrs map[string]string, prefix string) bool {
	for _, c := range strings.Fields(attrs["class"]) {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// element locates balanced occurrences of one tag name. LaTeXML nests
// figures in figures and divs in divs, so a lazy `<x>.*?</x>` would stop at
// the first inner close.
type element struct {
	name  string
	open  *regexp.Regexp
	token *regexp.Regexp
}

func newElement(name string) element {
	return element{
		name:  name,
		open:  regexp.MustCompile(`(?i)<` + name + `\b[^>]*>`),
		token: regexp.MustCompile(`(?i)<(/?)` + name + `\b[^>]*>`),
	}
}

// closeOf returns the start and end of the tag closing the element whose
// content begins at from, or -1, -1 when the element is never closed.
func (e element) closeOf(s string, from int) (int, int) {
	depth := 1
	for pos := from; ; {
		m := e.token.FindStringSubmatchIndex(s[pos:])
		if m == nil {
			return -1, -1
		}
		start, end := pos+m[0], pos+m[1]
		pos = end
		switch {
		case m[3] > m[2]:
			depth--
		case strings.HasSuffix(s[start:end], "/>"):
		default:
			depth++
		}
		if depth == 0 {
			return start, end
		}
	}
}

// rewrite replaces each element accepted by accept with render(attrs, inner).
// Rejected elements are left in place and their content is still scanned, so
// an accepted element nested inside a rejected one is found. An element with
// no closing tag is passed through.
func (e element) rewrite(s string, accept func(attrs map[string]string) bool, render func(attrs map[string]string, inner string) string) string {
	var b strings.Builder
	pos := 0
	for pos < len(s) {
		loc := e.open.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		openStart, openEnd := pos+loc[0], pos+loc[1]
		openTag := s[openStart:openEnd]
		attrs := tagAttrs(openTag)
		if !accept(attrs) {
			b.WriteString(s[pos:openEnd])
			pos = openEnd
			continue
		}
		if strings.HasSuffix(openTag, "/>") {
			b.WriteString(s[pos:openStart])
			b.WriteString(render(attrs, ""))
			pos = openEnd
			continue
		}
		closeStart, closeEnd := e.closeOf(s, openEnd)
		if closeStart < 0 {
			b.WriteString(s[pos:openEnd])
			pos = openEnd
			continue
		}
		b.WriteString(s[pos:openStart])
		b.WriteString(render(attrs, s[openEnd:closeStart]))
		pos = closeEnd
	}
	b.WriteString(s[pos:])
	return b.String()
}

func acceptAll(map[string]string) bool { return true }
