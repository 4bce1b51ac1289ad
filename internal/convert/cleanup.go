package convert

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var namedEntities = map[string]string{
	"nbsp": " ", "lt": "<", "gt": ">", "amp": "&", "quot": `"`,
	"times": "×", "minus": "−", "plusmn": "±",
	"asymp": "≈", "ne": "≠", "le": "≤", "ge": "≥",
	"rarr": "→", "larr": "←", "uarr": "↑", "darr": "↓",
	"hellip": "…", "mdash": "—", "ndash": "–",
	"lsquo": "‘", "rsquo": "’", "ldquo": "“", "rdquo": "”",
	"deg": "°", "infin": "∞",
}

var (
	entityRef       = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	blankLineRun    = regexp.MustCompile(`\n{3,}`)
	emptyBrackets   = regexp.MustCompile(`\[\s*\]`)
	emptyParens     = regexp.MustCompile(`\(\s*\)`)
	emptyBold       = regexp.MustCompile(`\*\*\s*\*\*`)
	lonePeriodLine  = regexp.MustCompile(`\n\.\n`)
)

// Cleanup decodes entities, normalises whitespace and removes the empty
// "[]", "()" and "****" left behind by earlier stages, plus lines holding a
// lone period. It must run last.
func Cleanup(doc string) string {
	doc = decodeEntities(doc)
	doc = horizontalSpace.ReplaceAllString(doc, " ")

	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	doc = strings.Join(lines, "\n")
	doc = blankLineRun.ReplaceAllString(doc, "\n\n")
	doc = strings.TrimSpace(doc)

	doc = emptyBrackets.ReplaceAllString(doc, "")
	doc = emptyParens.ReplaceAllString(doc, "")
	doc = removeStandaloneEmptyBold(doc)
	doc = lonePeriodLine.ReplaceAllString(doc, "\n")
	return doc
}

// decodeEntities decodes every reference in one pass, so "&amp;lt;" becomes
// "&lt;" and not "<". Names outside the table fall back to the HTML5 set;
// unknown names and out-of-range code points are left as they are.
func decodeEntities(s string) string {
	return entityRef.ReplaceAllStringFunc(s, func(ref string) string {
		body := ref[1 : len(ref)-1]
		if body[0] != '#' {
			if v, ok := namedEntities[body]; ok {
				return v
			}
			return html.UnescapeString(ref)
		}
		var n uint64
		var err error
		if body[1] == 'x' || body[1] == 'X' {
			n, err = strconv.ParseUint(body[2:], 16, 32)
		} else {
			n, err = strconv.ParseUint(body[1:], 10, 32)
		}
		if err != nil || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return ref
		}
		return string(rune(n))
	})
}

// removeStandaloneEmptyBold drops every "****". A marker pair with whitespace
// inside ("** **") is kept when glued to text on both sides, since that is
// the gap between two bold runs as in "**a** **b**".
func removeStandaloneEmptyBold(s string) string {
	var b strings.Builder
	pos := 0
	for _, loc := range emptyBold.FindAllStringIndex(s, -1) {
		glued := loc[0] > 0 && !isSpace(s[loc[0]-1]) &&
			loc[1] < len(s) && !isSpace(s[loc[1]])
		if glued && loc[1]-loc[0] > 4 {
			continue
		}
		b.WriteString(s[pos:loc[0]])
		pos = loc[1]
	}
	b.WriteString(s[pos:])
	return b.String()
}
