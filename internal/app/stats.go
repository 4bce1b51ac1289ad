package app

import (
	"regexp"
	"unicode/utf8"
)

var (
	sectionLine    = regexp.MustCompile(`(?m)^## `)
	subsectionLine = regexp.MustCompile(`(?m)^### `)
	mathSpan       = regexp.MustCompile(`\$[^$]+\$`)
)

// Summary counts the structure of a converted document.
type Summary struct {
	Chars       int `json:"chars"`
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Math        int `json:"math"`
}

// Summarize counts "## " section and "### " subsection headings and the
// non-overlapping $...$ spans of a Markdown document, matched left to right.
func Summarize(md string) Summary {
	return Summary{
		Chars:       utf8.RuneCountInString(md),
		Sections:    len(sectionLine.FindAllStringIndex(md, -1)),
		Subsections: len(subsectionLine.FindAllStringIndex(md, -1)),
		Math:        len(mathSpan.FindAllStringIndex(md, -1)),
	}
}
