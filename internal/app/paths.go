package app

import (
	"path/filepath"
	"strings"

	"github.com/hyperifyio/ltxmd/internal/fetch"
)

// DefaultOutputPath derives the Markdown path for an input file by replacing
// its extension with ".md". An input that already ends in ".md" gets ".md"
// appended so it is never overwritten.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".md") {
		return input + ".md"
	}
	return strings.TrimSuffix(input, ext) + ".md"
}

// paperPath returns <dir>/<id><ext> with the slash of old-style IDs replaced.
func paperPath(dir, id, ext string) string {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return filepath.Join(dir, fetch.FileStem(id)+ext)
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "." {
		return ""
	}
	return d
}
