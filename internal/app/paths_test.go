package app

import (
	"path/filepath"
	"testing"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"paper.html":          "paper.md",
		"dir/2401.00001.html": "dir/2401.00001.md",
		"noext":               "noext.md",
		"notes.md":            "notes.md.md",
		"archive/x.y.z.xhtml": "archive/x.y.z.md",
	}
	for in, want := range tests {
		if got := DefaultOutputPath(in); got != want {
			t.Fatalf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaperPath(t *testing.T) {
	if got, want := paperPath("out", "hep-th/9901001", ".md"), filepath.Join("out", "hep-th_9901001.md"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := paperPath("", "2401.00001", ".html"); got != "2401.00001.html" {
		t.Fatalf("got %q", got)
	}
}
