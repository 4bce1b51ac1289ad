package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocument_UTF8(t *testing.T) {
	p := filepath.Join(t.TempDir(), "paper.html")
	if err := os.WriteFile(p, []byte("<p>Schrödinger → ψ</p>"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadDocument(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "<p>Schrödinger → ψ</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadDocument_NotFound(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.html"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestDecodeHTML_MetaCharset(t *testing.T) {
	// "café" in ISO-8859-1
	raw := append([]byte(`<html><head><meta charset="iso-8859-1"></head><body>caf`), 0xe9, '<', '/', 'b', 'o', 'd', 'y', '>')
	got, err := DecodeHTML(raw, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `<html><head><meta charset="iso-8859-1"></head><body>café</body>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeHTML_NormalizesToNFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := DecodeHTML([]byte("<p>"+decomposed+"</p>"), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "<p>\u00e9</p>" {
		t.Fatalf("expected composed form, got %q", got)
	}
}
