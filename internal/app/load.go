package app

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInputNotFound is returned when the input HTML file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// ErrNoInput is returned when neither an input file nor a paper ID is given.
var ErrNoInput = errors.New("no input given")

// ErrWriteOutput wraps failures writing a Markdown or HTML file.
var ErrWriteOutput = errors.New("write output")

// LoadDocument reads an HTML file and returns it as NFC-normalized UTF-8.
func LoadDocument(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeHTML(b, "")
}

// DecodeHTML converts raw HTML bytes to NFC-normalized UTF-8. The encoding
// is taken from a byte order mark, contentType or a <meta> charset
// declaration, in that order; undeclared input that is valid UTF-8 is read
// as UTF-8.
func DecodeHTML(b []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(b, contentType)
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return norm.NFC.String(string(out)), nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
