package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/ltxmd/internal/app"
)

const paperHTML = `<html><body><article class="ltx_document">
<h1 class="ltx_title ltx_title_document">On Things</h1>
<section class="ltx_section"><h2 class="ltx_title">1 Introduction</h2>
<p>Let <math display="inline"><annotation encoding="application/x-tex">x</annotation></math> be given.</p>
<section class="ltx_subsection"><h3 class="ltx_title">1.1 Setup</h3><p>Text.</p></section>
</section></article></body></html>`

func writeInput(t *testing.T) string {
	t.Helper()
	in := filepath.Join(t.TempDir(), "paper.html")
	if err := os.WriteFile(in, []byte(paperHTML), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return in
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_ConvertWritesMarkdown(t *testing.T) {
	in := writeInput(t)
	if code := run([]string{"--env-file", "", "-q", "convert", in}); code != ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	b, err := os.ReadFile(strings.TrimSuffix(in, ".html") + ".md")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(b), "# On Things\n\n## 1 Introduction") {
		t.Fatalf("unexpected markdown:\n%s", b)
	}
}

func TestRun_ConvertExplicitOutput(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "sub", "out.md")
	if code := run([]string{"--env-file", "", "-q", "convert", in, out}); code != ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output at %s: %v", out, err)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.html")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing input", []string{"convert", missing}, ExitIO},
		{"no args to convert", []string{"convert"}, ExitUsage},
		{"too many args", []string{"convert", "a", "b", "c"}, ExitUsage},
		{"unknown flag", []string{"convert", "--bogus", "a"}, ExitUsage},
		{"unknown command", []string{"frobnicate"}, ExitUsage},
		{"missing config file", []string{"--config", missing + ".yaml", "convert", missing}, ExitUsage},
		{"invalid id", []string{"fetch", "not-an-id"}, ExitUsage},
		{"bad cache size", []string{"fetch", "--cache-max-size", "lots", "2401.00001"}, ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--env-file", "", "-q"}, tt.args...)
			if got := run(args); got != tt.want {
				t.Fatalf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/html/2401.00001" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(paperHTML))
	}))
	defer srv.Close()

	dir := t.TempDir()
	base := []string{"--env-file", "", "-q", "fetch", "--base-url", srv.URL, "--attempts", "1", "-o", dir}

	if code := run(append(base, "2401.00001")); code != ExitSuccess {
		t.Fatalf("fetch exit code %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "2401.00001.md")); err != nil {
		t.Fatalf("expected markdown: %v", err)
	}

	if code := run(append(base, "2401.99999")); code != ExitUnavailable {
		t.Fatalf("missing paper exit code %d, want %d", code, ExitUnavailable)
	}

	if code := run(append(base, "2401.00001", "2401.99999")); code != ExitUnavailable {
		t.Fatalf("batch exit code %d, want %d", code, ExitUnavailable)
	}
}

func TestConvert_Stats(t *testing.T) {
	in := writeInput(t)
	out, err := execute(t, "-q", "--stats", "convert", in)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{
		"  1. remove unwanted elements: ",
		"  10. final cleanup: ",
		"Final: ",
		"Stats: 1 sections, 1 subsections, 1 math expressions",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "ltxmd "+app.BuildVersion) {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "convert") || !strings.Contains(out, "fetch") {
		t.Fatalf("help does not list commands:\n%s", out)
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ltxmd.yaml")
	yml := "arxiv:\n  timeout: 45s\n  maxAttempts: 4\n  concurrency: 2\ncache:\n  maxEntries: 10\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(app.EnvConcurrency, "3")
	t.Setenv(app.EnvMaxAttempts, "5")

	root := newRootCmd()
	cmd, _, err := root.Find([]string{"fetch"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	args := []string{"--env-file", "", "-q", "--config", path, "--attempts", "7", "--cache-max-size", "1MB"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout from file: got %v", cfg.Timeout)
	}
	if cfg.Concurrency != 3 {
		t.Fatalf("concurrency from env: got %d", cfg.Concurrency)
	}
	if cfg.MaxAttempts != 7 {
		t.Fatalf("attempts from flag: got %d", cfg.MaxAttempts)
	}
	if cfg.CacheMaxEntries != 10 {
		t.Fatalf("cache entries from file: got %d", cfg.CacheMaxEntries)
	}
	if cfg.CacheMaxBytes != 1000000 {
		t.Fatalf("cache size from flag: got %d", cfg.CacheMaxBytes)
	}
	if cfg.UserAgent != app.DefaultConfig().UserAgent {
		t.Fatalf("user agent default: got %q", cfg.UserAgent)
	}
}

func TestApplyFlags_InvalidSize(t *testing.T) {
	root := newRootCmd()
	cmd, _, _ := root.Find([]string{"fetch"})
	if err := cmd.ParseFlags([]string{"--cache-max-size", "lots"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg := app.DefaultConfig()
	if err := applyFlags(cmd, &cfg); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
