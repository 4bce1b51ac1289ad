package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"testing"

	"github.com/hyperifyio/ltxmd/internal/app"
	"github.com/hyperifyio/ltxmd/internal/fetch"
	"github.com/hyperifyio/ltxmd/internal/robots"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"unavailable", fetch.ErrHTMLUnavailable, ExitUnavailable},
		{"wrapped unavailable", fmt.Errorf("2401.00001: %w", fetch.ErrHTMLUnavailable), ExitUnavailable},
		{"joined unavailable wins", errors.Join(&fetch.StatusError{Code: 503}, fetch.ErrHTMLUnavailable), ExitUnavailable},

		{"robots", fmt.Errorf("https://arxiv.org/html/x: %w", robots.ErrDisallowed), ExitDisallowed},

		{"usage", errUsage, ExitUsage},
		{"invalid config", app.ErrInvalidConfig, ExitUsage},
		{"no input", app.ErrNoInput, ExitUsage},
		{"invalid id", fmt.Errorf("parse: %w", fetch.ErrInvalidID), ExitUsage},

		{"input not found", app.ErrInputNotFound, ExitIO},
		{"write output", fmt.Errorf("%w: out.md", app.ErrWriteOutput), ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},

		{"status error", &fetch.StatusError{Code: 503}, ExitNetwork},
		{"wrapped status error", fmt.Errorf("fetch: %w", &fetch.StatusError{Code: 403}), ExitNetwork},
		{"url error", &url.Error{Op: "Get", URL: "https://arxiv.org", Err: errors.New("connection refused")}, ExitNetwork},
		{"deadline", context.DeadlineExceeded, ExitNetwork},
		{"content type", fetch.ErrUnsupportedContentType, ExitNetwork},

		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Fatalf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()
	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Fatalf("reserved codes changed: %d %d %d", ExitSuccess, ExitGeneral, ExitUsage)
	}
	for _, c := range []int{ExitIO, ExitUnavailable, ExitNetwork, ExitDisallowed} {
		if c <= ExitUsage || c >= 126 {
			t.Fatalf("custom code %d outside 3..125", c)
		}
	}
}
