package main

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"

	"github.com/hyperifyio/ltxmd/internal/app"
	"github.com/hyperifyio/ltxmd/internal/fetch"
	"github.com/hyperifyio/ltxmd/internal/robots"
)

// Exit codes for the ltxmd CLI.
// 0=success, 1=general, 2=usage, custom codes stay below 126.
const (
	ExitSuccess     = 0 // Document converted
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, arguments or config
	ExitIO          = 3 // Missing input, unwritable output
	ExitUnavailable = 4 // Paper has no HTML rendering
	ExitNetwork     = 5 // Transport or HTTP status failure
	ExitDisallowed  = 6 // Refused by robots.txt
)

// errUsage marks command-line mistakes reported by cobra.
var errUsage = errors.New("usage error")

// exitCodeFor returns the exit code for err. It relies on errors.Is and
// errors.As, so every layer must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, fetch.ErrHTMLUnavailable) {
		return ExitUnavailable
	}

	if errors.Is(err, robots.ErrDisallowed) {
		return ExitDisallowed
	}

	if errors.Is(err, errUsage) ||
		errors.Is(err, app.ErrInvalidConfig) ||
		errors.Is(err, app.ErrNoInput) ||
		errors.Is(err, fetch.ErrInvalidID) {
		return ExitUsage
	}

	if errors.Is(err, app.ErrInputNotFound) ||
		errors.Is(err, app.ErrWriteOutput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	var statusErr *fetch.StatusError
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &statusErr) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, fetch.ErrUnsupportedContentType) {
		return ExitNetwork
	}

	return ExitGeneral
}
