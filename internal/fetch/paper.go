package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/ltxmd/internal/robots"
)

// ErrHTMLUnavailable is returned when arXiv has no HTML rendering of a paper.
var ErrHTMLUnavailable = errors.New("no HTML version available for this paper")

// Paper downloads the HTML rendering of arXiv papers.
type Paper struct {
	Client *Client
	// Insecure is tried exactly once when Client fails certificate
	// verification. Nil disables the fallback.
	Insecure *Client
	// Robots, when set, gates and paces every paper request.
	Robots *robots.Checker
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	Log     zerolog.Logger
}

// FetchHTML returns the HTML of the paper identified by id, which must be a
// canonical identifier as returned by ParseID.
func (p *Paper) FetchHTML(ctx context.Context, id string) ([]byte, error) {
	u := HTMLURL(p.BaseURL, id)
	p.Log.Debug().Str("id", id).Str("url", u).Msg("fetching paper")
	if p.Robots != nil {
		if err := p.Robots.Admit(ctx, u); err != nil {
			return nil, err
		}
	}

	body, _, err := p.Client.Get(ctx, u)
	if err != nil && p.Insecure != nil && isCertificateError(err) {
		p.Log.Warn().Err(err).Str("url", u).Msg("certificate verification failed, retrying without verification")
		body, _, err = p.Insecure.Get(ctx, u)
	}
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", id, ErrHTMLUnavailable)
		}
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	if DetectUnavailable(body) {
		return nil, fmt.Errorf("%s: %w", id, ErrHTMLUnavailable)
	}
	p.Log.Debug().Str("id", id).Int("bytes", len(body)).Msg("paper fetched")
	return body, nil
}

func isCertificateError(err error) bool {
	var verr *tls.CertificateVerificationError
	if errors.As(err, &verr) {
		return true
	}
	var unknown x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	return errors.As(err, &unknown) || errors.As(err, &hostname) || errors.As(err, &invalid)
}
