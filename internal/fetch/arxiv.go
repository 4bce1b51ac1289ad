package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is where arXiv serves its LaTeXML renderings.
const DefaultBaseURL = "https://arxiv.org"

// ErrInvalidID is returned for strings that are not arXiv identifiers.
var ErrInvalidID = errors.New("invalid arXiv identifier")

var (
	newStyleID = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
	oldStyleID = regexp.MustCompile(`^[a-z-]+(\.[A-Z]{2})?/\d{7}(v\d+)?$`)
)

// ParseID normalises an arXiv identifier. It accepts bare IDs with or
// without a version ("2401.01234", "2401.01234v2", "hep-th/9901001"), an
// "arXiv:" prefix, and abs/html/pdf URLs on any host.
func ParseID(s string) (string, error) {
	id := strings.TrimSpace(s)
	if u, err := url.Parse(id); err == nil && u.Host != "" {
		id = idFromPath(u.Path)
	}
	if len(id) >= 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	id = strings.TrimSuffix(strings.TrimSuffix(id, "/"), ".pdf")
	if newStyleID.MatchString(id) || oldStyleID.MatchString(id) {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
}

func idFromPath(p string) string {
	p = strings.Trim(p, "/")
	for _, prefix := range []string{"abs/", "html/", "pdf/"} {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return p
}

// HTMLURL returns the URL of the HTML rendering of id under base.
func HTMLURL(base, id string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/html/" + id
}

// FileStem turns an identifier into a file name stem; old-style IDs carry a
// slash.
func FileStem(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}
