// Package robots fetches and evaluates robots.txt and paces requests by the
// host's crawl delay.
package robots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/ltxmd/internal/cache"
)

// ErrDisallowed is returned by Admit when robots.txt forbids a URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Source tells where Get found the rules.
type Source int

const (
	SourceNetwork Source = iota
	SourceMemory
	SourceCache304
)

// Checker caches robots.txt per host in memory and, when Cache is set, on
// disk with conditional revalidation.
type Checker struct {
	HTTPClient *http.Client
	Cache      *cache.Store
	UserAgent  string
	// EntryExpiry bounds how long rules stay in memory. Zero means 30m.
	EntryExpiry time.Duration
	Log         zerolog.Logger

	mu   sync.Mutex
	mem  map[string]memEntry
	next map[string]time.Time
	now  func() time.Time
}

type memEntry struct {
	rules  Rules
	expiry time.Time
}

func (c *Checker) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Get returns the rules at robotsURL. A 4xx answer allows everything. A 5xx
// answer or a transport failure closes the host until the entry expires.
func (c *Checker) Get(ctx context.Context, robotsURL string) (Rules, Source, error) {
	u, err := url.Parse(robotsURL)
	if err != nil {
		return Rules{}, SourceNetwork, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return Rules{}, SourceNetwork, fmt.Errorf("unsupported url scheme: %q", robotsURL)
	}

	c.mu.Lock()
	if ent, ok := c.mem[robotsURL]; ok && c.clock().Before(ent.expiry) {
		c.mu.Unlock()
		return ent.rules, SourceMemory, nil
	}
	c.mu.Unlock()

	rules, src, err := c.fetch(ctx, robotsURL)
	if err != nil {
		return Rules{}, src, err
	}
	c.storeMem(robotsURL, rules)
	return rules, src, nil
}

func (c *Checker) fetch(ctx context.Context, robotsURL string) (Rules, Source, error) {
	var etag, lastMod string
	if c.Cache != nil {
		if meta, err := c.Cache.LoadMeta(ctx, robotsURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return Rules{}, SourceNetwork, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Rules{}, SourceNetwork, ctxErr
		}
		c.Log.Warn().Err(err).Str("url", robotsURL).Msg("robots.txt unreachable, treating host as disallowed")
		return Rules{DisallowAll: true}, SourceNetwork, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && c.Cache != nil:
		body, err := c.Cache.LoadBody(ctx, robotsURL)
		if err != nil {
			return Rules{}, SourceCache304, fmt.Errorf("load cached robots: %w", err)
		}
		return Parse(string(body)), SourceCache304, nil
	case resp.StatusCode >= 500:
		c.Log.Warn().Int("status", resp.StatusCode).Str("url", robotsURL).Msg("robots.txt server error, treating host as disallowed")
		return Rules{DisallowAll: true}, SourceNetwork, nil
	case resp.StatusCode >= 400:
		return Rules{}, SourceNetwork, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Rules{}, SourceNetwork, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return Rules{}, SourceNetwork, fmt.Errorf("read robots: %w", err)
	}
	if c.Cache != nil {
		if err := c.Cache.Save(ctx, robotsURL, "text/plain", resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), data); err != nil {
			c.Log.Warn().Err(err).Str("url", robotsURL).Msg("cache save failed")
		}
	}
	return Parse(string(data)), SourceNetwork, nil
}

func (c *Checker) storeMem(key string, rules Rules) {
	exp := c.EntryExpiry
	if exp <= 0 {
		exp = 30 * time.Minute
	}
	c.mu.Lock()
	if c.mem == nil {
		c.mem = make(map[string]memEntry)
	}
	c.mem[key] = memEntry{rules: rules, expiry: c.clock().Add(exp)}
	c.mu.Unlock()
}

// Admit returns ErrDisallowed when the host's robots.txt forbids rawURL.
// Otherwise it blocks until the host's crawl delay since the previous
// admitted request has passed.
func (c *Checker) Admit(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return fmt.Errorf("unsupported url scheme: %q", rawURL)
	}
	rules, _, err := c.Get(ctx, u.Scheme+"://"+u.Host+"/robots.txt")
	if err != nil {
		return err
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if !rules.IsAllowed(c.UserAgent, path) {
		return fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}
	return c.pace(ctx, u.Host, rules.CrawlDelayFor(c.UserAgent))
}

// pace reserves the next request slot for host and sleeps until it opens.
func (c *Checker) pace(ctx context.Context, host string, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	c.mu.Lock()
	if c.next == nil {
		c.next = make(map[string]time.Time)
	}
	now := c.clock()
	at := c.next[host]
	if at.Before(now) {
		at = now
	}
	c.next[host] = at.Add(delay)
	c.mu.Unlock()

	wait := at.Sub(now)
	if wait <= 0 {
		return nil
	}
	c.Log.Debug().Str("host", host).Dur("wait", wait).Msg("crawl delay")
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
