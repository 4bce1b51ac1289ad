package app

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/ltxmd/internal/cache"
	"github.com/hyperifyio/ltxmd/internal/convert"
	"github.com/hyperifyio/ltxmd/internal/fetch"
	"github.com/hyperifyio/ltxmd/internal/robots"
)

// App wires the converter to file I/O and the arXiv fetcher.
type App struct {
	cfg      Config
	log      zerolog.Logger
	pipeline *convert.Pipeline
	paper    *fetch.Paper
	store    *cache.Store
}

// Result describes one converted document.
type Result struct {
	ID         string              `json:"id,omitempty"`
	InputPath  string              `json:"input,omitempty"`
	HTMLPath   string              `json:"html,omitempty"`
	OutputPath string              `json:"output"`
	InputChars int                 `json:"inputChars"`
	Summary    Summary             `json:"summary"`
	Stages     []convert.StageStat `json:"stages,omitempty"`
}

// New validates cfg and builds the application. Cache clearing and age
// purging happen here; size limits are enforced by Close.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		log:      log.Logger,
		pipeline: convert.New(convert.WithLogger(log.Logger), convert.WithVerbose(cfg.Verbose)),
	}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				a.log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			// ignore errors to avoid failing startup
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
				a.log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.store = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	a.paper = &fetch.Paper{
		Client:  a.newFetchClient(cfg.SSLVerify),
		BaseURL: cfg.BaseURL,
		Log:     a.log,
	}
	if cfg.SSLVerify && cfg.InsecureFallback {
		a.paper.Insecure = a.newFetchClient(false)
	}
	if cfg.RespectRobots {
		a.paper.Robots = &robots.Checker{
			HTTPClient: newHTTPClient(cfg.SSLVerify, cfg.Timeout),
			Cache:      a.store,
			UserAgent:  cfg.UserAgent,
			Log:        a.log,
		}
	}
	return a, nil
}

func (a *App) newFetchClient(sslVerify bool) *fetch.Client {
	return &fetch.Client{
		HTTPClient:        newHTTPClient(sslVerify, a.cfg.Timeout),
		UserAgent:         a.cfg.UserAgent,
		MaxAttempts:       a.cfg.MaxAttempts,
		PerRequestTimeout: a.cfg.Timeout,
		Cache:             a.store,
		BypassCache:       a.cfg.BypassCache,
		MaxConcurrent:     a.cfg.Concurrency,
		Log:               a.log,
	}
}

// Close enforces the configured cache size limits.
func (a *App) Close() error {
	if a.store == nil || (a.cfg.CacheMaxBytes <= 0 && a.cfg.CacheMaxEntries <= 0) {
		return nil
	}
	n, err := cache.EnforceLimits(a.cfg.CacheDir, a.cfg.CacheMaxBytes, a.cfg.CacheMaxEntries)
	if err != nil {
		return fmt.Errorf("enforce cache limits: %w", err)
	}
	if n > 0 {
		a.log.Debug().Int("removed", n).Msg("evicted cache entries")
	}
	return nil
}

// ConvertFile converts cfg.InputPath and writes the Markdown to
// cfg.OutputPath, or next to the input when that is empty.
func (a *App) ConvertFile(ctx context.Context) (Result, error) {
	if a.cfg.InputPath == "" {
		return Result{}, ErrNoInput
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	doc, err := LoadDocument(a.cfg.InputPath)
	if err != nil {
		return Result{}, err
	}
	out := a.cfg.OutputPath
	if out == "" {
		out = DefaultOutputPath(a.cfg.InputPath)
	}
	a.log.Info().Str("input", a.cfg.InputPath).Str("output", out).Int("chars", utf8.RuneCountInString(doc)).Msg("loaded")

	res := a.convert(doc, out)
	res.InputPath = a.cfg.InputPath
	if err := writeFile(out, []byte(res.markdown)); err != nil {
		return Result{}, err
	}
	a.logResult(res.Result)
	return res.Result, nil
}

// FetchPaper downloads the HTML rendering of one arXiv paper and converts
// it. The Markdown goes to cfg.OutputPath, or <OutputDir>/<id>.md when that
// is empty. With SaveHTML the raw HTML is kept next to it.
func (a *App) FetchPaper(ctx context.Context, rawID string) (Result, error) {
	return a.fetchPaper(ctx, rawID, a.cfg.OutputPath)
}

// FetchMany fetches and converts several papers, at most cfg.Concurrency at
// a time, each into <OutputDir>/<id>.md. Every paper is attempted; the
// returned error joins the individual failures.
func (a *App) FetchMany(ctx context.Context, rawIDs []string) ([]Result, error) {
	if len(rawIDs) == 0 {
		return nil, ErrNoInput
	}
	results := make([]Result, len(rawIDs))
	errs := make([]error, len(rawIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, id := range rawIDs {
		i, id := i, id
		g.Go(func() error {
			res, err := a.fetchPaper(gctx, id, "")
			if err != nil {
				a.log.Error().Err(err).Str("id", id).Msg("paper failed")
				errs[i] = fmt.Errorf("%s: %w", id, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var ok []Result
	for i := range results {
		if errs[i] == nil {
			ok = append(ok, results[i])
		}
	}
	return ok, errors.Join(errs...)
}

func (a *App) fetchPaper(ctx context.Context, rawID, out string) (Result, error) {
	id, err := fetch.ParseID(rawID)
	if err != nil {
		return Result{}, err
	}
	body, err := a.paper.FetchHTML(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if out == "" {
		out = paperPath(a.cfg.OutputDir, id, ".md")
	}
	var htmlPath string
	if a.cfg.SaveHTML {
		htmlPath = paperPath(dirOf(out), id, ".html")
		if err := writeFile(htmlPath, body); err != nil {
			return Result{}, err
		}
	}
	doc, err := DecodeHTML(body, "text/html")
	if err != nil {
		return Result{}, err
	}
	res := a.convert(doc, out)
	res.ID = id
	res.HTMLPath = htmlPath
	if err := writeFile(out, []byte(res.markdown)); err != nil {
		return Result{}, err
	}
	a.logResult(res.Result)
	return res.Result, nil
}

type converted struct {
	Result
	markdown string
}

func (a *App) convert(doc, out string) converted {
	md, stats := a.pipeline.ConvertWithStats(doc)
	return converted{
		Result: Result{
			OutputPath: out,
			InputChars: utf8.RuneCountInString(doc),
			Summary:    Summarize(md),
			Stages:     stats,
		},
		markdown: md,
	}
}

func (a *App) logResult(r Result) {
	a.log.Info().
		Str("id", r.ID).
		Str("output", r.OutputPath).
		Int("chars", r.Summary.Chars).
		Int("sections", r.Summary.Sections).
		Int("subsections", r.Summary.Subsections).
		Int("math", r.Summary.Math).
		Msg("converted")
}
