package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/ltxmd/internal/app"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <id|url>...",
		Short: "Download arXiv papers as HTML and convert them to Markdown",
		Long: `Download the HTML rendering of one or more arXiv papers and convert each
to Markdown. Identifiers may be new-style (2502.04307), old-style
(hep-th/9901001) or arxiv.org abs/html/pdf URLs.

Each paper is written to <out-dir>/<id>.md; old-style identifiers have
their slash replaced by an underscore.`,
		Args: wrapArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.OutputPath != "" && len(args) > 1 {
				return fmt.Errorf("%w: --output takes a single paper", errUsage)
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if len(args) == 1 {
				res, err := a.FetchPaper(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if cfg.Stats {
					printStats(cmd.OutOrStdout(), res)
				}
				return nil
			}

			results, err := a.FetchMany(cmd.Context(), args)
			if cfg.Stats {
				for _, res := range results {
					printStats(cmd.OutOrStdout(), res)
				}
			}
			if err != nil {
				return fmt.Errorf("%d of %d papers failed: %w", len(args)-len(results), len(args), err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP("out-dir", "o", ".", "Directory for the Markdown output")
	f.String("output", "", "Output path when fetching a single paper")
	f.Bool("save-html", false, "Keep the downloaded HTML next to the Markdown")
	f.String("base-url", "", "arXiv base URL (default https://arxiv.org)")
	f.String("user-agent", "", "User-Agent sent to arXiv")
	f.Duration("timeout", 0, "Per-request timeout (default 30s)")
	f.Int("attempts", 0, "Attempts per request on transient errors (default 3)")
	f.Int("concurrency", 0, "Papers fetched in parallel (default 4)")
	f.Bool("no-ssl-verify", false, "Skip TLS certificate verification")
	f.Bool("no-insecure-fallback", false, "Do not retry without certificate verification after a certificate error")
	f.Bool("respect-robots", false, "Honor arXiv robots.txt rules and crawl delay")
	f.String("cache-dir", "", "HTTP cache directory; empty disables caching")
	f.Duration("cache-max-age", 0, "Purge cache entries older than this; 0 disables")
	f.String("cache-max-size", "", "Evict least recently used entries above this size, e.g. 200MB")
	f.Int("cache-max-entries", 0, "Evict least recently used entries above this count; 0 disables")
	f.Bool("cache-clear", false, "Clear the cache directory before fetching")
	f.Bool("cache-strict-perms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	f.Bool("no-cache", false, "Ignore cached responses but still refresh the cache")
	return cmd
}
