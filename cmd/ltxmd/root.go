package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/ltxmd/internal/app"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ltxmd",
		Short: "Convert arXiv LaTeXML HTML papers to Markdown",
		Long: `ltxmd converts the LaTeXML HTML rendering of arXiv papers into Markdown
with $...$ math, pipe tables and fenced algorithm listings.

Examples:
  # Convert a saved page, writing paper.md next to it
  ltxmd convert paper.html

  # Fetch and convert papers straight from arXiv
  ltxmd fetch 2502.04307 hep-th/9901001 -o papers/`,
		Args:          wrapArgs(cobra.ArbitraryArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Verbose logging, including per-stage diagnostics")
	pf.BoolP("quiet", "q", false, "Only log warnings and errors")
	pf.String("config", "", "Path to a YAML or JSON config file")
	pf.String("env-file", ".env", "Dotenv file loaded before reading the environment")
	pf.Bool("stats", false, "Print per-stage sizes and output statistics")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.AddCommand(newConvertCmd(), newFetchCmd(), newVersionCmd())
	return root
}

// wrapArgs marks argument validation failures as usage errors.
func wrapArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

// loadConfig layers defaults, the config file, the environment and finally
// the flags the user actually set.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if err := app.LoadEnvFiles(envFile); err != nil {
		return app.Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := app.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("%w: config file %s not found", app.ErrInvalidConfig, path)
			}
			return cfg, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}

	quiet, _ := flags.GetBool("quiet")
	setLogLevel(cfg.Verbose, quiet)
	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg. Flags a command does not
// define are skipped.
func applyFlags(cmd *cobra.Command, cfg *app.Config) error {
	flags := cmd.Flags()
	set := func(name string) bool { return flags.Changed(name) }

	if set("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if set("stats") {
		cfg.Stats, _ = flags.GetBool("stats")
	}
	if set("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if set("out-dir") {
		cfg.OutputDir, _ = flags.GetString("out-dir")
	}
	if set("save-html") {
		cfg.SaveHTML, _ = flags.GetBool("save-html")
	}
	if set("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if set("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if set("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if set("attempts") {
		cfg.MaxAttempts, _ = flags.GetInt("attempts")
	}
	if set("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if set("no-ssl-verify") {
		off, _ := flags.GetBool("no-ssl-verify")
		cfg.SSLVerify = !off
	}
	if set("no-insecure-fallback") {
		off, _ := flags.GetBool("no-insecure-fallback")
		cfg.InsecureFallback = !off
	}
	if set("respect-robots") {
		cfg.RespectRobots, _ = flags.GetBool("respect-robots")
	}
	if set("cache-dir") {
		cfg.CacheDir, _ = flags.GetString("cache-dir")
	}
	if set("cache-max-age") {
		cfg.CacheMaxAge, _ = flags.GetDuration("cache-max-age")
	}
	if set("cache-max-size") {
		s, _ := flags.GetString("cache-max-size")
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("%w: --cache-max-size %q: %v", errUsage, s, err)
		}
		cfg.CacheMaxBytes = int64(n)
	}
	if set("cache-max-entries") {
		cfg.CacheMaxEntries, _ = flags.GetInt("cache-max-entries")
	}
	if set("cache-clear") {
		cfg.CacheClear, _ = flags.GetBool("cache-clear")
	}
	if set("cache-strict-perms") {
		cfg.CacheStrictPerms, _ = flags.GetBool("cache-strict-perms")
	}
	if set("no-cache") {
		cfg.BypassCache, _ = flags.GetBool("no-cache")
	}
	return nil
}

// closeApp enforces cache limits; failing to do so never fails the run.
func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		log.Warn().Err(err).Msg("cache cleanup failed")
	}
}

func setLogLevel(verbose, quiet bool) {
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// printStats writes the per-stage sizes and the output summary.
func printStats(w io.Writer, res app.Result) {
	name := res.OutputPath
	if res.ID != "" {
		name = res.ID + " -> " + name
	}
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "Loaded %s characters\n", humanize.Comma(int64(res.InputChars)))
	for i, st := range res.Stages {
		fmt.Fprintf(w, "  %d. %s: %s chars, %s tags\n", i+1, st.Name, humanize.Comma(int64(st.Chars)), humanize.Comma(int64(st.Tags)))
	}
	fmt.Fprintf(w, "Final: %s characters\n", humanize.Comma(int64(res.Summary.Chars)))
	fmt.Fprintf(w, "Stats: %d sections, %d subsections, %d math expressions\n",
		res.Summary.Sections, res.Summary.Subsections, res.Summary.Math)
}
