package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperifyio/ltxmd/internal/app"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input.html> [output.md]",
		Short: "Convert a saved LaTeXML HTML file to Markdown",
		Long: `Convert a saved LaTeXML HTML file to Markdown.

The output defaults to the input path with its extension replaced by .md.`,
		Args: wrapArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.InputPath = args[0]
			if len(args) > 1 {
				cfg.OutputPath = args[1]
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.ConvertFile(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.Stats {
				printStats(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
}
