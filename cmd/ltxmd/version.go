package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/ltxmd/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ltxmd %s (commit %s, built %s)\n",
				app.BuildVersion, app.BuildCommit, app.BuildDate)
			return err
		},
	}
}
