package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func buildVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.json {
				PrintJSON(opts.stdout, "version", map[string]string{
					"version": opts.info.Version,
					"commit":  opts.info.Commit,
					"date":    opts.info.Date,
				}, opts.info.Version)
				return nil
			}
			fmt.Fprintf(opts.stdout, "assistive %s (commit: %s, built: %s)\n", opts.info.Version, opts.info.Commit, opts.info.Date)
			return nil
		},
	}
}
