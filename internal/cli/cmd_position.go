package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/assistive/internal/config"
)

type positionResult struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Saved bool   `json:"saved"`
	Path  string `json:"path"`
	Reset bool   `json:"reset,omitempty"`
}

func buildPositionCommand(opts *options) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Show the saved button position",
		Long:  "Show the button position restored at startup. With --reset, forget it so the button starts at its configured default.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return opts.fail("position", "config_invalid", ExitInternalError, err)
			}
			store := config.NewPositionStore(cfg.Paths.PositionPath)

			if reset {
				if err := store.Reset(); err != nil {
					return opts.fail("position", "reset_failed", ExitInternalError, err)
				}
			}

			res := positionResult{Path: store.Path(), Reset: reset}
			pos, saved, err := store.Load()
			if err != nil {
				return opts.fail("position", "position_invalid", ExitInternalError, err)
			}
			if !saved {
				pos = cfg.Overlay.DefaultStart()
			}
			res.X, res.Y, res.Saved = pos.X, pos.Y, saved

			if opts.json {
				PrintJSON(opts.stdout, "position", res, opts.info.Version)
				return nil
			}
			source := "default"
			if saved {
				source = "saved"
			}
			if reset {
				fmt.Fprintln(opts.stdout, "Position reset")
			}
			fmt.Fprintf(opts.stdout, "%d,%d (%s)\n", res.X, res.Y, source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the saved position")
	return cmd
}
