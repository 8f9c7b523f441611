package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/assistive/internal/replay"
)

type replayResult struct {
	Name        string        `json:"name,omitempty"`
	Final       [2]int        `json:"final"`
	Edge        string        `json:"edge,omitempty"`
	Activations int           `json:"activations"`
	Events      []replayEvent `json:"events"`
	Violations  []string      `json:"violations,omitempty"`
	Transcript  []string      `json:"transcript"`
}

type replayEvent struct {
	AtMs     int64  `json:"at_ms"`
	Kind     string `json:"kind"`
	Position [2]int `json:"position"`
}

func buildReplayCommand(opts *options) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a scripted gesture against the button controller",
		Long: `Replay a YAML gesture script headlessly and print what the controller did.

Unset overlay fields in the script fall back to config.json. With --check,
exit non-zero if the button ever left the viewport or the script's expect
block does not match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := replay.LoadFile(args[0])
			if err != nil {
				switch {
				case errors.Is(err, fs.ErrNotExist):
					return opts.fail("replay", "not_found", ExitNotFound, err)
				default:
					return opts.fail("replay", "invalid_script", ExitUsage, err)
				}
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return opts.fail("replay", "config_invalid", ExitInternalError, err)
			}

			res, err := replay.Run(script, cfg.Overlay)
			if err != nil {
				return opts.fail("replay", "invalid_script", ExitUsage, err)
			}

			var checkErr error
			if check {
				checkErr = res.Check(script.Expect)
			}

			if opts.json {
				if checkErr != nil {
					ReturnError(opts.stdout, "replay", "check_failed", checkErr.Error(), toReplayResult(res), opts.info.Version)
					return exitError{code: ExitCheckFailed}
				}
				PrintJSON(opts.stdout, "replay", toReplayResult(res), opts.info.Version)
				return nil
			}
			if err := res.WriteTranscript(opts.stdout); err != nil {
				return err
			}
			if checkErr != nil {
				return opts.fail("replay", "check_failed", ExitCheckFailed, checkErr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "verify containment and the script's expectations")
	return cmd
}

func toReplayResult(res *replay.Result) replayResult {
	out := replayResult{
		Name:        res.Name,
		Final:       [2]int{res.Final.X, res.Final.Y},
		Edge:        res.Edge,
		Activations: res.Activations,
		Events:      make([]replayEvent, 0, len(res.Events)),
		Violations:  res.Violations,
		Transcript:  res.Lines,
	}
	for _, ev := range res.Events {
		out.Events = append(out.Events, replayEvent{
			AtMs:     ev.At.Milliseconds(),
			Kind:     ev.Kind,
			Position: [2]int{ev.Position.X, ev.Position.Y},
		})
	}
	return out
}
