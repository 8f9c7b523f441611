package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/assistive/internal/config"
)

// BuildInfo is stamped into the binary at release time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Commands lists the subcommands handled headlessly. Anything else starts
// the TUI.
var Commands = map[string]bool{
	"replay": true, "position": true, "version": true, "help": true,
}

// Subcommand returns the first argument that is not a global flag.
func Subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--home" {
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return ""
}

type options struct {
	info   BuildInfo
	home   string
	json   bool
	stdout io.Writer
	stderr io.Writer
}

// Run executes the headless CLI. It returns a process exit code.
func Run(args []string, info BuildInfo) int {
	return run(args, info, os.Stdout, os.Stderr)
}

func run(args []string, info BuildInfo, stdout, stderr io.Writer) int {
	opts := &options{info: info, stdout: stdout, stderr: stderr}
	root := buildRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		Errorf(stderr, "%v", err)
		return ExitUsage
	}
	return ExitOK
}

func buildRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "assistive",
		Short: "Floating always-on-top button for the terminal",
		Long: `assistive - A draggable button that floats above the terminal and snaps to an edge

Run without arguments to start the TUI.

Commands:
  assistive replay FILE    Replay a scripted gesture headlessly
  assistive position       Show or reset the saved button position
  assistive version        Print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = opts.info.Version
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.home, "home", "", "state directory (default ~/.assistive)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON envelopes")

	root.AddCommand(buildReplayCommand(opts))
	root.AddCommand(buildPositionCommand(opts))
	root.AddCommand(buildVersionCommand(opts))
	return root
}

func (o *options) paths() (*config.Paths, error) {
	if o.home != "" {
		return config.PathsAt(o.home), nil
	}
	return config.DefaultPaths()
}

func (o *options) loadConfig() (*config.Config, error) {
	paths, err := o.paths()
	if err != nil {
		return nil, err
	}
	return config.LoadFrom(paths)
}

// fail reports err in the selected output mode and exits with code.
func (o *options) fail(command, code string, exit int, err error) error {
	if o.json {
		ReturnError(o.stdout, command, code, err.Error(), nil, o.info.Version)
	} else {
		Errorf(o.stderr, "%v", err)
	}
	return exitError{code: exit}
}
