package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/assistive/internal/app"
	"github.com/andyrewlee/assistive/internal/cli"
	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/logging"
	"github.com/andyrewlee/assistive/internal/safego"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: version, Commit: commit, Date: date}
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-v") {
		fmt.Printf("assistive %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	sub := cli.Subcommand(args)
	if sub != "" && sub != "tui" {
		os.Exit(cli.Run(args, buildInfo()))
	}

	if !shouldLaunchTUI(term.IsTerminal(os.Stdin.Fd()), term.IsTerminal(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "assistive needs an interactive terminal; see `assistive help` for headless commands")
		os.Exit(cli.ExitUsage)
	}
	runTUI(homeFlag(args))
}

func shouldLaunchTUI(stdinIsTTY, stdoutIsTTY bool) bool {
	return stdinIsTTY && stdoutIsTTY
}

// homeFlag extracts --home for the TUI, which does not go through cobra.
func homeFlag(args []string) string {
	for i, arg := range args {
		if arg == "--home" && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, "--home="); ok {
			return value
		}
	}
	return ""
}

func loadConfig(home string) (*config.Config, error) {
	if home != "" {
		return config.LoadFrom(config.PathsAt(home))
	}
	return config.Load()
}

func runTUI(home string) {
	cfg, err := loadConfig(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", cfg.Paths.Home, err)
		os.Exit(1)
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if err := logging.Initialize(cfg.Paths.LogDir, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()
	if !ok {
		logging.Warn("Unknown log level %q; using info", cfg.LogLevel)
	}

	logging.Info("Starting assistive %s", version)

	a, err := app.New(cfg)
	if err != nil {
		logging.Error("Failed to initialize app: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		os.Exit(1)
	}
	startPprof()

	p := tea.NewProgram(
		a,
		tea.WithFilter(mouseEventFilter),
	)
	a.SetMsgSender(p.Send)

	if _, err := p.Run(); err != nil {
		logging.Error("App exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		a.Shutdown()
		os.Exit(1)
	}
	a.Shutdown()

	logging.Info("assistive shutdown complete")
}

var (
	lastMouseMotionEvent   time.Time
	lastMouseWheelEvent    time.Time
	lastMouseX, lastMouseY int
)

// mouseEventFilter drops repeated motion reports for the same cell and
// throttles the wheel. Motion to a new cell always passes so drags track
// the pointer exactly.
func mouseEventFilter(m tea.Model, msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseMotionMsg:
		if msg.X != lastMouseX || msg.Y != lastMouseY {
			lastMouseX = msg.X
			lastMouseY = msg.Y
			lastMouseMotionEvent = time.Now()
			return msg
		}
		now := time.Now()
		if now.Sub(lastMouseMotionEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseMotionEvent = now
	case tea.MouseWheelMsg:
		now := time.Now()
		if now.Sub(lastMouseWheelEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseWheelEvent = now
	}
	return msg
}

func startPprof() {
	raw := strings.TrimSpace(os.Getenv("ASSISTIVE_PPROF"))
	if raw == "" {
		return
	}
	switch strings.ToLower(raw) {
	case "0", "false", "no":
		return
	}

	addr := raw
	if raw == "1" || strings.ToLower(raw) == "true" {
		addr = "127.0.0.1:6060"
	} else if _, err := strconv.Atoi(raw); err == nil {
		addr = "127.0.0.1:" + raw
	}

	safego.Go("pprof", func() {
		logging.Info("pprof listening on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Warn("pprof server stopped: %v", err)
		}
	})
}
