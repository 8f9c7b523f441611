package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andyrewlee/assistive/internal/config"
)

var testInfo = BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-02"}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, testInfo, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSubcommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: ""},
		{name: "plain", args: []string{"replay", "x.yaml"}, want: "replay"},
		{name: "skips json flag", args: []string{"--json", "position"}, want: "position"},
		{name: "skips home value", args: []string{"--home", "/tmp/x", "version"}, want: "version"},
		{name: "only flags", args: []string{"--json"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subcommand(tt.args); got != tt.want {
				t.Errorf("Subcommand(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	if code != ExitOK || out != "assistive 1.2.3 (commit: abc123, built: 2026-01-02)\n" {
		t.Fatalf("unexpected version output (%d): %q", code, out)
	}

	code, out, _ = runCLI(t, "--json", "version")
	var env Envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if code != ExitOK || !env.OK || env.Command != "version" || env.Meta.AssistiveVersion != "1.2.3" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestPositionDefaultSavedAndReset(t *testing.T) {
	home := t.TempDir()

	code, out, _ := runCLI(t, "--home", home, "position")
	if code != ExitOK || out != "0,1 (default)\n" {
		t.Fatalf("unexpected default output (%d): %q", code, out)
	}

	store := config.NewPositionStore(config.PathsAt(home).PositionPath)
	if err := store.Save(image.Pt(12, 7)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	code, out, _ = runCLI(t, "--home", home, "position")
	if code != ExitOK || out != "12,7 (saved)\n" {
		t.Fatalf("unexpected saved output (%d): %q", code, out)
	}

	code, out, _ = runCLI(t, "--home", home, "--json", "position", "--reset")
	if code != ExitOK {
		t.Fatalf("reset failed with %d", code)
	}
	var env struct {
		OK   bool           `json:"ok"`
		Data positionResult `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !env.OK || env.Data.Saved || !env.Data.Reset || env.Data.X != 0 || env.Data.Y != 1 {
		t.Fatalf("unexpected reset result %+v", env.Data)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected position file removed, stat err=%v", err)
	}
}

func TestPositionBadConfig(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	code, _, errOut := runCLI(t, "--home", home, "position")
	if code != ExitInternalError || !strings.HasPrefix(errOut, "Error: ") {
		t.Fatalf("expected config error, got %d %q", code, errOut)
	}
}

const dragScript = `name: drag right
viewport: {width: 80, height: 24}
steps:
  - {at: 0, down: [2, 2]}
  - {at: 30, move: [45, 6]}
  - {at: 400, up: [45, 6]}
expect:
  position: [73, 5]
  edge: right
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestReplayTranscriptAndCheck(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, dragScript)

	code, out, errOut := runCLI(t, "--home", home, "replay", path, "--check")
	if code != ExitOK {
		t.Fatalf("replay failed (%d): %s", code, errOut)
	}
	if !strings.Contains(out, "# drag right") || !strings.HasSuffix(out, "final=73,5 edge=right activations=0 events=2\n") {
		t.Fatalf("unexpected transcript:\n%s", out)
	}

	bad := writeScript(t, strings.Replace(dragScript, "edge: right", "edge: left", 1))
	code, _, errOut = runCLI(t, "--home", home, "replay", bad, "--check")
	if code != ExitCheckFailed || !strings.Contains(errOut, `snapped to "right", want "left"`) {
		t.Fatalf("expected check failure, got %d %q", code, errOut)
	}

	code, out, _ = runCLI(t, "--home", home, "--json", "replay", bad, "--check")
	var env struct {
		OK    bool       `json:"ok"`
		Error *ErrorInfo `json:"error"`
		Data  any        `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if code != ExitCheckFailed || env.OK || env.Error == nil || env.Error.Code != "check_failed" {
		t.Fatalf("expected check_failed envelope, got %d %+v", code, env)
	}
	if !strings.Contains(env.Error.Message, `snapped to "right", want "left"`) {
		t.Fatalf("expected the mismatch in the error message, got %q", env.Error.Message)
	}
	details, ok := env.Error.Details.(map[string]any)
	if !ok || details["edge"] != "right" {
		t.Fatalf("expected the replay result as error details, got %#v", env.Error.Details)
	}

	// Without --check the mismatch is only reported in the transcript.
	if code, _, _ = runCLI(t, "--home", home, "replay", bad); code != ExitOK {
		t.Fatalf("expected success without --check, got %d", code)
	}
}

func TestReplayUsesConfiguredButton(t *testing.T) {
	home := t.TempDir()
	cfg := `{"overlay": {"width": 11, "snap_duration_ms": 0}}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path := writeScript(t, dragScript)

	code, out, _ := runCLI(t, "--home", home, "--json", "replay", path)
	if code != ExitOK {
		t.Fatalf("replay failed with %d", code)
	}
	var env struct {
		Data replayResult `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if env.Data.Final != [2]int{69, 5} || env.Data.Edge != "right" {
		t.Fatalf("expected 11-wide button at the right edge, got %+v", env.Data)
	}
}

func TestReplayErrors(t *testing.T) {
	home := t.TempDir()

	code, _, _ := runCLI(t, "--home", home, "replay", filepath.Join(home, "missing.yaml"))
	if code != ExitNotFound {
		t.Fatalf("expected not found, got %d", code)
	}

	path := writeScript(t, "viewport: {width: 0, height: 0}\nsteps: []\n")
	code, out, _ := runCLI(t, "--home", home, "--json", "replay", path)
	var env Envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if code != ExitUsage || env.OK || env.Error == nil || env.Error.Code != "invalid_script" {
		t.Fatalf("expected invalid_script envelope, got %d %+v", code, env)
	}

	path = writeScript(t, strings.Replace(dragScript, "  - {at: 400, up: [45, 6]}\n",
		"  - {at: 100, viewport: {width: 0, height: 24}}\n  - {at: 400, up: [45, 6]}\n", 1))
	code, out, _ = runCLI(t, "--home", home, "--json", "replay", path)
	env = Envelope{}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if code != ExitUsage || env.Error == nil || env.Error.Code != "invalid_script" {
		t.Fatalf("expected empty viewport step to be rejected, got %d %+v", code, env)
	}

	if code, _, _ := runCLI(t, "replay"); code != ExitUsage {
		t.Fatalf("expected usage error for missing argument, got %d", code)
	}
}
