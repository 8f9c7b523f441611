package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/validation"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if cfg.Paths == nil {
		t.Fatal("DefaultConfig() returned nil Paths")
	}
	o := cfg.Overlay
	if o.Width <= 0 || o.Height <= 0 {
		t.Fatalf("DefaultConfig() returned invalid overlay size: %+v", o)
	}
	if o.TapMaxDuration <= 0 || o.Label == "" {
		t.Fatalf("DefaultConfig() returned incomplete overlay settings: %+v", o)
	}
	if _, err := overlay.ParseSnapPolicy(o.SnapPolicy); err != nil {
		t.Fatalf("default snap policy %q does not parse: %v", o.SnapPolicy, err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	paths := PathsAt(t.TempDir())
	cfg, err := LoadFrom(paths)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Overlay != defaultOverlaySettings() {
		t.Fatalf("expected default overlay settings, got %+v", cfg.Overlay)
	}
}

func TestLoadFromAppliesOverrides(t *testing.T) {
	paths := PathsAt(t.TempDir())
	writeConfig(t, paths, `{
  "overlay": {
    "width": 9,
    "tap_threshold": 2.5,
    "tap_max_duration_ms": 500,
    "snap_duration_ms": 0,
    "snap_policy": "four-edge",
    "label": "A"
  },
  "keymap": {"bindings": {"quit": ["x"]}},
  "log_level": "debug",
  "ui": {"theme": "light"}
}`)

	cfg, err := LoadFrom(paths)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	o := cfg.Overlay
	if o.Width != 9 || o.Height != defaultOverlaySettings().Height {
		t.Fatalf("expected width override only, got %dx%d", o.Width, o.Height)
	}
	if o.TapThreshold != 2.5 || o.TapMaxDuration != 500*time.Millisecond || o.SnapDuration != 0 {
		t.Fatalf("unexpected thresholds: %+v", o)
	}
	if o.SnapPolicy != "four-edge" || o.Label != "A" {
		t.Fatalf("unexpected policy/label: %+v", o)
	}
	if keys, ok := cfg.KeyMap.BindingFor("quit"); !ok || len(keys) != 1 || keys[0] != "x" {
		t.Fatalf("expected quit binding override, got %v", keys)
	}
	if cfg.LogLevel != "debug" || cfg.UI.Theme != "light" {
		t.Fatalf("expected log level and theme overrides, got %q %q", cfg.LogLevel, cfg.UI.Theme)
	}
}

func TestLoadFromRejectsMalformedJSON(t *testing.T) {
	paths := PathsAt(t.TempDir())
	writeConfig(t, paths, `{"overlay": {"width": "wide"}}`)

	if _, err := LoadFrom(paths); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	paths := PathsAt(t.TempDir())
	writeConfig(t, paths, `{
  "overlay": {"width": 0, "snap_policy": "spiral", "snap_duration_ms": -5},
  "keymap": {"bindings": {"quit": []}}
}`)

	_, err := LoadFrom(paths)
	if err == nil {
		t.Fatal("expected invalid values to be rejected")
	}
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	for _, field := range []string{"width", "snap_policy", "snap_duration_ms", "keymap.quit"} {
		if !strings.Contains(err.Error(), field+":") {
			t.Errorf("expected %s to be reported in %q", field, err)
		}
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := defaultConfigAt(PathsAt(t.TempDir())).Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestControllerConfig(t *testing.T) {
	settings := defaultOverlaySettings()
	settings.SnapPolicy = "four-edge"

	cfg, err := settings.ControllerConfig(image.Pt(3, 4), overlay.Viewport{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("ControllerConfig() error = %v", err)
	}
	if cfg.Size != image.Pt(settings.Width, settings.Height) || cfg.Start != image.Pt(3, 4) {
		t.Fatalf("unexpected geometry: %+v", cfg)
	}
	if cfg.SnapPolicy != overlay.SnapFourEdge {
		t.Fatalf("expected four-edge policy, got %v", cfg.SnapPolicy)
	}
	if _, err := overlay.New(cfg, nil); err != nil {
		t.Fatalf("default settings should build a controller: %v", err)
	}

	settings.SnapPolicy = "spiral"
	if _, err := settings.ControllerConfig(image.Pt(0, 0), overlay.Viewport{Width: 80, Height: 24}); err == nil {
		t.Fatal("expected unknown snap policy to fail")
	}
}

func TestControllerConfigOversizedOverlayFailsConstruction(t *testing.T) {
	settings := defaultOverlaySettings()
	settings.Width = 200

	cfg, err := settings.ControllerConfig(image.Pt(0, 0), overlay.Viewport{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("ControllerConfig() error = %v", err)
	}
	if _, err := overlay.New(cfg, nil); !errors.Is(err, overlay.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestKeyMapBindingForFallsBackToLowercase(t *testing.T) {
	k := KeyMapConfig{Bindings: map[string][]string{"help": {"h"}}}
	if keys, ok := k.BindingFor("HELP"); !ok || keys[0] != "h" {
		t.Fatalf("expected lowercase fallback, got %v %v", keys, ok)
	}
	if _, ok := (KeyMapConfig{}).BindingFor("help"); ok {
		t.Fatal("expected empty keymap to have no bindings")
	}
}

func writeConfig(t *testing.T, paths *Paths, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(paths.ConfigPath), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(paths.ConfigPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
