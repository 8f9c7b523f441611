package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/validation"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// OverlaySettings describes the floating button, in terminal cells.
type OverlaySettings struct {
	Width          int
	Height         int
	StartX         int
	StartY         int
	TapThreshold   float64
	TapMaxDuration time.Duration
	SnapDuration   time.Duration
	SnapPolicy     string
	Label          string
}

// Config holds the application configuration
type Config struct {
	Paths    *Paths
	Overlay  OverlaySettings
	UI       UISettings
	KeyMap   KeyMapConfig
	LogLevel string
}

func defaultOverlaySettings() OverlaySettings {
	return OverlaySettings{
		Width:          7,
		Height:         3,
		StartX:         0,
		StartY:         1,
		TapThreshold:   1,
		TapMaxDuration: 350 * time.Millisecond,
		SnapDuration:   180 * time.Millisecond,
		SnapPolicy:     overlay.SnapTwoEdge.String(),
		Label:          "◉",
	}
}

// DefaultConfig returns the default configuration rooted at ~/.assistive.
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultConfigAt(paths), nil
}

func defaultConfigAt(paths *Paths) *Config {
	return &Config{
		Paths:    paths,
		Overlay:  defaultOverlaySettings(),
		UI:       defaultUISettings(),
		KeyMap:   KeyMapConfig{},
		LogLevel: "info",
	}
}

// Load loads config overrides from ~/.assistive/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFrom reads paths.ConfigPath over the defaults. A missing file is not
// an error.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := defaultConfigAt(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var user struct {
		Overlay struct {
			Width            *int     `json:"width"`
			Height           *int     `json:"height"`
			StartX           *int     `json:"start_x"`
			StartY           *int     `json:"start_y"`
			TapThreshold     *float64 `json:"tap_threshold"`
			TapMaxDurationMs *int     `json:"tap_max_duration_ms"`
			SnapDurationMs   *int     `json:"snap_duration_ms"`
			SnapPolicy       *string  `json:"snap_policy"`
			Label            *string  `json:"label"`
		} `json:"overlay"`
		KeyMap   KeyMapConfig `json:"keymap,omitempty"`
		LogLevel *string      `json:"log_level"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}

	o := &cfg.Overlay
	if v := user.Overlay.Width; v != nil {
		o.Width = *v
	}
	if v := user.Overlay.Height; v != nil {
		o.Height = *v
	}
	if v := user.Overlay.StartX; v != nil {
		o.StartX = *v
	}
	if v := user.Overlay.StartY; v != nil {
		o.StartY = *v
	}
	if v := user.Overlay.TapThreshold; v != nil {
		o.TapThreshold = *v
	}
	if v := user.Overlay.TapMaxDurationMs; v != nil {
		o.TapMaxDuration = time.Duration(*v) * time.Millisecond
	}
	if v := user.Overlay.SnapDurationMs; v != nil {
		o.SnapDuration = time.Duration(*v) * time.Millisecond
	}
	if v := user.Overlay.SnapPolicy; v != nil {
		o.SnapPolicy = *v
	}
	if v := user.Overlay.Label; v != nil && *v != "" {
		o.Label = *v
	}
	if len(user.KeyMap.Bindings) > 0 {
		cfg.KeyMap = user.KeyMap
	}
	if user.LogLevel != nil {
		cfg.LogLevel = *user.LogLevel
	}
	cfg.UI = loadUISettings(paths.ConfigPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", paths.ConfigPath, err)
	}
	return cfg, nil
}

// Validate checks every user-settable value. All problems are reported.
func (c *Config) Validate() error {
	o := c.Overlay
	errs := []error{
		validation.ValidateDimension("width", o.Width),
		validation.ValidateDimension("height", o.Height),
		validation.ValidateStart(o.StartX, o.StartY),
		validation.ValidateTapThreshold(o.TapThreshold),
		validation.ValidateDuration("tap_max_duration_ms", o.TapMaxDuration),
		validation.ValidateDuration("snap_duration_ms", o.SnapDuration),
		validation.ValidateSnapPolicy(o.SnapPolicy),
		validation.ValidateLabel(o.Label),
	}

	actions := make([]string, 0, len(c.KeyMap.Bindings))
	for action := range c.KeyMap.Bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		errs = append(errs, validation.ValidateKeys(action, c.KeyMap.Bindings[action]))
	}
	return errors.Join(errs...)
}

// DefaultStart is the configured starting position of the button.
func (s OverlaySettings) DefaultStart() image.Point {
	return image.Pt(s.StartX, s.StartY)
}

// ControllerConfig builds the controller configuration for a button placed
// at start inside viewport.
func (s OverlaySettings) ControllerConfig(start image.Point, viewport overlay.Viewport) (overlay.Config, error) {
	policy, err := overlay.ParseSnapPolicy(s.SnapPolicy)
	if err != nil {
		return overlay.Config{}, err
	}
	return overlay.Config{
		Start:          start,
		Size:           image.Pt(s.Width, s.Height),
		Viewport:       viewport,
		TapThreshold:   s.TapThreshold,
		TapMaxDuration: s.TapMaxDuration,
		SnapDuration:   s.SnapDuration,
		SnapPolicy:     policy,
	}, nil
}
