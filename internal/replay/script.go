package replay

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/overlay"
)

// Point is a cell coordinate. Scripts may write it as [x, y] or {x: .., y: ..}.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) image() image.Point { return image.Pt(p.X, p.Y) }

// UnmarshalYAML accepts the flow sequence form as well as a mapping.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var xy []int
		if err := node.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 values, got %d", node.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain Point
	return node.Decode((*plain)(p))
}

// Size is a width and height in cells.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Step is one scripted input. Exactly one action field is set.
type Step struct {
	At       int    `yaml:"at"`
	Down     *Point `yaml:"down,omitempty"`
	Move     *Point `yaml:"move,omitempty"`
	Up       *Point `yaml:"up,omitempty"`
	Cancel   bool   `yaml:"cancel,omitempty"`
	Viewport *Size  `yaml:"viewport,omitempty"`
	Wait     bool   `yaml:"wait,omitempty"`
}

// Kind names the step's action.
func (s Step) Kind() string {
	switch {
	case s.Down != nil:
		return "down"
	case s.Move != nil:
		return "move"
	case s.Up != nil:
		return "up"
	case s.Cancel:
		return "cancel"
	case s.Viewport != nil:
		return "viewport"
	case s.Wait:
		return "wait"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Down != nil, s.Move != nil, s.Up != nil, s.Cancel, s.Viewport != nil, s.Wait} {
		if set {
			n++
		}
	}
	return n
}

// Expect holds optional assertions checked after the run.
type Expect struct {
	Position    *Point `yaml:"position,omitempty"`
	Activations *int   `yaml:"activations,omitempty"`
	Edge        string `yaml:"edge,omitempty"`
}

// Script is a headless gesture sequence run against a fresh controller.
// Unset overlay fields fall back to the configured button.
type Script struct {
	Name             string   `yaml:"name"`
	Viewport         Size     `yaml:"viewport"`
	Size             *Size    `yaml:"size,omitempty"`
	Start            *Point   `yaml:"start,omitempty"`
	TapThreshold     *float64 `yaml:"tap_threshold,omitempty"`
	TapMaxDurationMs *int     `yaml:"tap_max_duration_ms,omitempty"`
	SnapDurationMs   *int     `yaml:"snap_duration_ms,omitempty"`
	SnapPolicy       string   `yaml:"snap_policy,omitempty"`
	Steps            []Step   `yaml:"steps"`
	Expect           *Expect  `yaml:"expect,omitempty"`
}

// ErrInvalidScript is wrapped by every script validation failure.
var ErrInvalidScript = errors.New("invalid replay script")

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) validate() error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d must be positive", ErrInvalidScript, s.Viewport.Width, s.Viewport.Height)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	last := 0
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("%w: step %d has %d actions, want 1", ErrInvalidScript, i+1, n)
		}
		if v := step.Viewport; v != nil && (v.Width <= 0 || v.Height <= 0) {
			return fmt.Errorf("%w: step %d viewport %dx%d must be positive", ErrInvalidScript, i+1, v.Width, v.Height)
		}
		if step.At < last {
			return fmt.Errorf("%w: step %d at %dms is before %dms", ErrInvalidScript, i+1, step.At, last)
		}
		last = step.At
	}
	return nil
}

// ControllerConfig overlays the script's settings on base.
func (s *Script) ControllerConfig(base config.OverlaySettings) (overlay.Config, error) {
	settings := base
	if s.Size != nil {
		settings.Width, settings.Height = s.Size.Width, s.Size.Height
	}
	if s.Start != nil {
		settings.StartX, settings.StartY = s.Start.X, s.Start.Y
	}
	if s.TapThreshold != nil {
		settings.TapThreshold = *s.TapThreshold
	}
	if s.TapMaxDurationMs != nil {
		settings.TapMaxDuration = time.Duration(*s.TapMaxDurationMs) * time.Millisecond
	}
	if s.SnapDurationMs != nil {
		settings.SnapDuration = time.Duration(*s.SnapDurationMs) * time.Millisecond
	}
	if s.SnapPolicy != "" {
		settings.SnapPolicy = s.SnapPolicy
	}
	viewport := overlay.Viewport{Width: s.Viewport.Width, Height: s.Viewport.Height}
	return settings.ControllerConfig(settings.DefaultStart(), viewport)
}
