package replay

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/overlay"
)

// frameInterval matches the TUI's animation tick.
const frameInterval = 16 * time.Millisecond

// Event is something the controller reported during a run.
type Event struct {
	At       time.Duration
	Kind     string // "position" or "activated"
	Position image.Point
}

// Result is the outcome of a replay.
type Result struct {
	Name        string
	Lines       []string
	Events      []Event
	Final       image.Point
	Edge        string
	Activations int
	// Violations lists every frame where the button left the viewport.
	Violations []string
}

type runner struct {
	ctrl   *overlay.Controller
	epoch  time.Time
	now    time.Duration
	result *Result
}

// Run plays the script against a new controller built from base plus the
// script's overrides. Animation is stepped at the TUI frame rate between
// steps and settled after the last one.
func Run(s *Script, base config.OverlaySettings) (*Result, error) {
	cfg, err := s.ControllerConfig(base)
	if err != nil {
		return nil, err
	}
	r := &runner{
		epoch:  time.Unix(0, 0),
		result: &Result{Name: s.Name},
	}
	r.ctrl, err = overlay.New(cfg, overlay.ListenerFuncs{
		OnPositionChanged: func(pos image.Point) {
			r.result.Events = append(r.result.Events, Event{At: r.now, Kind: "position", Position: pos})
			r.linef("  -> position %d,%d", pos.X, pos.Y)
		},
		OnActivated: func() {
			r.result.Activations++
			r.result.Events = append(r.result.Events, Event{At: r.now, Kind: "activated", Position: r.ctrl.Position()})
			r.linef("  -> activated")
		},
	})
	if err != nil {
		return nil, err
	}
	r.check("start")

	for _, step := range s.Steps {
		at := time.Duration(step.At) * time.Millisecond
		r.advance(at)
		r.apply(step)
	}
	r.settle()

	r.result.Final = r.ctrl.Position()
	if snap, ok := r.ctrl.LastSnap(); ok {
		r.result.Edge = snap.Edge.String()
	}
	return r.result, nil
}

func (r *runner) clock() time.Time { return r.epoch.Add(r.now) }

func (r *runner) linef(format string, args ...any) {
	r.result.Lines = append(r.result.Lines, fmt.Sprintf("%6dms ", r.now.Milliseconds())+fmt.Sprintf(format, args...))
}

// advance runs animation frames up to at.
func (r *runner) advance(at time.Duration) {
	for r.ctrl.Animating() && r.now+frameInterval <= at {
		r.now += frameInterval
		r.ctrl.Step(r.clock())
		r.check("frame")
	}
	if at > r.now {
		r.now = at
		if r.ctrl.Animating() {
			r.ctrl.Step(r.clock())
			r.check("frame")
		}
	}
}

func (r *runner) settle() {
	for r.ctrl.Animating() {
		r.now += frameInterval
		r.ctrl.Step(r.clock())
		r.check("frame")
	}
}

func (r *runner) apply(step Step) {
	kind := step.Kind()
	var err error
	switch kind {
	case "down":
		r.ctrl.PointerDown(r.event(*step.Down))
	case "move":
		err = r.ctrl.PointerMove(r.event(*step.Move))
	case "up":
		err = r.ctrl.PointerUp(r.event(*step.Up))
	case "cancel":
		r.ctrl.PointerCancel()
	case "viewport":
		r.ctrl.ViewportChanged(overlay.Viewport{Width: step.Viewport.Width, Height: step.Viewport.Height})
	}

	pos := r.ctrl.Position()
	line := fmt.Sprintf("%-8s %-10s pos=%d,%d %s", kind, describe(step), pos.X, pos.Y, r.ctrl.State())
	if err != nil {
		line += " ignored"
	}
	r.linef("%s", line)
	r.check(kind)
}

func (r *runner) event(p Point) overlay.PointerEvent {
	return overlay.PointerEvent{Point: p.image(), Time: r.clock()}
}

func (r *runner) check(what string) {
	bounds := r.ctrl.Bounds()
	if !bounds.In(r.ctrl.Viewport().Rect()) {
		r.result.Violations = append(r.result.Violations,
			fmt.Sprintf("%dms %s: button %v outside %dx%d", r.now.Milliseconds(), what, bounds,
				r.ctrl.Viewport().Width, r.ctrl.Viewport().Height))
	}
}

func describe(step Step) string {
	switch {
	case step.Down != nil:
		return fmt.Sprintf("%d,%d", step.Down.X, step.Down.Y)
	case step.Move != nil:
		return fmt.Sprintf("%d,%d", step.Move.X, step.Move.Y)
	case step.Up != nil:
		return fmt.Sprintf("%d,%d", step.Up.X, step.Up.Y)
	case step.Viewport != nil:
		return fmt.Sprintf("%dx%d", step.Viewport.Width, step.Viewport.Height)
	default:
		return ""
	}
}

// ErrCheckFailed is returned by Check when the run broke an expectation.
var ErrCheckFailed = errors.New("replay check failed")

// Check verifies containment and the script's expectations.
func (res *Result) Check(expect *Expect) error {
	var problems []string
	problems = append(problems, res.Violations...)
	if expect != nil {
		if p := expect.Position; p != nil && p.image() != res.Final {
			problems = append(problems, fmt.Sprintf("final position %d,%d, want %d,%d", res.Final.X, res.Final.Y, p.X, p.Y))
		}
		if n := expect.Activations; n != nil && *n != res.Activations {
			problems = append(problems, fmt.Sprintf("%d activations, want %d", res.Activations, *n))
		}
		if expect.Edge != "" && !strings.EqualFold(expect.Edge, res.Edge) {
			problems = append(problems, fmt.Sprintf("snapped to %q, want %q", res.Edge, expect.Edge))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n  %s", ErrCheckFailed, strings.Join(problems, "\n  "))
}

// WriteTranscript prints the run's lines and a summary.
func (res *Result) WriteTranscript(w io.Writer) error {
	if res.Name != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", res.Name); err != nil {
			return err
		}
	}
	for _, line := range res.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	edge := res.Edge
	if edge == "" {
		edge = "none"
	}
	_, err := fmt.Fprintf(w, "final=%d,%d edge=%s activations=%d events=%d\n",
		res.Final.X, res.Final.Y, edge, res.Activations, len(res.Events))
	return err
}
