// Package overlay implements the interaction state machine behind a
// floating, draggable button: it tells taps from drags, keeps the button
// inside the viewport while it is dragged, and snaps it to an edge on
// release. Rendering is left to the host.
package overlay

import (
	"fmt"
	"image"
	"time"
)

// Defaults used when a host has no better values of its own.
const (
	DefaultTapThreshold   = 8.0
	DefaultTapMaxDuration = 300 * time.Millisecond
	DefaultSnapDuration   = 250 * time.Millisecond
)

// PointerEvent is a single pointer sample in viewport coordinates.
type PointerEvent struct {
	Point image.Point
	Time  time.Time
}

// Listener receives the controller's observable events. Calls happen
// synchronously on the goroutine driving the controller.
type Listener interface {
	PositionChanged(pos image.Point)
	Activated()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnPositionChanged func(pos image.Point)
	OnActivated       func()
}

func (f ListenerFuncs) PositionChanged(pos image.Point) {
	if f.OnPositionChanged != nil {
		f.OnPositionChanged(pos)
	}
}

func (f ListenerFuncs) Activated() {
	if f.OnActivated != nil {
		f.OnActivated()
	}
}

// Config is the construction-time configuration of a Controller.
type Config struct {
	Start    image.Point
	Size     image.Point
	Viewport Viewport

	// TapThreshold is the largest pointer displacement, in viewport units,
	// that still counts as a tap.
	TapThreshold float64
	// TapMaxDuration is the longest press that still counts as a tap.
	TapMaxDuration time.Duration
	// SnapDuration is the length of the snap animation. Zero snaps at once.
	SnapDuration time.Duration
	SnapPolicy   SnapPolicy
}

func (c Config) validate() error {
	if c.Size.X <= 0 || c.Size.Y <= 0 {
		return fmt.Errorf("overlay size %dx%d must be positive: %w", c.Size.X, c.Size.Y, ErrInvalidGeometry)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport %dx%d must be positive: %w", c.Viewport.Width, c.Viewport.Height, ErrInvalidGeometry)
	}
	if !c.Viewport.Fits(c.Size) {
		return fmt.Errorf("overlay size %dx%d exceeds viewport %dx%d: %w",
			c.Size.X, c.Size.Y, c.Viewport.Width, c.Viewport.Height, ErrInvalidGeometry)
	}
	if c.TapThreshold < 0 {
		return fmt.Errorf("tap threshold %v is negative: %w", c.TapThreshold, ErrInvalidGeometry)
	}
	if c.TapMaxDuration < 0 || c.SnapDuration < 0 {
		return fmt.Errorf("durations must not be negative: %w", ErrInvalidGeometry)
	}
	return nil
}

// State is the controller's interaction state.
type State int

const (
	StateIdle State = iota
	// StatePressed is an active press that has not moved past the tap threshold.
	StatePressed
	// StateDragging is an active press that moved past the tap threshold.
	StateDragging
	// StateSnapping is a released drag animating toward its snap target.
	StateSnapping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	case StateSnapping:
		return "snapping"
	default:
		return "unknown"
	}
}

// gestureSession lives between a press and its release or cancel.
type gestureSession struct {
	down         PointerEvent
	snapshot     image.Point
	displacement float64
}

// Controller owns the overlay position and turns pointer events into
// position changes and activations. It is not safe for concurrent use;
// drive it from the host's event loop.
type Controller struct {
	cfg      Config
	viewport Viewport
	pos      image.Point
	reported image.Point
	listener Listener

	session  *gestureSession
	anim     *snapAnimation
	lastSnap *SnapTarget
}

// New builds a controller with the overlay at cfg.Start, clamped into the
// viewport. A nil listener discards events.
func New(cfg Config, listener Listener) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}
	pos := clampPosition(cfg.Start, cfg.Size, cfg.Viewport)
	return &Controller{
		cfg:      cfg,
		viewport: cfg.Viewport,
		pos:      pos,
		reported: pos,
		listener: listener,
	}, nil
}

// Position returns the overlay's current top-left corner.
func (c *Controller) Position() image.Point { return c.pos }

// Size returns the overlay's fixed size.
func (c *Controller) Size() image.Point { return c.cfg.Size }

// Viewport returns the viewport the overlay is currently clamped to.
func (c *Controller) Viewport() Viewport { return c.viewport }

// Bounds returns the overlay rectangle in viewport coordinates.
func (c *Controller) Bounds() image.Rectangle {
	return image.Rectangle{Min: c.pos, Max: c.pos.Add(c.cfg.Size)}
}

// Contains reports whether p lies on the overlay.
func (c *Controller) Contains(p image.Point) bool {
	return p.In(c.Bounds())
}

// State returns the current interaction state.
func (c *Controller) State() State {
	switch {
	case c.session != nil && c.session.displacement > c.cfg.TapThreshold:
		return StateDragging
	case c.session != nil:
		return StatePressed
	case c.anim != nil:
		return StateSnapping
	default:
		return StateIdle
	}
}

// Active reports whether a gesture session is in progress.
func (c *Controller) Active() bool { return c.session != nil }

// Animating reports whether a snap animation is in flight.
func (c *Controller) Animating() bool { return c.anim != nil }

// LastSnap returns the target chosen by the most recent drag release.
func (c *Controller) LastSnap() (SnapTarget, bool) {
	if c.lastSnap == nil {
		return SnapTarget{}, false
	}
	return *c.lastSnap, true
}

// PointerDown starts a gesture session unless one is already active.
// An in-flight snap animation is abandoned and the session starts from
// wherever the animation had got to. That position is reported, since
// no frame of the animation was.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.session != nil {
		return
	}
	if c.anim != nil {
		c.anim = nil
		if c.pos != c.reported {
			c.emit(c.pos)
		}
	}
	c.session = &gestureSession{
		down:     ev,
		snapshot: c.pos,
	}
}

// PointerMove drags the overlay by the pointer's offset from the press
// point, clamped to the viewport.
func (c *Controller) PointerMove(ev PointerEvent) error {
	s := c.session
	if s == nil {
		return fmt.Errorf("pointer move at %v: %w", ev.Point, ErrIllegalState)
	}
	delta := ev.Point.Sub(s.down.Point)
	s.track(ev.Point)
	c.moveTo(clampPosition(s.snapshot.Add(delta), c.cfg.Size, c.viewport))
	return nil
}

// PointerUp ends the session and classifies it. A tap emits Activated and
// leaves the overlay in place; anything else snaps to an edge.
func (c *Controller) PointerUp(ev PointerEvent) error {
	s := c.session
	if s == nil {
		return fmt.Errorf("pointer up at %v: %w", ev.Point, ErrIllegalState)
	}
	c.session = nil
	s.track(ev.Point)

	if c.isTap(s, ev.Time) {
		c.listener.Activated()
		return nil
	}
	c.release(ev.Time)
	return nil
}

// PointerCancel abandons the session without classifying it. The overlay
// stays at its last clamped position.
func (c *Controller) PointerCancel() {
	c.session = nil
}

// ViewportChanged re-clamps the overlay into v. An in-flight animation is
// re-aimed at the same edge of the new viewport.
func (c *Controller) ViewportChanged(v Viewport) {
	c.viewport = v
	if c.anim != nil && c.lastSnap != nil {
		c.anim.from = clampPosition(c.anim.from, c.cfg.Size, v)
		c.anim.to = edgePosition(c.lastSnap.Edge, c.anim.to, c.cfg.Size, v)
		c.lastSnap.Position = c.anim.to
	}
	c.moveTo(clampPosition(c.pos, c.cfg.Size, v))
}

// Step advances the snap animation to now. It reports whether the
// animation is still running; the host should keep calling Step until it
// returns false. PositionChanged fires once, when the overlay comes to rest.
func (c *Controller) Step(now time.Time) bool {
	if c.anim == nil {
		return false
	}
	pos, done := c.anim.at(now)
	c.pos = pos
	if !done {
		return true
	}
	c.anim = nil
	c.emit(c.pos)
	return false
}

func (c *Controller) isTap(s *gestureSession, upAt time.Time) bool {
	if s.displacement > c.cfg.TapThreshold {
		return false
	}
	return upAt.Sub(s.down.Time) <= c.cfg.TapMaxDuration
}

func (c *Controller) release(now time.Time) {
	target := ComputeSnap(c.cfg.SnapPolicy, c.pos, c.cfg.Size, c.viewport)
	c.lastSnap = &target
	if c.cfg.SnapDuration <= 0 || target.Position == c.pos {
		c.pos = target.Position
		c.emit(c.pos)
		return
	}
	c.anim = &snapAnimation{
		from:     c.pos,
		to:       target.Position,
		start:    now,
		duration: c.cfg.SnapDuration,
	}
}

func (c *Controller) moveTo(next image.Point) {
	if next == c.pos {
		return
	}
	c.pos = next
	c.emit(next)
}

func (c *Controller) emit(pos image.Point) {
	c.reported = pos
	c.listener.PositionChanged(pos)
}

// track folds a pointer sample into the session's displacement. The
// largest distance from the press point wins, so a drag that returns to
// where it started is still a drag.
func (s *gestureSession) track(p image.Point) {
	if d := distance(p, s.down.Point); d > s.displacement {
		s.displacement = d
	}
}
