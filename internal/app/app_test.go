package app

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/messages"
	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/ui/common"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type harness struct {
	app     *App
	clock   *testClock
	paths   *config.Paths
	copied  []string
	copyErr error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	paths := config.PathsAt(t.TempDir())
	cfg, err := config.LoadFrom(paths)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	h := &harness{
		clock: &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		paths: paths,
	}
	h.app = newApp(cfg, config.NewPositionStore(paths.PositionPath))
	h.app.now = h.clock.Now
	h.app.copyToClipboard = func(text string) error {
		h.copied = append(h.copied, text)
		return h.copyErr
	}
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	if h.app.controller == nil {
		t.Fatalf("expected controller after first resize, err=%v", h.app.err)
	}
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

func (h *harness) press(x, y int) {
	h.send(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) motion(x, y int, after time.Duration) {
	h.clock.advance(after)
	h.send(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) release(x, y int, after time.Duration) tea.Cmd {
	h.clock.advance(after)
	return h.send(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) key(code rune, text string) tea.Cmd {
	return h.send(tea.KeyPressMsg{Code: code, Text: text})
}

func (h *harness) pos() image.Point { return h.app.controller.Position() }

func TestFirstResizePlacesButtonAtDefaultStart(t *testing.T) {
	h := newHarness(t)
	if got := h.pos(); got != image.Pt(0, 1) {
		t.Fatalf("expected default start (0,1), got %v", got)
	}
	if got := h.app.controller.Size(); got != image.Pt(7, 3) {
		t.Fatalf("expected 7x3 button, got %v", got)
	}
}

func TestRestoresSavedPosition(t *testing.T) {
	paths := config.PathsAt(t.TempDir())
	store := config.NewPositionStore(paths.PositionPath)
	if err := store.Save(image.Pt(73, 12)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	cfg, _ := config.LoadFrom(paths)
	a := newApp(cfg, store)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if got := a.controller.Position(); got != image.Pt(73, 12) {
		t.Fatalf("expected restored position, got %v", got)
	}

	// A smaller terminal clamps the restored position.
	b := newApp(cfg, store)
	b.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if got := b.controller.Position(); got != image.Pt(33, 7) {
		t.Fatalf("expected clamped restore (33,7), got %v", got)
	}
}

func TestTapOpensMenu(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	if h.app.controller.State() != overlay.StatePressed {
		t.Fatalf("expected pressed state, got %s", h.app.controller.State())
	}
	h.release(3, 2, 50*time.Millisecond)

	if !h.app.menu.Visible() {
		t.Fatal("expected tap to open the menu")
	}
	if h.pos() != image.Pt(0, 1) {
		t.Fatalf("tap must not move the button, got %v", h.pos())
	}
	if h.app.persistToken != 0 {
		t.Fatal("tap must not persist a position")
	}

	h.press(3, 2)
	h.release(3, 2, 50*time.Millisecond)
	if h.app.menu.Visible() {
		t.Fatal("expected second tap to close the menu")
	}
}

func TestSlowPressIsNotATap(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.release(3, 2, time.Second)
	if h.app.menu.Visible() {
		t.Fatal("long press should not activate")
	}
	if h.app.persistToken != 1 || h.app.persistPos != image.Pt(0, 1) {
		t.Fatalf("expected a resting position emission at (0,1), got token=%d pos=%v", h.app.persistToken, h.app.persistPos)
	}
}

func TestDragSnapsToRightEdgeAndPersistsOnce(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(40, 10, 100*time.Millisecond)
	if got := h.pos(); got != image.Pt(37, 9) {
		t.Fatalf("expected drag to follow pointer, got %v", got)
	}
	if h.app.controller.State() != overlay.StateDragging {
		t.Fatalf("expected dragging, got %s", h.app.controller.State())
	}

	released := h.clock.now.Add(100 * time.Millisecond)
	if cmd := h.release(40, 10, 100*time.Millisecond); cmd == nil {
		t.Fatal("expected an animation tick to be scheduled")
	}
	if !h.app.controller.Animating() || !h.app.ticking {
		t.Fatal("expected snap animation to be running")
	}
	if h.app.persistToken != 0 {
		t.Fatal("no position should be persisted before the button rests")
	}

	h.send(messages.AnimationTick{Time: released.Add(90 * time.Millisecond)})
	mid := h.pos()
	if mid.X <= 37 || mid.X >= 73 || mid.Y != 9 {
		t.Fatalf("expected an intermediate frame, got %v", mid)
	}

	h.send(messages.AnimationTick{Time: released.Add(180 * time.Millisecond)})
	if got := h.pos(); got != image.Pt(73, 9) {
		t.Fatalf("expected right-edge rest (73,9), got %v", got)
	}
	if h.app.controller.Animating() || h.app.ticking {
		t.Fatal("expected animation to be finished")
	}
	if h.app.persistToken != 1 || h.app.persistPos != image.Pt(73, 9) {
		t.Fatalf("expected one persist of (73,9), got token=%d pos=%v", h.app.persistToken, h.app.persistPos)
	}
	snap, ok := h.app.controller.LastSnap()
	if !ok || snap.Edge != overlay.EdgeRight {
		t.Fatalf("expected right snap, got %+v", snap)
	}
}

func TestTapDuringSnapPersistsWhereButtonStopped(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(40, 10, 100*time.Millisecond)
	released := h.clock.now.Add(100 * time.Millisecond)
	h.release(40, 10, 100*time.Millisecond)
	h.send(messages.AnimationTick{Time: released.Add(90 * time.Millisecond)})
	mid := h.pos()
	if h.app.persistToken != 0 {
		t.Fatal("no position should be persisted mid-animation")
	}

	h.clock.now = released.Add(100 * time.Millisecond)
	h.press(mid.X+1, mid.Y+1)
	h.release(mid.X+1, mid.Y+1, 20*time.Millisecond)
	if h.app.controller.Animating() {
		t.Fatal("expected the press to stop the snap")
	}
	if !h.app.menu.Visible() {
		t.Fatal("expected the tap to open the menu")
	}
	if h.app.persistToken != 1 || h.app.persistPos != mid {
		t.Fatalf("expected one persist of %v, got token=%d pos=%v", mid, h.app.persistToken, h.app.persistPos)
	}
}

func TestPersistDebounceWritesLatestPosition(t *testing.T) {
	h := newHarness(t)
	h.app.schedulePersist(image.Pt(5, 5))
	h.app.schedulePersist(image.Pt(9, 4))

	if cmd := h.app.handlePersistDebounce(persistDebounceMsg{token: 1}); cmd != nil {
		t.Fatal("stale token should not save")
	}
	cmd := h.app.handlePersistDebounce(persistDebounceMsg{token: 2})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	saved, ok := cmd().(messages.PositionSaved)
	if !ok || saved.Err != nil || saved.Position != image.Pt(9, 4) {
		t.Fatalf("unexpected save result %+v", saved)
	}
	pos, found, err := config.NewPositionStore(h.paths.PositionPath).Load()
	if err != nil || !found || pos != image.Pt(9, 4) {
		t.Fatalf("expected (9,4) on disk, got %v found=%v err=%v", pos, found, err)
	}
}

func TestEscapeCancelsDragInPlace(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(20, 8, 50*time.Millisecond)
	h.send(tea.KeyPressMsg{Code: tea.KeyEscape})

	if h.app.controller.Active() || h.app.controller.Animating() {
		t.Fatal("expected cancel to end the gesture without snapping")
	}
	if got := h.pos(); got != image.Pt(17, 7) {
		t.Fatalf("expected button to stay where dragged, got %v", got)
	}

	// The release that follows a cancel has no session and is ignored.
	h.release(20, 8, 10*time.Millisecond)
	if h.app.controller.Animating() || h.app.menu.Visible() {
		t.Fatal("release after cancel must be ignored")
	}
}

func TestFocusLossCancelsDrag(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.send(tea.BlurMsg{})
	if h.app.controller.Active() {
		t.Fatal("expected blur to cancel the press")
	}
	h.release(3, 2, 10*time.Millisecond)
	if h.app.menu.Visible() {
		t.Fatal("cancelled press must not activate")
	}
}

func TestMotionWithoutPressIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.motion(30, 5, 10*time.Millisecond)
	if h.pos() != image.Pt(0, 1) {
		t.Fatalf("unexpected move without a press: %v", h.pos())
	}
}

func TestPressOutsideButtonDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.press(50, 20)
	if h.app.controller.Active() {
		t.Fatal("press outside the button should not start a gesture")
	}
}

func TestResizeReclampsAndPersists(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(76, 20, 10*time.Millisecond)
	h.release(76, 20, 500*time.Millisecond)
	h.send(messages.AnimationTick{Time: h.clock.now.Add(time.Second)})
	if got := h.pos(); got != image.Pt(73, 19) {
		t.Fatalf("expected (73,19) before resize, got %v", got)
	}

	h.send(tea.WindowSizeMsg{Width: 40, Height: 12})
	if got := h.pos(); got != image.Pt(33, 9) {
		t.Fatalf("expected re-clamped (33,9), got %v", got)
	}
	if h.app.persistPos != image.Pt(33, 9) {
		t.Fatalf("expected re-clamped position to be persisted, got %v", h.app.persistPos)
	}
}

func TestResizeDuringSnapRetargetsSameEdge(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(50, 5, 10*time.Millisecond)
	released := h.clock.now.Add(10 * time.Millisecond)
	h.release(50, 5, 10*time.Millisecond)

	h.send(tea.WindowSizeMsg{Width: 100, Height: 24})
	h.send(messages.AnimationTick{Time: released.Add(time.Second)})
	if got := h.pos(); got != image.Pt(93, 4) {
		t.Fatalf("expected snap to the new right edge (93,4), got %v", got)
	}
}

func TestTinyTerminalHidesButtonUntilItFits(t *testing.T) {
	paths := config.PathsAt(t.TempDir())
	cfg, _ := config.LoadFrom(paths)
	a := newApp(cfg, nil)

	a.Update(tea.WindowSizeMsg{Width: 5, Height: 2})
	if a.controller != nil || !errors.Is(a.err, overlay.ErrInvalidGeometry) {
		t.Fatalf("expected invalid geometry, got controller=%v err=%v", a.controller, a.err)
	}
	if status := ansi.Strip(a.renderStatus()); !strings.Contains(status, "button hidden") {
		t.Fatalf("expected placement error in status, got %q", status)
	}

	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if a.controller == nil || a.err != nil {
		t.Fatalf("expected controller once the terminal is big enough, err=%v", a.err)
	}
}

func TestResetKeyRestoresDefaultStart(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(40, 12, 10*time.Millisecond)
	h.release(40, 12, 500*time.Millisecond)

	if cmd := h.key('r', "r"); cmd == nil {
		t.Fatal("expected reset commands")
	}
	if got := h.pos(); got != image.Pt(0, 1) {
		t.Fatalf("expected default start after reset, got %v", got)
	}
	if h.app.controller.Animating() {
		t.Fatal("reset should stop any snap animation")
	}
}

func TestCopyKeyWritesRestingPosition(t *testing.T) {
	h := newHarness(t)
	cmd := h.app.handleKey(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	toast, ok := cmd().(messages.Toast)
	if !ok || toast.Level != messages.ToastSuccess || toast.Message != "Copied 0,1" {
		t.Fatalf("unexpected copy result %+v", toast)
	}
	if len(h.copied) != 1 || h.copied[0] != "0,1" {
		t.Fatalf("expected clipboard write of 0,1, got %v", h.copied)
	}

	h.copyErr = errors.New("no clipboard")
	if _, ok := h.app.copyPosition()().(messages.Error); !ok {
		t.Fatal("expected clipboard failure to surface as an error message")
	}
}

func TestMenuKeyboardSelection(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.release(3, 2, 20*time.Millisecond)

	h.key('j', "j")
	if got := h.app.menu.Selected().ID; got != menuTheme {
		t.Fatalf("expected theme item selected, got %s", got)
	}
	h.send(tea.KeyPressMsg{Code: tea.KeyEnter})
	if h.app.menu.Visible() {
		t.Fatal("expected menu to close after choosing")
	}
	if h.app.styles.Theme.ID != common.ThemeLight || h.app.cfg.UI.Theme != "light" {
		t.Fatalf("expected light theme, got %s", h.app.styles.Theme.ID)
	}
}

func TestMenuClickRunsItem(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.release(3, 2, 20*time.Millisecond)

	_, at := h.app.menu.Render(h.app.styles, h.app.controller.Bounds(), h.app.width, h.app.height)
	if at.X <= h.app.controller.Bounds().Max.X-1 {
		t.Fatalf("expected menu to the right of a left-edge button, got %v", at)
	}
	// Fourth item is keyboard help.
	h.press(at.X+2, at.Y+4)
	if !h.app.help.Visible() {
		t.Fatal("expected help to open from the menu")
	}
	if h.app.menu.Visible() {
		t.Fatal("expected menu to close after a click")
	}
}

func TestQuitFromKey(t *testing.T) {
	h := newHarness(t)
	h.key('q', "q")
	if !h.app.quitting {
		t.Fatal("expected quit")
	}
}

func TestApplyConfigRebuildsAtRestingPosition(t *testing.T) {
	h := newHarness(t)
	h.press(3, 2)
	h.motion(20, 6, 10*time.Millisecond)
	h.release(20, 6, 500*time.Millisecond)
	rest := h.app.restingPosition()

	next, _ := config.LoadFrom(h.paths)
	next.Overlay.Width = 9
	next.Overlay.SnapPolicy = "four-edge"
	h.send(messages.ConfigReloaded{Config: next})

	if got := h.app.controller.Size(); got != image.Pt(9, 3) {
		t.Fatalf("expected resized button, got %v", got)
	}
	if got := h.pos(); got != rest {
		t.Fatalf("expected button to keep resting position %v, got %v", rest, got)
	}

	bad, _ := config.LoadFrom(h.paths)
	bad.Overlay.SnapPolicy = "spiral"
	h.send(messages.ConfigReloaded{Config: bad})
	if h.app.cfg != next {
		t.Fatal("invalid config should be rejected")
	}
}

func TestViewComposesWithoutController(t *testing.T) {
	paths := config.PathsAt(t.TempDir())
	cfg, _ := config.LoadFrom(paths)
	a := newApp(cfg, nil)
	_ = a.View()

	a.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	a.menu.Open()
	_ = a.View()
	if len(a.menu.regions) != len(a.menu.items) {
		t.Fatalf("expected menu hit regions after render, got %d", len(a.menu.regions))
	}
}
