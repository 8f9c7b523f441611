package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/keymap"
	"github.com/andyrewlee/assistive/internal/logging"
	"github.com/andyrewlee/assistive/internal/messages"
	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/perf"
	"github.com/andyrewlee/assistive/internal/supervisor"
	"github.com/andyrewlee/assistive/internal/ui/common"
)

// App is the Bubble Tea model hosting the floating button. The terminal
// screen is the viewport; mouse events drive the overlay controller.
type App struct {
	cfg    *config.Config
	store  *config.PositionStore
	keymap keymap.KeyMap
	styles common.Styles

	width      int
	height     int
	controller *overlay.Controller
	start      image.Point
	err        error

	menu  *quickMenu
	help  *common.HelpOverlay
	toast *common.ToastModel

	copyToClipboard common.ClipboardWriter
	now             func() time.Time
	perf            *perf.Recorder

	ticking      bool
	pending      []tea.Cmd
	persistToken int
	persistPos   image.Point

	supervisor *supervisor.Supervisor
	watcher    *configWatcher
	watcherCh  chan messages.ConfigChanged

	externalMsgs        chan tea.Msg
	externalSender      func(tea.Msg)
	externalOnce        sync.Once
	externalDropLastLog atomic.Int64

	shutdownOnce sync.Once
	quitting     bool
}

// New creates the application, restoring the saved button position and
// starting the config watcher.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil || cfg.Paths == nil {
		return nil, errors.New("app: missing configuration paths")
	}
	store := config.NewPositionStore(cfg.Paths.PositionPath)
	a := newApp(cfg, store)
	a.perf = perf.FromEnv()

	a.supervisor = supervisor.New(context.Background())
	a.supervisor.SetErrorHandler(func(name string, err error) {
		a.enqueueExternalMsg(messages.Toast{Message: name + ": " + err.Error(), Level: messages.ToastWarning})
	})
	a.watcherCh = make(chan messages.ConfigChanged, 4)
	watcher, err := newConfigWatcher(cfg.Paths.ConfigPath, func(reason string) {
		select {
		case a.watcherCh <- messages.ConfigChanged{Reason: reason}:
		default:
		}
	})
	if err != nil {
		logging.Warn("Config watcher disabled: %v", err)
	} else {
		a.watcher = watcher
		a.supervisor.Start("app.config_watcher", watcher.Run, supervisor.WithBackoff(200*time.Millisecond, 3*time.Second))
	}
	return a, nil
}

func newApp(cfg *config.Config, store *config.PositionStore) *App {
	km := keymap.New(cfg.KeyMap)
	styles := common.StylesFor(common.GetTheme(cfg.UI.Theme))

	a := &App{
		cfg:             cfg,
		store:           store,
		keymap:          km,
		styles:          styles,
		start:           cfg.Overlay.DefaultStart(),
		menu:            newQuickMenu(),
		help:            common.NewHelpOverlay(keymap.HelpSections(km)),
		toast:           common.NewToastModel(),
		copyToClipboard: common.CopyToClipboard,
		now:             time.Now,
		externalMsgs:    make(chan tea.Msg, externalMsgBuffer),
	}
	a.help.SetStyles(styles)
	a.toast.SetStyles(styles)

	if store != nil {
		pos, ok, err := store.Load()
		switch {
		case err != nil:
			logging.Warn("Ignoring saved position: %v", err)
		case ok:
			a.start = pos
			logging.Info("Restored button position %d,%d", pos.X, pos.Y)
		}
	}
	return a
}

// Init starts listening for config changes.
func (a *App) Init() tea.Cmd {
	return a.waitForConfigChange()
}

func (a *App) waitForConfigChange() tea.Cmd {
	if a.watcher == nil || a.watcherCh == nil {
		return nil
	}
	return func() tea.Msg {
		return <-a.watcherCh
	}
}

// Update routes input to the controller and overlays.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.handleResize(msg.Width, msg.Height)

	case tea.MouseClickMsg:
		cmds = append(cmds, a.handleMouseClick(msg))

	case tea.MouseMotionMsg:
		a.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		a.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		if a.help.Visible() {
			a.help.Update(msg)
		}

	case tea.BlurMsg:
		a.cancelGesture("focus lost")

	case tea.KeyPressMsg:
		cmds = append(cmds, a.handleKey(msg))

	case messages.AnimationTick:
		a.handleTick(msg)

	case persistDebounceMsg:
		cmds = append(cmds, a.handlePersistDebounce(msg))

	case messages.PositionSaved:
		if msg.Err != nil {
			logging.Error("Failed to save position: %v", msg.Err)
			cmds = append(cmds, a.toast.ShowError("Could not save position"))
		} else {
			logging.Debug("Saved position %d,%d", msg.Position.X, msg.Position.Y)
		}

	case messages.PositionReset:
		if msg.Err != nil {
			logging.Error("Failed to reset position: %v", msg.Err)
			cmds = append(cmds, a.toast.ShowError("Could not reset position"))
		}

	case messages.ConfigChanged:
		logging.Info("Config %s; reloading", msg.Reason)
		cmds = append(cmds, a.reloadConfig(), a.waitForConfigChange())

	case messages.ConfigReloaded:
		cmds = append(cmds, a.applyConfig(msg))

	case messages.MenuAction:
		cmds = append(cmds, a.runMenuAction(msg.ID))

	case messages.Toast:
		cmds = append(cmds, a.showToast(msg))

	case messages.Error:
		logging.Error("%v", msg)
		cmds = append(cmds, a.toast.ShowError(msg.Error()))

	case common.ToastDismissed:
		a.toast.Update(msg)
	}

	if a.quitting {
		return a, tea.Quit
	}
	cmds = append(cmds, a.drainPending()...)
	cmds = append(cmds, a.ensureTicking())
	return a, tea.Batch(cmds...)
}

func (a *App) viewport() overlay.Viewport {
	return overlay.Viewport{Width: a.width, Height: a.height}
}

// handleResize builds the controller on the first size message and re-clamps
// it on later ones.
func (a *App) handleResize(width, height int) {
	a.width, a.height = width, height
	a.help.SetSize(width, height)
	if a.controller == nil {
		a.buildController(a.start)
		return
	}
	a.controller.ViewportChanged(a.viewport())
}

func (a *App) buildController(start image.Point) {
	cfg, err := a.cfg.Overlay.ControllerConfig(start, a.viewport())
	if err == nil {
		a.controller, err = overlay.New(cfg, a.listener())
	}
	if err != nil {
		logging.Error("Cannot place button in %dx%d: %v", a.width, a.height, err)
		a.controller = nil
		a.err = err
		return
	}
	a.err = nil
	logging.Debug("Button placed at %v in %dx%d", a.controller.Position(), a.width, a.height)
}

// restingPosition is where the button will settle: the snap target while
// animating, otherwise its current position.
func (a *App) restingPosition() image.Point {
	if a.controller == nil {
		return a.start
	}
	if a.controller.Animating() {
		if target, ok := a.controller.LastSnap(); ok {
			return target.Position
		}
	}
	return a.controller.Position()
}

func (a *App) cancelGesture(reason string) {
	if a.controller == nil || !a.controller.Active() {
		return
	}
	logging.Debug("Gesture cancelled: %s", reason)
	a.controller.PointerCancel()
}

// ensureTicking schedules the next animation frame when one is needed and
// none is in flight.
func (a *App) ensureTicking() tea.Cmd {
	if a.ticking || a.controller == nil || !a.controller.Animating() {
		return nil
	}
	a.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return messages.AnimationTick{Time: t}
	})
}

func (a *App) handleTick(msg messages.AnimationTick) {
	a.ticking = false
	if a.controller == nil {
		return
	}
	a.perf.Count("snap_frames", 1)
	a.controller.Step(msg.Time)
}

func (a *App) drainPending() []tea.Cmd {
	cmds := a.pending
	a.pending = nil
	return cmds
}

func (a *App) showToast(msg messages.Toast) tea.Cmd {
	switch msg.Level {
	case messages.ToastSuccess:
		return a.toast.ShowSuccess(msg.Message)
	case messages.ToastError:
		return a.toast.ShowError(msg.Message)
	case messages.ToastWarning:
		return a.toast.ShowWarning(msg.Message)
	default:
		return a.toast.ShowInfo(msg.Message)
	}
}

func (a *App) setStyles(styles common.Styles) {
	a.styles = styles
	a.help.SetStyles(styles)
	a.toast.SetStyles(styles)
}
