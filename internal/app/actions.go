package app

import (
	"fmt"
	"image"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/assistive/internal/config"
	"github.com/andyrewlee/assistive/internal/keymap"
	"github.com/andyrewlee/assistive/internal/logging"
	"github.com/andyrewlee/assistive/internal/messages"
	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/safego"
	"github.com/andyrewlee/assistive/internal/ui/common"
)

func (a *App) listener() overlay.Listener {
	return overlay.ListenerFuncs{
		OnPositionChanged: a.onPositionChanged,
		OnActivated:       a.onActivated,
	}
}

// onPositionChanged persists positions the button comes to rest at. Moves
// during a drag or mid-animation are transient and skipped.
func (a *App) onPositionChanged(pos image.Point) {
	if a.controller != nil && (a.controller.Active() || a.controller.Animating()) {
		return
	}
	a.pending = append(a.pending, a.schedulePersist(pos))
}

func (a *App) onActivated() {
	a.menu.Toggle()
	if a.menu.Visible() {
		logging.Debug("Button activated; menu opened")
		a.pending = append(a.pending, a.toast.ShowInfo("Quick menu"))
		return
	}
	logging.Debug("Button activated; menu closed")
}

// persistDebounceMsg is sent after the debounce period to trigger the save.
type persistDebounceMsg struct {
	token int
}

func (a *App) schedulePersist(pos image.Point) tea.Cmd {
	if a.store == nil {
		return nil
	}
	a.persistPos = pos
	a.persistToken++
	token := a.persistToken
	return tea.Tick(persistDebounce, func(time.Time) tea.Msg {
		return persistDebounceMsg{token: token}
	})
}

func (a *App) handlePersistDebounce(msg persistDebounceMsg) tea.Cmd {
	// A newer position superseded this one.
	if msg.token != a.persistToken || a.store == nil {
		return nil
	}
	store, pos := a.store, a.persistPos
	return func() tea.Msg {
		var err error
		if !safego.Run("app.save_position", func() { err = store.Save(pos) }) {
			err = fmt.Errorf("save position: panic")
		}
		return messages.PositionSaved{Position: pos, Err: err}
	}
}

func (a *App) runMenuAction(id string) tea.Cmd {
	switch id {
	case menuQuit:
		a.quitting = true
		return tea.Quit
	case menuHelp:
		a.menu.Close()
		a.help.Toggle()
		return nil
	case menuReset:
		return a.resetPosition()
	case menuCopy:
		return a.copyPosition()
	case menuTheme:
		return a.toggleTheme()
	default:
		logging.Warn("Unknown menu action %q", id)
		return nil
	}
}

// resetPosition puts the button back at its configured start and forgets the
// saved position.
func (a *App) resetPosition() tea.Cmd {
	a.cancelGesture("reset")
	a.start = a.cfg.Overlay.DefaultStart()
	a.persistToken++
	if a.width > 0 && a.height > 0 {
		a.buildController(a.start)
	}
	store := a.store
	cmds := []tea.Cmd{a.toast.ShowSuccess("Position reset")}
	if store != nil {
		cmds = append(cmds, func() tea.Msg {
			return messages.PositionReset{Err: store.Reset()}
		})
	}
	return tea.Batch(cmds...)
}

func (a *App) copyPosition() tea.Cmd {
	pos := a.restingPosition()
	text := fmt.Sprintf("%d,%d", pos.X, pos.Y)
	write := a.copyToClipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return messages.Error{Err: err, Context: "copy position"}
		}
		return messages.Toast{Message: "Copied " + text, Level: messages.ToastSuccess}
	}
}

func (a *App) toggleTheme() tea.Cmd {
	next := common.NextTheme(a.styles.Theme.ID)
	a.cfg.UI.Theme = string(next.ID)
	a.setStyles(common.StylesFor(next))
	cfg := a.cfg
	return tea.Batch(
		a.toast.ShowInfo(next.Name),
		func() tea.Msg {
			if err := cfg.SaveUISettings(); err != nil {
				return messages.Error{Err: err, Context: "save theme"}
			}
			return nil
		},
	)
}

func (a *App) reloadConfig() tea.Cmd {
	paths := a.cfg.Paths
	return func() tea.Msg {
		cfg, err := config.LoadFrom(paths)
		return messages.ConfigReloaded{Config: cfg, Err: err}
	}
}

// applyConfig swaps in a reloaded configuration. The button keeps its
// resting position; a gesture in progress is abandoned.
func (a *App) applyConfig(msg messages.ConfigReloaded) tea.Cmd {
	if msg.Err != nil {
		logging.Warn("Keeping previous config: %v", msg.Err)
		return a.toast.ShowWarning("Config not reloaded: " + msg.Err.Error())
	}
	if err := msg.Config.Validate(); err != nil {
		logging.Warn("Keeping previous config: %v", err)
		return a.toast.ShowWarning("Config not reloaded: " + err.Error())
	}

	a.cancelGesture("config reload")
	start := a.restingPosition()
	a.cfg = msg.Config
	a.keymap = keymap.New(a.cfg.KeyMap)
	a.help.SetSections(keymap.HelpSections(a.keymap))
	a.setStyles(common.StylesFor(common.GetTheme(a.cfg.UI.Theme)))
	if level, ok := logging.ParseLevel(a.cfg.LogLevel); ok {
		logging.SetLevel(level)
	}

	a.start = start
	if a.width > 0 && a.height > 0 {
		a.buildController(start)
	}
	return a.toast.ShowInfo("Config reloaded")
}
