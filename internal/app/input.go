package app

import (
	"image"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/assistive/internal/logging"
	"github.com/andyrewlee/assistive/internal/overlay"
)

func (a *App) pointer(x, y int) overlay.PointerEvent {
	return overlay.PointerEvent{Point: image.Pt(x, y), Time: a.now()}
}

// handleMouseClick starts a gesture on the button, or picks a menu item.
// The button is the topmost layer, so it wins over the menu.
func (a *App) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft || a.controller == nil {
		return nil
	}
	if a.controller.Contains(image.Pt(msg.X, msg.Y)) {
		a.controller.PointerDown(a.pointer(msg.X, msg.Y))
		return nil
	}
	if !a.menu.Visible() {
		return nil
	}
	item, ok := a.menu.ItemAt(msg.X, msg.Y)
	a.menu.Close()
	if !ok {
		return nil
	}
	return a.runMenuAction(item.ID)
}

func (a *App) handleMouseMotion(msg tea.MouseMotionMsg) {
	if a.controller == nil || !a.controller.Active() {
		return
	}
	defer a.perf.Time("pointer_move")()
	if err := a.controller.PointerMove(a.pointer(msg.X, msg.Y)); err != nil {
		logging.Warn("Ignoring pointer move: %v", err)
	}
}

func (a *App) handleMouseRelease(msg tea.MouseReleaseMsg) {
	if a.controller == nil || !a.controller.Active() {
		return
	}
	if err := a.controller.PointerUp(a.pointer(msg.X, msg.Y)); err != nil {
		logging.Warn("Ignoring pointer up: %v", err)
	}
}

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if a.help.Visible() {
		_, _, cmd := a.help.Update(msg)
		return cmd
	}

	if key.Matches(msg, a.keymap.Cancel) {
		if a.controller != nil && a.controller.Active() {
			a.cancelGesture("cancel key")
			return nil
		}
		a.menu.Close()
		return nil
	}

	if a.menu.Visible() {
		switch {
		case key.Matches(msg, a.keymap.MenuUp):
			a.menu.Move(-1)
			return nil
		case key.Matches(msg, a.keymap.MenuDown):
			a.menu.Move(1)
			return nil
		case key.Matches(msg, a.keymap.MenuSelect):
			item := a.menu.Selected()
			a.menu.Close()
			return a.runMenuAction(item.ID)
		}
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a.runMenuAction(menuQuit)
	case key.Matches(msg, a.keymap.Help):
		return a.runMenuAction(menuHelp)
	case key.Matches(msg, a.keymap.Reset):
		return a.runMenuAction(menuReset)
	case key.Matches(msg, a.keymap.Copy):
		return a.runMenuAction(menuCopy)
	case key.Matches(msg, a.keymap.Theme):
		return a.runMenuAction(menuTheme)
	}
	return nil
}
