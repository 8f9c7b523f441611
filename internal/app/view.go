package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/assistive/internal/keymap"
	"github.com/andyrewlee/assistive/internal/overlay"
	"github.com/andyrewlee/assistive/internal/ui/compositor"
)

// View composes the screen. Layers go bottom to top: status line, menu,
// help, toast, then the button, which always sits above everything else.
func (a *App) View() tea.View {
	view := tea.View{
		AltScreen:       true,
		MouseMode:       tea.MouseModeCellMotion,
		ReportFocus:     true,
		BackgroundColor: a.styles.Theme.Colors.Background,
		ForegroundColor: a.styles.Theme.Colors.Foreground,
	}
	if a.quitting || a.width <= 0 || a.height <= 0 {
		view.SetContent("")
		return view
	}
	defer a.perf.Time("view")()

	canvas := lipgloss.NewCanvas(a.width, a.height)
	canvas.Compose(compositor.NewText(a.renderStatus(), 0, a.height-1))
	a.composeOverlays(canvas)
	view.SetContent(canvas.Render())
	return view
}

func (a *App) composeOverlays(canvas *lipgloss.Canvas) {
	if a.controller != nil && a.menu.Visible() {
		panel, at := a.menu.Render(a.styles, a.controller.Bounds(), a.width, a.height)
		canvas.Compose(compositor.NewText(panel, at.X, at.Y))
	}

	if a.help.Visible() {
		helpView := a.help.View()
		w, h := lipgloss.Width(helpView), lipgloss.Height(helpView)
		canvas.Compose(compositor.NewText(helpView, max((a.width-w)/2, 0), max((a.height-h)/2, 0)))
	}

	if toastView := a.toast.View(); toastView != "" {
		x := max((a.width-lipgloss.Width(toastView))/2, 0)
		canvas.Compose(compositor.NewText(toastView, x, max(a.height-3, 0)))
	}

	if a.controller != nil {
		canvas.Compose(&compositor.Button{
			Bounds: a.controller.Bounds(),
			Label:  a.cfg.Overlay.Label,
			Style:  a.buttonStyle(),
		})
	}
}

func (a *App) buttonStyle() compositor.ButtonStyle {
	switch a.controller.State() {
	case overlay.StatePressed:
		return a.styles.ButtonPressed
	case overlay.StateDragging:
		return a.styles.ButtonDragging
	case overlay.StateSnapping:
		return a.styles.ButtonSnapping
	default:
		return a.styles.ButtonIdle
	}
}

// renderStatus is the bottom line: button state and key hints, or the
// placement error when the terminal is too small for the button.
func (a *App) renderStatus() string {
	if a.err != nil {
		return a.styles.ToastError.Render(fmt.Sprintf("button hidden: %v", a.err))
	}
	if a.controller == nil {
		return ""
	}
	pos := a.controller.Position()
	status := a.styles.StatusBar.Render(fmt.Sprintf("%s %d,%d", a.controller.State(), pos.X, pos.Y))
	if snap, ok := a.controller.LastSnap(); ok {
		status += a.styles.StatusBar.Render(" · " + snap.Edge.String())
	}
	if a.cfg.UI.ShowKeymapHints {
		status += a.styles.HelpDesc.Render("  " + keymap.StatusHint(a.keymap))
	}
	return status
}
