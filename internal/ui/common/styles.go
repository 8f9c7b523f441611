package common

import (
	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/assistive/internal/ui/compositor"
)

// Styles contains all the application styles
type Styles struct {
	Theme Theme

	// Floating button, one per gesture state
	ButtonIdle     compositor.ButtonStyle
	ButtonPressed  compositor.ButtonStyle
	ButtonDragging compositor.ButtonStyle
	ButtonSnapping compositor.ButtonStyle

	// Text hierarchy
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style

	// Quick menu opened by tapping the button
	MenuBox      lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style

	// Status line
	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style

	// Toast notifications
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style
}

// DefaultStyles returns the dark theme styles.
func DefaultStyles() Styles {
	return StylesFor(DarkTheme())
}

// StylesFor builds the application styles from a theme.
func StylesFor(t Theme) Styles {
	c := t.Colors
	toast := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(c.Background)

	return Styles{
		Theme: t,

		ButtonIdle:     compositor.ButtonStyle{Fg: c.Foreground, Bg: c.Surface2, Border: c.Muted},
		ButtonPressed:  compositor.ButtonStyle{Fg: c.Background, Bg: c.Primary, Border: c.Primary, Bold: true},
		ButtonDragging: compositor.ButtonStyle{Fg: c.Foreground, Bg: c.Selection, Border: c.Secondary, Bold: true},
		ButtonSnapping: compositor.ButtonStyle{Fg: c.Foreground, Bg: c.Surface1, Border: c.Info},

		Title: lipgloss.NewStyle().Bold(true).Foreground(c.Primary),
		Body:  lipgloss.NewStyle().Foreground(c.Foreground),
		Muted: lipgloss.NewStyle().Foreground(c.Muted),

		MenuBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Primary).
			Background(c.Surface1).
			Padding(0, 1),
		MenuItem: lipgloss.NewStyle().Foreground(c.Foreground),
		MenuSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Foreground).
			Background(c.Selection),

		StatusBar: lipgloss.NewStyle().Foreground(c.Muted),
		HelpKey:   lipgloss.NewStyle().Bold(true).Foreground(c.Secondary),
		HelpDesc:  lipgloss.NewStyle().Foreground(c.Muted),

		ToastSuccess: toast.Background(c.Success),
		ToastError:   toast.Background(c.Error),
		ToastWarning: toast.Background(c.Warning),
		ToastInfo:    toast.Background(c.Info),
	}
}
