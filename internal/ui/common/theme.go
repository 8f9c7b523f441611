package common

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// ThemeID identifies a color theme.
type ThemeID string

const (
	ThemeDark  ThemeID = "dark"
	ThemeLight ThemeID = "light"
)

// ThemeColors defines all colors used by the application.
type ThemeColors struct {
	Background color.Color
	Foreground color.Color
	Muted      color.Color
	Border     color.Color

	Primary   color.Color
	Secondary color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Info      color.Color

	Surface1  color.Color
	Surface2  color.Color
	Selection color.Color
}

// Theme represents a complete color theme.
type Theme struct {
	ID     ThemeID
	Name   string
	Colors ThemeColors
}

// AvailableThemes returns the built-in themes in toggle order.
func AvailableThemes() []Theme {
	return []Theme{DarkTheme(), LightTheme()}
}

// DarkTheme uses the Tokyo Night palette.
func DarkTheme() Theme {
	return Theme{
		ID:   ThemeDark,
		Name: "Tokyo Night",
		Colors: ThemeColors{
			Background: lipgloss.Color("#1a1b26"),
			Foreground: lipgloss.Color("#a9b1d6"),
			Muted:      lipgloss.Color("#565f89"),
			Border:     lipgloss.Color("#292e42"),

			Primary:   lipgloss.Color("#7aa2f7"),
			Secondary: lipgloss.Color("#bb9af7"),
			Success:   lipgloss.Color("#9ece6a"),
			Warning:   lipgloss.Color("#e0af68"),
			Error:     lipgloss.Color("#f7768e"),
			Info:      lipgloss.Color("#7dcfff"),

			Surface1:  lipgloss.Color("#1f2335"),
			Surface2:  lipgloss.Color("#24283b"),
			Selection: lipgloss.Color("#33467c"),
		},
	}
}

// LightTheme uses the GitHub Light palette.
func LightTheme() Theme {
	return Theme{
		ID:   ThemeLight,
		Name: "GitHub Light",
		Colors: ThemeColors{
			Background: lipgloss.Color("#ffffff"),
			Foreground: lipgloss.Color("#24292f"),
			Muted:      lipgloss.Color("#656d76"),
			Border:     lipgloss.Color("#d0d7de"),

			Primary:   lipgloss.Color("#0969da"),
			Secondary: lipgloss.Color("#8250df"),
			Success:   lipgloss.Color("#1a7f37"),
			Warning:   lipgloss.Color("#9a6700"),
			Error:     lipgloss.Color("#cf222e"),
			Info:      lipgloss.Color("#0969da"),

			Surface1:  lipgloss.Color("#f6f8fa"),
			Surface2:  lipgloss.Color("#eaeef2"),
			Selection: lipgloss.Color("#ddf4ff"),
		},
	}
}

// GetTheme resolves a theme name, falling back to the dark theme.
func GetTheme(name string) Theme {
	id := ThemeID(strings.ToLower(strings.TrimSpace(name)))
	for _, t := range AvailableThemes() {
		if t.ID == id {
			return t
		}
	}
	return DarkTheme()
}

// NextTheme returns the theme after id in toggle order.
func NextTheme(id ThemeID) Theme {
	themes := AvailableThemes()
	for i, t := range themes {
		if t.ID == id {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
