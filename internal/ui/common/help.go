package common

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
)

// HelpSection represents a group of keybindings
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// HelpBinding represents a single keybinding
type HelpBinding struct {
	Key  string
	Desc string
}

const helpIntro = "Drag the button anywhere. Release it and it snaps to the nearest edge. " +
	"A quick tap opens the menu."

// HelpOverlay renders the keybinding reference as markdown through glamour.
type HelpOverlay struct {
	visible      bool
	width        int
	height       int
	styles       Styles
	sections     []HelpSection
	scrollOffset int

	cache map[string]string
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(sections []HelpSection) *HelpOverlay {
	return &HelpOverlay{
		styles:   DefaultStyles(),
		sections: sections,
		cache:    make(map[string]string),
	}
}

// SetStyles updates the help overlay styles (for theme changes).
func (h *HelpOverlay) SetStyles(styles Styles) {
	h.styles = styles
}

// SetSections replaces the documented bindings.
func (h *HelpOverlay) SetSections(sections []HelpSection) {
	h.sections = sections
}

// Show shows the help overlay and resets scrolling
func (h *HelpOverlay) Show() {
	h.visible = true
	h.scrollOffset = 0
}

// Hide hides the help overlay
func (h *HelpOverlay) Hide() {
	h.visible = false
	h.scrollOffset = 0
}

// Toggle toggles the help overlay visibility
func (h *HelpOverlay) Toggle() {
	if h.visible {
		h.Hide()
		return
	}
	h.Show()
}

// Visible returns whether the help overlay is visible
func (h *HelpOverlay) Visible() bool {
	return h.visible
}

// SetSize sets the overlay size
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// HelpResult indicates what happened after Update
type HelpResult int

const (
	HelpResultNone   HelpResult = iota // No action needed
	HelpResultClosed                   // Help was closed
)

// Update handles keyboard and mouse wheel input while the overlay is open.
func (h *HelpOverlay) Update(msg tea.Msg) (*HelpOverlay, HelpResult, tea.Cmd) {
	if !h.visible {
		return h, HelpResultNone, nil
	}

	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			h.scroll(-1)
		case tea.MouseWheelDown:
			h.scroll(1)
		}
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "q", "?"))):
			h.Hide()
			return h, HelpResultClosed, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			h.scroll(1)
		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			h.scroll(-1)
		case key.Matches(msg, key.NewBinding(key.WithKeys("g"))):
			h.scrollOffset = 0
		}
	}
	return h, HelpResultNone, nil
}

func (h *HelpOverlay) scroll(delta int) {
	h.scrollOffset += delta
	if maxOffset := len(h.lines()) - h.pageHeight(); h.scrollOffset > maxOffset {
		h.scrollOffset = maxOffset
	}
	if h.scrollOffset < 0 {
		h.scrollOffset = 0
	}
}

func (h *HelpOverlay) contentWidth() int {
	w := h.width - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (h *HelpOverlay) pageHeight() int {
	ph := h.height - 4
	if ph < 1 {
		ph = 1
	}
	return ph
}

// Markdown returns the help text before rendering.
func (h *HelpOverlay) Markdown() string {
	var b strings.Builder
	b.WriteString("# Assistive\n\n")
	b.WriteString(helpIntro)
	b.WriteString("\n")
	for _, section := range h.sections {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", section.Title)
		for _, binding := range section.Bindings {
			fmt.Fprintf(&b, "| `%s` | %s |\n", binding.Key, binding.Desc)
		}
	}
	return b.String()
}

func (h *HelpOverlay) lines() []string {
	return strings.Split(h.render(h.Markdown(), h.contentWidth()), "\n")
}

func (h *HelpOverlay) render(md string, width int) string {
	style := string(h.styles.Theme.ID)
	if style == "" {
		style = string(ThemeDark)
	}
	sum := sha256.Sum256([]byte(md))
	cacheKey := fmt.Sprintf("%x:%d:%s", sum[:8], width, style)
	if cached, ok := h.cache[cacheKey]; ok {
		return cached
	}

	rendered := md
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			rendered = strings.Trim(out, "\n")
		}
	}
	h.cache[cacheKey] = rendered
	return rendered
}

// View renders the visible page of the help panel.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}
	lines := h.lines()
	start := h.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + h.pageHeight()
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[start:end], "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.Theme.Colors.Primary).
		Render(body)
}
