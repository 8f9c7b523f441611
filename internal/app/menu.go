package app

import (
	"image"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/assistive/internal/ui/common"
)

const (
	menuCopy  = "copy"
	menuTheme = "theme"
	menuReset = "reset"
	menuHelp  = "help"
	menuQuit  = "quit"
)

type menuItem struct {
	ID    string
	Label string
}

// quickMenu is the panel a tap on the button opens. It anchors next to the
// button on the side facing the middle of the screen.
type quickMenu struct {
	items   []menuItem
	open    bool
	cursor  int
	regions []common.HitRegion
}

func newQuickMenu() *quickMenu {
	return &quickMenu{items: []menuItem{
		{ID: menuCopy, Label: "Copy position"},
		{ID: menuTheme, Label: "Toggle theme"},
		{ID: menuReset, Label: "Reset position"},
		{ID: menuHelp, Label: "Keyboard help"},
		{ID: menuQuit, Label: "Quit"},
	}}
}

func (m *quickMenu) Visible() bool { return m.open }

func (m *quickMenu) Open() {
	m.open = true
	m.cursor = 0
}

func (m *quickMenu) Close() {
	m.open = false
	m.regions = nil
}

func (m *quickMenu) Toggle() {
	if m.open {
		m.Close()
		return
	}
	m.Open()
}

func (m *quickMenu) Move(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m *quickMenu) Selected() menuItem {
	return m.items[m.cursor]
}

// ItemAt returns the item under a screen cell from the last render.
func (m *quickMenu) ItemAt(x, y int) (menuItem, bool) {
	hit, ok := common.HitAt(m.regions, x, y)
	if !ok {
		return menuItem{}, false
	}
	for _, item := range m.items {
		if item.ID == hit.ID {
			return item, true
		}
	}
	return menuItem{}, false
}

// Render lays the menu out beside anchor within a width x height screen and
// records item hit regions. It returns the panel and its top-left corner.
func (m *quickMenu) Render(styles common.Styles, anchor image.Rectangle, width, height int) (string, image.Point) {
	labelWidth := 0
	for _, item := range m.items {
		labelWidth = max(labelWidth, lipgloss.Width(item.Label))
	}
	rows := make([]string, len(m.items))
	for i, item := range m.items {
		style := styles.MenuItem
		if i == m.cursor {
			style = styles.MenuSelected
		}
		rows[i] = style.Width(labelWidth).Render(item.Label)
	}
	panel := styles.MenuBox.Render(strings.Join(rows, "\n"))
	pw, ph := lipgloss.Width(panel), lipgloss.Height(panel)

	x := anchor.Max.X + 1
	if anchor.Min.X+anchor.Dx()/2 >= width/2 {
		x = anchor.Min.X - pw - 1
	}
	x = clampInt(x, 0, width-pw)
	y := clampInt(anchor.Min.Y, 0, height-ph)

	m.regions = m.regions[:0]
	for i, item := range m.items {
		m.regions = append(m.regions, common.HitRegion{
			ID:     item.ID,
			X:      x + 1,
			Y:      y + 1 + i,
			Width:  pw - 2,
			Height: 1,
		})
	}
	return panel, image.Pt(x, y)
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
