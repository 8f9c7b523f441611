package compositor

import (
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Text places a pre-rendered, possibly ANSI-styled block of text at a fixed
// cell offset. Menus, toasts and the help panel are rendered with lipgloss
// and composed onto the canvas through Text.
type Text struct {
	X, Y   int
	lines  []string
	width  int
	height int
}

var _ uv.Drawable = (*Text)(nil)

// NewText splits content into lines and measures it.
func NewText(content string, x, y int) *Text {
	if content == "" {
		return &Text{X: x, Y: y}
	}
	lines := strings.Split(content, "\n")
	width := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > width {
			width = w
		}
	}
	return &Text{X: x, Y: y, lines: lines, width: width, height: len(lines)}
}

// Size returns the measured width and height in cells.
func (t *Text) Size() (int, int) { return t.width, t.height }

// Draw writes the text into screen, clipped to r.
func (t *Text) Draw(screen uv.Screen, r uv.Rectangle) {
	if len(t.lines) == 0 {
		return
	}

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	var style uv.Style
	var state byte
	for i, line := range t.lines {
		y := t.Y + i
		if y < r.Min.Y || y >= r.Max.Y {
			continue
		}
		x := t.X
		for len(line) > 0 {
			seq, width, n, next := ansi.DecodeSequence(line, state, p)
			if n == 0 {
				break
			}
			if width == 0 {
				if ansi.Cmd(p.Command()).Final() == 'm' {
					style = applySGR(style, p.Params())
				}
			} else {
				setCell(screen, r, x, y, seq, width, style)
				x += width
			}
			line = line[n:]
			state = next
		}
	}
}

func applySGR(style uv.Style, params ansi.Params) uv.Style {
	if len(params) == 0 {
		return uv.Style{}
	}
	for i := 0; i < len(params); i++ {
		p, _, _ := params.Param(i, 0)
		switch {
		case p == 0:
			style = uv.Style{}
		case p == 1:
			style.Attrs |= uv.AttrBold
		case p == 2:
			style.Attrs |= uv.AttrFaint
		case p == 3:
			style.Attrs |= uv.AttrItalic
		case p == 4:
			style.Underline = uv.UnderlineSingle
		case p == 7:
			style.Attrs |= uv.AttrReverse
		case p == 22:
			style.Attrs &^= uv.AttrBold | uv.AttrFaint
		case p == 23:
			style.Attrs &^= uv.AttrItalic
		case p == 24:
			style.Underline = uv.UnderlineNone
		case p == 27:
			style.Attrs &^= uv.AttrReverse
		case p >= 30 && p <= 37:
			style.Fg = indexedColor(p - 30)
		case p == 38:
			var c color.Color
			c, i = extendedColor(params, i)
			style.Fg = c
		case p == 39:
			style.Fg = nil
		case p >= 40 && p <= 47:
			style.Bg = indexedColor(p - 40)
		case p == 48:
			var c color.Color
			c, i = extendedColor(params, i)
			style.Bg = c
		case p == 49:
			style.Bg = nil
		case p >= 90 && p <= 97:
			style.Fg = indexedColor(p - 90 + 8)
		case p >= 100 && p <= 107:
			style.Bg = indexedColor(p - 100 + 8)
		}
	}
	return style
}

// extendedColor decodes the 5;n and 2;r;g;b forms that follow a 38 or 48
// parameter at index i. It returns the index of the last consumed parameter.
func extendedColor(params ansi.Params, i int) (color.Color, int) {
	if i+2 >= len(params) {
		return nil, len(params) - 1
	}
	mode, _, _ := params.Param(i+1, 0)
	switch {
	case mode == 5:
		idx, _, _ := params.Param(i+2, 0)
		return indexedColor(idx), i + 2
	case mode == 2 && i+4 < len(params):
		rv, _, _ := params.Param(i+2, 0)
		gv, _, _ := params.Param(i+3, 0)
		bv, _, _ := params.Param(i+4, 0)
		return color.RGBA{R: uint8(rv), G: uint8(gv), B: uint8(bv), A: 255}, i + 4
	}
	return nil, i + 1
}
