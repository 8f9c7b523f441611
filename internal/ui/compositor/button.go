package compositor

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"
)

// ButtonStyle colors one visual state of the floating button.
type ButtonStyle struct {
	Fg     color.Color
	Bg     color.Color
	Border color.Color
	Bold   bool
}

// Button draws the floating button directly into cells. Buttons at least
// 3x3 get a rounded border; smaller ones are a filled block with the label
// on the middle row.
type Button struct {
	Bounds image.Rectangle
	Label  string
	Style  ButtonStyle
}

var _ uv.Drawable = (*Button)(nil)

const (
	cornerTopLeft     = "╭"
	cornerTopRight    = "╮"
	cornerBottomLeft  = "╰"
	cornerBottomRight = "╯"
	edgeHorizontal    = "─"
	edgeVertical      = "│"
)

// Draw renders the button clipped to both r and the screen.
func (b *Button) Draw(screen uv.Screen, r uv.Rectangle) {
	clip := r.Intersect(screen.Bounds()).Intersect(b.Bounds)
	if clip.Empty() {
		return
	}

	fill := uv.Style{Fg: b.Style.Fg, Bg: b.Style.Bg}
	if b.Style.Bold {
		fill.Attrs |= uv.AttrBold
	}
	border := uv.Style{Fg: b.Style.Border, Bg: b.Style.Bg}
	if border.Fg == nil {
		border.Fg = b.Style.Fg
	}

	minX, minY := b.Bounds.Min.X, b.Bounds.Min.Y
	maxX, maxY := b.Bounds.Max.X-1, b.Bounds.Max.Y-1
	framed := b.Bounds.Dx() >= 3 && b.Bounds.Dy() >= 3

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !framed {
				setCell(screen, clip, x, y, " ", 1, fill)
				continue
			}
			switch {
			case x == minX && y == minY:
				setCell(screen, clip, x, y, cornerTopLeft, 1, border)
			case x == maxX && y == minY:
				setCell(screen, clip, x, y, cornerTopRight, 1, border)
			case x == minX && y == maxY:
				setCell(screen, clip, x, y, cornerBottomLeft, 1, border)
			case x == maxX && y == maxY:
				setCell(screen, clip, x, y, cornerBottomRight, 1, border)
			case y == minY || y == maxY:
				setCell(screen, clip, x, y, edgeHorizontal, 1, border)
			case x == minX || x == maxX:
				setCell(screen, clip, x, y, edgeVertical, 1, border)
			default:
				setCell(screen, clip, x, y, " ", 1, fill)
			}
		}
	}

	inner := b.Bounds
	if framed {
		inner = b.Bounds.Inset(1)
	}
	b.drawLabel(screen, clip, inner, fill)
}

func (b *Button) drawLabel(screen uv.Screen, clip, inner image.Rectangle, style uv.Style) {
	if b.Label == "" || inner.Empty() {
		return
	}
	label := runewidth.Truncate(b.Label, inner.Dx(), "")
	width := runewidth.StringWidth(label)
	x := inner.Min.X + (inner.Dx()-width)/2
	y := inner.Min.Y + (inner.Dy()-1)/2
	for _, r := range label {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		setCell(screen, clip, x, y, string(r), w, style)
		x += w
	}
}
