package compositor

import (
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

// cellPool reuses uv.Cell allocations across drawables.
//
// Screen.SetCell copies the cell value, so a cell can go back to the pool as
// soon as SetCell returns.
var cellPool = sync.Pool{
	New: func() any { return &uv.Cell{} },
}

func getCell() *uv.Cell {
	c, _ := cellPool.Get().(*uv.Cell)
	if c == nil {
		return &uv.Cell{}
	}
	*c = uv.Cell{}
	return c
}

func putCell(c *uv.Cell) {
	cellPool.Put(c)
}

// setCell writes one grapheme at (x, y) when it falls inside clip.
func setCell(screen uv.Screen, clip uv.Rectangle, x, y int, content string, width int, style uv.Style) {
	if x < clip.Min.X || x >= clip.Max.X || y < clip.Min.Y || y >= clip.Max.Y {
		return
	}
	cell := getCell()
	cell.Content = content
	cell.Width = width
	cell.Style = style
	screen.SetCell(x, y, cell)
	putCell(cell)
}
