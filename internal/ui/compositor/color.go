package compositor

import "image/color"

var basicPalette = [16]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},
	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

// indexedColor resolves an xterm 256-color index.
func indexedColor(idx int) color.Color {
	switch {
	case idx < 0 || idx > 255:
		return nil
	case idx < 16:
		return basicPalette[idx]
	case idx < 232:
		idx -= 16
		level := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + v*40)
		}
		return color.RGBA{R: level(idx / 36), G: level((idx / 6) % 6), B: level(idx % 6), A: 255}
	default:
		gray := uint8(8 + (idx-232)*10)
		return color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}
