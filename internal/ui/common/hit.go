package common

import "image"

// HitRegion represents a rectangular hit target in screen coordinates.
type HitRegion struct {
	ID     string
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point is within the hit region bounds.
func (h HitRegion) Contains(x, y int) bool {
	return x >= h.X && x < h.X+h.Width && y >= h.Y && y < h.Y+h.Height
}

// Rect returns the region as an image.Rectangle.
func (h HitRegion) Rect() image.Rectangle {
	return image.Rect(h.X, h.Y, h.X+h.Width, h.Y+h.Height)
}

// HitAt returns the topmost region containing (x, y). Later regions win.
func HitAt(regions []HitRegion, x, y int) (HitRegion, bool) {
	for i := len(regions) - 1; i >= 0; i-- {
		if regions[i].Contains(x, y) {
			return regions[i], true
		}
	}
	return HitRegion{}, false
}
