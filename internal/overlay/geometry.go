package overlay

import (
	"image"
	"math"
)

// Viewport is the visible screen area the overlay must stay inside.
type Viewport struct {
	Width  int
	Height int
}

// Rect returns the viewport as a rectangle anchored at the origin.
func (v Viewport) Rect() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// Fits reports whether an overlay of the given size fits inside the viewport.
func (v Viewport) Fits(size image.Point) bool {
	return size.X <= v.Width && size.Y <= v.Height
}

// clampPosition returns the top-left position nearest to p that keeps a
// rectangle of the given size inside v. Edges may touch the viewport edges.
// On an axis where the overlay is larger than the viewport it is pinned to 0.
func clampPosition(p, size image.Point, v Viewport) image.Point {
	return image.Point{
		X: clampAxis(p.X, v.Width-size.X),
		Y: clampAxis(p.Y, v.Height-size.Y),
	}
}

func clampAxis(value, hi int) int {
	if value > hi {
		value = hi
	}
	if value < 0 {
		value = 0
	}
	return value
}

// distance is the Euclidean length between two points.
func distance(a, b image.Point) float64 {
	d := a.Sub(b)
	return math.Hypot(float64(d.X), float64(d.Y))
}
