package overlay

import (
	"image"
	"math"
	"time"
)

// snapAnimation interpolates the overlay from a release position to its
// snap target.
type snapAnimation struct {
	from     image.Point
	to       image.Point
	start    time.Time
	duration time.Duration
}

// at returns the interpolated position at now and whether the animation
// has reached its target.
func (a *snapAnimation) at(now time.Time) (image.Point, bool) {
	elapsed := now.Sub(a.start)
	if a.duration <= 0 || elapsed >= a.duration {
		return a.to, true
	}
	if elapsed <= 0 {
		return a.from, false
	}
	t := easeOutCubic(float64(elapsed) / float64(a.duration))
	return image.Point{
		X: lerp(a.from.X, a.to.X, t),
		Y: lerp(a.from.Y, a.to.Y, t),
	}, false
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func lerp(from, to int, t float64) int {
	return from + int(math.Round(float64(to-from)*t))
}
