package overlay

import (
	"fmt"
	"image"
	"strings"
)

// SnapPolicy selects which viewport edges a released overlay may snap to.
type SnapPolicy int

const (
	// SnapTwoEdge snaps to the left or right edge only.
	SnapTwoEdge SnapPolicy = iota
	// SnapFourEdge also considers the top and bottom edges.
	SnapFourEdge
)

func (p SnapPolicy) String() string {
	switch p {
	case SnapTwoEdge:
		return "two-edge"
	case SnapFourEdge:
		return "four-edge"
	default:
		return "unknown"
	}
}

// ParseSnapPolicy parses a policy name. The empty string selects SnapTwoEdge.
func ParseSnapPolicy(s string) (SnapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "two-edge", "two", "2":
		return SnapTwoEdge, nil
	case "four-edge", "four", "4":
		return SnapFourEdge, nil
	default:
		return SnapTwoEdge, fmt.Errorf("unknown snap policy %q", s)
	}
}

// Edge identifies a viewport edge.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// SnapTarget is the edge a released overlay travels to and where it rests.
type SnapTarget struct {
	Edge     Edge
	Position image.Point
}

// ComputeSnap picks the snap target for an overlay at pos.
//
// Centers are compared in doubled coordinates so that an odd-sized overlay
// or viewport never rounds: a center exactly on the midpoint snaps right
// (or bottom).
func ComputeSnap(policy SnapPolicy, pos, size image.Point, v Viewport) SnapTarget {
	hOffset := 2*pos.X + size.X - v.Width
	edge := EdgeRight
	if hOffset < 0 {
		edge = EdgeLeft
	}

	if policy == SnapFourEdge {
		vOffset := 2*pos.Y + size.Y - v.Height
		if abs(vOffset) > abs(hOffset) {
			edge = EdgeBottom
			if vOffset < 0 {
				edge = EdgeTop
			}
		}
	}

	return SnapTarget{Edge: edge, Position: edgePosition(edge, pos, size, v)}
}

// edgePosition places the overlay flush against edge, keeping the other
// axis and re-clamping.
func edgePosition(edge Edge, pos, size image.Point, v Viewport) image.Point {
	switch edge {
	case EdgeLeft:
		pos.X = 0
	case EdgeRight:
		pos.X = v.Width - size.X
	case EdgeTop:
		pos.Y = 0
	case EdgeBottom:
		pos.Y = v.Height - size.Y
	}
	return clampPosition(pos, size, v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
