package tiling

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

// Direction is a spatial navigation direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "k":
		return DirUp, nil
	case "down", "j":
		return DirDown, nil
	case "left", "h":
		return DirLeft, nil
	case "right", "l":
		return DirRight, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want up, down, left or right)", s)
}

// Neighbor returns the index of the rectangle nearest to rects[current] in
// direction dir, measured between centers. When nothing lies that way it
// wraps to the far edge, preferring the same row or column. It returns
// current when there is nowhere to go.
func Neighbor(rects []Rect, current int, dir Direction) int {
	if current < 0 || current >= len(rects) {
		return 0
	}

	cx, cy := center(rects[current])

	bestIdx := -1
	bestDist := -1
	for i, r := range rects {
		if i == current {
			continue
		}
		rx, ry := center(r)

		inDirection := false
		switch dir {
		case DirUp:
			inDirection = ry < cy
		case DirDown:
			inDirection = ry > cy
		case DirLeft:
			inDirection = rx < cx
		case DirRight:
			inDirection = rx > cx
		}
		if !inDirection {
			continue
		}

		dist := abs(rx-cx) + abs(ry-cy)
		if bestIdx == -1 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}

	// Wrap: the furthest rectangle in the opposite direction, then the
	// smallest cross-axis offset.
	bestScore := 0
	for i, r := range rects {
		if i == current {
			continue
		}
		rx, ry := center(r)

		var score int
		switch dir {
		case DirUp:
			score = ry*10000 - abs(rx-cx)
		case DirDown:
			score = -ry*10000 - abs(rx-cx)
		case DirLeft:
			score = rx*10000 - abs(ry-cy)
		case DirRight:
			score = -rx*10000 - abs(ry-cy)
		}
		if bestIdx == -1 || score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}
	return current
}

// NeighborWindow picks the visible window next to from in direction dir.
// With no from window, or one that is not visible, it returns the frontmost
// visible window.
func NeighborWindow(snap desktop.Snapshot, from string, dir Direction) (string, bool) {
	stacked := snap.Stacked()
	if len(stacked) == 0 {
		return "", false
	}
	current := -1
	rects := make([]Rect, len(stacked))
	for i, w := range stacked {
		rects[i] = RectOf(w)
		if w.ID == from {
			current = i
		}
	}
	if current < 0 {
		return stacked[len(stacked)-1].ID, true
	}
	next := Neighbor(rects, current, dir)
	if next == current {
		return "", false
	}
	return stacked[next].ID, true
}

func center(r Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
