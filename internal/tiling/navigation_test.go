package tiling

import (
	"testing"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

func TestNeighbor(t *testing.T) {
	// [0] [1]
	// [2] [3]
	rects := []Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 110, Y: 0, Width: 100, Height: 100},
		{X: 0, Y: 110, Width: 100, Height: 100},
		{X: 110, Y: 110, Width: 100, Height: 100},
	}

	tests := []struct {
		name     string
		current  int
		dir      Direction
		expected int
	}{
		{"right from 0", 0, DirRight, 1},
		{"down from 1", 1, DirDown, 3},
		{"left from 3", 3, DirLeft, 2},
		{"up from 2", 2, DirUp, 0},
		{"right wraps to same row", 1, DirRight, 0},
		{"up wraps to same column", 0, DirUp, 2},
		{"out of range", 9, DirUp, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Neighbor(rects, tt.current, tt.dir); got != tt.expected {
				t.Errorf("Neighbor(%d, %v) = %d, want %d", tt.current, tt.dir, got, tt.expected)
			}
		})
	}

	if got := Neighbor(rects[:1], 0, DirLeft); got != 0 {
		t.Errorf("single rect should stay, got %d", got)
	}
}

func TestNeighborWindow(t *testing.T) {
	snap := desktop.Snapshot{Windows: []desktop.Window{
		{ID: "left", IsOpen: true, ZIndex: 101, Size: desktop.Size{Width: 100, Height: 100}},
		{ID: "right", IsOpen: true, ZIndex: 102, Position: desktop.Point{X: 200}, Size: desktop.Size{Width: 100, Height: 100}},
		{ID: "hidden", IsOpen: true, IsMinimized: true, ZIndex: 103, Position: desktop.Point{X: 400}},
	}}

	id, ok := NeighborWindow(snap, "left", DirRight)
	if !ok || id != "right" {
		t.Fatalf("NeighborWindow(left, right) = %q, %v", id, ok)
	}
	id, ok = NeighborWindow(snap, "", DirLeft)
	if !ok || id != "right" {
		t.Fatalf("with no focus the frontmost window is picked, got %q", id)
	}
	if _, ok := NeighborWindow(desktop.Snapshot{}, "", DirUp); ok {
		t.Fatalf("empty desktop has no neighbor")
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"up": DirUp, "J": DirDown, "left": DirLeft, " right ": DirRight} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Errorf("expected error")
	}
}
