// Package tiling computes window arrangements for the desktop area and
// spatial navigation between the windows it places.
package tiling

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

// Desktop coordinates are pixels. A terminal cell covers CellWidth x
// CellHeight of them.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	DefaultGap           = 16
	masterWidthPercent   = 60
	maxStackRows         = 3
	cascadeStepX         = 4 * CellWidth
	cascadeStepY         = 2 * CellHeight
	cascadeWidthPercent  = 60
	cascadeHeightPercent = 70
)

// Mode selects an arrangement.
type Mode string

const (
	ModeGrid       Mode = "grid"
	ModeVertical   Mode = "vertical"
	ModeHorizontal Mode = "horizontal"
	ModeMaster     Mode = "master"
	ModeCascade    Mode = "cascade"
)

// Modes lists every arrangement in cycling order.
var Modes = []Mode{ModeGrid, ModeMaster, ModeVertical, ModeHorizontal, ModeCascade}

// ParseMode accepts a mode name, case-insensitively. The empty string is
// the grid.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeGrid, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown arrangement %q (want one of: %s)", s, modeList())
}

// Next returns the mode after m in Modes, wrapping.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeGrid
}

func modeList() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ScreenArea is the pixel area of a desktop cols cells wide and rows cells
// tall, anchored at the origin.
func ScreenArea(cols, rows int) Rect {
	return Rect{Width: cols * CellWidth, Height: rows * CellHeight}
}

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// Positions computes numWindows rectangles inside area for mode, separated by
// gap pixels. The first rectangle belongs to the frontmost window.
func Positions(mode Mode, numWindows int, area Rect, gap int) ([]Rect, error) {
	if numWindows <= 0 {
		return nil, nil
	}
	if gap < 0 {
		gap = 0
	}

	switch mode {
	case ModeGrid, "":
		rows, cols := CalculateGrid(numWindows)
		return gridPositions(numWindows, rows, cols, area, gap, true)
	case ModeVertical:
		return gridPositions(numWindows, numWindows, 1, area, gap, false)
	case ModeHorizontal:
		return gridPositions(numWindows, 1, numWindows, area, gap, false)
	case ModeMaster:
		return masterPositions(numWindows, area, gap)
	case ModeCascade:
		return cascadePositions(numWindows, area)
	default:
		return nil, fmt.Errorf("unsupported arrangement: %q", mode)
	}
}

// gridPositions lays windows out row by row. With flexibleLastRow a short
// last row stretches its windows to fill the width.
func gridPositions(numWindows, rows, cols int, area Rect, gap int, flexibleLastRow bool) ([]Rect, error) {
	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for arrangement: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	lastRow := rows - 1
	inLastRow := numWindows - lastRow*cols
	lastRowWidth := slotWidth
	if flexibleLastRow && inLastRow > 0 && inLastRow < cols {
		lastRowWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	positions := make([]Rect, numWindows)
	for i := range positions {
		row := i / cols
		col := i % cols
		width := slotWidth
		if row == lastRow {
			width = lastRowWidth
		}
		positions[i] = Rect{
			X:      area.X + gap + col*(width+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  width,
			Height: slotHeight,
		}
	}
	return positions, nil
}

// masterPositions gives the first window the left pane and stacks the rest
// in a grid on the right, at most maxStackRows tall.
func masterPositions(numWindows int, area Rect, gap int) ([]Rect, error) {
	masterWidth := area.Width*masterWidthPercent/100 - gap
	fullHeight := area.Height - 2*gap
	if numWindows == 1 {
		masterWidth = area.Width - 2*gap
	}
	if masterWidth <= 0 || fullHeight <= 0 {
		return nil, fmt.Errorf("insufficient space for master arrangement: area=%dx%d gap=%d",
			area.Width, area.Height, gap)
	}

	positions := make([]Rect, numWindows)
	positions[0] = Rect{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: fullHeight}
	if numWindows == 1 {
		return positions, nil
	}

	stackCount := numWindows - 1
	stackCols := int(math.Ceil(float64(stackCount) / float64(maxStackRows)))
	stackRows := int(math.Ceil(float64(stackCount) / float64(stackCols)))

	rightX := area.X + masterWidth + 2*gap
	rightWidth := area.Width - masterWidth - 3*gap
	cellWidth := (rightWidth - (stackCols-1)*gap) / stackCols
	cellHeight := (fullHeight - (stackRows-1)*gap) / stackRows
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master arrangement: area=%dx%d masterWidth=%d cell=%dx%d gap=%d",
			area.Width, area.Height, masterWidth, cellWidth, cellHeight, gap,
		)
	}

	for i := 0; i < stackCount; i++ {
		row := i / stackCols
		col := i % stackCols
		positions[i+1] = Rect{
			X:      rightX + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions, nil
}

// cascadePositions offsets equally sized windows diagonally. The frontmost
// window sits furthest down and right. Offsets wrap to stay inside area.
func cascadePositions(numWindows int, area Rect) ([]Rect, error) {
	width := area.Width * cascadeWidthPercent / 100
	height := area.Height * cascadeHeightPercent / 100
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("insufficient space for cascade arrangement: area=%dx%d", area.Width, area.Height)
	}

	steps := numWindows
	if room := (area.Width - width) / cascadeStepX; room+1 < steps {
		steps = room + 1
	}
	if room := (area.Height - height) / cascadeStepY; room+1 < steps {
		steps = room + 1
	}
	if steps < 1 {
		steps = 1
	}

	positions := make([]Rect, numWindows)
	for i := range positions {
		depth := (numWindows - 1 - i) % steps
		positions[i] = Rect{
			X:      area.X + depth*cascadeStepX,
			Y:      area.Y + depth*cascadeStepY,
			Width:  width,
			Height: height,
		}
	}
	return positions, nil
}

// Order returns the windows an arrangement applies to, frontmost first.
// Minimized, closed and maximized windows keep their geometry.
func Order(snap desktop.Snapshot) []desktop.Window {
	var out []desktop.Window
	for _, w := range snap.Windows {
		if w.Visible() && !w.IsMaximized {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex > out[j].ZIndex
	})
	return out
}

// Plan computes new bounds for every window Order selects.
func Plan(snap desktop.Snapshot, mode Mode, area Rect, gap int) (map[string]desktop.Bounds, error) {
	windows := Order(snap)
	if len(windows) == 0 {
		return map[string]desktop.Bounds{}, nil
	}
	if area.Empty() {
		return nil, fmt.Errorf("arrangement area is empty")
	}
	positions, err := Positions(mode, len(windows), area, gap)
	if err != nil {
		return nil, err
	}
	plan := make(map[string]desktop.Bounds, len(windows))
	for i, w := range windows {
		plan[w.ID] = positions[i].Bounds()
	}
	return plan, nil
}

// Bounds converts r to registry geometry.
func (r Rect) Bounds() desktop.Bounds {
	return desktop.Bounds{
		Position: desktop.Point{X: r.X, Y: r.Y},
		Size:     desktop.Size{Width: r.Width, Height: r.Height},
	}
}

// RectOf returns the geometry of w.
func RectOf(w desktop.Window) Rect {
	return Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}
