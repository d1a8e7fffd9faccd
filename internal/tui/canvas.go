package tui

import (
	"strings"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// Window geometry is stored in pixels; the terminal desktop maps one cell to
// a tiling.CellWidth x tiling.CellHeight block.
const (
	pxPerCol = tiling.CellWidth
	pxPerRow = tiling.CellHeight

	minWindowCols = 16
	minWindowRows = 4
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// windowRect places w on a desktop area of cols x rows cells. Maximized
// windows fill the area.
func windowRect(w desktop.Window, cols, rows int) rect {
	if w.IsMaximized {
		return rect{x: 0, y: 0, w: cols, h: rows}
	}
	r := rect{
		x: w.Position.X / pxPerCol,
		y: w.Position.Y / pxPerRow,
		w: w.Size.Width / pxPerCol,
		h: w.Size.Height / pxPerRow,
	}
	if r.w < minWindowCols {
		r.w = minWindowCols
	}
	if r.h < minWindowRows {
		r.h = minWindowRows
	}
	return r
}

type cell struct {
	r rune
	p paint
}

// canvas is a fixed grid of styled cells. Writes outside the grid are
// clipped.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int, fill paint) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', p: fill}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, p: p}
}

// text writes s starting at (x, y), stopping after max cells when max > 0.
func (c *canvas) text(x, y int, s string, p paint, max int) {
	i := 0
	for _, r := range s {
		if max > 0 && i >= max {
			return
		}
		c.set(x+i, y, r, p)
		i++
	}
}

func (c *canvas) fill(r rect, ch rune, p paint) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.set(x, y, ch, p)
		}
	}
}

// window paints a framed window with a title bar and body lines.
func (c *canvas) window(r rect, title string, body []string, active bool) {
	frame, titleP := paintFrame, paintTitle
	if active {
		frame, titleP = paintFrameActive, paintTitleActive
	}
	c.fill(r, ' ', paintWindow)

	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		c.set(x, bottom, '─', frame)
	}
	for y := r.y + 1; y < bottom; y++ {
		c.set(r.x, y, '│', frame)
		c.set(right, y, '│', frame)
	}
	c.set(r.x, bottom, '╰', frame)
	c.set(right, bottom, '╯', frame)

	// Title bar: traffic lights on the left, centered title.
	for x := r.x; x <= right; x++ {
		c.set(x, r.y, ' ', titleP)
	}
	c.text(r.x+1, r.y, "● ● ●", paintControls, 0)
	inner := r.w - 8
	if inner > 0 {
		t := truncate(title, inner)
		start := r.x + (r.w-len([]rune(t)))/2
		if start < r.x+7 {
			start = r.x + 7
		}
		c.text(start, r.y, t, titleP, inner)
	}

	for i, line := range body {
		y := r.y + 1 + i
		if y >= bottom {
			break
		}
		c.text(r.x+2, y, line, paintWindow, r.w-4)
	}
}

// render converts the grid to styled text, one style run at a time.
func (c *canvas) render(st styles) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for i := 0; i < len(row); {
			p := row[i].p
			run.Reset()
			for i < len(row) && row[i].p == p {
				run.WriteRune(row[i].r)
				i++
			}
			b.WriteString(st.cells[p].Render(run.String()))
		}
	}
	return b.String()
}

// plain returns the grid without styling. Tests use it.
func (c *canvas) plain() []string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
			b.WriteRune(cl.r)
		}
		lines[y] = b.String()
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
