package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
)

func TestPanelCacheKeysOnWidthAndTheme(t *testing.T) {
	cat, err := content.Load()
	require.NoError(t, err)
	p, ok := cat.Panel("settings")
	require.True(t, ok)

	c := newPanelCache()
	light := c.lines(panelKey{id: "settings", width: 60}, p)
	again := c.lines(panelKey{id: "settings", width: 60}, p)
	assert.Equal(t, light, again)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, 1, c.misses)

	dark := c.lines(panelKey{id: "settings", width: 60, dark: true}, p)
	assert.Equal(t, 2, c.misses)
	assert.Contains(t, strings.Join(light, "\n"), "Light")
	assert.Contains(t, strings.Join(dark, "\n"), "Dark")

	c.lines(panelKey{id: "settings", width: 30}, p)
	assert.Equal(t, 3, c.misses)

	c.purge()
	c.lines(panelKey{id: "settings", width: 60}, p)
	assert.Equal(t, 4, c.misses)
}

func TestRenderPanelWrapsToWidth(t *testing.T) {
	cat, err := content.Load()
	require.NoError(t, err)

	for _, id := range []string{"about", "projects", "skills", "contact", "finder", "settings"} {
		p, ok := cat.Panel(id)
		require.True(t, ok, id)
		lines := renderPanel(p, 40, false, content.ContactIdle)
		require.NotEmpty(t, lines, id)
		for _, l := range lines {
			assert.LessOrEqual(t, len([]rune(l)), 40, "%s: %q", id, l)
		}
	}
}

func TestRenderContactPhases(t *testing.T) {
	cat, err := content.Load()
	require.NoError(t, err)
	p, _ := cat.Panel("contact")

	idle := strings.Join(renderPanel(p, 60, false, content.ContactIdle), "\n")
	sending := strings.Join(renderPanel(p, 60, false, content.ContactSubmitting), "\n")
	sent := strings.Join(renderPanel(p, 60, false, content.ContactSubmitted), "\n")

	assert.Contains(t, idle, "Press enter")
	assert.Contains(t, sending, "Sending")
	assert.Contains(t, sent, "Message sent!")
}

func TestSkillLevelBar(t *testing.T) {
	assert.Equal(t, "■■■□□", levelBar(3))
	assert.Equal(t, "■■■■■", levelBar(9))
	assert.Equal(t, "□□□□□", levelBar(-1))
}

func TestWindowRect(t *testing.T) {
	w := desktop.Window{
		Position: desktop.Point{X: 80, Y: 32},
		Size:     desktop.Size{Width: 400, Height: 320},
	}
	assert.Equal(t, rect{x: 10, y: 2, w: 50, h: 20}, windowRect(w, 160, 45))

	w.IsMaximized = true
	assert.Equal(t, rect{x: 0, y: 0, w: 160, h: 45}, windowRect(w, 160, 45))

	tiny := desktop.Window{Size: desktop.Size{Width: 8, Height: 8}}
	r := windowRect(tiny, 160, 45)
	assert.Equal(t, minWindowCols, r.w)
	assert.Equal(t, minWindowRows, r.h)
}

func TestCanvasClipsAndPaints(t *testing.T) {
	c := newCanvas(20, 6, paintDesktop)
	c.window(rect{x: 10, y: 2, w: 16, h: 6}, "Clipped", []string{"hello world"}, true)

	lines := c.plain()
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}
	assert.Equal(t, strings.Repeat(" ", 20), lines[0])
	assert.Contains(t, lines[2], "●")
	assert.Contains(t, lines[3], "│ hello")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "", truncate("abcd", 0))
}
