package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/launcher"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// Step sizes, in pixels, for keyboard moves and resizes.
const (
	moveStepX   = 2 * pxPerCol
	moveStepY   = pxPerRow
	resizeStepW = 10 * pxPerCol
	resizeStepH = 2 * pxPerRow
	minWidthPx  = minWindowCols * pxPerCol
	minHeightPx = minWindowRows * pxPerRow
)

type (
	snapshotMsg desktop.Snapshot
	clockMsg    time.Time
	opErrMsg    struct{ err error }
)

// model is the root bubbletea model for the desktop.
type model struct {
	backend Backend
	cat     *content.Catalog
	cfg     *config.Config
	logger  zerolog.Logger
	clock   func() time.Time

	snap  desktop.Snapshot
	now   time.Time
	icons []content.DesktopIcon
	dock  []content.DockItem

	// Dock cursor, an index into dock. Dividers are skipped.
	dockSel int
	// Arrangement the next press of the arrange key applies.
	arrangeNext tiling.Mode

	keys     keyMap
	help     help.Model
	spot     spotlight
	composer composer
	contact  *content.ContactForm
	cache    *panelCache

	status string
	err    error

	width  int
	height int
}

func newModel(opts Options) model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	m := model{
		backend: opts.Backend,
		cat:     opts.Catalog,
		cfg:     cfg,
		logger:  opts.Logger,
		clock:   clock,
		now:     clock(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spot:    newSpotlight(),
		contact: &content.ContactForm{},
		cache:   newPanelCache(),
		width:   cfg.Screen.Width,
		height:  cfg.Screen.Height,
		dock:    opts.Catalog.Dock,
		icons:   desktopIcons(opts.Catalog, cfg.DesktopIcons),
		dockSel: -1,
		snap:    opts.Initial,
	}
	m.arrangeNext, _ = tiling.ParseMode(cfg.Arrange.Mode)
	if m.arrangeNext == "" {
		m.arrangeNext = tiling.ModeGrid
	}
	m.help.Styles = helpStyles(opts.Initial.DarkMode)
	m.dockSel = m.nextDockItem(-1, 1)
	return m
}

// desktopIcons filters the catalog icons to the configured ids, keeping the
// configured order. An empty filter keeps every icon.
func desktopIcons(cat *content.Catalog, ids []string) []content.DesktopIcon {
	if len(ids) == 0 {
		return cat.DesktopIcons
	}
	byID := make(map[string]content.DesktopIcon, len(cat.DesktopIcons))
	for _, ic := range cat.DesktopIcons {
		byID[ic.ID] = ic
	}
	out := make([]content.DesktopIcon, 0, len(ids))
	for _, id := range ids {
		if ic, ok := byID[id]; ok {
			out = append(out, ic)
		}
	}
	return out
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), m.fetch())
}

func (m model) fetch() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		snap, err := b.State()
		if err != nil {
			return opErrMsg{err: err}
		}
		return snapshotMsg(snap)
	}
}

// do runs op against the backend and reports the resulting state.
func (m model) do(op func(Backend) error) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		if err := op(b); err != nil {
			return opErrMsg{err: err}
		}
		snap, err := b.State()
		if err != nil {
			return opErrMsg{err: err}
		}
		return snapshotMsg(snap)
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		return m, tick()

	case snapshotMsg:
		snap := desktop.Snapshot(msg)
		// Subscription and command replies may race; keep the newest.
		if snap.Revision < m.snap.Revision {
			return m, nil
		}
		if snap.DarkMode != m.snap.DarkMode {
			m.help.Styles = helpStyles(snap.DarkMode)
		}
		m.snap = snap
		m.err = nil
		return m, nil

	case opErrMsg:
		m.err = msg.err
		m.logger.Warn().Err(msg.err).Msg("desktop operation failed")
		return m, nil

	case spotlightPickMsg:
		return m, m.do(func(b Backend) error { return b.Open(msg.id) })

	case spotlightCloseMsg:
		return m, nil

	case contactSendMsg:
		now := m.clock()
		m.contact.Fields = msg.msg
		m.contact.Submit(now)
		m.logger.Info().Str("subject", msg.msg.Subject).Msg("contact message submitted")
		return m, contactTick(now, m.contact.Advance(now))

	case contactTickMsg:
		now := time.Time(msg)
		return m, contactTick(now, m.contact.Advance(now))
	}

	if m.spot.active {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.spot, cmd = m.spot.Update(msg)
		return m, cmd
	}
	if m.composer.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.snap.ActiveID
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Spotlight):
		return m, m.spot.open(launcher.ItemsFromSnapshot(m.snap))

	case key.Matches(msg, m.keys.Theme):
		return m, m.do(func(b Backend) error { return b.ToggleDarkMode() })

	case key.Matches(msg, m.keys.NextWindow), key.Matches(msg, m.keys.PrevWindow):
		id := m.cycleTarget(key.Matches(msg, m.keys.NextWindow))
		if id == "" {
			return m, nil
		}
		return m, m.do(func(b Backend) error { return b.Focus(id) })

	case key.Matches(msg, m.keys.DockLeft):
		m.dockSel = m.nextDockItem(m.dockSel, -1)
		return m, nil

	case key.Matches(msg, m.keys.DockRight):
		m.dockSel = m.nextDockItem(m.dockSel, 1)
		return m, nil

	case key.Matches(msg, m.keys.DockOpen):
		return m.launchDock(m.dockSel)

	case key.Matches(msg, m.keys.Arrange):
		mode := m.arrangeNext
		m.arrangeNext = mode.Next()
		cols, rows := m.desktopSize()
		area, gap := tiling.ScreenArea(cols, rows), m.cfg.Arrange.Gap
		m.status = "arranged: " + string(mode)
		return m, m.do(func(b Backend) error { return b.Arrange(mode, gap, area) })

	case key.Matches(msg, m.keys.FocusDir):
		dir, err := tiling.ParseDirection(strings.TrimPrefix(msg.String(), "alt+"))
		if err != nil {
			return m, nil
		}
		id, ok := tiling.NeighborWindow(m.snap, active, dir)
		if !ok || id == active {
			return m, nil
		}
		return m, m.do(func(b Backend) error { return b.Focus(id) })

	case key.Matches(msg, m.keys.Icon):
		i := int(msg.Runes[0] - '1')
		if i < 0 || i >= len(m.icons) {
			return m, nil
		}
		id := m.icons[i].ID
		return m, m.do(func(b Backend) error { return b.Open(id) })
	}

	if active == "" {
		return m, nil
	}
	w, _ := m.snap.Window(active)

	switch {
	case key.Matches(msg, m.keys.Close):
		return m, m.do(func(b Backend) error { return b.Close(active) })

	case key.Matches(msg, m.keys.Minimize):
		return m, m.do(func(b Backend) error { return b.Minimize(active) })

	case key.Matches(msg, m.keys.Maximize):
		return m, m.do(func(b Backend) error { return b.Maximize(active) })

	case key.Matches(msg, m.keys.Move):
		x, y := w.Position.X, w.Position.Y
		switch msg.String() {
		case "shift+up":
			y -= moveStepY
		case "shift+down":
			y += moveStepY
		case "shift+left":
			x -= moveStepX
		case "shift+right":
			x += moveStepX
		}
		return m, m.do(func(b Backend) error { return b.Move(active, x, y) })

	case key.Matches(msg, m.keys.Grow), key.Matches(msg, m.keys.Shrink):
		dw, dh := resizeStepW, resizeStepH
		if key.Matches(msg, m.keys.Shrink) {
			dw, dh = -dw, -dh
		}
		width := max(w.Size.Width+dw, minWidthPx)
		height := max(w.Size.Height+dh, minHeightPx)
		return m, m.do(func(b Backend) error { return b.Resize(active, width, height) })

	case key.Matches(msg, m.keys.Compose):
		if p := m.panel(w); p != nil && p.Kind == content.KindContact {
			if m.contact.Phase() == content.ContactSubmitting {
				return m, nil
			}
			return m, m.composer.start(min(m.width-4, 72))
		}
	}
	return m, nil
}

// cycleTarget picks the window tab focuses: the lowest visible window going
// forward, the one just under the top going back.
func (m model) cycleTarget(forward bool) string {
	stacked := m.snap.Stacked()
	if len(stacked) < 2 {
		return ""
	}
	if forward {
		return stacked[0].ID
	}
	return stacked[len(stacked)-2].ID
}

func (m model) nextDockItem(from, dir int) int {
	n := len(m.dock)
	if n == 0 {
		return -1
	}
	i := from
	for range n {
		i = (i + dir + n) % n
		if !m.dock[i].Divider {
			return i
		}
	}
	return -1
}

// launchDock applies the dock click rule to a window item. Link items are
// shown in the status line.
func (m model) launchDock(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.dock) {
		return m, nil
	}
	item := m.dock[i]
	switch {
	case item.Divider:
		return m, nil
	case item.URL != "":
		m.status = "link: " + item.URL
		return m, nil
	default:
		id := item.ID
		return m, m.do(func(b Backend) error { return b.Activate(id) })
	}
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	cols, rows := m.desktopSize()

	if msg.Y == rows+1 {
		for _, slot := range m.dockSlots(cols) {
			if msg.X >= slot.start && msg.X < slot.end {
				m.dockSel = slot.index
				return m.launchDock(slot.index)
			}
		}
		return m, nil
	}

	x, y := msg.X, msg.Y-1
	if y < 0 || y >= rows {
		return m, nil
	}
	stacked := m.snap.Stacked()
	for i := len(stacked) - 1; i >= 0; i-- {
		w := stacked[i]
		r := windowRect(w, cols, rows)
		if !r.contains(x, y) {
			continue
		}
		id := w.ID
		if y == r.y {
			switch x - r.x {
			case 1:
				return m, m.do(func(b Backend) error { return b.Close(id) })
			case 3:
				return m, m.do(func(b Backend) error { return b.Minimize(id) })
			case 5:
				return m, m.do(func(b Backend) error { return b.Maximize(id) })
			}
		}
		return m, m.do(func(b Backend) error { return b.Focus(id) })
	}

	for i, ic := range m.icons {
		if r := iconRect(i, cols); r.contains(x, y) {
			id := ic.ID
			return m, m.do(func(b Backend) error { return b.Open(id) })
		}
	}
	return m, nil
}

// panel resolves the content of a window. Snapshots received over IPC carry
// no content, so the catalog is the fallback.
func (m model) panel(w desktop.Window) *content.Panel {
	if p, ok := w.Content.(*content.Panel); ok && p != nil {
		return p
	}
	if m.cat == nil {
		return nil
	}
	p, _ := m.cat.Panel(w.ID)
	return p
}

// desktopSize is the area between the menu bar and the dock. The footer
// grows when full help is shown.
func (m model) desktopSize() (cols, rows int) {
	footer := lipgloss.Height(m.renderFooter(newStyles(m.snap.DarkMode)))
	return m.width, max(m.height-2-footer, 0)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	st := newStyles(m.snap.DarkMode)
	cols, rows := m.desktopSize()

	var area string
	switch {
	case m.spot.active:
		area = m.overlay(st, m.spot.View(st, min(cols-4, 56)), cols, rows)
	case m.composer.editing:
		area = m.overlay(st, m.composer.View(st), cols, rows)
	default:
		area = m.paintDesktop(cols, rows).render(st)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderMenuBar(st),
		area,
		m.renderDock(st, cols),
		m.renderFooter(st),
	)
}

func (m model) overlay(st styles, box string, cols, rows int) string {
	p := paletteFor(m.snap.DarkMode)
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(p.desktop))
}

func iconRect(i, cols int) rect {
	return rect{x: cols - 12, y: 1 + i*3, w: 10, h: 2}
}

// paintDesktop draws the icons and the visible windows, lowest z first.
func (m model) paintDesktop(cols, rows int) *canvas {
	c := newCanvas(cols, rows, paintDesktop)

	for i, ic := range m.icons {
		r := iconRect(i, cols)
		c.text(r.x+3, r.y, "[■]", paintIcon, 0)
		label := truncate(ic.Label, r.w)
		c.text(r.x+(r.w-len([]rune(label)))/2, r.y+1, label, paintDesktop, 0)
	}

	phase := m.contact.Phase()
	for _, w := range m.snap.Stacked() {
		r := windowRect(w, cols, rows)
		var body []string
		if p := m.panel(w); p != nil {
			k := panelKey{id: w.ID, width: max(r.w-4, 0), dark: m.snap.DarkMode}
			if p.Kind == content.KindContact {
				k.phase = phase
			}
			body = m.cache.lines(k, p)
		}
		c.window(r, w.Title, body, w.ID == m.snap.ActiveID)
	}
	return c
}

func (m model) renderMenuBar(st styles) string {
	title := m.snap.ActiveTitle(m.cfg.FallbackTitle)
	left := st.menuBold.Render(" ◆  "+title) + st.menuBar.Render("   File  Edit  View  Window  Help")

	theme := "☀ Light"
	if m.snap.DarkMode {
		theme = "☾ Dark"
	}
	right := st.menuBar.Render(fmt.Sprintf("%s   %s  %s ",
		theme, m.now.Format(m.cfg.DateFormat), m.now.Format(m.cfg.ClockFormat)))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + st.menuBar.Render(strings.Repeat(" ", gap)) + right
}

type dockSlot struct {
	index      int
	start, end int
}

// dockLabel is the text of one dock entry. Running windows carry a dot.
func (m model) dockLabel(item content.DockItem, running map[string]bool) string {
	switch {
	case item.Divider:
		return "│"
	case item.URL != "":
		return item.Label + " ↗"
	case running[item.ID]:
		return item.Label + " •"
	default:
		return item.Label + "  "
	}
}

func (m model) runningSet() map[string]bool {
	running := make(map[string]bool)
	for _, id := range m.snap.Running() {
		running[id] = true
	}
	return running
}

// dockSlots computes the column span of each dock entry, centered in cols.
// Entries are padded by one cell on each side.
func (m model) dockSlots(cols int) []dockSlot {
	running := m.runningSet()
	total := 0
	widths := make([]int, len(m.dock))
	for i, item := range m.dock {
		widths[i] = lipgloss.Width(m.dockLabel(item, running)) + 2
		total += widths[i]
	}
	x := max((cols-total)/2, 0)
	slots := make([]dockSlot, 0, len(m.dock))
	for i, w := range widths {
		slots = append(slots, dockSlot{index: i, start: x, end: x + w})
		x += w
	}
	return slots
}

func (m model) renderDock(st styles, cols int) string {
	running := m.runningSet()
	var parts []string
	for i, item := range m.dock {
		label := m.dockLabel(item, running)
		switch {
		case item.Divider:
			parts = append(parts, st.divider.Padding(0, 1).Render(label))
		case i == m.dockSel:
			parts = append(parts, st.dockSel.Render(label))
		default:
			parts = append(parts, st.dockItem.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return lipgloss.PlaceHorizontal(cols, lipgloss.Center, row,
		lipgloss.WithWhitespaceBackground(paletteFor(m.snap.DarkMode).dock))
}

func (m model) renderFooter(st styles) string {
	switch {
	case m.err != nil:
		return st.errText.Render(" " + m.err.Error())
	case m.status != "":
		return st.muted.Render(" "+m.status) + "  " + m.help.View(m.keys)
	default:
		return m.help.View(m.keys)
	}
}

func helpStyles(dark bool) help.Styles {
	s := help.New().Styles
	p := paletteFor(dark)
	s.ShortKey = s.ShortKey.Foreground(p.accent)
	s.FullKey = s.FullKey.Foreground(p.accent)
	return s
}
