// Package desktop tracks the simulated windows of a deskfolio session: their
// open, minimized and maximized flags, geometry, stacking order and focus.
package desktop

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DarkModeKey is the preference key holding the theme flag.
const DarkModeKey = "darkMode"

// Preferences is the durable key/value store behind the theme flag.
type Preferences interface {
	GetBool(ctx context.Context, key string) (value bool, ok bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Listener receives the registry snapshot after every mutation.
type Listener func(Snapshot)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithPreferences sets the store the dark mode flag is read from and written to.
func WithPreferences(prefs Preferences) Option {
	return func(m *Manager) {
		m.prefs = prefs
	}
}

// WithBaseZIndex overrides the z-index assigned at registration.
func WithBaseZIndex(z int) Option {
	return func(m *Manager) {
		m.baseZ = z
	}
}

// Manager is the window registry for one session. All operations are total:
// unknown ids are logged and ignored.
//
// Listeners run synchronously, in mutation order, after the registry lock is
// released. They may read the manager from any goroutine but must not mutate
// it from inside the callback.
type Manager struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // held while draining pending; never acquired under mu

	windows  map[string]*Window
	order    []string
	activeID string
	baseZ    int
	highestZ int
	darkMode bool
	revision uint64

	subs    []subscription
	nextSub int
	pending []delivery

	prefs  Preferences
	logger zerolog.Logger
}

const prefsTimeout = 2 * time.Second

// New creates an empty registry. When a preferences store is configured the
// dark mode flag is read from it once.
func New(opts ...Option) *Manager {
	m := &Manager{
		windows: make(map[string]*Window),
		baseZ:   DefaultBaseZIndex,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.highestZ = m.baseZ

	if m.prefs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		defer cancel()
		dark, ok, err := m.prefs.GetBool(ctx, DarkModeKey)
		switch {
		case err != nil:
			m.logger.Warn().Err(err).Str("key", DarkModeKey).Msg("failed to read theme preference")
		case ok:
			m.darkMode = dark
		}
	}
	return m
}

// Register inserts a closed window. Registering an existing id is a no-op.
func (m *Manager) Register(spec Spec) {
	m.mutate(func() bool {
		if _, exists := m.windows[spec.ID]; exists {
			m.logger.Debug().Str("window_id", spec.ID).Msg("window already registered")
			return false
		}
		m.windows[spec.ID] = &Window{
			ID:       spec.ID,
			Title:    spec.Title,
			Icon:     spec.Icon,
			Content:  spec.Content,
			Position: spec.Position,
			Size:     spec.Size,
			ZIndex:   m.baseZ,
		}
		m.order = append(m.order, spec.ID)
		return true
	})
}

// Open shows the window, clears minimized, raises and focuses it.
func (m *Manager) Open(id string) {
	m.mutate(func() bool {
		w := m.lookup("open", id)
		if w == nil {
			return false
		}
		m.openLocked(w)
		return true
	})
}

// Close hides the window. Geometry and the minimized flag are kept. If the
// window had focus, focus moves to the topmost remaining visible window.
func (m *Manager) Close(id string) {
	m.mutate(func() bool {
		w := m.lookup("close", id)
		if w == nil {
			return false
		}
		w.IsOpen = false
		if m.activeID == id {
			m.activeID = m.topmostExcept(id)
		}
		return true
	})
}

// Minimize sends the window to the dock, refocusing like Close.
func (m *Manager) Minimize(id string) {
	m.mutate(func() bool {
		w := m.lookup("minimize", id)
		if w == nil {
			return false
		}
		w.IsMinimized = true
		if m.activeID == id {
			m.activeID = m.topmostExcept(id)
		}
		return true
	})
}

// Maximize toggles the maximized flag. The window is raised and focused in
// both directions.
func (m *Manager) Maximize(id string) {
	m.mutate(func() bool {
		w := m.lookup("maximize", id)
		if w == nil {
			return false
		}
		w.IsMaximized = !w.IsMaximized
		m.raiseLocked(w)
		return true
	})
}

// Restore clears minimized, raises and focuses. On a window that is not
// minimized it is a plain re-focus.
func (m *Manager) Restore(id string) {
	m.mutate(func() bool {
		w := m.lookup("restore", id)
		if w == nil {
			return false
		}
		w.IsMinimized = false
		m.raiseLocked(w)
		return true
	})
}

// SetActive raises and focuses without touching any flag.
func (m *Manager) SetActive(id string) {
	m.mutate(func() bool {
		w := m.lookup("set_active", id)
		if w == nil {
			return false
		}
		m.raiseLocked(w)
		return true
	})
}

// Activate applies the dock click rule: a minimized window is restored, a
// closed one is opened and an open one is left alone.
func (m *Manager) Activate(id string) {
	m.mutate(func() bool {
		w := m.lookup("activate", id)
		if w == nil {
			return false
		}
		switch {
		case w.IsOpen && w.IsMinimized:
			w.IsMinimized = false
			m.raiseLocked(w)
		case w.IsOpen:
			return false
		default:
			m.openLocked(w)
		}
		return true
	})
}

// UpdatePosition overwrites the window position. No clamping is applied.
func (m *Manager) UpdatePosition(id string, x, y int) {
	m.mutate(func() bool {
		w := m.lookup("update_position", id)
		if w == nil {
			return false
		}
		w.Position = Point{X: x, Y: y}
		return true
	})
}

// UpdateSize overwrites the window size. No clamping is applied.
func (m *Manager) UpdateSize(id string, width, height int) {
	m.mutate(func() bool {
		w := m.lookup("update_size", id)
		if w == nil {
			return false
		}
		w.Size = Size{Width: width, Height: height}
		return true
	})
}

// Place sets the geometry of several windows as one mutation, so listeners
// see a single revision. Unknown ids are skipped. Flags and z-order are
// untouched.
func (m *Manager) Place(bounds map[string]Bounds) {
	m.mutate(func() bool {
		changed := false
		for id, b := range bounds {
			w := m.lookup("place", id)
			if w == nil {
				continue
			}
			if w.Position == b.Position && w.Size == b.Size {
				continue
			}
			w.Position = b.Position
			w.Size = b.Size
			changed = true
		}
		return changed
	})
}

// ToggleDarkMode flips the theme flag and persists it. A failed write is
// logged; the in-memory flag flips regardless.
func (m *Manager) ToggleDarkMode() {
	m.mutate(func() bool {
		m.darkMode = !m.darkMode
		if m.prefs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
			defer cancel()
			if err := m.prefs.SetBool(ctx, DarkModeKey, m.darkMode); err != nil {
				m.logger.Error().Err(err).Str("key", DarkModeKey).Msg("failed to persist theme preference")
			}
		}
		return true
	})
}

// DarkMode reports the current theme flag.
func (m *Manager) DarkMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.darkMode
}

// ActiveID returns the focused window id, or "".
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Window returns a copy of one window.
func (m *Manager) Window(id string) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Snapshot returns an immutable copy of the registry.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

type subscription struct {
	id int
	fn Listener
}

// delivery is one snapshot waiting to reach the listeners that were
// subscribed when it was taken.
type delivery struct {
	snap      Snapshot
	listeners []Listener
}

// Subscribe registers fn for change notifications. The returned function
// removes it.
func (m *Manager) Subscribe(fn Listener) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.subs {
				if sub.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// mutate applies fn under the registry lock and, if fn reports a change,
// queues the resulting snapshot. The queue is drained in order under
// notifyMu after mu is released, so a listener reading the manager never
// waits on a mutator that waits on the listener. mutate returns once its own
// snapshot has been delivered.
func (m *Manager) mutate(fn func() bool) {
	m.mu.Lock()
	if !fn() {
		m.mu.Unlock()
		return
	}
	m.revision++
	d := delivery{snap: m.snapshotLocked()}
	if len(m.subs) > 0 {
		d.listeners = make([]Listener, len(m.subs))
		for i, sub := range m.subs {
			d.listeners[i] = sub.fn
		}
	}
	m.pending = append(m.pending, d)
	m.mu.Unlock()

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	for {
		m.mu.Lock()
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, d := range batch {
			for _, l := range d.listeners {
				l(d.snap)
			}
		}
	}
}

func (m *Manager) lookup(op, id string) *Window {
	w, ok := m.windows[id]
	if !ok {
		m.logger.Warn().Str("op", op).Str("window_id", id).Msg("ignoring operation on unknown window")
		return nil
	}
	return w
}

func (m *Manager) openLocked(w *Window) {
	w.IsOpen = true
	w.IsMinimized = false
	m.raiseLocked(w)
}

// raiseLocked issues the next z-index and focuses w.
func (m *Manager) raiseLocked(w *Window) {
	m.highestZ++
	w.ZIndex = m.highestZ
	m.activeID = w.ID
}

// topmostExcept picks the visible window with the highest z-index, skipping
// id. Z-indexes are unique so there are no ties.
func (m *Manager) topmostExcept(id string) string {
	best := ""
	bestZ := 0
	for _, wid := range m.order {
		w := m.windows[wid]
		if wid == id || !w.Visible() {
			continue
		}
		if best == "" || w.ZIndex > bestZ {
			best = wid
			bestZ = w.ZIndex
		}
	}
	return best
}

func (m *Manager) snapshotLocked() Snapshot {
	windows := make([]Window, 0, len(m.order))
	for _, id := range m.order {
		windows = append(windows, *m.windows[id])
	}
	return Snapshot{
		Windows:       windows,
		ActiveID:      m.activeID,
		DarkMode:      m.darkMode,
		HighestZIndex: m.highestZ,
		Revision:      m.revision,
	}
}
