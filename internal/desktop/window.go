package desktop

import "sort"

// DefaultBaseZIndex is the z-index every window receives at registration.
const DefaultBaseZIndex = 100

// Point is a window position in desktop coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window size in desktop units.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds is a window's full geometry.
type Bounds struct {
	Position Point `json:"position"`
	Size     Size  `json:"size"`
}

// Spec describes a window at registration time.
type Spec struct {
	ID       string
	Title    string
	Icon     string
	Content  any // opaque to the manager
	Position Point
	Size     Size
}

// Window is one logical application surface.
type Window struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Content     any    `json:"-"`
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
	IsOpen      bool   `json:"is_open"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
	ZIndex      int    `json:"z_index"`
}

// State is the tagged view of a window's three flags.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateMaximized
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// State collapses the flags into one of the reachable states. The maximized
// flag is ignored while minimized and everything is ignored while closed.
func (w Window) State() State {
	switch {
	case !w.IsOpen:
		return StateClosed
	case w.IsMinimized:
		return StateMinimized
	case w.IsMaximized:
		return StateMaximized
	default:
		return StateOpen
	}
}

// Visible reports whether the window is painted on the desktop.
func (w Window) Visible() bool {
	return w.IsOpen && !w.IsMinimized
}

// Snapshot is an immutable copy of the registry.
type Snapshot struct {
	Windows       []Window `json:"windows"`
	ActiveID      string   `json:"active_id"`
	DarkMode      bool     `json:"dark_mode"`
	HighestZIndex int      `json:"highest_z_index"`
	Revision      uint64   `json:"revision"`
}

// Window returns the window with the given id.
func (s Snapshot) Window(id string) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// Active returns the focused window, if any.
func (s Snapshot) Active() (Window, bool) {
	if s.ActiveID == "" {
		return Window{}, false
	}
	return s.Window(s.ActiveID)
}

// ActiveTitle is what the menu bar shows.
func (s Snapshot) ActiveTitle(fallback string) string {
	if w, ok := s.Active(); ok && w.Title != "" {
		return w.Title
	}
	return fallback
}

// Running returns the ids of open windows (minimized included) in
// registration order. The dock uses it for running indicators.
func (s Snapshot) Running() []string {
	var ids []string
	for _, w := range s.Windows {
		if w.IsOpen {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// Stacked returns the visible windows in paint order, lowest z first.
func (s Snapshot) Stacked() []Window {
	out := make([]Window, 0, len(s.Windows))
	for _, w := range s.Windows {
		if w.Visible() {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}
