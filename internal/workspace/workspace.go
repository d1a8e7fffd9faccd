// Package workspace saves and restores named desktop layouts: which
// windows are open, minimized or maximized, where they sit and which one
// has focus.
package workspace

import (
	"fmt"
	"sort"
	"time"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

// Workspace is a persisted snapshot of the window registry.
type Workspace struct {
	Name     string        `json:"name"`
	SavedAt  time.Time     `json:"saved_at"`
	ActiveID string        `json:"active_id,omitempty"`
	Windows  []WindowState `json:"windows"`
}

// WindowState is one window as it was saved. Windows are stored in stacking
// order, lowest first.
type WindowState struct {
	ID          string        `json:"id"`
	IsOpen      bool          `json:"is_open"`
	IsMinimized bool          `json:"is_minimized,omitempty"`
	IsMaximized bool          `json:"is_maximized,omitempty"`
	Position    desktop.Point `json:"position"`
	Size        desktop.Size  `json:"size"`
}

// OpenCount is the number of saved windows that were open.
func (w *Workspace) OpenCount() int {
	n := 0
	for _, ws := range w.Windows {
		if ws.IsOpen {
			n++
		}
	}
	return n
}

// Capture records snap under name.
func Capture(name string, snap desktop.Snapshot, now time.Time) (*Workspace, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	windows := append([]desktop.Window(nil), snap.Windows...)
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].ZIndex < windows[j].ZIndex
	})

	out := &Workspace{
		Name:     name,
		SavedAt:  now.UTC(),
		ActiveID: snap.ActiveID,
		Windows:  make([]WindowState, 0, len(windows)),
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowState{
			ID:          w.ID,
			IsOpen:      w.IsOpen,
			IsMinimized: w.IsMinimized,
			IsMaximized: w.IsMaximized,
			Position:    w.Position,
			Size:        w.Size,
		})
	}
	return out, nil
}

// Restore replays ws onto mgr. Saved windows the registry no longer knows
// are skipped and returned; registered windows the workspace does not
// mention are left alone.
func Restore(mgr *desktop.Manager, ws *Workspace) ([]string, error) {
	if mgr == nil {
		return nil, fmt.Errorf("manager is nil")
	}
	if ws == nil {
		return nil, fmt.Errorf("workspace is nil")
	}

	var skipped []string
	geometry := make(map[string]desktop.Bounds, len(ws.Windows))

	// Opening in saved order rebuilds the stacking order.
	for _, saved := range ws.Windows {
		current, ok := mgr.Window(saved.ID)
		if !ok {
			skipped = append(skipped, saved.ID)
			continue
		}
		geometry[saved.ID] = desktop.Bounds{Position: saved.Position, Size: saved.Size}

		if !saved.IsOpen {
			if current.IsOpen {
				mgr.Close(saved.ID)
			}
			continue
		}
		mgr.Open(saved.ID)
		if current.IsMaximized != saved.IsMaximized {
			mgr.Maximize(saved.ID)
		}
	}
	for _, saved := range ws.Windows {
		if saved.IsOpen && saved.IsMinimized {
			mgr.Minimize(saved.ID)
		}
	}
	mgr.Place(geometry)

	if ws.ActiveID != "" {
		if w, ok := mgr.Window(ws.ActiveID); ok && w.Visible() && mgr.ActiveID() != ws.ActiveID {
			mgr.SetActive(ws.ActiveID)
		}
	}
	return skipped, nil
}
