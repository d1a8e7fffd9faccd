// Package palette drives external dmenu-style launchers (rofi, fuzzel, wofi,
// dmenu) so the desktop can be controlled from a window manager hotkey.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label     string // Display text
	Action    string // Action identifier returned on selection
	Icon      string // Icon name for rofi -show-icons
	Info      string // Hidden data returned on selection
	Meta      string // Hidden search keywords (rofi meta field)
	IsHeader  bool   // Non-selectable section header (bold)
	IsDivider bool   // Non-selectable divider line (dim)
	IsActive  bool   // Highlighted as the focused window
	IsUrgent  bool   // Highlighted as urgent
}

// SelectResult contains the result of a palette selection.
type SelectResult struct {
	Item     Item
	ExitCode int // ExitNormal, ExitCustom1 (Alt+Return) or ExitCustom2 (Alt+d)
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool
	Markup        bool // pango markup in labels
	NonSelectable bool // headers can be marked non-selectable
	CustomKeys    bool // kb-custom-N keybindings
	IndexOutput   bool // prints the selected index instead of its text
	MessageBar    bool
	RowStates     bool // active/urgent row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	// Show displays items under prompt. message is an optional context
	// line for backends with a message bar.
	Show(prompt string, items []Item, message string) (SelectResult, error)

	Capabilities() Capabilities
}

// Names lists the supported backends in detection order.
var Names = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// lookPath is swapped out by tests.
var lookPath = exec.LookPath

// Options tune a backend created by NewBackend.
type Options struct {
	FuzzyMatching bool
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect(opts Options) (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name, opts)
}

// NewBackend creates a backend by name: auto, rofi, fuzzel, wofi or dmenu.
// The named launcher must be in PATH.
func NewBackend(name string, opts Options) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return AutoDetect(opts)
	}

	var b *dmenuLikeBackend
	switch name {
	case "rofi":
		b = newRofiBackend()
	case "fuzzel":
		b = newFuzzelBackend()
	case "wofi":
		b = newWofiBackend()
	case "dmenu":
		b = newDmenuBackend()
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(Names, ", "))
	}
	if _, err := lookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	b.fuzzyMatching = opts.FuzzyMatching
	return b, nil
}
