package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// ActionKind names what a desktop menu entry does.
type ActionKind string

const (
	ActionWindow    ActionKind = "window"
	ActionArrange   ActionKind = "arrange"
	ActionWorkspace ActionKind = "workspace"
	ActionTheme     ActionKind = "theme"
)

// Action is a parsed menu action such as "window:about".
type Action struct {
	Kind ActionKind
	Arg  string
}

func (a Action) String() string {
	if a.Arg == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + ":" + a.Arg
}

// ParseAction splits an action string produced by DesktopMenu.
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(s, ":")
	a := Action{Kind: ActionKind(kind), Arg: arg}
	switch a.Kind {
	case ActionWindow, ActionArrange, ActionWorkspace:
		if a.Arg == "" {
			return Action{}, fmt.Errorf("menu action %q has no argument", s)
		}
	case ActionTheme:
	default:
		return Action{}, fmt.Errorf("unknown menu action %q", s)
	}
	return a, nil
}

// DesktopMenu builds the launcher menu for snap: every window, then the
// arrangements, saved workspaces and the theme toggle.
func DesktopMenu(snap desktop.Snapshot, workspaces []string) []MenuItem {
	items := []MenuItem{{Label: "Windows", IsHeader: true}}
	for _, w := range snap.Windows {
		items = append(items, MenuItem{
			Label:    windowLabel(w),
			Action:   Action{Kind: ActionWindow, Arg: w.ID}.String(),
			Meta:     w.ID + " " + w.State().String(),
			IsActive: w.ID == snap.ActiveID,
		})
	}

	items = append(items, MenuItem{Label: "────────", IsDivider: true})

	arrange := make([]MenuItem, 0, len(tiling.Modes))
	for _, m := range tiling.Modes {
		arrange = append(arrange, MenuItem{
			Label:  string(m),
			Action: Action{Kind: ActionArrange, Arg: string(m)}.String(),
			Icon:   "view-grid",
		})
	}
	items = append(items, MenuItem{Label: "Arrange", Icon: "view-grid", Submenu: arrange})

	if len(workspaces) > 0 {
		ws := make([]MenuItem, 0, len(workspaces))
		for _, name := range workspaces {
			ws = append(ws, MenuItem{
				Label:  name,
				Action: Action{Kind: ActionWorkspace, Arg: name}.String(),
				Icon:   "document-open",
			})
		}
		items = append(items, MenuItem{Label: "Workspaces", Icon: "folder", Submenu: ws})
	}

	theme := "Dark mode"
	if snap.DarkMode {
		theme = "Light mode"
	}
	items = append(items, MenuItem{Label: theme, Action: string(ActionTheme), Icon: "preferences-desktop-theme"})
	return items
}

func windowLabel(w desktop.Window) string {
	label := w.Title
	if label == "" {
		label = w.ID
	}
	if w.Icon != "" {
		label = w.Icon + " " + label
	}
	if st := w.State(); st != desktop.StateOpen {
		label += " (" + st.String() + ")"
	}
	return label
}
