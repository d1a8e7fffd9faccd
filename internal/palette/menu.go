package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	backAction    = "__back__"
	noopAction    = "noop"
	submenuPrefix = "__submenu__:"
)

// MenuItem is a node in a menu hierarchy. Items with a Submenu open it
// instead of returning an action.
type MenuItem struct {
	Label     string
	Action    string
	Icon      string
	Meta      string
	IsHeader  bool
	IsDivider bool
	IsActive  bool
	Submenu   []MenuItem
}

func (m MenuItem) IsParent() bool {
	return len(m.Submenu) > 0
}

// MenuResult is the selected leaf action and the exit code it was chosen with.
type MenuResult struct {
	Action   string
	ExitCode int
}

// Menu navigates a MenuItem tree through a Backend.
type Menu struct {
	backend Backend
	root    []MenuItem
	prompt  string
	message string
}

func NewMenu(backend Backend, prompt string, items []MenuItem) *Menu {
	return &Menu{
		backend: backend,
		root:    items,
		prompt:  prompt,
	}
}

// SetMessage sets the context line shown by backends with a message bar.
func (m *Menu) SetMessage(msg string) {
	m.message = msg
}

// Show runs the menu until a leaf is chosen. Cancelling the top level
// returns ErrCancelled; cancelling a submenu goes back one level.
func (m *Menu) Show() (MenuResult, error) {
	return m.showLevel(m.root, nil)
}

func (m *Menu) showLevel(items []MenuItem, breadcrumb []string) (MenuResult, error) {
	if len(items) == 0 {
		return MenuResult{}, fmt.Errorf("menu: no items to show")
	}

	prompt := m.prompt
	if len(breadcrumb) > 0 {
		prompt = breadcrumb[len(breadcrumb)-1]
	}

	for {
		paletteItems := make([]Item, 0, len(items)+1)
		if len(breadcrumb) > 0 {
			paletteItems = append(paletteItems, Item{Label: "← Back", Action: backAction, Icon: "go-previous"})
		}
		for i, item := range items {
			paletteItems = append(paletteItems, toPaletteItem(item, i))
		}

		result, err := m.backend.Show(prompt, paletteItems, m.message)
		if err != nil {
			return MenuResult{}, err
		}

		picked := result.Item
		switch {
		case picked.IsHeader || picked.IsDivider || picked.Action == noopAction:
			// Some backends cannot mark rows non-selectable.
			continue
		case picked.Action == backAction:
			return MenuResult{}, ErrCancelled
		case strings.HasPrefix(picked.Action, submenuPrefix):
			idx, err := strconv.Atoi(strings.TrimPrefix(picked.Action, submenuPrefix))
			if err != nil || idx < 0 || idx >= len(items) || !items[idx].IsParent() {
				continue
			}
			sub, err := m.showLevel(items[idx].Submenu, append(breadcrumb, items[idx].Label))
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return sub, err
		}

		return MenuResult{Action: picked.Action, ExitCode: result.ExitCode}, nil
	}
}

func toPaletteItem(item MenuItem, index int) Item {
	out := Item{
		Label:     item.Label,
		Action:    item.Action,
		Icon:      item.Icon,
		Meta:      item.Meta,
		IsHeader:  item.IsHeader,
		IsDivider: item.IsDivider,
		IsActive:  item.IsActive,
	}
	if item.IsParent() {
		out.Label += " →"
		if out.Icon == "" {
			out.Icon = "folder"
		}
		out.Action = submenuPrefix + strconv.Itoa(index)
	} else if strings.TrimSpace(out.Action) == "" {
		out.Action = noopAction
	}
	return out
}
