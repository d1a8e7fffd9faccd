package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskfolio/internal/launcher"
)

const spotlightResults = 6

// spotlightPickMsg is emitted when a window is chosen.
type spotlightPickMsg struct{ id string }

// spotlightCloseMsg is emitted when the overlay is dismissed.
type spotlightCloseMsg struct{}

// spotlight is the "/" overlay: a query box over a fuzzy-ranked window list.
type spotlight struct {
	input    textinput.Model
	items    []launcher.Item
	results  []launcher.Result
	selected int
	active   bool
}

func newSpotlight() spotlight {
	in := textinput.New()
	in.Placeholder = "Search windows"
	in.Prompt = "/ "
	in.CharLimit = 64
	return spotlight{input: in}
}

func (s *spotlight) open(items []launcher.Item) tea.Cmd {
	s.items = items
	s.active = true
	s.selected = 0
	s.input.SetValue("")
	s.refresh()
	return s.input.Focus()
}

func (s *spotlight) close() {
	s.active = false
	s.input.Blur()
}

func (s *spotlight) refresh() {
	s.results = launcher.Search(s.input.Value(), s.items, spotlightResults)
	if s.selected >= len(s.results) {
		s.selected = 0
	}
}

var (
	spotlightUp     = key.NewBinding(key.WithKeys("up", "ctrl+p"))
	spotlightDown   = key.NewBinding(key.WithKeys("down", "ctrl+n"))
	spotlightPick   = key.NewBinding(key.WithKeys("enter"))
	spotlightCancel = key.NewBinding(key.WithKeys("esc"))
)

func (s spotlight) Update(msg tea.Msg) (spotlight, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch {
	case key.Matches(km, spotlightCancel):
		s.close()
		return s, func() tea.Msg { return spotlightCloseMsg{} }

	case key.Matches(km, spotlightPick):
		if len(s.results) == 0 {
			return s, nil
		}
		id := s.results[s.selected].Item.ID
		s.close()
		return s, func() tea.Msg { return spotlightPickMsg{id: id} }

	case key.Matches(km, spotlightUp):
		if s.selected > 0 {
			s.selected--
		}
		return s, nil

	case key.Matches(km, spotlightDown):
		if s.selected < len(s.results)-1 {
			s.selected++
		}
		return s, nil
	}

	var cmd tea.Cmd
	prev := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != prev {
		s.selected = 0
		s.refresh()
	}
	return s, cmd
}

func (s spotlight) View(st styles, width int) string {
	var b strings.Builder
	b.WriteString(s.input.View())
	if len(s.results) == 0 {
		b.WriteString("\n")
		b.WriteString(st.muted.Render("  no matching window"))
	}
	for i, r := range s.results {
		b.WriteString("\n")
		label := r.Item.Title
		if label == "" {
			label = r.Item.ID
		}
		line := "  " + label + st.muted.Render("  "+r.Item.ID)
		if i == s.selected {
			line = st.heading.Render("› "+label) + st.muted.Render("  "+r.Item.ID)
		}
		b.WriteString(line)
	}
	return st.overlay.Width(width).Render(b.String())
}
