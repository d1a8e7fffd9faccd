package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/1broseidon/deskfolio/internal/content"
)

const panelCacheSize = 64

// panelKey identifies one rendering of a panel body.
type panelKey struct {
	id    string
	width int
	dark  bool
	phase content.ContactPhase
}

// panelCache memoizes panel bodies. Panels are static, so a body only changes
// with the window width, the theme or the contact form phase.
type panelCache struct {
	cache  *lru.Cache[panelKey, []string]
	hits   int
	misses int
}

func newPanelCache() *panelCache {
	c, err := lru.New[panelKey, []string](panelCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &panelCache{cache: c}
}

func (c *panelCache) lines(key panelKey, p *content.Panel) []string {
	if lines, ok := c.cache.Get(key); ok {
		c.hits++
		return lines
	}
	c.misses++
	lines := renderPanel(p, key.width, key.dark, key.phase)
	c.cache.Add(key, lines)
	return lines
}

func (c *panelCache) purge() {
	c.cache.Purge()
}

// renderPanel lays out a panel body as plain lines at most width cells wide.
func renderPanel(p *content.Panel, width int, dark bool, phase content.ContactPhase) []string {
	if p == nil || width <= 0 {
		return nil
	}
	var w panelWriter
	w.width = width

	switch p.Kind {
	case content.KindAbout:
		if a := p.About; a != nil {
			w.line(a.Name)
			w.line(a.Role)
			w.blank()
			for _, para := range a.Bio {
				w.para(para)
				w.blank()
			}
			if len(a.Education) > 0 {
				w.line("Education")
				for _, e := range a.Education {
					w.para(fmt.Sprintf("• %s, %s (%s)", e.Degree, e.School, e.Years))
				}
				w.blank()
			}
			if len(a.Interests) > 0 {
				w.line("Interests")
				w.para(strings.Join(a.Interests, " · "))
			}
		}

	case content.KindProjects:
		for i, pr := range p.Projects {
			if i > 0 {
				w.blank()
			}
			w.line(pr.Title)
			w.para(pr.Description)
			if len(pr.Tags) > 0 {
				w.para("[" + strings.Join(pr.Tags, "] [") + "]")
			}
			if pr.GithubURL != "" {
				w.line("  code: " + pr.GithubURL)
			}
			if pr.LiveURL != "" {
				w.line("  live: " + pr.LiveURL)
			}
		}

	case content.KindSkills:
		for i, cat := range p.Skills {
			if i > 0 {
				w.blank()
			}
			w.line(cat.Name)
			for _, s := range cat.Items {
				w.line(fmt.Sprintf("  %-18s %s", truncate(s.Name, 18), levelBar(s.Level)))
			}
		}

	case content.KindContact:
		if c := p.Contact; c != nil {
			w.line("Email     " + c.Email)
			w.line("Phone     " + c.Phone)
			w.line("Location  " + c.Location)
			for _, l := range c.Links {
				w.line(fmt.Sprintf("%-9s %s", l.Label, l.URL))
			}
			w.blank()
		}
		switch phase {
		case content.ContactSubmitting:
			w.line("Sending message…")
		case content.ContactSubmitted:
			w.para("Message sent! I'll get back to you soon.")
		default:
			w.line("Press enter to write a message.")
		}

	case content.KindFinder:
		for _, f := range p.Files {
			w.line(fmt.Sprintf("%s  %s", fileGlyph(f.Icon), f.Name))
		}

	case content.KindSettings:
		theme := "Light"
		if dark {
			theme = "Dark"
		}
		w.line("Appearance")
		w.line("  Theme     " + theme + "   (press t to toggle)")
		if s := p.Settings; s != nil && len(s.Languages) > 0 {
			w.blank()
			w.line("Language")
			for i, lang := range s.Languages {
				mark := " "
				if i == 0 {
					mark = "•"
				}
				w.line(fmt.Sprintf("  %s %s", mark, lang))
			}
		}
	}
	return w.lines
}

func levelBar(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}
	return strings.Repeat("■", level) + strings.Repeat("□", 5-level)
}

func fileGlyph(icon string) string {
	switch {
	case strings.Contains(icon, "folder"):
		return "▸"
	case strings.Contains(icon, "pdf"), strings.Contains(icon, "doc"):
		return "≡"
	default:
		return "·"
	}
}

type panelWriter struct {
	width int
	lines []string
}

func (w *panelWriter) line(s string) {
	w.lines = append(w.lines, truncate(s, w.width))
}

func (w *panelWriter) blank() {
	w.lines = append(w.lines, "")
}

// para word-wraps s to the writer width.
func (w *panelWriter) para(s string) {
	wrapped := lipgloss.NewStyle().Width(w.width).Render(s)
	for _, l := range strings.Split(wrapped, "\n") {
		w.lines = append(w.lines, strings.TrimRight(l, " "))
	}
}
