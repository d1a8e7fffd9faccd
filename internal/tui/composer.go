package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/deskfolio/internal/content"
)

// contactSendMsg carries a completed message to the root model.
type contactSendMsg struct{ msg content.ContactMessage }

// contactTickMsg drives the simulated submission forward.
type contactTickMsg time.Time

// composer is the contact form overlay.
type composer struct {
	form    *huh.Form
	fields  *content.ContactMessage
	editing bool
	width   int
}

func (c composer) Update(msg tea.Msg) (composer, tea.Cmd) {
	if !c.editing {
		return c, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		c.stop()
		return c, nil
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		sent := *c.fields
		c.stop()
		return c, func() tea.Msg { return contactSendMsg{msg: sent} }
	case huh.StateAborted:
		c.stop()
		return c, nil
	}
	return c, cmd
}

func (c *composer) start(width int) tea.Cmd {
	c.fields = &content.ContactMessage{}
	c.width = width

	w := width - 4
	if w < 40 {
		w = 40
	}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Validate(contactRules["name"]).
				Value(&c.fields.Name),
			huh.NewInput().
				Key("email").
				Title("Email").
				Validate(contactRules["email"]).
				Value(&c.fields.Email),
			huh.NewInput().
				Key("subject").
				Title("Subject").
				Validate(contactRules["subject"]).
				Value(&c.fields.Subject),
			huh.NewText().
				Key("message").
				Title("Message").
				Lines(4).
				Validate(contactRules["message"]).
				Value(&c.fields.Message),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	c.editing = true
	return c.form.Init()
}

func (c *composer) stop() {
	c.editing = false
	c.form = nil
	c.fields = nil
}

func (c composer) View(st styles) string {
	if !c.editing || c.form == nil {
		return ""
	}
	title := st.heading.Render("Send a message")
	return st.overlay.Width(c.width).Render(title + "\n\n" + c.form.View())
}

// contactRules validates each contact field by form key. Every field is
// required.
var contactRules = map[string]func(string) error{
	"name":    required("name"),
	"email":   validEmail,
	"subject": required("subject"),
	"message": required("message"),
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return errors.New("enter a valid email address")
	}
	return nil
}

// contactTick schedules the next simulated transition, if any.
func contactTick(now, next time.Time) tea.Cmd {
	if next.IsZero() {
		return nil
	}
	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return contactTickMsg(t) })
}
