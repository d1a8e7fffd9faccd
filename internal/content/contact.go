package content

import (
	"strings"
	"time"
)

const (
	// SubmitDelay is how long the simulated submission takes.
	SubmitDelay = 1500 * time.Millisecond
	// ConfirmationTTL is how long the success banner stays up.
	ConfirmationTTL = 5 * time.Second
)

// ContactPhase is the state of the contact form.
type ContactPhase int

const (
	ContactIdle ContactPhase = iota
	ContactSubmitting
	ContactSubmitted
)

func (p ContactPhase) String() string {
	switch p {
	case ContactIdle:
		return "idle"
	case ContactSubmitting:
		return "submitting"
	case ContactSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// ContactMessage holds the form fields.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Empty reports whether every field is blank.
func (m ContactMessage) Empty() bool {
	return strings.TrimSpace(m.Name+m.Email+m.Subject+m.Message) == ""
}

// ContactForm simulates sending a message. Nothing leaves the process: a
// submission is acknowledged after SubmitDelay and the confirmation is cleared
// after ConfirmationTTL. Callers drive it with Advance.
type ContactForm struct {
	Fields ContactMessage

	phase    ContactPhase
	deadline time.Time
	sent     int
}

// Phase returns the current phase.
func (f *ContactForm) Phase() ContactPhase {
	return f.phase
}

// Sent counts acknowledged submissions.
func (f *ContactForm) Sent() int {
	return f.sent
}

// Submit starts a submission at now. It is ignored while one is in flight.
func (f *ContactForm) Submit(now time.Time) bool {
	if f.phase == ContactSubmitting {
		return false
	}
	f.phase = ContactSubmitting
	f.deadline = now.Add(SubmitDelay)
	return true
}

// Advance moves the form forward to now and returns the time of the next
// transition, or the zero time when idle.
func (f *ContactForm) Advance(now time.Time) time.Time {
	switch f.phase {
	case ContactSubmitting:
		if now.Before(f.deadline) {
			return f.deadline
		}
		f.phase = ContactSubmitted
		f.Fields = ContactMessage{}
		f.sent++
		f.deadline = f.deadline.Add(ConfirmationTTL)
		if now.Before(f.deadline) {
			return f.deadline
		}
		fallthrough
	case ContactSubmitted:
		if now.Before(f.deadline) {
			return f.deadline
		}
		f.phase = ContactIdle
		f.deadline = time.Time{}
	}
	return time.Time{}
}
