// Package tui renders the deskfolio desktop in a terminal: a menu bar, desktop
// icons, stacked windows and a dock, driven by the keyboard or the mouse.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
)

// ErrNotTerminal is returned when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")

// Options configures a desktop session.
type Options struct {
	Backend Backend
	Catalog *content.Catalog
	Config  *config.Config
	Logger  zerolog.Logger

	// Initial is drawn until the backend reports its own state.
	Initial desktop.Snapshot
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Run starts the desktop and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	if opts.Backend == nil {
		return errors.New("tui: no backend")
	}
	if opts.Catalog == nil {
		cat, err := content.Load()
		if err != nil {
			return err
		}
		opts.Catalog = cat
	}

	m := newModel(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := opts.Backend.Watch(watchCtx, func(s desktop.Snapshot) {
			p.Send(snapshotMsg(s))
		})
		if err != nil && watchCtx.Err() == nil {
			opts.Logger.Warn().Err(err).Msg("state subscription ended")
			p.Send(opErrMsg{err: fmt.Errorf("lost connection to daemon: %w", err)})
		}
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
