package tui

import (
	"context"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// Backend is the window registry the desktop draws and drives. It is either
// the daemon, reached over IPC, or a manager living in this process.
type Backend interface {
	State() (desktop.Snapshot, error)
	Open(id string) error
	Close(id string) error
	Minimize(id string) error
	Maximize(id string) error
	Restore(id string) error
	Focus(id string) error
	Activate(id string) error
	Move(id string, x, y int) error
	Resize(id string, width, height int) error
	ToggleDarkMode() error
	Arrange(mode tiling.Mode, gap int, area tiling.Rect) error

	// Watch calls fn with every new snapshot until ctx is done.
	Watch(ctx context.Context, fn func(desktop.Snapshot)) error
}

// LocalBackend drives an in-process manager.
type LocalBackend struct {
	mgr *desktop.Manager
}

// NewLocalBackend wraps mgr.
func NewLocalBackend(mgr *desktop.Manager) *LocalBackend {
	return &LocalBackend{mgr: mgr}
}

func (b *LocalBackend) State() (desktop.Snapshot, error) { return b.mgr.Snapshot(), nil }

func (b *LocalBackend) Open(id string) error     { b.mgr.Open(id); return nil }
func (b *LocalBackend) Close(id string) error    { b.mgr.Close(id); return nil }
func (b *LocalBackend) Minimize(id string) error { b.mgr.Minimize(id); return nil }
func (b *LocalBackend) Maximize(id string) error { b.mgr.Maximize(id); return nil }
func (b *LocalBackend) Restore(id string) error  { b.mgr.Restore(id); return nil }
func (b *LocalBackend) Focus(id string) error    { b.mgr.SetActive(id); return nil }
func (b *LocalBackend) Activate(id string) error { b.mgr.Activate(id); return nil }

func (b *LocalBackend) Move(id string, x, y int) error {
	b.mgr.UpdatePosition(id, x, y)
	return nil
}

func (b *LocalBackend) Resize(id string, width, height int) error {
	b.mgr.UpdateSize(id, width, height)
	return nil
}

func (b *LocalBackend) ToggleDarkMode() error {
	b.mgr.ToggleDarkMode()
	return nil
}

func (b *LocalBackend) Arrange(mode tiling.Mode, gap int, area tiling.Rect) error {
	plan, err := tiling.Plan(b.mgr.Snapshot(), mode, area, gap)
	if err != nil {
		return err
	}
	b.mgr.Place(plan)
	return nil
}

// Watch subscribes to the manager and blocks until ctx is done.
func (b *LocalBackend) Watch(ctx context.Context, fn func(desktop.Snapshot)) error {
	cancel := b.mgr.Subscribe(desktop.Listener(fn))
	defer cancel()
	<-ctx.Done()
	return nil
}

// RemoteBackend drives the daemon through an IPC client.
type RemoteBackend struct {
	client *ipc.Client
}

// NewRemoteBackend wraps client.
func NewRemoteBackend(client *ipc.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (b *RemoteBackend) State() (desktop.Snapshot, error) {
	snap, err := b.client.GetState()
	if err != nil {
		return desktop.Snapshot{}, err
	}
	return *snap, nil
}

func discard(_ *desktop.Snapshot, err error) error { return err }

func (b *RemoteBackend) Open(id string) error     { return discard(b.client.Open(id)) }
func (b *RemoteBackend) Close(id string) error    { return discard(b.client.Close(id)) }
func (b *RemoteBackend) Minimize(id string) error { return discard(b.client.Minimize(id)) }
func (b *RemoteBackend) Maximize(id string) error { return discard(b.client.Maximize(id)) }
func (b *RemoteBackend) Restore(id string) error  { return discard(b.client.Restore(id)) }
func (b *RemoteBackend) Focus(id string) error    { return discard(b.client.Focus(id)) }
func (b *RemoteBackend) Activate(id string) error { return discard(b.client.Activate(id)) }

func (b *RemoteBackend) Move(id string, x, y int) error {
	return discard(b.client.Move(id, x, y))
}

func (b *RemoteBackend) Resize(id string, width, height int) error {
	return discard(b.client.Resize(id, width, height))
}

func (b *RemoteBackend) ToggleDarkMode() error {
	return discard(b.client.ToggleDarkMode())
}

func (b *RemoteBackend) Arrange(mode tiling.Mode, gap int, area tiling.Rect) error {
	return discard(b.client.Arrange(string(mode), &gap, &area))
}

func (b *RemoteBackend) Watch(ctx context.Context, fn func(desktop.Snapshot)) error {
	return b.client.Subscribe(ctx, fn)
}
