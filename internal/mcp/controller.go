package mcp

import (
	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

//go:generate mockgen -source=controller.go -destination=mocks/mock_controller.go

// Controller drives a desktop session. The IPC client is the production
// implementation.
type Controller interface {
	GetState() (*desktop.Snapshot, error)
	Open(id string) (*desktop.Snapshot, error)
	Close(id string) (*desktop.Snapshot, error)
	Minimize(id string) (*desktop.Snapshot, error)
	Maximize(id string) (*desktop.Snapshot, error)
	Restore(id string) (*desktop.Snapshot, error)
	Focus(id string) (*desktop.Snapshot, error)
	Move(id string, x, y int) (*desktop.Snapshot, error)
	Resize(id string, width, height int) (*desktop.Snapshot, error)
	ToggleDarkMode() (*desktop.Snapshot, error)
	Arrange(mode string, gap *int, area *tiling.Rect) (*desktop.Snapshot, error)
}

var _ Controller = (*ipc.Client)(nil)
