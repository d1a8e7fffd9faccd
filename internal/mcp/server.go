// Package mcp exposes the desktop session as Model Context Protocol tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

const (
	ServerName    = "deskfolio"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for deskfolio window control.
type Server struct {
	mcpServer *mcpsdk.Server
	ctrl      Controller
	logger    zerolog.Logger
}

// NewServer creates an MCP server backed by ctrl.
func NewServer(ctrl Controller, logger zerolog.Logger) *Server {
	s := &Server{
		ctrl:   ctrl,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Msg("MCP server starting on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the portfolio windows in registration order with their state (closed, open, maximized, minimized), geometry and stacking order. Also reports the focused window and the theme.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window, bring it to the front and focus it. Opening an already open window just re-focuses it.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. If it had focus, focus moves to the topmost remaining visible window.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the dock. It stays running; use restore_window to bring it back.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle the maximized state of a window. The window is brought to the front and focused either way.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized window, bring it to the front and focus it.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front and focus it without changing whether it is open, minimized or maximized.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a new position. Coordinates are not clamped to the screen.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Width and height must be positive.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_dark_mode",
		Description: "Switch between the light and dark theme. The choice is persisted across sessions.",
	}, s.handleToggleDarkMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Lay out every open, unminimized, unmaximized window without overlap (or cascaded). The frontmost window takes the first slot; focus and stacking order are unchanged.",
	}, s.handleArrangeWindows)
}
