package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

func windowInfo(w desktop.Window, activeID string) WindowInfo {
	return WindowInfo{
		ID:          w.ID,
		Title:       w.Title,
		State:       w.State().String(),
		Active:      w.ID == activeID,
		IsOpen:      w.IsOpen,
		IsMinimized: w.IsMinimized,
		IsMaximized: w.IsMaximized,
		X:           w.Position.X,
		Y:           w.Position.Y,
		Width:       w.Size.Width,
		Height:      w.Size.Height,
		ZIndex:      w.ZIndex,
	}
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	return id, nil
}

// windowResult extracts the addressed window from a post-operation snapshot.
func windowResult(snap *desktop.Snapshot, id string) (WindowOutput, error) {
	w, ok := snap.Window(id)
	if !ok {
		return WindowOutput{}, fmt.Errorf("window %q missing from snapshot", id)
	}
	return WindowOutput{
		Window:   windowInfo(w, snap.ActiveID),
		ActiveID: snap.ActiveID,
	}, nil
}

func (s *Server) windowOp(tool, id string, op func(string) (*desktop.Snapshot, error)) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	snap, err := op(id)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", tool).Str("window_id", id).Msg("tool failed")
		return nil, WindowOutput{}, fmt.Errorf("%s %q: %w", tool, id, err)
	}
	out, err := windowResult(snap, id)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Debug().Str("tool", tool).Str("window_id", id).Str("state", out.Window.State).Msg("tool applied")
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.ctrl.GetState()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}

	windows := make([]WindowInfo, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		if args.OpenOnly && !w.IsOpen {
			continue
		}
		windows = append(windows, windowInfo(w, snap.ActiveID))
	}
	return nil, ListWindowsOutput{
		Windows:  windows,
		ActiveID: snap.ActiveID,
		DarkMode: snap.DarkMode,
		Revision: snap.Revision,
	}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("open_window", args.ID, s.ctrl.Open)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("close_window", args.ID, s.ctrl.Close)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("minimize_window", args.ID, s.ctrl.Minimize)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("maximize_window", args.ID, s.ctrl.Maximize)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("restore_window", args.ID, s.ctrl.Restore)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("focus_window", args.ID, s.ctrl.Focus)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("move_window", args.ID, func(id string) (*desktop.Snapshot, error) {
		return s.ctrl.Move(id, args.X, args.Y)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOutput{}, fmt.Errorf("resize_window: width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	return s.windowOp("resize_window", args.ID, func(id string) (*desktop.Snapshot, error) {
		return s.ctrl.Resize(id, args.Width, args.Height)
	})
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeWindowsInput) (*mcpsdk.CallToolResult, ArrangeWindowsOutput, error) {
	mode := ""
	if strings.TrimSpace(args.Mode) != "" {
		m, err := tiling.ParseMode(args.Mode)
		if err != nil {
			return nil, ArrangeWindowsOutput{}, fmt.Errorf("arrange_windows: %w", err)
		}
		mode = string(m)
	}
	if args.Gap != nil && *args.Gap < 0 {
		return nil, ArrangeWindowsOutput{}, fmt.Errorf("arrange_windows: gap must be >= 0, got %d", *args.Gap)
	}

	snap, err := s.ctrl.Arrange(mode, args.Gap, nil)
	if err != nil {
		return nil, ArrangeWindowsOutput{}, fmt.Errorf("arrange_windows: %w", err)
	}

	placed := tiling.Order(*snap)
	windows := make([]WindowInfo, 0, len(placed))
	for _, w := range placed {
		windows = append(windows, windowInfo(w, snap.ActiveID))
	}
	if mode == "" {
		mode = "default"
	}
	s.logger.Info().Str("mode", mode).Int("windows", len(windows)).Msg("windows arranged")
	return nil, ArrangeWindowsOutput{Mode: mode, Windows: windows, ActiveID: snap.ActiveID}, nil
}

func (s *Server) handleToggleDarkMode(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleDarkModeInput) (*mcpsdk.CallToolResult, ToggleDarkModeOutput, error) {
	snap, err := s.ctrl.ToggleDarkMode()
	if err != nil {
		return nil, ToggleDarkModeOutput{}, fmt.Errorf("toggle_dark_mode: %w", err)
	}
	s.logger.Info().Bool("dark_mode", snap.DarkMode).Msg("theme toggled")
	return nil, ToggleDarkModeOutput{DarkMode: snap.DarkMode}, nil
}
