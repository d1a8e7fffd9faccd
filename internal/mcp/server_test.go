package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	mock_mcp "github.com/1broseidon/deskfolio/internal/mcp/mocks"
)

func sampleSnapshot() *desktop.Snapshot {
	return &desktop.Snapshot{
		Windows: []desktop.Window{
			{ID: "about", Title: "About Me", IsOpen: true, ZIndex: 101, Position: desktop.Point{X: 100, Y: 50}, Size: desktop.Size{Width: 700, Height: 500}},
			{ID: "projects", Title: "Projects", IsOpen: true, IsMinimized: true, ZIndex: 102},
			{ID: "skills", Title: "Skills", ZIndex: 100},
		},
		ActiveID:      "about",
		HighestZIndex: 102,
		Revision:      4,
	}
}

func newTestServer(t *testing.T) (*Server, *mock_mcp.MockController) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := mock_mcp.NewMockController(ctrl)
	return NewServer(mock, zerolog.Nop()), mock
}

func TestListWindows(t *testing.T) {
	s, mock := newTestServer(t)
	mock.EXPECT().GetState().Return(sampleSnapshot(), nil).Times(2)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	require.NoError(t, err)
	require.Len(t, out.Windows, 3)
	assert.Equal(t, "about", out.ActiveID)
	assert.Equal(t, uint64(4), out.Revision)
	assert.Equal(t, "open", out.Windows[0].State)
	assert.True(t, out.Windows[0].Active)
	assert.Equal(t, "minimized", out.Windows[1].State)
	assert.Equal(t, "closed", out.Windows[2].State)

	_, out, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{OpenOnly: true})
	require.NoError(t, err)
	assert.Len(t, out.Windows, 2)
}

func TestListWindowsDaemonDown(t *testing.T) {
	s, mock := newTestServer(t)
	mock.EXPECT().GetState().Return(nil, ipc.ErrDaemonUnavailable)

	_, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	assert.ErrorIs(t, err, ipc.ErrDaemonUnavailable)
}

func TestWindowTools(t *testing.T) {
	ctx := context.Background()
	s, mock := newTestServer(t)
	snap := sampleSnapshot()

	gomock.InOrder(
		mock.EXPECT().Open("about").Return(snap, nil),
		mock.EXPECT().Close("about").Return(snap, nil),
		mock.EXPECT().Minimize("about").Return(snap, nil),
		mock.EXPECT().Maximize("about").Return(snap, nil),
		mock.EXPECT().Restore("about").Return(snap, nil),
		mock.EXPECT().Focus("about").Return(snap, nil),
		mock.EXPECT().Move("about", 5, 6).Return(snap, nil),
		mock.EXPECT().Resize("about", 300, 200).Return(snap, nil),
	)

	calls := []func() (WindowOutput, error){
		func() (WindowOutput, error) {
			_, out, err := s.handleOpenWindow(ctx, nil, WindowInput{ID: "about"})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: "about"})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleMinimizeWindow(ctx, nil, WindowInput{ID: "about"})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleMaximizeWindow(ctx, nil, WindowInput{ID: "about"})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleRestoreWindow(ctx, nil, WindowInput{ID: " about "})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleFocusWindow(ctx, nil, WindowInput{ID: "about"})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{ID: "about", X: 5, Y: 6})
			return out, err
		},
		func() (WindowOutput, error) {
			_, out, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "about", Width: 300, Height: 200})
			return out, err
		},
	}
	for i, call := range calls {
		out, err := call()
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, "about", out.Window.ID)
		assert.Equal(t, "about", out.ActiveID)
	}
}

func TestWindowToolValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	_, _, err := s.handleOpenWindow(ctx, nil, WindowInput{ID: "  "})
	assert.EqualError(t, err, "id is required")

	_, _, err = s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "about", Width: 0, Height: 10})
	assert.ErrorContains(t, err, "must be positive")
}

func TestWindowToolPropagatesErrors(t *testing.T) {
	s, mock := newTestServer(t)
	mock.EXPECT().Open("ghost").Return(nil, errors.New(`daemon error: unknown window "ghost"`))

	_, _, err := s.handleOpenWindow(context.Background(), nil, WindowInput{ID: "ghost"})
	assert.ErrorContains(t, err, `open_window "ghost"`)
	assert.ErrorContains(t, err, "unknown window")
}

func TestToggleDarkMode(t *testing.T) {
	s, mock := newTestServer(t)
	snap := sampleSnapshot()
	snap.DarkMode = true
	mock.EXPECT().ToggleDarkMode().Return(snap, nil)

	_, out, err := s.handleToggleDarkMode(context.Background(), nil, ToggleDarkModeInput{})
	require.NoError(t, err)
	assert.True(t, out.DarkMode)
}

func TestArrangeWindows(t *testing.T) {
	ctx := context.Background()
	s, mock := newTestServer(t)

	gap := 0
	mock.EXPECT().Arrange("cascade", &gap, gomock.Nil()).Return(sampleSnapshot(), nil)
	_, out, err := s.handleArrangeWindows(ctx, nil, ArrangeWindowsInput{Mode: "Cascade", Gap: &gap})
	require.NoError(t, err)
	assert.Equal(t, "cascade", out.Mode)
	require.Len(t, out.Windows, 1, "minimized and closed windows are not placed")
	assert.Equal(t, "about", out.Windows[0].ID)

	mock.EXPECT().Arrange("", gomock.Nil(), gomock.Nil()).Return(sampleSnapshot(), nil)
	_, out, err = s.handleArrangeWindows(ctx, nil, ArrangeWindowsInput{})
	require.NoError(t, err)
	assert.Equal(t, "default", out.Mode)

	_, _, err = s.handleArrangeWindows(ctx, nil, ArrangeWindowsInput{Mode: "spiral"})
	assert.ErrorContains(t, err, "unknown arrangement")

	neg := -4
	_, _, err = s.handleArrangeWindows(ctx, nil, ArrangeWindowsInput{Gap: &neg})
	assert.ErrorContains(t, err, "gap must be >= 0")
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, mock := newTestServer(t)
	mock.EXPECT().Open("about").Return(sampleSnapshot(), nil)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_windows", "open_window", "close_window", "minimize_window", "maximize_window",
		"restore_window", "focus_window", "move_window", "resize_window", "toggle_dark_mode",
		"arrange_windows",
	}, names)

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "open_window",
		Arguments: map[string]any{"id": "about"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
