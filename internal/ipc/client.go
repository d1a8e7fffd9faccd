package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/runtimepath"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default runtime socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	if c.socketPath == "" {
		return nil, fmt.Errorf("%w: no socket path", ErrDaemonUnavailable)
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, req *Request) error {
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := c.dial(context.Background())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, req); err != nil {
		return nil, err
	}
	return readResponse(bufio.NewReader(conn))
}

func (c *Client) sendPayload(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

func decodeSnapshot(resp *Response) (*desktop.Snapshot, error) {
	var snap desktop.Snapshot
	if err := json.Unmarshal(resp.Data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

func (c *Client) snapshotCommand(cmd CommandType, payload any) (*desktop.Snapshot, error) {
	resp, err := c.sendPayload(cmd, payload)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(resp)
}

// Reload asks the daemon to re-read its configuration and catalog.
func (c *Client) Reload() error {
	_, err := c.sendPayload(CommandReload, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendPayload(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetState retrieves the current registry snapshot.
func (c *Client) GetState() (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandGetState, nil)
}

func (c *Client) Register(spec desktop.Spec) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandRegister, RegisterPayload{
		ID:     spec.ID,
		Title:  spec.Title,
		Icon:   spec.Icon,
		X:      spec.Position.X,
		Y:      spec.Position.Y,
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
	})
}

func (c *Client) Open(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandOpen, WindowPayload{ID: id})
}

func (c *Client) Close(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandClose, WindowPayload{ID: id})
}

func (c *Client) Minimize(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandMinimize, WindowPayload{ID: id})
}

func (c *Client) Maximize(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandMaximize, WindowPayload{ID: id})
}

func (c *Client) Restore(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandRestore, WindowPayload{ID: id})
}

// Focus raises and activates a window without changing its flags.
func (c *Client) Focus(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandFocus, WindowPayload{ID: id})
}

// Activate applies the dock click rule.
func (c *Client) Activate(id string) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandActivate, WindowPayload{ID: id})
}

func (c *Client) Move(id string, x, y int) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandMove, MovePayload{ID: id, X: x, Y: y})
}

func (c *Client) Resize(id string, width, height int) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandResize, ResizePayload{ID: id, Width: width, Height: height})
}

func (c *Client) ToggleDarkMode() (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandToggleDarkMode, nil)
}

// SaveWorkspace records the current desktop under name.
func (c *Client) SaveWorkspace(name string) (*WorkspaceInfo, error) {
	resp, err := c.sendPayload(CommandSaveWorkspace, WorkspacePayload{Name: name})
	if err != nil {
		return nil, err
	}
	var info WorkspaceInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse workspace info: %w", err)
	}
	return &info, nil
}

// LoadWorkspace replays a saved workspace onto the desktop.
func (c *Client) LoadWorkspace(name string) (*LoadWorkspaceData, error) {
	resp, err := c.sendPayload(CommandLoadWorkspace, WorkspacePayload{Name: name})
	if err != nil {
		return nil, err
	}
	var data LoadWorkspaceData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse workspace load result: %w", err)
	}
	return &data, nil
}

func (c *Client) ListWorkspaces() ([]WorkspaceInfo, error) {
	resp, err := c.sendPayload(CommandListWorkspaces, nil)
	if err != nil {
		return nil, err
	}
	var infos []WorkspaceInfo
	if err := json.Unmarshal(resp.Data, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse workspace list: %w", err)
	}
	return infos, nil
}

func (c *Client) DeleteWorkspace(name string) error {
	_, err := c.sendPayload(CommandDeleteWorkspace, WorkspacePayload{Name: name})
	return err
}

// Arrange lays out the visible windows. An empty mode, nil gap or nil area
// uses the daemon's configured value.
func (c *Client) Arrange(mode string, gap *int, area *tiling.Rect) (*desktop.Snapshot, error) {
	return c.snapshotCommand(CommandArrange, ArrangePayload{Mode: mode, Gap: gap, Area: area})
}

// Subscribe streams snapshots to fn until ctx is cancelled or the daemon
// closes the connection. The first call to fn carries the current state.
// A nil error is returned only when ctx ends the stream.
func (c *Client) Subscribe(ctx context.Context, fn func(desktop.Snapshot)) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, &Request{Command: CommandSubscribe}); err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Time{})

	reader := bufio.NewReader(conn)
	for {
		resp, err := readResponse(reader)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		snap, err := decodeSnapshot(resp)
		if err != nil {
			return err
		}
		fn(*snap)
	}
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
