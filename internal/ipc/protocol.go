package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetState        CommandType = "GET_STATE"
	CommandRegister        CommandType = "REGISTER"
	CommandOpen            CommandType = "OPEN"
	CommandClose           CommandType = "CLOSE"
	CommandMinimize        CommandType = "MINIMIZE"
	CommandMaximize        CommandType = "MAXIMIZE"
	CommandRestore         CommandType = "RESTORE"
	CommandFocus           CommandType = "FOCUS"
	CommandActivate        CommandType = "ACTIVATE"
	CommandMove            CommandType = "MOVE"
	CommandResize          CommandType = "RESIZE"
	CommandToggleDarkMode  CommandType = "TOGGLE_DARK_MODE"
	CommandArrange         CommandType = "ARRANGE"
	CommandSaveWorkspace   CommandType = "SAVE_WORKSPACE"
	CommandLoadWorkspace   CommandType = "LOAD_WORKSPACE"
	CommandListWorkspaces  CommandType = "LIST_WORKSPACES"
	CommandDeleteWorkspace CommandType = "DELETE_WORKSPACE"
	CommandSubscribe       CommandType = "SUBSCRIBE"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// ErrDaemonUnavailable is returned when no daemon is listening on the socket.
var ErrDaemonUnavailable = errors.New("daemon is not running")

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool      `json:"daemon_running"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Uptime        string    `json:"uptime"`
	WindowCount   int       `json:"window_count"`
	OpenCount     int       `json:"open_count"`
	ActiveID      string    `json:"active_id"`
	DarkMode      bool      `json:"dark_mode"`
	Revision      uint64    `json:"revision"`
	Subscribers   int       `json:"subscribers"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID string `json:"id"`
}

type MovePayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type ResizePayload struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ArrangePayload lays out the visible windows. Zero fields fall back to the
// daemon's configured defaults.
type ArrangePayload struct {
	Mode string       `json:"mode,omitempty"`
	Gap  *int         `json:"gap,omitempty"`
	Area *tiling.Rect `json:"area,omitempty"`
}

// WorkspacePayload names a saved workspace.
type WorkspacePayload struct {
	Name string `json:"name"`
}

// WorkspaceInfo summarizes a saved workspace.
type WorkspaceInfo struct {
	Name      string    `json:"name"`
	SavedAt   time.Time `json:"saved_at"`
	Windows   int       `json:"windows"`
	OpenCount int       `json:"open_count"`
	ActiveID  string    `json:"active_id,omitempty"`
}

// LoadWorkspaceData is returned by LOAD_WORKSPACE.
type LoadWorkspaceData struct {
	Snapshot desktop.Snapshot `json:"snapshot"`
	Skipped  []string         `json:"skipped,omitempty"`
}

// RegisterPayload declares a window at runtime. Registration of an existing
// id is ignored by the daemon.
type RegisterPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
