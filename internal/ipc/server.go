package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/runtimepath"
	"github.com/1broseidon/deskfolio/internal/tiling"
	"github.com/1broseidon/deskfolio/internal/workspace"
)

const (
	requestTimeout = 5 * time.Second
	writeTimeout   = 5 * time.Second
)

// ReloadFunc re-reads configuration and catalog on RELOAD.
type ReloadFunc func() error

// ArrangeDefaults supplies the mode, gap and area used when an ARRANGE
// request leaves them out.
type ArrangeDefaults func() (mode tiling.Mode, gap int, area tiling.Rect)

// WorkspaceStoreFunc returns the store workspace commands operate on.
type WorkspaceStoreFunc func() (*workspace.Store, error)

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	mgr        *desktop.Manager
	reload     ReloadFunc
	arrange    ArrangeDefaults
	workspaces WorkspaceStoreFunc
	logger     zerolog.Logger
	startTime  time.Time

	subscribers atomic.Int32
	done        chan struct{}
	stopOnce    sync.Once

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. An empty socketPath resolves to the
// default runtime socket.
func NewServer(socketPath string, mgr *desktop.Manager, reload ReloadFunc, logger zerolog.Logger) (*Server, error) {
	if socketPath == "" {
		path, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = path
	}
	if mgr == nil {
		return nil, fmt.Errorf("ipc: manager is required")
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		mgr:        mgr,
		reload:     reload,
		logger:     logger,
		startTime:  time.Now(),
		done:       make(chan struct{}),
	}, nil
}

// SetArrangeDefaults installs the fallback for ARRANGE requests. Call before
// Start.
func (s *Server) SetArrangeDefaults(fn ArrangeDefaults) {
	s.arrange = fn
}

// SetWorkspaceStore enables the workspace commands. Call before Start.
func (s *Server) SetWorkspaceStore(fn WorkspaceStoreFunc) {
	s.workspaces = fn
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	go s.acceptLoop()

	return nil
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestTimeout))
	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug().Err(err).Msg("IPC read error")
		return
	}
	conn.SetReadDeadline(time.Time{})

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Command == CommandSubscribe {
		s.handleSubscribe(conn, reader)
		return
	}

	resp := s.handleCommand(req)
	if err := writeResponse(conn, resp); err != nil {
		s.logger.Debug().Err(err).Str("command", string(req.Command)).Msg("failed to send response")
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	logger := s.logger.With().Str("command", string(req.Command)).Logger()
	logger.Debug().Msg("IPC request")

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return snapshotResponse(s.mgr.Snapshot())
	case CommandRegister:
		return s.handleRegister(req.Payload)
	case CommandOpen:
		return s.windowOp(req.Payload, s.mgr.Open)
	case CommandClose:
		return s.windowOp(req.Payload, s.mgr.Close)
	case CommandMinimize:
		return s.windowOp(req.Payload, s.mgr.Minimize)
	case CommandMaximize:
		return s.shownWindowOp(req.Payload, s.mgr.Maximize, false)
	case CommandRestore:
		return s.shownWindowOp(req.Payload, s.mgr.Restore, true)
	case CommandFocus:
		return s.shownWindowOp(req.Payload, s.mgr.SetActive, false)
	case CommandActivate:
		return s.windowOp(req.Payload, s.mgr.Activate)
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandToggleDarkMode:
		s.mgr.ToggleDarkMode()
		return snapshotResponse(s.mgr.Snapshot())
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandSaveWorkspace:
		return s.handleSaveWorkspace(req.Payload)
	case CommandLoadWorkspace:
		return s.handleLoadWorkspace(req.Payload)
	case CommandListWorkspaces:
		return s.handleListWorkspaces()
	case CommandDeleteWorkspace:
		return s.handleDeleteWorkspace(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload: %v", err))
	}
	s.logger.Info().Msg("configuration reloaded via IPC")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	snap := s.mgr.Snapshot()
	now := time.Now()
	status := StatusData{
		DaemonRunning: true,
		StartedAt:     s.startTime,
		UptimeSeconds: int64(now.Sub(s.startTime).Seconds()),
		Uptime:        humanize.RelTime(s.startTime, now, "", ""),
		WindowCount:   len(snap.Windows),
		OpenCount:     len(snap.Running()),
		ActiveID:      snap.ActiveID,
		DarkMode:      snap.DarkMode,
		Revision:      snap.Revision,
		Subscribers:   int(s.subscribers.Load()),
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleRegister(payload json.RawMessage) *Response {
	var req RegisterPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("window id is required")
	}
	s.mgr.Register(desktop.Spec{
		ID:       req.ID,
		Title:    req.Title,
		Icon:     req.Icon,
		Position: desktop.Point{X: req.X, Y: req.Y},
		Size:     desktop.Size{Width: req.Width, Height: req.Height},
	})
	return snapshotResponse(s.mgr.Snapshot())
}

// windowOp decodes a WindowPayload and applies op. Unknown ids are reported
// to the client instead of being silently ignored.
func (s *Server) windowOp(payload json.RawMessage, op func(id string)) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if resp := s.requireWindow(req.ID); resp != nil {
		return resp
	}
	op(req.ID)
	return snapshotResponse(s.mgr.Snapshot())
}

// shownWindowOp is windowOp for operations that focus the window. The
// window must be open, and unless allowMinimized is set, not minimized, so
// the active window is always one the user can see.
func (s *Server) shownWindowOp(payload json.RawMessage, op func(id string), allowMinimized bool) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if resp := s.requireWindow(req.ID); resp != nil {
		return resp
	}
	w, _ := s.mgr.Window(req.ID)
	switch {
	case !w.IsOpen:
		return NewErrorResponse(fmt.Sprintf("window %q is not open", req.ID))
	case w.IsMinimized && !allowMinimized:
		return NewErrorResponse(fmt.Sprintf("window %q is minimized", req.ID))
	}
	op(req.ID)
	return snapshotResponse(s.mgr.Snapshot())
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if resp := s.requireWindow(req.ID); resp != nil {
		return resp
	}
	s.mgr.UpdatePosition(req.ID, req.X, req.Y)
	return snapshotResponse(s.mgr.Snapshot())
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if resp := s.requireWindow(req.ID); resp != nil {
		return resp
	}
	s.mgr.UpdateSize(req.ID, req.Width, req.Height)
	return snapshotResponse(s.mgr.Snapshot())
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}

	mode, gap, area := tiling.ModeGrid, tiling.DefaultGap, tiling.Rect{}
	if s.arrange != nil {
		mode, gap, area = s.arrange()
	}
	if req.Mode != "" {
		m, err := tiling.ParseMode(req.Mode)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		mode = m
	}
	if req.Gap != nil {
		gap = *req.Gap
	}
	if req.Area != nil {
		area = *req.Area
	}

	plan, err := tiling.Plan(s.mgr.Snapshot(), mode, area, gap)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to arrange: %v", err))
	}
	s.mgr.Place(plan)
	s.logger.Debug().Str("mode", string(mode)).Int("windows", len(plan)).Msg("arranged windows")
	return snapshotResponse(s.mgr.Snapshot())
}

func (s *Server) workspaceStore() (*workspace.Store, *Response) {
	if s.workspaces == nil {
		return nil, NewErrorResponse("workspaces are not supported")
	}
	store, err := s.workspaces()
	if err != nil {
		return nil, NewErrorResponse(fmt.Sprintf("Failed to open workspace store: %v", err))
	}
	return store, nil
}

func decodeWorkspacePayload(payload json.RawMessage) (string, *Response) {
	var req WorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := workspace.ValidateName(req.Name); err != nil {
		return "", NewErrorResponse(err.Error())
	}
	return req.Name, nil
}

func workspaceInfo(ws *workspace.Workspace) WorkspaceInfo {
	return WorkspaceInfo{
		Name:      ws.Name,
		SavedAt:   ws.SavedAt,
		Windows:   len(ws.Windows),
		OpenCount: ws.OpenCount(),
		ActiveID:  ws.ActiveID,
	}
}

func (s *Server) handleSaveWorkspace(payload json.RawMessage) *Response {
	name, errResp := decodeWorkspacePayload(payload)
	if errResp != nil {
		return errResp
	}
	store, errResp := s.workspaceStore()
	if errResp != nil {
		return errResp
	}
	ws, err := workspace.Capture(name, s.mgr.Snapshot(), time.Now())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := store.Write(ws); err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logger.Info().Str("workspace", name).Int("open", ws.OpenCount()).Msg("workspace saved")
	resp, _ := NewOKResponse(workspaceInfo(ws))
	return resp
}

func (s *Server) handleLoadWorkspace(payload json.RawMessage) *Response {
	name, errResp := decodeWorkspacePayload(payload)
	if errResp != nil {
		return errResp
	}
	store, errResp := s.workspaceStore()
	if errResp != nil {
		return errResp
	}
	ws, err := store.Read(name)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	skipped, err := workspace.Restore(s.mgr, ws)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if len(skipped) > 0 {
		s.logger.Warn().Str("workspace", name).Strs("skipped", skipped).Msg("workspace names unknown windows")
	}
	s.logger.Info().Str("workspace", name).Msg("workspace loaded")
	resp, _ := NewOKResponse(LoadWorkspaceData{Snapshot: s.mgr.Snapshot(), Skipped: skipped})
	return resp
}

func (s *Server) handleListWorkspaces() *Response {
	store, errResp := s.workspaceStore()
	if errResp != nil {
		return errResp
	}
	names, err := store.List()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	infos := make([]WorkspaceInfo, 0, len(names))
	for _, name := range names {
		ws, err := store.Read(name)
		if err != nil {
			s.logger.Warn().Err(err).Str("workspace", name).Msg("skipping unreadable workspace")
			continue
		}
		infos = append(infos, workspaceInfo(ws))
	}
	resp, _ := NewOKResponse(infos)
	return resp
}

func (s *Server) handleDeleteWorkspace(payload json.RawMessage) *Response {
	name, errResp := decodeWorkspacePayload(payload)
	if errResp != nil {
		return errResp
	}
	store, errResp := s.workspaceStore()
	if errResp != nil {
		return errResp
	}
	if err := store.Delete(name); err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logger.Info().Str("workspace", name).Msg("workspace deleted")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) requireWindow(id string) *Response {
	if id == "" {
		return NewErrorResponse("window id is required")
	}
	if _, ok := s.mgr.Window(id); !ok {
		return NewErrorResponse(fmt.Sprintf("unknown window %q", id))
	}
	return nil
}

// handleSubscribe streams one snapshot line per mutation until the client
// hangs up or the server stops. A slow client only ever sees the latest
// snapshot; intermediate revisions may be skipped.
func (s *Server) handleSubscribe(conn net.Conn, reader *bufio.Reader) {
	s.subscribers.Add(1)
	defer s.subscribers.Add(-1)

	updates := make(chan desktop.Snapshot, 1)
	cancel := s.mgr.Subscribe(func(snap desktop.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	})
	defer cancel()

	last := s.mgr.Snapshot()
	if err := writeResponse(conn, snapshotResponse(last)); err != nil {
		return
	}

	gone := make(chan struct{})
	go func() {
		io.Copy(io.Discard, reader)
		close(gone)
	}()

	for {
		select {
		case snap := <-updates:
			if snap.Revision <= last.Revision {
				continue
			}
			last = snap
			if err := writeResponse(conn, snapshotResponse(snap)); err != nil {
				s.logger.Debug().Err(err).Msg("subscriber write failed")
				return
			}
		case <-gone:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	_ = writeResponse(conn, NewErrorResponse(errMsg))
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		os.Remove(s.socketPath)
		s.logger.Info().Msg("IPC server stopped")
	})
}

func snapshotResponse(snap desktop.Snapshot) *Response {
	resp, err := NewOKResponse(snap)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func writeResponse(conn net.Conn, resp *Response) error {
	data, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	data = append(data, '\n')
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err = conn.Write(data)
	return err
}
