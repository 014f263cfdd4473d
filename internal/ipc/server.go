package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winx/internal/runtimepath"
)

// App is the surface the control socket drives. Status and
// Invoke run on the UI thread; the server marshals onto it
// through RunOnUIThread before calling them. QuitApp must be safe from
// any goroutine.
type App interface {
	RunOnUIThread(fn func() error)
	Status() StatusData
	Invoke(command string) error
	QuitApp(code int)
}

// Server handles control requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	app        App
	logger     *slog.Logger
	startTime  time.Time
	uiTimeout  time.Duration

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new control server
func NewServer(app App, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve control socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		app:        app,
		logger:     logger,
		startTime:  time.Now(),
		uiTimeout:  5 * time.Second,
	}, nil
}

// Start begins listening for control connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create control socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("control server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts down the server and removes the socket
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// acceptLoop accepts incoming connections
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
			s.logger.Warn("control accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single control connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("control read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// handleCommand processes a control command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandInvoke:
		return s.handleInvoke(req.Payload)
	case CommandQuit:
		return s.handleQuit(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// callUI runs fn on the UI thread and waits for it, bounded by
// uiTimeout so a stalled loop cannot hang the socket forever. fn's
// error comes back to the client instead of going into the loop's
// fatal-error slot.
func (s *Server) callUI(fn func() error) error {
	done := make(chan error, 1)
	s.app.RunOnUIThread(func() error {
		done <- fn()
		return nil
	})
	select {
	case err := <-done:
		return err
	case <-time.After(s.uiTimeout):
		return fmt.Errorf("UI thread did not respond within %s", s.uiTimeout)
	}
}

func (s *Server) handleGetStatus() *Response {
	var status StatusData
	err := s.callUI(func() error {
		status = s.app.Status()
		return nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleInvoke(payload json.RawMessage) *Response {
	var p InvokePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid invoke payload: %v", err))
	}

	s.logger.Info("control invoke", "command", p.Command)
	if err := s.callUI(func() error {
		return s.app.Invoke(p.Command)
	}); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleQuit(payload json.RawMessage) *Response {
	var p QuitPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid quit payload: %v", err))
		}
	}

	s.logger.Info("control quit", "code", p.Code)
	s.app.QuitApp(p.Code)

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError writes an error response directly to the connection
func (s *Server) sendError(conn net.Conn, msg string) {
	resp := NewErrorResponse(msg)
	if data, err := resp.Marshal(); err == nil {
		conn.Write(append(data, '\n'))
	}
}
