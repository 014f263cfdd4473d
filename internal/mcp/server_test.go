package mcp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/1broseidon/winx/internal/ipc"
)

type fakeApp struct {
	invoked []string
	quit    []int
}

func (a *fakeApp) RunOnUIThread(fn func() error) {
	fn()
}

func (a *fakeApp) Status() ipc.StatusData {
	return ipc.StatusData{WindowCount: 3, PendingCallbacks: 1}
}

func (a *fakeApp) Invoke(command string) error {
	if command == "bad" {
		return fmt.Errorf("unknown command %q", command)
	}
	a.invoked = append(a.invoked, command)
	return nil
}

func (a *fakeApp) QuitApp(code int) {
	a.quit = append(a.quit, code)
}

func startBackend(t *testing.T) *fakeApp {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	app := &fakeApp{}
	srv, err := ipc.NewServer(app, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return app
}

func TestGetStatusProxiesToDaemon(t *testing.T) {
	startBackend(t)
	s := NewServer()

	_, out, err := s.handleGetStatus(nil, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus: %v", err)
	}
	if out.WindowCount != 3 {
		t.Fatalf("WindowCount = %d, want 3", out.WindowCount)
	}
	if out.PendingCallbacks != 1 {
		t.Fatalf("PendingCallbacks = %d, want 1", out.PendingCallbacks)
	}
}

func TestGetStatusWithoutDaemonFails(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	s := NewServer()

	_, _, err := s.handleGetStatus(nil, nil, GetStatusInput{})
	if err == nil {
		t.Fatal("expected error when no daemon is running")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Fatalf("error = %v, want daemon-not-reachable", err)
	}
}

func TestInvokeCommandReachesApp(t *testing.T) {
	app := startBackend(t)
	s := NewServer()

	_, out, err := s.handleInvokeCommand(nil, nil, InvokeCommandInput{Command: "refresh"})
	if err != nil {
		t.Fatalf("handleInvokeCommand: %v", err)
	}
	if !out.Invoked {
		t.Fatal("expected Invoked to be true")
	}
	if len(app.invoked) != 1 || app.invoked[0] != "refresh" {
		t.Fatalf("invoked = %v, want [refresh]", app.invoked)
	}
}

func TestInvokeCommandRequiresName(t *testing.T) {
	startBackend(t)
	s := NewServer()

	_, _, err := s.handleInvokeCommand(nil, nil, InvokeCommandInput{})
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestInvokeCommandSurfacesAppError(t *testing.T) {
	startBackend(t)
	s := NewServer()

	_, _, err := s.handleInvokeCommand(nil, nil, InvokeCommandInput{Command: "bad"})
	if err == nil {
		t.Fatal("expected app error to surface through the tool")
	}
}

func TestQuitPassesExitCode(t *testing.T) {
	app := startBackend(t)
	s := NewServer()

	_, out, err := s.handleQuit(nil, nil, QuitInput{Code: 7})
	if err != nil {
		t.Fatalf("handleQuit: %v", err)
	}
	if out.Code != 7 {
		t.Fatalf("Code = %d, want 7", out.Code)
	}
	if len(app.quit) != 1 || app.quit[0] != 7 {
		t.Fatalf("quit = %v, want [7]", app.quit)
	}
}
