package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/winx/gui"
	"github.com/1broseidon/winx/internal/config"
	"github.com/1broseidon/winx/internal/ipc"
	"github.com/1broseidon/winx/internal/watchdog"
	"github.com/1broseidon/winx/internal/x11"
)

// Command identifiers dispatched as MsgCommand. Accelerators and the
// control socket both resolve to these.
const (
	cmdQuit uint32 = iota + 1
	cmdDialog
	cmdRefresh
)

var commandIDs = map[string]uint32{
	"quit":    cmdQuit,
	"dialog":  cmdDialog,
	"refresh": cmdRefresh,
}

// appControl is the control-socket view of the running application.
// Status and Invoke are marshaled onto the UI thread by the IPC
// server, so they may touch loop state directly.
type appControl struct {
	loop *gui.Loop
	main *gui.Window
}

func (a *appControl) RunOnUIThread(fn func() error) {
	a.main.RunOnUIThread(fn)
}

func (a *appControl) Status() ipc.StatusData {
	return ipc.StatusData{
		WindowCount:      a.loop.WindowCount(),
		PendingCallbacks: a.loop.PendingCallbacks(),
	}
}

func (a *appControl) Invoke(command string) error {
	id, ok := commandIDs[command]
	if !ok {
		return fmt.Errorf("unknown command %q", command)
	}
	handled, err := a.main.ProcessUserMessage(gui.Message{
		Window: a.main.Handle(),
		ID:     gui.MsgCommand,
		Data:   [2]uint32{id, 0},
	})
	if err != nil {
		return err
	}
	if !handled {
		return fmt.Errorf("command %q has no handler", command)
	}
	return nil
}

func (a *appControl) QuitApp(code int) {
	a.loop.PostQuit(code)
}

func runApp() int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	conn, err := x11.NewConnection(logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	loop := gui.NewLoop(conn, logger)

	mainWin, err := buildUI(loop, conn, cfg)
	if err != nil {
		log.Fatalf("Failed to build UI: %v", err)
	}
	logger.Info("winx started", "window", mainWin.Handle())

	accel := buildAccelerators(conn, cfg, logger)

	app := &appControl{loop: loop, main: mainWin}

	if cfg.Socket.Enabled {
		ipcServer, err := ipc.NewServer(app, logger)
		if err != nil {
			log.Fatalf("Failed to create control socket: %v", err)
		}
		if err := ipcServer.Start(); err != nil {
			log.Fatalf("Failed to start control socket: %v", err)
		}
		defer ipcServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watchdog.Enabled {
		wd := watchdog.New(watchdog.Config{
			Interval: time.Duration(cfg.Watchdog.IntervalSeconds) * time.Second,
			Stall:    time.Duration(cfg.Watchdog.StallSeconds) * time.Second,
			Logger:   logger,
		}, app)
		go wd.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", "signal", sig.String())
		loop.PostQuit(0)
	}()

	code, err := loop.Run(accel)
	if err != nil {
		logger.Error("message loop failed", "error", err)
		return 1
	}
	logger.Info("message loop exited", "code", code)
	return code
}

// buildUI creates the main window with two arranged panes, wires its
// command handlers, and starts the title clock.
func buildUI(loop *gui.Loop, conn *x11.Connection, cfg *config.Config) (*gui.Window, error) {
	win := loop.NewWindow(nil, false)

	if err := win.On(gui.MsgCommand, func(m gui.Message) error {
		switch m.Data[0] {
		case cmdQuit:
			loop.PostQuit(0)
		case cmdDialog:
			return openAboutDialog(loop, conn, win)
		case cmdRefresh:
			return conn.SetTitle(win.Handle(), cfg.Window.Title)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if err := win.On(gui.MsgClose, func(m gui.Message) error {
		loop.PostQuit(0)
		return nil
	}); err != nil {
		return nil, err
	}

	h, err := conn.CreateTopLevel(cfg.Window.Title, gui.Rect{
		X: 0, Y: 0,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		return nil, err
	}
	if err := win.Attach(h); err != nil {
		return nil, err
	}

	// Left pane keeps its width, right pane absorbs horizontal growth;
	// both follow the window's height.
	sideWidth := cfg.Window.Width / 3
	left, err := addPane(loop, conn, win, gui.Rect{
		X: 0, Y: 0, Width: sideWidth, Height: cfg.Window.Height,
	}, gui.HorzFixed, gui.VertResize)
	if err != nil {
		return nil, err
	}
	right, err := addPane(loop, conn, win, gui.Rect{
		X: sideWidth, Y: 0, Width: cfg.Window.Width - sideWidth, Height: cfg.Window.Height,
	}, gui.HorzResize, gui.VertResize)
	if err != nil {
		return nil, err
	}

	conn.Show(h)
	conn.Show(left.Handle())
	conn.Show(right.Handle())

	startTitleClock(win, conn, cfg.Window.Title)
	return win, nil
}

func addPane(loop *gui.Loop, conn *x11.Connection, parent *gui.Window, r gui.Rect, horz gui.Horz, vert gui.Vert) (*gui.Window, error) {
	pane := loop.NewWindow(parent, false)
	h, err := conn.CreateChild(parent.Handle(), r)
	if err != nil {
		return nil, err
	}
	if err := pane.Attach(h); err != nil {
		return nil, err
	}
	if err := parent.AddToLayout(h, horz, vert); err != nil {
		return nil, err
	}
	return pane, nil
}

// startTitleClock appends a wall-clock suffix to the window title once
// a second. The worker ticks off the UI thread; each update is
// marshaled back through the window.
func startTitleClock(win *gui.Window, conn *x11.Connection, title string) {
	win.SpawnWorker(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now().Format("15:04:05")
			win.RunOnUIThread(func() error {
				return conn.SetTitle(win.Handle(), fmt.Sprintf("%s (%s)", title, now))
			})
		}
		return nil
	})
}

const dialogCmdClose uint32 = 1

// openAboutDialog shows a small modal dialog. While it is up, Tab
// cycles its children, Return fires the close command, and Escape
// closes it.
func openAboutDialog(loop *gui.Loop, conn *x11.Connection, parent *gui.Window) error {
	dlg := loop.NewWindow(parent, true)
	dlg.SetDefaultCommand(dialogCmdClose)

	closeDialog := func(m gui.Message) error {
		conn.Destroy(dlg.Handle())
		return nil
	}
	if err := dlg.On(gui.MsgClose, closeDialog); err != nil {
		return err
	}
	if err := dlg.On(gui.MsgCommand, func(m gui.Message) error {
		if m.Data[0] == dialogCmdClose {
			return closeDialog(m)
		}
		return nil
	}); err != nil {
		return err
	}

	h, err := conn.CreateTopLevel("About winx", gui.Rect{X: 120, Y: 120, Width: 280, Height: 140})
	if err != nil {
		return err
	}
	if err := dlg.Attach(h); err != nil {
		return err
	}

	okBtn := loop.NewWindow(dlg, false)
	btnHandle, err := conn.CreateChild(h, gui.Rect{X: 100, Y: 100, Width: 80, Height: 28})
	if err != nil {
		return err
	}
	if err := okBtn.Attach(btnHandle); err != nil {
		return err
	}

	conn.Show(h)
	conn.Show(btnHandle)
	return conn.SetFocus(h)
}

func buildAccelerators(conn *x11.Connection, cfg *config.Config, logger *slog.Logger) *gui.AccelTable {
	accel := gui.NewAccelTable()
	for _, a := range cfg.Accelerators {
		cmd, ok := commandIDs[a.Command]
		if !ok {
			logger.Warn("unknown accelerator command", "keys", a.Keys, "command", a.Command)
			continue
		}
		mods, keysym, err := conn.ParseKey(a.Keys)
		if err != nil {
			logger.Warn("unparseable accelerator", "keys", a.Keys, "error", err)
			continue
		}
		accel.Add(mods, keysym, cmd)
		logger.Debug("accelerator registered", "keys", a.Keys, "command", a.Command)
	}
	return accel
}
