package gui

import (
	"fmt"
	"log/slog"
)

// Substrate abstracts the window-system operations the loop and its
// windows need. internal/x11 provides the real implementation; tests
// use an in-memory fake.
type Substrate interface {
	// WaitMessage blocks until the next message is available. An error
	// means the retrieval primitive itself failed, which is fatal to
	// the loop; it is not how quits are reported.
	WaitMessage() (Message, error)
	// PostMessage queues m for target asynchronously. Safe to call
	// from any goroutine.
	PostMessage(target WindowHandle, m Message) error
	// PostQuit queues a MsgQuit carrying code behind everything already
	// in the queue.
	PostQuit(code int)
	// Translate synthesizes follow-up messages (character input) for m
	// onto the queue. UI thread only.
	Translate(m Message)
	// RootAncestor resolves the top-level window owning h.
	RootAncestor(h WindowHandle) (WindowHandle, error)
	// Geometry returns h's origin and extent in parent coordinates.
	Geometry(h WindowHandle) (Rect, error)
	// MoveResize applies origin and extent to h.
	MoveResize(h WindowHandle, r Rect) error
	// SetFocus gives h keyboard focus.
	SetFocus(h WindowHandle) error
}

// Loop owns the retrieve/translate/dispatch cycle for one UI thread.
// Exactly one goroutine may call Run; that goroutine is the UI thread,
// and every handler body executes on it. The only legal touch point
// from other goroutines is posting a cross-thread callback through a
// Window.
type Loop struct {
	sub    Substrate
	disp   *dispatcher
	logger *slog.Logger

	// windows is touched only by UI-thread code (Attach/forget happen
	// inside handlers or before Run), so it needs no lock.
	windows map[WindowHandle]*Window

	// fatalErr is the first handler or callback error seen while
	// dispatching. Written by UI-thread code, read and cleared by Run
	// when the quit it triggered is retrieved.
	fatalErr error
}

// NewLoop creates a loop over sub. logger may be nil.
func NewLoop(sub Substrate, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		sub:     sub,
		disp:    newDispatcher(sub, logger),
		logger:  logger,
		windows: make(map[WindowHandle]*Window),
	}
}

// Window returns the window registered for h, or nil.
func (l *Loop) Window(h WindowHandle) *Window {
	return l.windows[h]
}

// WindowCount reports the number of attached windows. UI thread only.
func (l *Loop) WindowCount() int {
	return len(l.windows)
}

// PendingCallbacks reports cross-thread callbacks posted but not yet
// run. Safe to call from any goroutine.
func (l *Loop) PendingCallbacks() int {
	return l.disp.pendingCount()
}

// PostQuit asks the loop to exit with code once everything already
// queued has been dispatched.
func (l *Loop) PostQuit(code int) {
	l.sub.PostQuit(code)
}

// Run retrieves and dispatches messages until a quit arrives. It
// returns the quit's carried code, or the first error recorded while
// dispatching, or the retrieval failure that stopped the loop. Callers
// are expected to terminate the process on error.
//
// Per iteration the retrieved message is offered, in fixed order, to
// the accelerator table for its root ancestor, then to modal-dialog
// keyboard navigation, then to generic translate+dispatch. Each step
// either fully consumes the message or defers to the next.
func (l *Loop) Run(accel *AccelTable) (int, error) {
	for {
		m, err := l.sub.WaitMessage()
		if err != nil {
			// Retrieval itself broke; surface immediately, no draining.
			return 0, fmt.Errorf("message retrieval: %w", err)
		}

		if m.ID == MsgQuit {
			if err := l.fatalErr; err != nil {
				l.fatalErr = nil
				return 0, err
			}
			return int(m.Data[0]), nil
		}

		root := l.rootOf(m.Window)

		if accel != nil && l.translateAccelerator(accel, root, m) {
			continue
		}
		if l.dialogNavigate(root, m) {
			continue
		}

		l.sub.Translate(m)
		l.dispatch(m)
	}
}

// rootOf resolves the top-level window owning h, falling back to h
// itself when the walk fails.
func (l *Loop) rootOf(h WindowHandle) WindowHandle {
	root, err := l.sub.RootAncestor(h)
	if err != nil {
		return h
	}
	return root
}

// dispatch resolves the target window and runs its privileged handlers,
// then its user handler, for m's id. Messages for windows this loop
// does not know are ignored, like any foreign window's traffic.
func (l *Loop) dispatch(m Message) {
	w := l.windows[m.Window]
	if w == nil {
		return
	}

	if err := w.ProcessPrivilegedMessages(m); err != nil {
		l.recordError(fmt.Errorf("privileged handler for message %d: %w", m.ID, err))
		return
	}
	if _, err := w.ProcessUserMessage(m); err != nil {
		l.recordError(fmt.Errorf("handler for message %d: %w", m.ID, err))
	}

	// Registrations die with the native window. Cleared only after the
	// user's destroy handler had its turn; the default plumbing comes
	// back so a recreated window starts from the same state as a new
	// one.
	if m.ID == MsgDestroy {
		w.ClearEvents()
		w.defaultHandlers()
	}
}

// recordError keeps the first dispatch error and posts a quit. The loop
// keeps pumping until that quit is retrieved so nothing already queued,
// cross-thread callbacks included, is abandoned mid-decode. Errors
// arriving after the first and before the quit drains are logged and
// dropped.
func (l *Loop) recordError(err error) {
	if l.fatalErr != nil {
		l.logger.Warn("dispatch error while quitting", "err", err)
		return
	}
	l.fatalErr = err
	l.sub.PostQuit(0)
}

// translateAccelerator consumes m if it is a key press matching an
// accelerator for root. The matched command is dispatched to root
// directly, so the command handler fires exactly once, through this
// path only.
func (l *Loop) translateAccelerator(accel *AccelTable, root WindowHandle, m Message) bool {
	if m.ID != MsgKeyPress {
		return false
	}
	cmd, ok := accel.Match(m.KeyState(), m.Keysym())
	if !ok {
		return false
	}
	l.dispatch(Message{
		Window: root,
		ID:     MsgCommand,
		Data:   [2]uint32{cmd, 1},
	})
	return true
}

// forget drops h from the registry. Installed as a default Destroy
// handler on every window.
func (l *Loop) forget(h WindowHandle) {
	delete(l.windows, h)
}
