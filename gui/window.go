package gui

import "fmt"

// Window is the per-window aggregate: the native handle, the two event
// tables, the layout arranger and the parent back-reference. It is
// created before the native window exists, pinned for its whole life
// (handlers and children hold it by pointer), and attached to a handle
// once creation completes.
type Window struct {
	loop   *Loop
	handle WindowHandle
	modal  bool

	// parent is a non-owning back-reference. The substrate guarantees
	// parents outlive children, so a plain pointer is safe here and a
	// shared owner would only build a cycle.
	parent   *Window
	children []*Window

	userEvents *EventTable
	privEvents *EventTable
	arranger   *Arranger

	// defaultCmd is the command dispatched when a modal dialog receives
	// Return. Zero means no default.
	defaultCmd uint32
	// focus is the index into children holding dialog keyboard focus.
	focus int
}

// NewWindow creates a window aggregate under parent (nil for a
// top-level window). modal marks the window as a modal dialog for the
// loop's keyboard navigation. The native window does not exist yet;
// call Attach once it does.
func (l *Loop) NewWindow(parent *Window, modal bool) *Window {
	w := &Window{
		loop:       l,
		modal:      modal,
		parent:     parent,
		userEvents: NewEventTable(Overwrite),
		privEvents: NewEventTable(Accumulate),
		arranger:   NewArranger(l.sub),
	}
	w.userEvents.created = w.created
	w.privEvents.created = w.created
	if parent != nil {
		parent.children = append(parent.children, w)
	}
	w.defaultHandlers()
	return w
}

func (w *Window) created() bool {
	return w.handle != NullHandle
}

// Handle returns the native handle, NullHandle before Attach.
func (w *Window) Handle() WindowHandle {
	return w.handle
}

// Parent returns the parent window, nil for a top-level window.
func (w *Window) Parent() *Window {
	return w.parent
}

// IsModal reports whether the window takes part in modal-dialog
// keyboard navigation.
func (w *Window) IsModal() bool {
	return w.modal
}

// Attach binds the native handle to this window, registers it with the
// loop and records the baseline size for layout. The handle is set
// exactly once; from here on event registration fails.
func (w *Window) Attach(h WindowHandle) error {
	if w.handle != NullHandle {
		return fmt.Errorf("window %d already attached", w.handle)
	}
	if h == NullHandle {
		return fmt.Errorf("cannot attach the null handle")
	}
	w.handle = h
	w.loop.windows[h] = w
	if r, err := w.loop.sub.Geometry(h); err == nil {
		w.arranger.SetBaseSize(Size{Width: r.Width, Height: r.Height})
	}
	return nil
}

// On registers the user handler for id. Only the most recent
// registration per id ever fires. Legal only before Attach.
func (w *Window) On(id MessageID, fn Handler) error {
	return w.userEvents.Register(id, fn)
}

// PrivilegedOn registers an internal handler for id. Every privileged
// handler for an id fires, in registration order, before the user
// handler. Legal only before Attach.
func (w *Window) PrivilegedOn(id MessageID, fn Handler) error {
	return w.privEvents.Register(id, fn)
}

// ProcessUserMessage runs the user handler for m, if any, reporting
// whether one was registered.
func (w *Window) ProcessUserMessage(m Message) (bool, error) {
	return w.userEvents.ProcessOne(m)
}

// ProcessPrivilegedMessages runs every privileged handler for m.
func (w *Window) ProcessPrivilegedMessages(m Message) error {
	return w.privEvents.ProcessAll(m)
}

// ClearEvents removes all user and privileged registrations, for
// teardown or recreation of the native window.
func (w *Window) ClearEvents() {
	w.userEvents.Clear()
	w.privEvents.Clear()
}

// AddToLayout registers child with the arranger; on the next resize it
// follows the given per-axis rules.
func (w *Window) AddToLayout(child WindowHandle, horz Horz, vert Vert) error {
	return w.arranger.Register(child, horz, vert)
}

// SetDefaultCommand sets the command a modal dialog dispatches on
// Return.
func (w *Window) SetDefaultCommand(cmd uint32) {
	w.defaultCmd = cmd
}

// RunOnUIThread schedules fn to run on the UI thread, tunneled through
// the window's root ancestor. Safe from any goroutine; fn's error, if
// any, is routed into the loop like a failing handler. The handle is
// read without synchronization: callers must Attach before handing the
// window to other goroutines.
func (w *Window) RunOnUIThread(fn func() error) {
	w.loop.disp.post(w.handle, fn)
}

// SpawnWorker runs fn on its own goroutine. A worker has no legal
// access to window state; if it fails, the error is marshaled back to
// the UI thread through the same path RunOnUIThread uses. Same
// precondition as RunOnUIThread: Attach first.
func (w *Window) SpawnWorker(fn func() error) {
	h := w.handle
	d := w.loop.disp
	go func() {
		if err := fn(); err != nil {
			d.post(h, func() error { return err })
		}
	}()
}

// defaultHandlers installs the privileged plumbing every window gets:
// resize redistribution, cross-thread callback decoding and registry
// teardown.
func (w *Window) defaultHandlers() {
	w.privEvents.Register(MsgResize, func(m Message) error {
		return w.arranger.Rearrange(Size{Width: int(m.Data[0]), Height: int(m.Data[1])})
	})
	w.privEvents.Register(MsgUICallback, func(m Message) error {
		return w.loop.disp.handle(m)
	})
	w.privEvents.Register(MsgDestroy, func(m Message) error {
		w.loop.forget(w.handle)
		// Back to the pre-creation state: registration becomes legal
		// again, and modal routing stops treating this window as live.
		w.handle = NullHandle
		return nil
	})
}
