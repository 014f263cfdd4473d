package gui

// dialogNavigate routes default keyboard navigation for a modal dialog
// owned by root: Tab and Shift-Tab cycle focus through the dialog's
// children, Return fires the default command, Escape asks the dialog to
// close. Reports whether the message was consumed.
func (l *Loop) dialogNavigate(root WindowHandle, m Message) bool {
	if m.ID != MsgKeyPress {
		return false
	}
	d := l.modalFor(root)
	if d == nil {
		return false
	}

	switch m.Keysym() {
	case keysymTab, keysymISOLeftTab:
		back := m.Keysym() == keysymISOLeftTab || m.KeyState()&ModShift != 0
		d.focusNext(back)
		return true

	case keysymReturn, keysymKPEnter:
		if d.defaultCmd == 0 {
			return false
		}
		l.dispatch(Message{
			Window: d.handle,
			ID:     MsgCommand,
			Data:   [2]uint32{d.defaultCmd, 0},
		})
		return true

	case keysymEscape:
		l.dispatch(Message{Window: d.handle, ID: MsgClose})
		return true
	}
	return false
}

// modalFor returns the modal dialog that is root itself or the most
// recently created attached modal child of root, nil when there is
// none.
func (l *Loop) modalFor(root WindowHandle) *Window {
	w := l.windows[root]
	if w == nil {
		return nil
	}
	if w.modal {
		return w
	}
	for i := len(w.children) - 1; i >= 0; i-- {
		if c := w.children[i]; c.modal && c.created() {
			return c
		}
	}
	return nil
}

// focusNext moves dialog keyboard focus to the next (or previous)
// attached child, wrapping around.
func (w *Window) focusNext(back bool) {
	n := len(w.children)
	if n == 0 {
		return
	}
	step := 1
	if back {
		step = n - 1
	}
	for i := 0; i < n; i++ {
		w.focus = (w.focus + step) % n
		c := w.children[w.focus]
		if c.created() {
			w.loop.sub.SetFocus(c.handle)
			return
		}
	}
}
