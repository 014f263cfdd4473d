package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winx/gui"
)

// RootAncestor walks the tree up to the top-level window owning h. The
// walk stops at the first parent this connection did not create, so a
// reparenting window manager's frame is never treated as ours.
func (c *Connection) RootAncestor(h gui.WindowHandle) (gui.WindowHandle, error) {
	cur := xproto.Window(h)
	for {
		reply, err := xproto.QueryTree(c.XUtil.Conn(), cur).Reply()
		if err != nil {
			return gui.NullHandle, err
		}
		parent := reply.Parent
		if parent == 0 || parent == reply.Root || !c.isOwned(parent) {
			return gui.WindowHandle(cur), nil
		}
		cur = parent
	}
}

// Geometry returns h's origin and extent in parent coordinates.
func (c *Connection) Geometry(h gui.WindowHandle) (gui.Rect, error) {
	reply, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(h)).Reply()
	if err != nil {
		return gui.Rect{}, err
	}
	return gui.Rect{
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
	}, nil
}

// MoveResize applies origin and extent to h. Top-level windows go
// through EWMH for better WM compatibility, with direct configuration
// as fallback; child windows are configured directly since no window
// manager sits between us and them.
func (c *Connection) MoveResize(h gui.WindowHandle, r gui.Rect) error {
	win := xwindow.New(c.XUtil, xproto.Window(h))

	if c.isTopLevel(xproto.Window(h)) {
		err := ewmh.MoveresizeWindow(c.XUtil, xproto.Window(h), r.X, r.Y, r.Width, r.Height)
		if err == nil {
			return nil
		}
	}

	win.MoveResize(r.X, r.Y, r.Width, r.Height)
	return nil
}

func (c *Connection) isTopLevel(w xproto.Window) bool {
	reply, err := xproto.QueryTree(c.XUtil.Conn(), w).Reply()
	if err != nil {
		return false
	}
	return reply.Parent == reply.Root || !c.isOwned(reply.Parent)
}

// SetFocus gives h keyboard focus.
func (c *Connection) SetFocus(h gui.WindowHandle) error {
	return xproto.SetInputFocusChecked(
		c.XUtil.Conn(), xproto.InputFocusParent,
		xproto.Window(h), xproto.TimeCurrentTime,
	).Check()
}

// SetTitle sets h's window title.
func (c *Connection) SetTitle(h gui.WindowHandle, title string) error {
	return icccm.WmNameSet(c.XUtil, xproto.Window(h), title)
}
