package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winx/gui"
)

// Window creation helpers for application code. The dispatch core never
// creates windows itself; it only attaches to handles made here.

const eventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify

// CreateTopLevel creates an unmapped top-level window with the given
// title, opted in to the WM close protocol.
func (c *Connection) CreateTopLevel(title string, r gui.Rect) (gui.WindowHandle, error) {
	win, err := c.createWindow(c.Root, r)
	if err != nil {
		return gui.NullHandle, err
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win, []string{"WM_DELETE_WINDOW"}); err != nil {
		return gui.NullHandle, fmt.Errorf("set close protocol: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win, title); err != nil {
		return gui.NullHandle, fmt.Errorf("set title: %w", err)
	}
	return gui.WindowHandle(win), nil
}

// CreateChild creates an unmapped child window of parent.
func (c *Connection) CreateChild(parent gui.WindowHandle, r gui.Rect) (gui.WindowHandle, error) {
	win, err := c.createWindow(xproto.Window(parent), r)
	if err != nil {
		return gui.NullHandle, err
	}
	return gui.WindowHandle(win), nil
}

func (c *Connection) createWindow(parent xproto.Window, r gui.Rect) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, err
	}
	err = win.CreateChecked(parent, r.X, r.Y, r.Width, r.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		c.XUtil.Screen().WhitePixel, eventMask)
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}
	c.adopt(win.Id)
	return win.Id, nil
}

// Show maps h onto the screen.
func (c *Connection) Show(h gui.WindowHandle) {
	xwindow.New(c.XUtil, xproto.Window(h)).Map()
}

// Destroy tears down the native window; the resulting destroy
// notification unregisters it from the loop.
func (c *Connection) Destroy(h gui.WindowHandle) {
	xwindow.New(c.XUtil, xproto.Window(h)).Destroy()
}
