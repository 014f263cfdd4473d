package x11

import (
	"fmt"
	"log/slog"
	"sync"
	"unicode"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winx/gui"
)

// atomMessage is the client-message envelope every internal post rides
// in; its 32-bit data words carry (message id, param 1, param 2). The
// atom is owned by this package and no other software may send it.
const atomMessage = "_WINX_MESSAGE"

// Connection manages the X11 connection and implements gui.Substrate on
// top of it.
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	logger *slog.Logger

	msgAtom       xproto.Atom
	protocolsAtom xproto.Atom
	deleteAtom    xproto.Atom

	// service receives posted quits; a 1x1 never-mapped window, this
	// connection's message-only window.
	service xproto.Window

	// local holds messages synthesized by Translate. Only the UI thread
	// pushes and pops it, so no lock.
	local []gui.Message

	// owned tracks windows created through this connection, so the
	// root-ancestor walk stops at reparenting window-manager frames.
	// Guarded by mu: posts come from arbitrary goroutines.
	mu    sync.Mutex
	owned map[xproto.Window]bool
}

var _ gui.Substrate = (*Connection)(nil)

// NewConnection establishes a connection to the X11 server, interns the
// protocol atoms and creates the service window. logger may be nil.
func NewConnection(logger *slog.Logger) (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (required for keysym lookups)
	keybind.Initialize(xu)

	if logger == nil {
		logger = slog.Default()
	}

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
		owned:  make(map[xproto.Window]bool),
	}

	for name, dst := range map[string]*xproto.Atom{
		atomMessage:        &c.msgAtom,
		"WM_PROTOCOLS":     &c.protocolsAtom,
		"WM_DELETE_WINDOW": &c.deleteAtom,
	} {
		a, err := xprop.Atm(xu, name)
		if err != nil {
			xu.Conn().Close()
			return nil, fmt.Errorf("intern atom %s: %w", name, err)
		}
		*dst = a
	}

	svc, err := c.createServiceWindow()
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("create service window: %w", err)
	}
	c.service = svc

	return c, nil
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// createServiceWindow makes the hidden window quit messages are
// addressed to. It is never mapped.
func (c *Connection) createServiceWindow() (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, err
	}
	if err := win.CreateChecked(c.Root, -1, -1, 1, 1, 0); err != nil {
		return 0, err
	}
	c.adopt(win.Id)
	return win.Id, nil
}

func (c *Connection) adopt(w xproto.Window) {
	c.mu.Lock()
	c.owned[w] = true
	c.mu.Unlock()
}

func (c *Connection) isOwned(w xproto.Window) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned[w]
}

// WaitMessage blocks until the next message is available, serving
// locally synthesized messages before going back to the wire. UI thread
// only.
func (c *Connection) WaitMessage() (gui.Message, error) {
	for {
		if len(c.local) > 0 {
			m := c.local[0]
			c.local = c.local[1:]
			return m, nil
		}

		ev, xerr := c.XUtil.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return gui.Message{}, fmt.Errorf("X connection closed")
		}
		if xerr != nil {
			// Asynchronous X errors (a BadWindow from an earlier
			// request) are not queue failures; report and keep pumping.
			c.logger.Warn("X error", "err", xerr.Error())
			continue
		}

		if m, ok := c.convert(ev); ok {
			return m, nil
		}
	}
}

// convert maps a raw X event to a dispatchable message. Events with no
// message-level meaning are dropped here.
func (c *Connection) convert(ev xgb.Event) (gui.Message, bool) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return c.keyMessage(gui.MsgKeyPress, e.Event, e.Detail, e.State), true

	case xproto.KeyReleaseEvent:
		return c.keyMessage(gui.MsgKeyRelease, e.Event, e.Detail, e.State), true

	case xproto.ButtonPressEvent:
		return buttonMessage(gui.MsgButtonPress, e.Event, e.Detail, e.EventX, e.EventY), true

	case xproto.ButtonReleaseEvent:
		return buttonMessage(gui.MsgButtonRelease, e.Event, e.Detail, e.EventX, e.EventY), true

	case xproto.ExposeEvent:
		// Collapse an expose series down to its final event.
		if e.Count != 0 {
			return gui.Message{}, false
		}
		return gui.Message{Window: gui.WindowHandle(e.Window), ID: gui.MsgPaint}, true

	case xproto.ConfigureNotifyEvent:
		return gui.Message{
			Window: gui.WindowHandle(e.Window),
			ID:     gui.MsgResize,
			Data:   [2]uint32{uint32(e.Width), uint32(e.Height)},
		}, true

	case xproto.DestroyNotifyEvent:
		return gui.Message{Window: gui.WindowHandle(e.Window), ID: gui.MsgDestroy}, true

	case xproto.ClientMessageEvent:
		return c.convertClientMessage(e)
	}
	return gui.Message{}, false
}

func (c *Connection) keyMessage(id gui.MessageID, win xproto.Window, code xproto.Keycode, state uint16) gui.Message {
	sym := keybind.KeysymGet(c.XUtil, code, 0)
	return gui.Message{
		Window: gui.WindowHandle(win),
		ID:     id,
		Data:   [2]uint32{uint32(sym), uint32(state)<<16 | uint32(code)},
	}
}

func buttonMessage(id gui.MessageID, win xproto.Window, button xproto.Button, x, y int16) gui.Message {
	return gui.Message{
		Window: gui.WindowHandle(win),
		ID:     id,
		Data:   [2]uint32{uint32(button), uint32(uint16(y))<<16 | uint32(uint16(x))},
	}
}

func (c *Connection) convertClientMessage(e xproto.ClientMessageEvent) (gui.Message, bool) {
	if e.Format != 32 {
		return gui.Message{}, false
	}
	data := e.Data.Data32

	switch e.Type {
	case c.msgAtom:
		return gui.Message{
			Window: gui.WindowHandle(e.Window),
			ID:     gui.MessageID(data[0]),
			Data:   [2]uint32{data[1], data[2]},
		}, true

	case c.protocolsAtom:
		if xproto.Atom(data[0]) == c.deleteAtom {
			return gui.Message{Window: gui.WindowHandle(e.Window), ID: gui.MsgClose}, true
		}
	}
	return gui.Message{}, false
}

// PostMessage queues m for target through the X server, so it lands
// behind everything already in flight. Safe from any goroutine.
func (c *Connection) PostMessage(target gui.WindowHandle, m gui.Message) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(target),
		Type:   c.msgAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(m.ID), m.Data[0], m.Data[1], 0, 0,
		}),
	}
	// An empty event mask delivers to the client that created the
	// destination window, which is us for every owned window.
	return xproto.SendEventChecked(
		c.XUtil.Conn(), false, xproto.Window(target),
		xproto.EventMaskNoEvent, string(ev.Bytes()),
	).Check()
}

// PostQuit queues a quit carrying code behind all pending traffic by
// round-tripping it through the server to the service window.
func (c *Connection) PostQuit(code int) {
	err := c.PostMessage(gui.WindowHandle(c.service), gui.Message{
		ID:   gui.MsgQuit,
		Data: [2]uint32{uint32(code), 0},
	})
	if err != nil {
		c.logger.Error("post quit failed", "err", err)
	}
}

// Translate synthesizes a character message for a key press carrying a
// printable rune, the way a keyboard-layout translation step would. UI
// thread only.
func (c *Connection) Translate(m gui.Message) {
	if m.ID != gui.MsgKeyPress {
		return
	}
	code := xproto.Keycode(m.Data[1] & 0xff)
	mods := uint16(m.Data[1] >> 16)
	s := keybind.LookupString(c.XUtil, mods, code)
	rs := []rune(s)
	if len(rs) != 1 || !unicode.IsPrint(rs[0]) {
		return
	}
	c.local = append(c.local, gui.Message{
		Window: m.Window,
		ID:     gui.MsgChar,
		Data:   [2]uint32{uint32(rs[0]), 0},
	})
}

// ParseKey resolves a key string like "Control-q" to the modifier mask
// and keysym an accelerator entry needs.
func (c *Connection) ParseKey(s string) (uint16, uint32, error) {
	mods, keycodes, err := keybind.ParseString(c.XUtil, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse key %q: %w", s, err)
	}
	if len(keycodes) == 0 {
		return 0, 0, fmt.Errorf("parse key %q: no keycode bound", s)
	}
	sym := keybind.KeysymGet(c.XUtil, keycodes[0], 0)
	return mods, uint32(sym), nil
}
