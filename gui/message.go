package gui

// WindowHandle identifies a native window. It matches the substrate's
// 32-bit window id; NullHandle means the window has not been created yet.
type WindowHandle uint32

// NullHandle is the "not yet created" sentinel.
const NullHandle WindowHandle = 0

// MessageID classifies a retrieved message.
type MessageID uint32

const (
	// MsgNone is the zero value and never dispatched.
	MsgNone MessageID = iota
	// MsgKeyPress carries the keysym in Data[0] and (state<<16 | keycode)
	// in Data[1].
	MsgKeyPress
	// MsgKeyRelease uses the same packing as MsgKeyPress.
	MsgKeyRelease
	// MsgChar is synthesized by the substrate's translate step; Data[0]
	// holds the rune.
	MsgChar
	// MsgButtonPress carries the button in Data[0] and (y<<16 | x) in
	// Data[1].
	MsgButtonPress
	// MsgButtonRelease uses the same packing as MsgButtonPress.
	MsgButtonRelease
	// MsgPaint asks the window to repaint; Data is unused.
	MsgPaint
	// MsgResize carries the new width in Data[0] and height in Data[1].
	MsgResize
	// MsgCommand carries a command id in Data[0]. Data[1] is 1 when the
	// command came from an accelerator, 0 otherwise.
	MsgCommand
	// MsgClose is the window-manager close request for a top-level window.
	MsgClose
	// MsgDestroy signals that the native window is gone.
	MsgDestroy
	// MsgUICallback is the reserved cross-thread marshaling id. It is
	// permanently owned by this package: Data[0] must carry the self-tag
	// and Data[1] the payload token. No other code may post it.
	MsgUICallback
	// MsgQuit ends the message loop; Data[0] carries the exit code.
	// It is produced only by Substrate.PostQuit.
	MsgQuit
)

// Message is one unit retrieved from the substrate's queue: a target
// window, an identifier and two parameter fields.
type Message struct {
	Window WindowHandle
	ID     MessageID
	Data   [2]uint32
}

// KeyState returns the modifier state of a key message.
func (m Message) KeyState() uint16 {
	return uint16(m.Data[1] >> 16)
}

// Keysym returns the keysym of a key message.
func (m Message) Keysym() uint32 {
	return m.Data[0]
}

// Keysyms the loop's dialog navigation recognizes.
const (
	keysymTab        = 0xff09
	keysymISOLeftTab = 0xfe20
	keysymReturn     = 0xff0d
	keysymKPEnter    = 0xff8d
	keysymEscape     = 0xff1b
)

// Modifier masks, mirroring the X11 state field layout.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod4       uint16 = 1 << 6
)

// Rect describes a window's origin and extent in parent coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}
