package gui

import (
	"errors"
	"fmt"
)

// fakeSubstrate is an in-memory Substrate for tests: a buffered channel
// plays the serialized per-thread queue, and window topology/geometry
// live in plain maps.
type fakeSubstrate struct {
	queue chan Message

	parents map[WindowHandle]WindowHandle
	rootErr map[WindowHandle]error
	postErr error

	geoms   map[WindowHandle]Rect
	moveErr map[WindowHandle]error
	moved   []WindowHandle

	focused    []WindowHandle
	translated []Message
}

func newFakeSubstrate() *fakeSubstrate {
	return &fakeSubstrate{
		queue:   make(chan Message, 256),
		parents: make(map[WindowHandle]WindowHandle),
		rootErr: make(map[WindowHandle]error),
		geoms:   make(map[WindowHandle]Rect),
		moveErr: make(map[WindowHandle]error),
	}
}

func (f *fakeSubstrate) WaitMessage() (Message, error) {
	m, ok := <-f.queue
	if !ok {
		return Message{}, errors.New("connection closed")
	}
	return m, nil
}

func (f *fakeSubstrate) PostMessage(target WindowHandle, m Message) error {
	if f.postErr != nil {
		return f.postErr
	}
	m.Window = target
	f.queue <- m
	return nil
}

func (f *fakeSubstrate) PostQuit(code int) {
	f.queue <- Message{ID: MsgQuit, Data: [2]uint32{uint32(code), 0}}
}

func (f *fakeSubstrate) Translate(m Message) {
	f.translated = append(f.translated, m)
}

func (f *fakeSubstrate) RootAncestor(h WindowHandle) (WindowHandle, error) {
	if err := f.rootErr[h]; err != nil {
		return NullHandle, err
	}
	for {
		p, ok := f.parents[h]
		if !ok {
			return h, nil
		}
		h = p
	}
}

func (f *fakeSubstrate) Geometry(h WindowHandle) (Rect, error) {
	r, ok := f.geoms[h]
	if !ok {
		return Rect{}, fmt.Errorf("no geometry for window %d", h)
	}
	return r, nil
}

func (f *fakeSubstrate) MoveResize(h WindowHandle, r Rect) error {
	if err := f.moveErr[h]; err != nil {
		return err
	}
	f.geoms[h] = r
	f.moved = append(f.moved, h)
	return nil
}

func (f *fakeSubstrate) SetFocus(h WindowHandle) error {
	f.focused = append(f.focused, h)
	return nil
}

// keyPress builds a key message the way the real substrate packs it.
func keyPress(target WindowHandle, keysym uint32, state uint16) Message {
	return Message{
		Window: target,
		ID:     MsgKeyPress,
		Data:   [2]uint32{keysym, uint32(state)<<16 | 0x18},
	}
}
