package gui

import (
	"fmt"
	"log/slog"
	"sync"
)

// callbackTag is the self-tag carried in Data[0] of every MsgUICallback
// this package posts. The reserved id is permanently owned here; a
// message with the right id but the wrong tag did not come from us and
// its token field is never dereferenced.
const callbackTag uint32 = 0x57494e58 // "WINX"

// dispatcher marshals argument-less callbacks from any goroutine onto
// the UI thread. A callback is kept in the pending table until the
// reserved message comes back through the loop, then taken out and
// invoked exactly once.
type dispatcher struct {
	sub    Substrate
	logger *slog.Logger

	mu      sync.Mutex
	next    uint32
	pending map[uint32]func() error
}

func newDispatcher(sub Substrate, logger *slog.Logger) *dispatcher {
	return &dispatcher{
		sub:     sub,
		logger:  logger,
		pending: make(map[uint32]func() error),
	}
}

// post schedules fn to run on the UI thread. Safe to call from any
// goroutine, including the UI thread itself; never blocks on the loop.
//
// The reserved message is addressed to the target's root ancestor,
// bypassing any modal in between. If the root ancestor cannot be
// resolved, or the post itself fails, the callback stays in the pending
// table and is never invoked: the entry is leaked rather than run on
// the wrong thread or torn down behind the poster's back. A failed post
// is logged since, unlike a vanished root, it points at the connection.
func (d *dispatcher) post(target WindowHandle, fn func() error) {
	d.mu.Lock()
	d.next++
	token := d.next
	d.pending[token] = fn
	d.mu.Unlock()

	root, err := d.sub.RootAncestor(target)
	if err != nil {
		return
	}
	err = d.sub.PostMessage(root, Message{
		Window: root,
		ID:     MsgUICallback,
		Data:   [2]uint32{callbackTag, token},
	})
	if err != nil {
		d.logger.Warn("cross-thread post failed, payload pending forever",
			"window", root, "err", err)
	}
}

// handle decodes a MsgUICallback on the UI thread. On a tag match the
// payload is removed from the pending table and invoked; its error, if
// any, is returned wrapped so the loop can treat it like any other
// dispatch failure. On a tag mismatch nothing is touched.
func (d *dispatcher) handle(m Message) error {
	if m.Data[0] != callbackTag {
		return nil
	}

	d.mu.Lock()
	fn, ok := d.pending[m.Data[1]]
	delete(d.pending, m.Data[1])
	d.mu.Unlock()
	if !ok {
		return nil
	}

	if err := fn(); err != nil {
		return fmt.Errorf("ui callback: %w", err)
	}
	return nil
}

// pendingCount reports how many callbacks are waiting to be decoded.
func (d *dispatcher) pendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
