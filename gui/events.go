package gui

import (
	"errors"
	"fmt"
)

// ErrAfterCreation is returned when a handler is registered on a window
// whose native handle already exists. Registration is a setup-time
// operation; doing it late is a programming error and must not be
// silently ignored.
var ErrAfterCreation = errors.New("event registration after window creation")

// Handler is an event handler bound to a message id. A non-nil error
// stops the current dispatch and is routed to the loop's fatal-error
// slot.
type Handler func(m Message) error

// Policy selects how an EventTable treats multiple registrations on the
// same message id.
type Policy int

const (
	// Overwrite keeps only the most recent registration per id.
	Overwrite Policy = iota
	// Accumulate keeps every registration and fires them in order.
	Accumulate
)

// EventTable maps message ids to handlers under a dispatch policy. One
// table implementation serves both the user-facing overwrite semantics
// and the internal accumulate semantics.
//
// Tables are mutated during window setup and read during dispatch, both
// on the UI thread, so there is no locking here.
type EventTable struct {
	policy   Policy
	handlers map[MessageID][]Handler
	// created reports whether the owning window already has a native
	// handle. Nil means the table is not owned by a window.
	created func() bool
}

// NewEventTable creates an empty table with the given policy.
func NewEventTable(policy Policy) *EventTable {
	return &EventTable{
		policy:   policy,
		handlers: make(map[MessageID][]Handler),
	}
}

// Register binds fn to id. Under Overwrite it replaces any previous
// handler for id; under Accumulate it appends. Fails with
// ErrAfterCreation once the owning window exists, leaving the table
// unchanged.
func (t *EventTable) Register(id MessageID, fn Handler) error {
	if t.created != nil && t.created() {
		return fmt.Errorf("%w: message id %d", ErrAfterCreation, id)
	}
	if t.policy == Overwrite {
		t.handlers[id] = []Handler{fn}
		return nil
	}
	t.handlers[id] = append(t.handlers[id], fn)
	return nil
}

// ProcessOne runs the single handler registered for m's id, if any.
// It reports whether a handler was found.
func (t *EventTable) ProcessOne(m Message) (bool, error) {
	hs := t.handlers[m.ID]
	if len(hs) == 0 {
		return false, nil
	}
	// Overwrite tables hold at most one handler per id.
	if err := hs[len(hs)-1](m); err != nil {
		return true, err
	}
	return true, nil
}

// ProcessAll runs every handler registered for m's id in registration
// order. A handler failure aborts the remaining handlers for this call
// and is propagated, not swallowed.
func (t *EventTable) ProcessAll(m Message) error {
	for _, fn := range t.handlers[m.ID] {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every registration. Used on window teardown and
// recreation.
func (t *EventTable) Clear() {
	t.handlers = make(map[MessageID][]Handler)
}

// Len returns the number of ids with at least one handler.
func (t *EventTable) Len() int {
	return len(t.handlers)
}
