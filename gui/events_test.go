package gui

import (
	"errors"
	"testing"
)

func TestOverwriteTableRunsOnlyLastRegistration(t *testing.T) {
	table := NewEventTable(Overwrite)

	var fired []int
	for i := 1; i <= 3; i++ {
		i := i
		if err := table.Register(MsgCommand, func(Message) error {
			fired = append(fired, i)
			return nil
		}); err != nil {
			t.Fatalf("unexpected register error: %v", err)
		}
	}

	handled, err := table.ProcessOne(Message{ID: MsgCommand})
	if err != nil {
		t.Fatalf("unexpected process error: %v", err)
	}
	if !handled {
		t.Fatalf("expected the message to be handled")
	}
	if len(fired) != 1 || fired[0] != 3 {
		t.Fatalf("expected only the last handler to fire, got %v", fired)
	}
}

func TestOverwriteTableReportsUnhandled(t *testing.T) {
	table := NewEventTable(Overwrite)

	handled, err := table.ProcessOne(Message{ID: MsgPaint})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handled {
		t.Fatalf("expected message without a handler to be reported unhandled")
	}
}

func TestAccumulateTableRunsAllInRegistrationOrder(t *testing.T) {
	table := NewEventTable(Accumulate)

	var fired []int
	for i := 1; i <= 3; i++ {
		i := i
		table.Register(MsgResize, func(Message) error {
			fired = append(fired, i)
			return nil
		})
	}

	if err := table.ProcessAll(Message{ID: MsgResize}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fired) != 3 || fired[0] != 1 || fired[1] != 2 || fired[2] != 3 {
		t.Fatalf("expected handlers in registration order, got %v", fired)
	}
}

func TestAccumulateTableStopsAtFirstFailure(t *testing.T) {
	table := NewEventTable(Accumulate)
	boom := errors.New("boom")

	var fired []int
	table.Register(MsgResize, func(Message) error {
		fired = append(fired, 1)
		return nil
	})
	table.Register(MsgResize, func(Message) error {
		fired = append(fired, 2)
		return boom
	})
	table.Register(MsgResize, func(Message) error {
		fired = append(fired, 3)
		return nil
	})

	err := table.ProcessAll(Message{ID: MsgResize})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the handler error to propagate, got %v", err)
	}
	if len(fired) != 2 {
		t.Fatalf("expected later handlers to be skipped, got %v", fired)
	}
}

func TestRegisterAfterAttachFails(t *testing.T) {
	sub := newFakeSubstrate()
	loop := NewLoop(sub, nil)
	w := loop.NewWindow(nil, false)

	if err := w.On(MsgCommand, func(Message) error { return nil }); err != nil {
		t.Fatalf("registration before attach should succeed: %v", err)
	}
	if err := w.Attach(10); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	userLen := w.userEvents.Len()
	privLen := w.privEvents.Len()

	if err := w.On(MsgPaint, func(Message) error { return nil }); !errors.Is(err, ErrAfterCreation) {
		t.Fatalf("expected ErrAfterCreation from On, got %v", err)
	}
	if err := w.PrivilegedOn(MsgPaint, func(Message) error { return nil }); !errors.Is(err, ErrAfterCreation) {
		t.Fatalf("expected ErrAfterCreation from PrivilegedOn, got %v", err)
	}

	if w.userEvents.Len() != userLen || w.privEvents.Len() != privLen {
		t.Fatalf("failed registration must leave the tables unchanged")
	}
}

func TestClearRemovesAllEntries(t *testing.T) {
	table := NewEventTable(Accumulate)
	table.Register(MsgResize, func(Message) error { return nil })
	table.Register(MsgPaint, func(Message) error { return nil })

	table.Clear()

	if table.Len() != 0 {
		t.Fatalf("expected empty table after clear, got %d entries", table.Len())
	}
	if err := table.ProcessAll(Message{ID: MsgResize}); err != nil {
		t.Fatalf("processing a cleared table should be a no-op, got %v", err)
	}
}
