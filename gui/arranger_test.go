package gui

import (
	"errors"
	"testing"
)

func TestRearrangeResizeRuleGrowsExtentOnly(t *testing.T) {
	sub := newFakeSubstrate()
	sub.geoms[2] = Rect{X: 10, Y: 20, Width: 100, Height: 50}

	a := NewArranger(sub)
	a.SetBaseSize(Size{Width: 400, Height: 300})
	if err := a.Register(2, HorzResize, VertFixed); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := a.Rearrange(Size{Width: 430, Height: 310}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}

	got := sub.geoms[2]
	want := Rect{X: 10, Y: 20, Width: 130, Height: 50}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRearrangeRepositionRuleShiftsOriginOnly(t *testing.T) {
	sub := newFakeSubstrate()
	sub.geoms[2] = Rect{X: 10, Y: 20, Width: 100, Height: 50}

	a := NewArranger(sub)
	a.SetBaseSize(Size{Width: 400, Height: 300})
	a.Register(2, HorzReposition, VertReposition)

	if err := a.Rearrange(Size{Width: 380, Height: 340}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}

	got := sub.geoms[2]
	want := Rect{X: -10, Y: 60, Width: 100, Height: 50}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRearrangeFixedRuleLeavesChildAlone(t *testing.T) {
	sub := newFakeSubstrate()
	sub.geoms[2] = Rect{X: 10, Y: 20, Width: 100, Height: 50}

	a := NewArranger(sub)
	a.SetBaseSize(Size{Width: 400, Height: 300})
	a.Register(2, HorzFixed, VertFixed)

	if err := a.Rearrange(Size{Width: 500, Height: 500}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}
	if len(sub.moved) != 0 {
		t.Fatalf("fixed child must not be touched, moved: %v", sub.moved)
	}
}

func TestRegisterRejectsDuplicateChild(t *testing.T) {
	a := NewArranger(newFakeSubstrate())
	if err := a.Register(2, HorzResize, VertFixed); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := a.Register(2, HorzFixed, VertResize); !errors.Is(err, ErrDuplicateChild) {
		t.Fatalf("expected ErrDuplicateChild, got %v", err)
	}
}

func TestRearrangeContinuesPastFailingChild(t *testing.T) {
	sub := newFakeSubstrate()
	sub.geoms[2] = Rect{X: 0, Y: 0, Width: 10, Height: 10}
	sub.geoms[3] = Rect{X: 0, Y: 0, Width: 10, Height: 10}
	boom := errors.New("bad window")
	sub.moveErr[2] = boom

	a := NewArranger(sub)
	a.SetBaseSize(Size{Width: 100, Height: 100})
	a.Register(2, HorzResize, VertFixed)
	a.Register(3, HorzResize, VertFixed)

	err := a.Rearrange(Size{Width: 120, Height: 100})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the first failure to surface, got %v", err)
	}
	if sub.geoms[3].Width != 30 {
		t.Fatalf("later children must still be updated, got %+v", sub.geoms[3])
	}
}

func TestRearrangeRecordsParentSizeWithZeroChildren(t *testing.T) {
	sub := newFakeSubstrate()
	a := NewArranger(sub)
	a.SetBaseSize(Size{Width: 100, Height: 100})

	// No children: still has to record the new size...
	if err := a.Rearrange(Size{Width: 200, Height: 200}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}

	// ...so the next delta is computed against it.
	sub.geoms[2] = Rect{X: 0, Y: 0, Width: 50, Height: 50}
	a.Register(2, HorzResize, VertResize)
	if err := a.Rearrange(Size{Width: 210, Height: 220}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}

	got := sub.geoms[2]
	want := Rect{X: 0, Y: 0, Width: 60, Height: 70}
	if got != want {
		t.Fatalf("expected delta against the recorded size, want %+v got %+v", want, got)
	}
}
