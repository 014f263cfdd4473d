package gui

import (
	"errors"
	"fmt"
)

// ErrDuplicateChild is returned when a child is added to an Arranger
// twice. Rules are immutable after registration.
var ErrDuplicateChild = errors.New("child already registered in layout")

// Horz is the horizontal resize rule for an arranged child.
type Horz int

// Vert is the vertical resize rule for an arranged child.
type Vert int

const (
	// HorzFixed leaves the child untouched on that axis.
	HorzFixed Horz = iota
	// HorzResize grows or shrinks the child's width by the parent's
	// width delta; the origin stays put.
	HorzResize
	// HorzReposition shifts the child's x origin by the full width
	// delta; the width stays put.
	HorzReposition
)

const (
	VertFixed Vert = iota
	VertResize
	VertReposition
)

type arrangedChild struct {
	handle WindowHandle
	horz   Horz
	vert   Vert
}

// Arranger redistributes child geometry when the parent is resized.
// Each child follows its per-axis rule against the delta between the
// new parent size and the last recorded one. All methods run on the UI
// thread.
type Arranger struct {
	sub      Substrate
	children []arrangedChild
	last     Size
	haveLast bool
}

// NewArranger creates an arranger that applies geometry through sub.
func NewArranger(sub Substrate) *Arranger {
	return &Arranger{sub: sub}
}

// Register adds a child with its per-axis rules. Legal at any time;
// duplicate child handles are rejected.
func (a *Arranger) Register(child WindowHandle, horz Horz, vert Vert) error {
	for _, c := range a.children {
		if c.handle == child {
			return fmt.Errorf("%w: %d", ErrDuplicateChild, child)
		}
	}
	a.children = append(a.children, arrangedChild{handle: child, horz: horz, vert: vert})
	return nil
}

// SetBaseSize records the parent size deltas are computed against.
// Called once when the parent window is attached.
func (a *Arranger) SetBaseSize(s Size) {
	a.last = s
	a.haveLast = true
}

// Rearrange applies the per-child rules for the parent growing or
// shrinking to parent. Updates run in registration order; a failing
// child does not block the rest, and only the first failure is
// returned. The recorded parent size is updated unconditionally, even
// with zero children.
func (a *Arranger) Rearrange(parent Size) error {
	if !a.haveLast {
		// No baseline yet; just record and wait for the next resize.
		a.SetBaseSize(parent)
		return nil
	}

	dw := parent.Width - a.last.Width
	dh := parent.Height - a.last.Height
	a.last = parent

	if dw == 0 && dh == 0 {
		return nil
	}

	var firstErr error
	for _, c := range a.children {
		if c.horz == HorzFixed && c.vert == VertFixed {
			continue
		}
		r, err := a.sub.Geometry(c.handle)
		if err == nil {
			switch c.horz {
			case HorzResize:
				r.Width += dw
			case HorzReposition:
				r.X += dw
			}
			switch c.vert {
			case VertResize:
				r.Height += dh
			case VertReposition:
				r.Y += dh
			}
			err = a.sub.MoveResize(c.handle, r)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("rearrange child %d: %w", c.handle, err)
		}
	}
	return firstErr
}
