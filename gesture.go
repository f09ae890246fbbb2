package main

import (
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/deskpet/behavior"
)

const (
	dragThreshold = 6.0
	petHold       = 600 * time.Millisecond
)

// Pointer is one frame of mouse state, in screen coordinates.
type Pointer struct {
	Pos     cp.Vector
	Pressed bool
	OverPet bool
}

type gestureMode int

const (
	gestureNone gestureMode = iota
	gesturePending
	gestureDrag
	gesturePet
)

// Gestures turns raw pointer frames into pet interactions: a short press is a
// click, moving while pressed drags, holding still pets.
type Gestures struct {
	mode    gestureMode
	origin  cp.Vector
	held    time.Duration
	hovered bool
}

func (g *Gestures) Dragging() bool { return g.mode == gestureDrag }

// Update consumes one frame and returns the interactions it produced, in
// order.
func (g *Gestures) Update(p Pointer, dt time.Duration) []behavior.InteractionKind {
	var out []behavior.InteractionKind

	if p.OverPet && !g.hovered && g.mode == gestureNone && !p.Pressed {
		out = append(out, behavior.InteractionHover)
	}
	g.hovered = p.OverPet

	switch g.mode {
	case gestureNone:
		if p.Pressed && p.OverPet {
			g.mode = gesturePending
			g.origin = p.Pos
			g.held = 0
		}
	case gesturePending:
		if !p.Pressed {
			g.mode = gestureNone
			out = append(out, behavior.InteractionClick)
			break
		}
		g.held += dt
		if p.Pos.Distance(g.origin) > dragThreshold {
			g.mode = gestureDrag
			out = append(out, behavior.InteractionDragStart)
		} else if g.held >= petHold {
			g.mode = gesturePet
			out = append(out, behavior.InteractionPetStart)
		}
	case gestureDrag:
		if !p.Pressed {
			g.mode = gestureNone
			out = append(out, behavior.InteractionDragEnd)
		}
	case gesturePet:
		if !p.Pressed || !p.OverPet {
			g.mode = gestureNone
			out = append(out, behavior.InteractionPetEnd)
		}
	}
	return out
}
