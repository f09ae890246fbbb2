package behavior

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

const (
	DefaultMarchSpeed  = 60.0 // units per second
	DefaultWanderSpeed = 35.0
)

// TickResult is the per-frame behavior query answer.
type TickResult struct {
	StateChanged bool
	State        State
	Movement     cp.Vector
	Moving       bool
}

// Machine owns the character's behavior state. It is driven by the host's
// frame loop and by the orchestrator's preset switches.
type Machine struct {
	rng    Rand
	preset *Preset

	current  State
	previous State
	elapsed  time.Duration
	duration time.Duration

	wanderTarget cp.Vector
	scrollDir    cp.Vector

	marchSpeed  float64
	wanderSpeed float64
}

type Option func(*Machine)

func WithRand(rng Rand) Option {
	return func(m *Machine) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSpeeds(march, wander float64) Option {
	return func(m *Machine) {
		if march > 0 {
			m.marchSpeed = march
		}
		if wander > 0 {
			m.wanderSpeed = wander
		}
	}
}

// WithScrollDirection sets the march direction. It is normalized.
func WithScrollDirection(dir cp.Vector) Option {
	return func(m *Machine) {
		m.SetScrollDirection(dir)
	}
}

// NewMachine starts in the initial state of the autonomous preset.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		marchSpeed:  DefaultMarchSpeed,
		wanderSpeed: DefaultWanderSpeed,
		scrollDir:   cp.Vector{X: 1, Y: 0},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = NewRand(0)
	}
	m.preset = presetTable[PresetAutonomous]
	m.enter(m.preset.Initial)
	return m
}

func (m *Machine) Current() State            { return m.current }
func (m *Machine) Previous() State           { return m.previous }
func (m *Machine) Preset() PresetName        { return m.preset.Name }
func (m *Machine) Elapsed() time.Duration    { return m.elapsed }
func (m *Machine) Duration() time.Duration   { return m.duration }
func (m *Machine) IsInteractionLocked() bool { return m.preset.InteractionLocked }

// IsScrolling reports whether the current state scrolls the scene.
func (m *Machine) IsScrolling() bool {
	return m.preset.Scrolling[m.current]
}

func (m *Machine) SetScrollDirection(dir cp.Vector) {
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	m.scrollDir = dir.Normalize()
}

// ApplyPreset swaps the active preset and enters its initial state.
func (m *Machine) ApplyPreset(name PresetName) (State, error) {
	p, err := LookupPreset(name)
	if err != nil {
		return m.current, err
	}
	m.preset = p
	m.enter(p.Initial)
	return m.current, nil
}

// Transition dispatches a trigger and returns the resulting state.
func (m *Machine) Transition(tr Trigger) State {
	switch tr.Type {
	case TriggerTimeout:
		m.enter(m.preset.Next(m.current))
	case TriggerPrompt:
		// dragging is pointer driven only
		if tr.Action == StateDragged || !tr.Action.Valid() {
			return m.current
		}
		m.enter(tr.Action)
	case TriggerInteraction:
		m.interact(tr.Interaction)
	}
	return m.current
}

func (m *Machine) interact(kind InteractionKind) {
	switch kind {
	case InteractionDragEnd, InteractionPetEnd:
		m.enter(m.preset.Resting())
		return
	case InteractionHover:
		return
	}

	target, ok := interactionTargets[kind]
	if !ok {
		return
	}
	if m.preset.InteractionLocked {
		if m.current != StateRefuse {
			m.enter(StateRefuse)
		}
		return
	}
	m.enter(target)
}

// Tick advances the current state by dt. At most one timeout resolves per tick.
func (m *Machine) Tick(dt time.Duration) TickResult {
	if dt < 0 {
		dt = 0
	}
	res := TickResult{State: m.current}
	if m.current.Locomotion() {
		res.Movement = m.movement(dt)
		res.Moving = true
	}

	if m.current.Unbounded() {
		return res
	}
	m.elapsed += dt
	if m.elapsed < m.duration {
		return res
	}

	// a timeout always re-enters, even when the target is the same state
	m.enter(m.preset.Next(m.current))
	res.State = m.current
	res.StateChanged = true
	return res
}

func (m *Machine) movement(dt time.Duration) cp.Vector {
	secs := dt.Seconds()
	switch m.current {
	case StateMarch:
		return m.scrollDir.Mult(m.marchSpeed * secs)
	case StateWander:
		return m.wanderTarget.Mult(m.wanderSpeed * secs)
	}
	return cp.Vector{}
}

func (m *Machine) enter(s State) {
	m.previous = m.current
	m.current = s
	m.elapsed = 0
	if s.Unbounded() {
		m.duration = Infinite
	} else if r, ok := m.preset.Duration(s); ok {
		m.duration = r.Draw(m.rng)
	} else {
		m.duration = Infinite
	}
	if s == StateWander {
		m.wanderTarget = cp.ForAngle(m.rng.Float64() * 2 * math.Pi)
	}
}
