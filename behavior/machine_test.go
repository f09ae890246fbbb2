package behavior

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type seqRand struct {
	values []float64
	i      int
}

func (s *seqRand) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestAutonomousTimeoutLoop(t *testing.T) {
	for _, r := range []Rand{fixedRand(0), fixedRand(0.5), fixedRand(0.999), NewRand(42), NewRand(7)} {
		m := NewMachine(WithRand(r))
		if m.Current() != StateIdle {
			t.Fatalf("expected idle, got %s", m.Current())
		}
		for i := 0; i < 3; i++ {
			for _, want := range []State{StateWander, StateSit, StateIdle} {
				if got := m.Transition(Timeout()); got != want {
					t.Fatalf("expected %s, got %s", want, got)
				}
			}
		}
	}
}

func TestEveryStateHasTimeoutTarget(t *testing.T) {
	for _, name := range PresetNames {
		p, err := LookupPreset(name)
		if err != nil {
			t.Fatalf("LookupPreset(%s): %v", name, err)
		}
		if !p.Initial.Valid() {
			t.Fatalf("%s: invalid initial state %q", name, p.Initial)
		}
		for _, s := range States {
			next := p.Next(s)
			if !next.Valid() {
				t.Fatalf("%s: state %s has no valid timeout target", name, s)
			}
			if next == StateDragged {
				t.Fatalf("%s: timeout from %s must not enter dragged", name, s)
			}
			if !s.Unbounded() {
				if _, ok := p.Duration(s); !ok {
					t.Fatalf("%s: state %s has no duration range", name, s)
				}
			}
		}
	}
}

func TestPresetDependentTargets(t *testing.T) {
	cases := []struct {
		preset PresetName
		from   State
		want   State
	}{
		{PresetAutonomous, StateIdle, StateWander},
		{PresetMarchCycle, StateIdle, StateMarch},
		{PresetMarchCycle, StateMarch, StateMarch},
		{PresetRestCycle, StateSit, StateSleep},
		{PresetRestCycle, StateSleep, StateIdle},
		{PresetJoyfulRest, StateHappy, StateWander},
		{PresetCelebrate, StateIdle, StateHappy},
		{PresetCelebrate, StateRefuse, StateHappy},
	}
	for _, c := range cases {
		t.Run(string(c.preset)+"/"+string(c.from), func(t *testing.T) {
			m := NewMachine(WithRand(fixedRand(0.3)))
			if _, err := m.ApplyPreset(c.preset); err != nil {
				t.Fatalf("ApplyPreset: %v", err)
			}
			m.Transition(Prompt(c.from))
			if got := m.Transition(Timeout()); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestApplyPresetEntersInitial(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0)))
	s, err := m.ApplyPreset(PresetMarchCycle)
	if err != nil || s != StateMarch || m.Current() != StateMarch {
		t.Fatalf("expected march, got %s err=%v", s, err)
	}
	if !m.IsInteractionLocked() || !m.IsScrolling() {
		t.Fatalf("march-cycle should lock interactions and scroll")
	}
	if _, err := m.ApplyPreset("nope"); err == nil {
		t.Fatalf("unknown preset should fail")
	}
	if m.Preset() != PresetMarchCycle {
		t.Fatalf("failed ApplyPreset must keep the active preset")
	}
}

func TestInteractionLockForcesRefuse(t *testing.T) {
	for _, kind := range []InteractionKind{InteractionClick, InteractionDragStart, InteractionPetStart, InteractionFeed} {
		t.Run(string(kind), func(t *testing.T) {
			m := NewMachine(WithRand(fixedRand(0.5)))
			m.ApplyPreset(PresetMarchCycle)
			if got := m.Transition(Interact(kind)); got != StateRefuse {
				t.Fatalf("expected refuse, got %s", got)
			}
		})
	}
}

func TestHoverIgnoresInteractionLock(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0.5)))
	m.ApplyPreset(PresetMarchCycle)
	if got := m.Transition(Interact(InteractionHover)); got != StateMarch {
		t.Fatalf("hover under a lock should stay in march, got %s", got)
	}
}

func TestRefuseIsIdempotent(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0.5)))
	m.ApplyPreset(PresetCelebrate)
	m.Transition(Interact(InteractionClick))
	m.Tick(500 * time.Millisecond)
	m.Transition(Interact(InteractionClick))
	if m.Current() != StateRefuse {
		t.Fatalf("expected refuse, got %s", m.Current())
	}
	if m.Elapsed() != 500*time.Millisecond {
		t.Fatalf("repeated rejection must not restart refuse, elapsed=%s", m.Elapsed())
	}
}

func TestUnlockedInteractions(t *testing.T) {
	cases := []struct {
		kind InteractionKind
		want State
	}{
		{InteractionClick, StateReaction},
		{InteractionDragStart, StateDragged},
		{InteractionPetStart, StatePet},
		{InteractionFeed, StateFeeding},
		{InteractionHover, StateIdle},
	}
	for _, c := range cases {
		t.Run(string(c.kind), func(t *testing.T) {
			m := NewMachine(WithRand(fixedRand(0.5)))
			if got := m.Transition(Interact(c.kind)); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestInteractionEndAlwaysSucceeds(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0.5)))
	m.Transition(Interact(InteractionDragStart))
	m.ApplyPreset(PresetRestCycle)
	m.Transition(Interact(InteractionDragStart))
	if m.Current() != StateDragged {
		t.Fatalf("expected dragged, got %s", m.Current())
	}
	if got := m.Transition(Interact(InteractionDragEnd)); got != StateSit {
		t.Fatalf("drag_end should return to the resting state, got %s", got)
	}

	m.ApplyPreset(PresetCelebrate)
	m.Transition(Interact(InteractionPetStart))
	if got := m.Transition(Interact(InteractionPetEnd)); got != StateHappy {
		t.Fatalf("pet_end should return to the locked state, got %s", got)
	}
}

func TestPromptCannotDrag(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0.5)))
	if got := m.Transition(Prompt(StateDragged)); got != StateIdle {
		t.Fatalf("prompting dragged should be a no-op, got %s", got)
	}
	if got := m.Transition(Prompt("flying")); got != StateIdle {
		t.Fatalf("prompting an unknown state should be a no-op, got %s", got)
	}
	if got := m.Transition(Prompt(StateSleep)); got != StateSleep {
		t.Fatalf("expected sleep, got %s", got)
	}
}

func TestTickTimesOut(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0)))
	// fixedRand(0) draws the minimum duration
	idle, _ := DefaultDuration(StateIdle)
	res := m.Tick(idle.Min - time.Millisecond)
	if res.StateChanged || res.State != StateIdle {
		t.Fatalf("unexpected early change: %+v", res)
	}
	res = m.Tick(time.Millisecond)
	if !res.StateChanged || res.State != StateWander {
		t.Fatalf("expected timeout into wander, got %+v", res)
	}
	if m.Previous() != StateIdle {
		t.Fatalf("previous should be idle, got %s", m.Previous())
	}
}

func TestDraggedNeverTimesOut(t *testing.T) {
	m := NewMachine(WithRand(fixedRand(0.5)))
	m.Transition(Interact(InteractionDragStart))
	for i := 0; i < 10; i++ {
		if res := m.Tick(time.Hour); res.StateChanged || res.State != StateDragged {
			t.Fatalf("dragged timed out: %+v", res)
		}
	}
}

func TestMovement(t *testing.T) {
	t.Run("march_follows_scroll_direction", func(t *testing.T) {
		m := NewMachine(WithRand(fixedRand(0)), WithSpeeds(100, 0), WithScrollDirection(cp.Vector{X: -2, Y: 0}))
		m.ApplyPreset(PresetMarchCycle)
		res := m.Tick(500 * time.Millisecond)
		if !res.Moving || math.Abs(res.Movement.X+50) > 1e-9 || math.Abs(res.Movement.Y) > 1e-9 {
			t.Fatalf("expected (-50,0), got %+v", res.Movement)
		}
	})

	t.Run("wander_uses_random_unit_target", func(t *testing.T) {
		rng := &seqRand{values: []float64{0, 0.25}}
		m := NewMachine(WithRand(rng), WithSpeeds(0, 10))
		m.Transition(Prompt(StateWander))
		res := m.Tick(time.Second)
		if !res.Moving {
			t.Fatalf("wander should move")
		}
		if l := res.Movement.Length(); math.Abs(l-10) > 1e-9 {
			t.Fatalf("expected a 10 unit step, got %v", l)
		}
	})

	t.Run("still_states_do_not_move", func(t *testing.T) {
		for _, s := range []State{StateIdle, StateSit, StateSleep, StateHappy, StateFeeding} {
			m := NewMachine(WithRand(fixedRand(0.5)))
			m.Transition(Prompt(s))
			if res := m.Tick(10 * time.Millisecond); res.Moving || res.Movement != (cp.Vector{}) {
				t.Fatalf("%s should not move: %+v", s, res)
			}
		}
	})
}

func TestDurationDraw(t *testing.T) {
	r := DurationRange{Min: time.Second, Max: 3 * time.Second}
	if got := r.Draw(fixedRand(0)); got != time.Second {
		t.Fatalf("min draw %s", got)
	}
	if got := r.Draw(fixedRand(0.5)); got != 2*time.Second {
		t.Fatalf("mid draw %s", got)
	}
	if got := (DurationRange{Min: time.Second}).Draw(fixedRand(0.9)); got != time.Second {
		t.Fatalf("degenerate draw %s", got)
	}
}
