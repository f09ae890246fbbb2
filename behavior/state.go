package behavior

import (
	"math"
	"time"
)

// State is a character behavior state.
type State string

const (
	StateIdle     State = "idle"
	StateWander   State = "wander"
	StateSit      State = "sit"
	StateSleep    State = "sleep"
	StateHappy    State = "happy"
	StateReaction State = "reaction"
	StateDragged  State = "dragged"
	StatePet      State = "pet"
	StateRefuse   State = "refuse"
	StateMarch    State = "march"
	StateFeeding  State = "feeding"
)

// States lists every state in a stable order.
var States = []State{
	StateIdle, StateWander, StateSit, StateSleep, StateHappy, StateReaction,
	StateDragged, StatePet, StateRefuse, StateMarch, StateFeeding,
}

func (s State) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// Unbounded states only end through an interaction.
func (s State) Unbounded() bool {
	return s == StateDragged
}

// Locomotion states produce a movement delta each tick.
func (s State) Locomotion() bool {
	return s == StateMarch || s == StateWander
}

// DurationRange is the inclusive range a state duration is drawn from.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

// Draw picks a duration uniformly from the range.
func (r DurationRange) Draw(rng Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	span := float64(r.Max - r.Min)
	return r.Min + time.Duration(math.Round(rng.Float64()*span))
}

// Infinite is the duration of unbounded states.
const Infinite = time.Duration(math.MaxInt64)

var defaultDurations = map[State]DurationRange{
	StateIdle:     {Min: 3 * time.Second, Max: 8 * time.Second},
	StateWander:   {Min: 4 * time.Second, Max: 10 * time.Second},
	StateSit:      {Min: 5 * time.Second, Max: 12 * time.Second},
	StateSleep:    {Min: 15 * time.Second, Max: 40 * time.Second},
	StateHappy:    {Min: 2 * time.Second, Max: 4 * time.Second},
	StateReaction: {Min: 800 * time.Millisecond, Max: 1500 * time.Millisecond},
	StatePet:      {Min: 2 * time.Second, Max: 3 * time.Second},
	StateRefuse:   {Min: 1200 * time.Millisecond, Max: 1800 * time.Millisecond},
	StateMarch:    {Min: 6 * time.Second, Max: 14 * time.Second},
	StateFeeding:  {Min: 2500 * time.Millisecond, Max: 4 * time.Second},
}

// DefaultDuration returns the preset-independent duration range of s.
func DefaultDuration(s State) (DurationRange, bool) {
	r, ok := defaultDurations[s]
	return r, ok
}
