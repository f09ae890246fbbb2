package behavior

import (
	"fmt"
	"time"
)

// PresetName names one entry of the closed preset table.
type PresetName string

const (
	PresetAutonomous PresetName = "autonomous"
	PresetMarchCycle PresetName = "march-cycle"
	PresetRestCycle  PresetName = "rest-cycle"
	PresetJoyfulRest PresetName = "joyful-rest"
	PresetCelebrate  PresetName = "celebrate"
)

// PresetNames lists the table in a stable order.
var PresetNames = []PresetName{
	PresetAutonomous, PresetMarchCycle, PresetRestCycle, PresetJoyfulRest, PresetCelebrate,
}

// Preset is a sub state machine selected by the orchestrator. Presets are
// only ever read from the table below.
type Preset struct {
	Name              PresetName
	Transitions       map[State]State
	Initial           State
	Locked            State
	InteractionLocked bool
	Scrolling         map[State]bool
	Durations         map[State]DurationRange
}

// Resting is where finished interactions return to.
func (p *Preset) Resting() State {
	if p.Locked != "" {
		return p.Locked
	}
	return p.Initial
}

// Duration resolves the range for s under this preset.
func (p *Preset) Duration(s State) (DurationRange, bool) {
	if r, ok := p.Durations[s]; ok {
		return r, true
	}
	return DefaultDuration(s)
}

// Next is the timeout target of s.
func (p *Preset) Next(s State) State {
	if p.Locked != "" {
		return p.Locked
	}
	if next, ok := p.Transitions[s]; ok {
		return next
	}
	return p.Initial
}

// interruptions all settle back into the preset's rhythm
func returnTo(target State, extra map[State]State) map[State]State {
	m := map[State]State{
		StateReaction: target,
		StatePet:      target,
		StateRefuse:   target,
		StateFeeding:  target,
		StateHappy:    target,
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

var presetTable = map[PresetName]*Preset{
	PresetAutonomous: {
		Name:    PresetAutonomous,
		Initial: StateIdle,
		Transitions: returnTo(StateIdle, map[State]State{
			StateIdle:   StateWander,
			StateWander: StateSit,
			StateSit:    StateIdle,
			StateSleep:  StateIdle,
			StateMarch:  StateIdle,
		}),
	},
	PresetMarchCycle: {
		Name:              PresetMarchCycle,
		Initial:           StateMarch,
		InteractionLocked: true,
		Transitions: returnTo(StateMarch, map[State]State{
			StateIdle:  StateMarch,
			StateMarch: StateMarch,
		}),
		Scrolling: map[State]bool{StateMarch: true},
		Durations: map[State]DurationRange{
			StateMarch: {Min: 20 * time.Second, Max: 40 * time.Second},
			StateIdle:  {Min: time.Second, Max: 2 * time.Second},
		},
	},
	PresetRestCycle: {
		Name:    PresetRestCycle,
		Initial: StateSit,
		Transitions: returnTo(StateIdle, map[State]State{
			StateSit:    StateSleep,
			StateSleep:  StateIdle,
			StateIdle:   StateSit,
			StateWander: StateIdle,
			StateMarch:  StateIdle,
		}),
		Durations: map[State]DurationRange{
			StateSleep: {Min: 30 * time.Second, Max: 90 * time.Second},
		},
	},
	PresetJoyfulRest: {
		Name:    PresetJoyfulRest,
		Initial: StateHappy,
		Transitions: returnTo(StateHappy, map[State]State{
			StateHappy:  StateWander,
			StateWander: StateHappy,
			StateIdle:   StateHappy,
			StateSit:    StateWander,
			StateSleep:  StateHappy,
			StateMarch:  StateHappy,
		}),
		Durations: map[State]DurationRange{
			StateHappy: {Min: 3 * time.Second, Max: 6 * time.Second},
		},
	},
	PresetCelebrate: {
		Name:              PresetCelebrate,
		Initial:           StateHappy,
		Locked:            StateHappy,
		InteractionLocked: true,
		Transitions:       map[State]State{},
		Durations: map[State]DurationRange{
			StateHappy: {Min: 1500 * time.Millisecond, Max: 2500 * time.Millisecond},
		},
	},
}

// LookupPreset returns the named preset.
func LookupPreset(name PresetName) (*Preset, error) {
	p, ok := presetTable[name]
	if !ok {
		return nil, fmt.Errorf("behavior: unknown preset %q", name)
	}
	return p, nil
}
