package cycle

import (
	"sort"
	"time"
)

// TimingKind selects how a trigger offset is measured.
type TimingKind int

const (
	// TimingElapsed fires once Offset has elapsed in the phase.
	TimingElapsed TimingKind = iota
	// TimingRemaining fires once at most Offset remains in the phase.
	TimingRemaining
)

type Timing struct {
	Kind   TimingKind
	Offset time.Duration
}

func AfterElapsed(d time.Duration) Timing { return Timing{Kind: TimingElapsed, Offset: d} }
func BeforeEnd(d time.Duration) Timing    { return Timing{Kind: TimingRemaining, Offset: d} }

// TriggerSpec is a mid-phase marker. It fires at most once per phase instance.
type TriggerSpec struct {
	ID     string
	Timing Timing
}

// point is the elapsed time within a phase of the given length at which the
// trigger fires. A point equal to the phase length fires at the phase end,
// before PhaseCompleted. ok is false when the point lies past the phase.
func (s TriggerSpec) point(phaseLen time.Duration) (at time.Duration, ok bool) {
	switch s.Timing.Kind {
	case TimingRemaining:
		at = phaseLen - s.Timing.Offset
		if at < 0 {
			at = 0
		}
	default:
		at = s.Timing.Offset
	}
	return at, at <= phaseLen
}

// Reachable reports whether the trigger can fire in a phase of the given
// length. Only elapsed offsets past the phase end are unreachable.
func (s TriggerSpec) Reachable(phaseLen time.Duration) bool {
	_, ok := s.point(phaseLen)
	return ok
}

type pendingTrigger struct {
	spec  TriggerSpec
	at    time.Duration
	order int
}

// dueTriggers returns the not-yet-fired triggers whose point is at or before
// elapsed, in chronological order (ties keep config order).
func dueTriggers(specs []TriggerSpec, phaseLen, elapsed time.Duration, fired map[string]bool) []TriggerSpec {
	var due []pendingTrigger
	for i, spec := range specs {
		if fired[spec.ID] {
			continue
		}
		at, ok := spec.point(phaseLen)
		if !ok || at > elapsed {
			continue
		}
		due = append(due, pendingTrigger{spec: spec, at: at, order: i})
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].order < due[j].order
	})
	out := make([]TriggerSpec, len(due))
	for i, d := range due {
		out[i] = d.spec
	}
	return out
}
