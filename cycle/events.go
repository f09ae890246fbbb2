package cycle

import "time"

// EventKind identifies engine event types.
type EventKind string

const (
	EventPhaseStarted   EventKind = "phase_started"
	EventPhaseCompleted EventKind = "phase_completed"
	EventTimerTicked    EventKind = "timer_ticked"
	EventTimerPaused    EventKind = "timer_paused"
	EventTimerReset     EventKind = "timer_reset"
	EventSetCompleted   EventKind = "set_completed"
	EventCycleCompleted EventKind = "cycle_completed"
	EventTriggerFired   EventKind = "trigger_fired"
)

// Event is a single engine event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	At   time.Time

	Phase     Phase
	Remaining time.Duration
	Elapsed   time.Duration

	SetNumber   int
	TotalSets   int
	CycleNumber int
	TriggerID   string
}

// Kinds is a test and logging helper listing the kinds of events in order.
func Kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}
