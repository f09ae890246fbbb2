package animation

import (
	"time"

	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/interaction"
)

// TimeOfDay buckets the local hour.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimeOfDayAt buckets t's local hour.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 22:
		return Evening
	default:
		return Night
	}
}

// Emotion is the host's model of how the pet feels.
type Emotion struct {
	Mood    string
	Fatigue float64 // 0..1
}

// Context is assembled by the host for a single Resolve call. Optional
// signals are nil when the host does not track them.
type Context struct {
	State         behavior.State
	PreviousState behavior.State
	Preset        behavior.PresetName
	PhaseProgress float64

	Emotion              *Emotion
	Interaction          *interaction.History
	TimeOfDay            *TimeOfDay
	TodayCompletedCycles *int
}

// Selection is the resolved clip. Speed 0 leaves playback speed alone.
type Selection struct {
	Clip  string
	Loop  bool
	Speed float64
}
