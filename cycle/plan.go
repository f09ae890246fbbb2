package cycle

import "time"

// PhaseType identifies a kind of phase in a cycle plan.
type PhaseType string

const (
	PhaseWork      PhaseType = "work"
	PhaseBreak     PhaseType = "break"
	PhaseLongBreak PhaseType = "long-break"
	PhaseCongrats  PhaseType = "congrats"
)

// CongratsDuration is the fixed length of the congrats phase.
const CongratsDuration = 5 * time.Second

func (t PhaseType) Valid() bool {
	switch t {
	case PhaseWork, PhaseBreak, PhaseLongBreak, PhaseCongrats:
		return true
	}
	return false
}

// IsRest reports whether completing a phase of this type finishes a set.
func (t PhaseType) IsRest() bool {
	return t == PhaseBreak || t == PhaseLongBreak
}

// Phase is one entry of a cycle plan.
type Phase struct {
	Type      PhaseType
	Duration  time.Duration
	SetNumber int
}

// BuildPlan lays out one cycle. The congrats phase sits right after the final
// work phase, which places it before the trailing long break when there is one.
func BuildPlan(cfg TimerConfig) []Phase {
	sets := cfg.SetsPerCycle
	if sets < 1 {
		sets = 1
	}

	plan := make([]Phase, 0, sets*2+1)
	for set := 1; set <= sets; set++ {
		plan = append(plan, Phase{Type: PhaseWork, Duration: cfg.Work, SetNumber: set})
		if set == sets {
			plan = append(plan, Phase{Type: PhaseCongrats, Duration: CongratsDuration, SetNumber: set})
		}
		if set == sets && sets > 1 {
			plan = append(plan, Phase{Type: PhaseLongBreak, Duration: cfg.LongBreak, SetNumber: set})
		} else {
			plan = append(plan, Phase{Type: PhaseBreak, Duration: cfg.Break, SetNumber: set})
		}
	}
	return plan
}

// TotalDuration sums the plan. Callers decide whether congrats counts.
func TotalDuration(plan []Phase, includeCongrats bool) time.Duration {
	var total time.Duration
	for _, p := range plan {
		if p.Type == PhaseCongrats && !includeCongrats {
			continue
		}
		total += p.Duration
	}
	return total
}
