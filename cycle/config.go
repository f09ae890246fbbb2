package cycle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidConfig is wrapped by every error returned from TimerConfig.Validate.
var ErrInvalidConfig = errors.New("cycle: invalid timer config")

// TimerConfig describes one session's cycle. It is treated as an immutable
// value: settings changes build a new config and hand it to Engine.Reconfigure.
type TimerConfig struct {
	Work         time.Duration
	Break        time.Duration
	LongBreak    time.Duration
	SetsPerCycle int

	// Triggers are optional mid-phase markers keyed by phase type.
	Triggers map[PhaseType][]TriggerSpec
}

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate reports every invalid field at once. Values are never clamped.
func (c TimerConfig) Validate() error {
	var errs []error
	positive := func(field string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf("must be positive, got %s", d)})
		}
	}
	positive("work", c.Work)
	positive("break", c.Break)
	positive("long_break", c.LongBreak)
	if c.SetsPerCycle <= 0 {
		errs = append(errs, &ValidationError{Field: "sets_per_cycle", Reason: fmt.Sprintf("must be a positive integer, got %d", c.SetsPerCycle)})
	}

	for phase, specs := range c.Triggers {
		if !phase.Valid() {
			errs = append(errs, &ValidationError{Field: "triggers", Reason: fmt.Sprintf("unknown phase type %q", phase)})
			continue
		}
		seen := make(map[string]bool, len(specs))
		for _, spec := range specs {
			field := fmt.Sprintf("triggers.%s", phase)
			if spec.ID == "" {
				errs = append(errs, &ValidationError{Field: field, Reason: "trigger id is empty"})
				continue
			}
			if seen[spec.ID] {
				errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf("duplicate trigger id %q", spec.ID)})
			}
			seen[spec.ID] = true
			if spec.Timing.Offset < 0 {
				errs = append(errs, &ValidationError{Field: field + "." + spec.ID, Reason: "offset must not be negative"})
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// PhaseDuration is the configured length of a phase type.
func (c TimerConfig) PhaseDuration(t PhaseType) time.Duration {
	switch t {
	case PhaseWork:
		return c.Work
	case PhaseBreak:
		return c.Break
	case PhaseLongBreak:
		return c.LongBreak
	case PhaseCongrats:
		return CongratsDuration
	}
	return 0
}

// UnreachableTriggers lists, as "phase/id", the triggers whose elapsed offset
// lies past the end of their phase. They pass validation but never fire, so
// callers log them.
func (c TimerConfig) UnreachableTriggers() []string {
	var out []string
	for phase, specs := range c.Triggers {
		for _, spec := range specs {
			if !spec.Reachable(c.PhaseDuration(phase)) {
				out = append(out, string(phase)+"/"+spec.ID)
			}
		}
	}
	sort.Strings(out)
	return out
}

// CycleLength is the configured cycle length without the congrats phase.
func (c TimerConfig) CycleLength() time.Duration {
	if c.SetsPerCycle <= 1 {
		return c.Work + c.Break
	}
	sets := time.Duration(c.SetsPerCycle)
	return sets*c.Work + (sets-1)*c.Break + c.LongBreak
}

// DefaultTimerConfig is the classic 25/5/15 x4 cycle.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Work:         25 * time.Minute,
		Break:        5 * time.Minute,
		LongBreak:    15 * time.Minute,
		SetsPerCycle: 4,
	}
}
