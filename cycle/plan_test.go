package cycle

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestBuildPlan(t *testing.T) {
	cases := []struct {
		name  string
		cfg   TimerConfig
		types []PhaseType
	}{
		{
			name:  "single_set",
			cfg:   TimerConfig{Work: 3 * time.Second, Break: 2 * time.Second, LongBreak: 4 * time.Second, SetsPerCycle: 1},
			types: []PhaseType{PhaseWork, PhaseCongrats, PhaseBreak},
		},
		{
			name: "four_sets",
			cfg:  TimerConfig{Work: 3 * time.Second, Break: 2 * time.Second, LongBreak: 4 * time.Second, SetsPerCycle: 4},
			types: []PhaseType{
				PhaseWork, PhaseBreak,
				PhaseWork, PhaseBreak,
				PhaseWork, PhaseBreak,
				PhaseWork, PhaseCongrats, PhaseLongBreak,
			},
		},
		{
			name:  "two_sets",
			cfg:   TimerConfig{Work: time.Minute, Break: time.Second, LongBreak: 2 * time.Minute, SetsPerCycle: 2},
			types: []PhaseType{PhaseWork, PhaseBreak, PhaseWork, PhaseCongrats, PhaseLongBreak},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := BuildPlan(c.cfg)
			if len(plan) != len(c.types) {
				t.Fatalf("expected %d phases, got %d: %+v", len(c.types), len(plan), plan)
			}
			for i, want := range c.types {
				if plan[i].Type != want {
					t.Fatalf("phase %d: expected %s, got %s", i, want, plan[i].Type)
				}
			}
		})
	}
}

func TestBuildPlanProperties(t *testing.T) {
	for sets := 1; sets <= 8; sets++ {
		cfg := TimerConfig{Work: 7 * time.Second, Break: 3 * time.Second, LongBreak: 11 * time.Second, SetsPerCycle: sets}
		plan := BuildPlan(cfg)

		congrats := 0
		lastSet := 0
		for _, p := range plan {
			if p.Type == PhaseCongrats {
				congrats++
				if p.Duration != CongratsDuration {
					t.Fatalf("sets=%d: congrats duration %s", sets, p.Duration)
				}
			}
			if p.SetNumber < lastSet {
				t.Fatalf("sets=%d: set numbers decreased: %+v", sets, plan)
			}
			lastSet = p.SetNumber
		}
		if congrats != 1 {
			t.Fatalf("sets=%d: expected exactly one congrats phase, got %d", sets, congrats)
		}
		if lastSet != sets {
			t.Fatalf("sets=%d: last set number %d", sets, lastSet)
		}

		if got, want := TotalDuration(plan, false), cfg.CycleLength(); got != want {
			t.Fatalf("sets=%d: non-congrats total %s, expected %s", sets, got, want)
		}
		if got, want := TotalDuration(plan, true), cfg.CycleLength()+CongratsDuration; got != want {
			t.Fatalf("sets=%d: total %s, expected %s", sets, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		cfg    TimerConfig
		fields []string
	}{
		{"valid", TimerConfig{Work: 1, Break: 1, LongBreak: 1, SetsPerCycle: 1}, nil},
		{"zero_work", TimerConfig{Work: 0, Break: 1, LongBreak: 1, SetsPerCycle: 1}, []string{"work"}},
		{"negative_break", TimerConfig{Work: 1, Break: -1, LongBreak: 1, SetsPerCycle: 1}, []string{"break"}},
		{"zero_sets", TimerConfig{Work: 1, Break: 1, LongBreak: 1, SetsPerCycle: 0}, []string{"sets_per_cycle"}},
		{"everything", TimerConfig{}, []string{"work", "break", "long_break", "sets_per_cycle"}},
		{
			"bad_triggers",
			TimerConfig{Work: 1, Break: 1, LongBreak: 1, SetsPerCycle: 1, Triggers: map[PhaseType][]TriggerSpec{
				PhaseWork: {{ID: "a"}, {ID: "a"}},
			}},
			[]string{"triggers.work"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if len(c.fields) == 0 {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			for _, field := range c.fields {
				if !hasFieldError(err, field) {
					t.Fatalf("expected an error for %q in %v", field, err)
				}
			}
			if _, nerr := NewEngine(c.cfg); nerr == nil {
				t.Fatalf("NewEngine should reject invalid config")
			}
		})
	}
}

func hasFieldError(err error, field string) bool {
	var walk func(error) bool
	walk = func(err error) bool {
		if err == nil {
			return false
		}
		if ve, ok := err.(*ValidationError); ok && ve.Field == field {
			return true
		}
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				if walk(inner) {
					return true
				}
			}
			return false
		}
		return walk(errors.Unwrap(err))
	}
	return walk(err)
}

func TestUnreachableTriggers(t *testing.T) {
	cfg := TimerConfig{Work: 10 * time.Second, Break: 5 * time.Second, LongBreak: 15 * time.Second, SetsPerCycle: 4,
		Triggers: map[PhaseType][]TriggerSpec{
			PhaseWork: {
				{ID: "at-end", Timing: AfterElapsed(10 * time.Second)},
				{ID: "halfway", Timing: AfterElapsed(12 * time.Minute)},
			},
			PhaseBreak:     {{ID: "stretch", Timing: AfterElapsed(30 * time.Second)}},
			PhaseLongBreak: {{ID: "early", Timing: BeforeEnd(time.Hour)}},
			PhaseCongrats:  {{ID: "cheer", Timing: BeforeEnd(0)}},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []string{"break/stretch", "work/halfway"}
	if got := cfg.UnreachableTriggers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
