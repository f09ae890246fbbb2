package animation

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script inputs are plain globals; outputs are the globals the script assigns.
//
//	inputs:  state previous preset progress roll fatigue clicks feedings
//	         time_of_day cycles (numbers are -1 when the host did not supply them)
//	outputs: match clip loop speed
var scriptInputs = []string{
	"state", "previous", "preset", "progress", "roll",
	"fatigue", "clicks", "feedings", "time_of_day", "cycles",
}

type scriptRule struct {
	name     string
	compiled *tengo.Compiled

	// result of the last Match, consumed by the Resolve that follows it; this
	// is why a Resolver holding script rules must not be shared across
	// goroutines
	last Selection
}

// CompileScript turns a tengo script into a rule. A script that fails at run
// time simply does not match, so the chain stays total.
func CompileScript(name string, src []byte) (Rule, error) {
	script := tengo.NewScript(src)
	for _, in := range scriptInputs {
		if err := script.Add(in, ""); err != nil {
			return Rule{}, fmt.Errorf("animation: script %s: %w", name, err)
		}
	}
	outputs := map[string]any{"match": false, "clip": "", "loop": false, "speed": 0.0}
	for out, zero := range outputs {
		if err := script.Add(out, zero); err != nil {
			return Rule{}, fmt.Errorf("animation: script %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return Rule{}, fmt.Errorf("animation: compile script %s: %w", name, err)
	}

	sr := &scriptRule{name: name, compiled: compiled}
	return Rule{
		Name:    "script:" + name,
		Match:   sr.match,
		Resolve: func(Context, Rand) Selection { return sr.last },
	}, nil
}

func (sr *scriptRule) match(ctx Context, rng Rand) (ok bool) {
	// tengo lets Go runtime panics such as integer division by zero escape Run
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if err := sr.bind(ctx, rng.Float64()); err != nil {
		return false
	}
	if err := sr.compiled.Run(); err != nil {
		return false
	}
	if !sr.compiled.Get("match").Bool() {
		return false
	}
	clip := strings.TrimSpace(sr.compiled.Get("clip").String())
	if clip == "" {
		return false
	}
	sr.last = Selection{
		Clip:  clip,
		Loop:  sr.compiled.Get("loop").Bool(),
		Speed: sr.compiled.Get("speed").Float(),
	}
	return true
}

func (sr *scriptRule) bind(ctx Context, roll float64) error {
	fatigue, clicks, feedings, cycles := -1.0, -1, -1, -1
	tod := ""
	if ctx.Emotion != nil {
		fatigue = ctx.Emotion.Fatigue
	}
	if ctx.Interaction != nil {
		clicks = ctx.Interaction.RecentClicks
		feedings = ctx.Interaction.TotalFeedingsToday
	}
	if ctx.TimeOfDay != nil {
		tod = string(*ctx.TimeOfDay)
	}
	if ctx.TodayCompletedCycles != nil {
		cycles = *ctx.TodayCompletedCycles
	}

	values := map[string]any{
		"state":       string(ctx.State),
		"previous":    string(ctx.PreviousState),
		"preset":      string(ctx.Preset),
		"progress":    ctx.PhaseProgress,
		"roll":        roll,
		"fatigue":     fatigue,
		"clicks":      clicks,
		"feedings":    feedings,
		"time_of_day": tod,
		"cycles":      cycles,
		"match":       false,
		"clip":        "",
		"loop":        false,
		"speed":       0.0,
	}
	for k, v := range values {
		if err := sr.compiled.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
