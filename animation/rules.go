package animation

import "github.com/milk9111/deskpet/behavior"

const (
	FatigueThreshold     = 0.8
	OverfedThreshold     = 5
	DizzyClickThreshold  = 5
	AnnoyClickThreshold  = 3
	MarchRunProgress     = 0.75
	MarchWalkProgress    = 0.25
	ProudCycleThreshold  = 3
	CosmeticVariantOdds  = 0.3
	MarchWalkSpeedFactor = 0.8
)

// DefaultRules builds the chain in priority order: emotion and saturation,
// interaction frequency, progress and context, cosmetic variation. extra
// rules run after the built-in cosmetic ones and before the default table.
func DefaultRules(extra ...Rule) []Rule {
	rules := []Rule{
		fatigueRule(),
		overfedRule(),
		dizzyRule(),
		annoyedRule(),
		marchRunRule(),
		marchWalkRule(),
		nightYawnRule(),
		proudRule(),
		variantRule("march-bounce", behavior.StateMarch, Selection{Clip: "march_bounce", Loop: true}),
		variantRule("idle-look", behavior.StateIdle, Selection{Clip: "idle_look", Loop: false}),
		variantRule("sit-groom", behavior.StateSit, Selection{Clip: "groom", Loop: false}),
	}
	return append(rules, extra...)
}

func inState(ctx Context, states ...behavior.State) bool {
	for _, s := range states {
		if ctx.State == s {
			return true
		}
	}
	return false
}

func fixed(sel Selection) func(Context, Rand) Selection {
	return func(Context, Rand) Selection { return sel }
}

func fatigueRule() Rule {
	return Rule{
		Name: "fatigue",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.Emotion != nil && ctx.Emotion.Fatigue >= FatigueThreshold &&
				inState(ctx, behavior.StateIdle, behavior.StateSit, behavior.StateWander)
		},
		Resolve: fixed(Selection{Clip: "tired", Loop: true}),
	}
}

func overfedRule() Rule {
	return Rule{
		Name: "overfed",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.Interaction != nil && ctx.Interaction.TotalFeedingsToday >= OverfedThreshold &&
				inState(ctx, behavior.StateFeeding, behavior.StateIdle)
		},
		Resolve: fixed(Selection{Clip: "overfed", Loop: true}),
	}
}

func dizzyRule() Rule {
	return Rule{
		Name: "dizzy",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.Interaction != nil && ctx.Interaction.RecentClicks >= DizzyClickThreshold &&
				ctx.State == behavior.StateReaction
		},
		Resolve: fixed(Selection{Clip: "dizzy", Loop: false}),
	}
}

func annoyedRule() Rule {
	return Rule{
		Name: "annoyed",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.Interaction != nil && ctx.Interaction.RecentClicks >= AnnoyClickThreshold &&
				ctx.State == behavior.StateReaction
		},
		Resolve: fixed(Selection{Clip: "annoyed", Loop: false}),
	}
}

func marchRunRule() Rule {
	return Rule{
		Name: "march-run",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.State == behavior.StateMarch && ctx.PhaseProgress >= MarchRunProgress
		},
		Resolve: fixed(Selection{Clip: "run", Loop: true}),
	}
}

func marchWalkRule() Rule {
	return Rule{
		Name: "march-walk",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.State == behavior.StateMarch && ctx.PhaseProgress < MarchWalkProgress
		},
		Resolve: fixed(Selection{Clip: "walk", Loop: true, Speed: MarchWalkSpeedFactor}),
	}
}

func nightYawnRule() Rule {
	return Rule{
		Name: "night-yawn",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.TimeOfDay != nil && *ctx.TimeOfDay == Night && ctx.State == behavior.StateIdle
		},
		Resolve: fixed(Selection{Clip: "yawn", Loop: false}),
	}
}

func proudRule() Rule {
	return Rule{
		Name: "proud",
		Match: func(ctx Context, _ Rand) bool {
			return ctx.TodayCompletedCycles != nil && *ctx.TodayCompletedCycles >= ProudCycleThreshold &&
				ctx.State == behavior.StateHappy
		},
		Resolve: fixed(Selection{Clip: "happy_proud", Loop: true}),
	}
}

// variantRule swaps in an alternate clip some of the time.
func variantRule(name string, state behavior.State, sel Selection) Rule {
	return Rule{
		Name: name,
		Match: func(ctx Context, rng Rand) bool {
			return ctx.State == state && rng.Float64() < CosmeticVariantOdds
		},
		Resolve: fixed(sel),
	}
}
