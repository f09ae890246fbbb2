package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/deskpet/animation"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/interaction"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		state, previous, preset, tod string
		progress, fatigue            float64
		clicks, feedings, cycles     int
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the animation clip for a pet context",
		Long: `resolve runs the animation rule chain, including the configured scripts,
once and prints the selected clip and the rule that produced it. Signals that
are not given on the command line are treated as unknown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := animation.Context{
				State:         behavior.State(state),
				PreviousState: behavior.State(previous),
				Preset:        behavior.PresetName(preset),
				PhaseProgress: progress,
			}
			if !ctx.State.Valid() {
				return fmt.Errorf("petsim: unknown state %q", state)
			}
			if progress < 0 || progress > 1 {
				return fmt.Errorf("petsim: --progress must be within [0, 1]")
			}

			flags := cmd.Flags()
			if flags.Changed("fatigue") {
				ctx.Emotion = &animation.Emotion{Fatigue: fatigue}
			}
			if flags.Changed("clicks") || flags.Changed("feedings") {
				ctx.Interaction = &interaction.History{RecentClicks: clicks, TotalFeedingsToday: feedings}
			}
			if flags.Changed("time") {
				t := animation.TimeOfDay(tod)
				ctx.TimeOfDay = &t
			}
			if flags.Changed("cycles") {
				ctx.TodayCompletedCycles = &cycles
			}

			scripts, err := a.settings.LoadScriptRules()
			if err != nil {
				a.log.Warn("animation scripts", "err", err)
			}
			res := animation.NewResolver(animation.DefaultRules(scripts...),
				animation.WithRand(behavior.NewRand(a.settings.Pet.Seed)))

			sel, rule := res.Explain(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "clip=%s loop=%t speed=%.2f rule=%s\n", sel.Clip, sel.Loop, sel.Speed, rule)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&state, "state", string(behavior.StateIdle), "current behavior state")
	f.StringVar(&previous, "previous", "", "previous behavior state")
	f.StringVar(&preset, "preset", string(behavior.PresetAutonomous), "active preset")
	f.Float64Var(&progress, "progress", 0, "phase progress in [0, 1]")
	f.Float64Var(&fatigue, "fatigue", 0, "fatigue in [0, 1]")
	f.IntVar(&clicks, "clicks", 0, "clicks in the last 3s")
	f.IntVar(&feedings, "feedings", 0, "feedings today")
	f.StringVar(&tod, "time", "", "time of day: morning, afternoon, evening or night")
	f.IntVar(&cycles, "cycles", 0, "cycles completed today")
	return cmd
}
