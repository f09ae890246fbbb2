package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/cycle"
	"github.com/milk9111/deskpet/orchestrator"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		length time.Duration
		step   time.Duration
		ticks  bool
		states bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fast-forward a focus session and print what happens",
		Long: `run starts the timer and ticks the simulation in fixed steps, printing
timer events, preset switches and scene exits with their offset from the
start. It stops when the scene exits or --for has elapsed; without --for it
runs one full cycle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if step <= 0 {
				return fmt.Errorf("petsim: --step must be positive")
			}
			cfg, err := a.settings.ToTimerConfig()
			if err != nil {
				return err
			}
			for _, id := range cfg.UnreachableTriggers() {
				a.log.Warn("trigger never fires", "trigger", id)
			}

			start := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)
			var elapsed time.Duration
			engine, err := cycle.NewEngine(cfg, cycle.WithClock(func() time.Time { return start.Add(elapsed) }))
			if err != nil {
				return err
			}
			machine := behavior.NewMachine(
				behavior.WithRand(behavior.NewRand(a.settings.Pet.Seed)),
				behavior.WithSpeeds(a.settings.Pet.MarchSpeed, a.settings.Pet.WanderSpeed),
				behavior.WithScrollDirection(cp.Vector{X: 1}),
			)
			notes := &orchestrator.Queue[orchestrator.Notification]{}
			orch := orchestrator.New(engine, machine, notes, orchestrator.WithLogger(a.log))

			total := length
			if total <= 0 {
				total = cycle.TotalDuration(engine.Plan(), true) + step
			}

			out := cmd.OutOrStdout()
			orch.Start()
			exited := printNotifications(out, elapsed, notes.Drain(), ticks)
			for !exited && elapsed < total {
				dt := min(step, total-elapsed)
				elapsed += dt
				_, res := orch.Tick(dt)
				if states && res.StateChanged {
					fmt.Fprintf(out, "[%9s] state %s -> %s\n", elapsed, machine.Previous(), res.State)
				}
				exited = printNotifications(out, elapsed, notes.Drain(), ticks)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&length, "for", 0, "how much simulated time to run (default one full cycle)")
	cmd.Flags().DurationVar(&step, "step", time.Second, "simulated time per tick")
	cmd.Flags().BoolVar(&ticks, "ticks", false, "also print timer_ticked events")
	cmd.Flags().BoolVar(&states, "states", false, "print behavior state changes")
	return cmd
}

// printNotifications writes one line per notification and reports whether the
// scene was exited.
func printNotifications(w io.Writer, at time.Duration, ns []orchestrator.Notification, ticks bool) bool {
	exited := false
	for _, n := range ns {
		switch n.Kind {
		case orchestrator.NotifyEvent:
			if n.Event.Kind == cycle.EventTimerTicked && !ticks {
				continue
			}
			fmt.Fprintf(w, "[%9s] %s\n", at, describeEvent(n.Event))
		case orchestrator.NotifyPresetApplied:
			fmt.Fprintf(w, "[%9s] preset %s (%s)\n", at, n.Preset, n.State)
		case orchestrator.NotifySceneExited:
			fmt.Fprintf(w, "[%9s] scene exited: %s\n", at, n.Reason)
			exited = true
		}
	}
	return exited
}

func describeEvent(ev cycle.Event) string {
	switch ev.Kind {
	case cycle.EventPhaseStarted, cycle.EventPhaseCompleted:
		return fmt.Sprintf("%s %s set=%d", ev.Kind, ev.Phase.Type, ev.Phase.SetNumber)
	case cycle.EventSetCompleted:
		return fmt.Sprintf("%s %d/%d", ev.Kind, ev.SetNumber, ev.TotalSets)
	case cycle.EventCycleCompleted:
		return fmt.Sprintf("%s #%d", ev.Kind, ev.CycleNumber)
	case cycle.EventTriggerFired:
		return fmt.Sprintf("%s %s in %s", ev.Kind, ev.TriggerID, ev.Phase.Type)
	case cycle.EventTimerTicked:
		return fmt.Sprintf("%s remaining=%s", ev.Kind, ev.Remaining)
	case cycle.EventTimerPaused:
		return fmt.Sprintf("%s elapsed=%s", ev.Kind, ev.Elapsed)
	default:
		return string(ev.Kind)
	}
}
