package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/deskpet/cycle"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the phase plan of one cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.settings.ToTimerConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			plan := cycle.BuildPlan(cfg)
			fmt.Fprintf(out, "%-3s %-11s %-4s %s\n", "#", "PHASE", "SET", "DURATION")
			for i, p := range plan {
				fmt.Fprintf(out, "%-3d %-11s %-4d %s\n", i, p.Type, p.SetNumber, p.Duration)
				for _, trig := range cfg.Triggers[p.Type] {
					note := ""
					if !trig.Reachable(p.Duration) {
						note = " (never fires)"
					}
					fmt.Fprintf(out, "    trigger %s %s%s\n", trig.ID, describeTiming(trig.Timing), note)
				}
			}
			fmt.Fprintf(out, "total: %s (%s with congrats)\n", cycle.TotalDuration(plan, false), cycle.TotalDuration(plan, true))
			return nil
		},
	}
}

func describeTiming(t cycle.Timing) string {
	if t.Kind == cycle.TimingRemaining {
		return fmt.Sprintf("%s before end", t.Offset)
	}
	return fmt.Sprintf("after %s", t.Offset)
}
