package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/prefabs"
)

// app carries what every subcommand needs once flags, env and the config file
// have been merged over the embedded settings.
type app struct {
	v        *viper.Viper
	settings *prefabs.SettingsSpec
	log      *slog.Logger
}

// flagKeys binds persistent flags to settings keys. Env vars use the same keys
// with a PETSIM_ prefix, e.g. PETSIM_TIMER_WORK.
var flagKeys = map[string]string{
	"config":     "config",
	"work":       "timer.work",
	"break":      "timer.break",
	"long-break": "timer.long_break",
	"sets":       "timer.sets_per_cycle",
	"seed":       "pet.seed",
	"log-level":  "log_level",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "petsim",
		Short: "Headless desk pet simulator",
		Long: `petsim drives the focus timer, the pet's behavior machine and the
animation resolver without a window.

Settings start from the embedded prefabs/settings.yaml (or the one on disk),
then a --config file, then PETSIM_* environment variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "settings file with the same shape as prefabs/settings.yaml")
	pf.String("work", "", "work phase length (e.g. 25m, or minutes)")
	pf.String("break", "", "short break length")
	pf.String("long-break", "", "long break length")
	pf.Int("sets", 0, "work sets per cycle")
	pf.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	pf.String("log-level", "", "debug, info, warn or error")
	for flag, key := range flagKeys {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newResolveCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("PETSIM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("petsim: read config %s: %w", path, err)
		}
	}

	settings, err := prefabs.LoadSettings()
	if err != nil {
		return err
	}
	if err := a.overlay(settings); err != nil {
		return err
	}
	a.settings = settings
	a.log = common.NewLogger(cmd.ErrOrStderr(), settings.LogLevel)
	return nil
}

// overlay copies every key viper knows about onto the embedded settings.
func (a *app) overlay(s *prefabs.SettingsSpec) error {
	durations := []struct {
		key string
		dst *prefabs.YAMLDuration
	}{
		{"timer.work", &s.Timer.Work},
		{"timer.break", &s.Timer.Break},
		{"timer.long_break", &s.Timer.LongBreak},
	}
	for _, d := range durations {
		if !a.v.IsSet(d.key) {
			continue
		}
		parsed, err := prefabs.ParseDuration(a.v.GetString(d.key))
		if err != nil {
			return fmt.Errorf("petsim: %s: %w", d.key, err)
		}
		d.dst.Duration = parsed
	}

	if a.v.IsSet("timer.sets_per_cycle") {
		s.Timer.SetsPerCycle = a.v.GetInt("timer.sets_per_cycle")
	}
	if a.v.IsSet("timer.triggers") {
		// round-trip through yaml so trigger offsets use the settings duration syntax
		raw, err := yaml.Marshal(a.v.Get("timer.triggers"))
		if err != nil {
			return fmt.Errorf("petsim: timer.triggers: %w", err)
		}
		var triggers map[string][]prefabs.TriggerSpec
		if err := yaml.Unmarshal(raw, &triggers); err != nil {
			return fmt.Errorf("petsim: timer.triggers: %w", err)
		}
		s.Timer.Triggers = triggers
	}
	if a.v.IsSet("pet.march_speed") {
		s.Pet.MarchSpeed = a.v.GetFloat64("pet.march_speed")
	}
	if a.v.IsSet("pet.wander_speed") {
		s.Pet.WanderSpeed = a.v.GetFloat64("pet.wander_speed")
	}
	if a.v.IsSet("pet.seed") {
		s.Pet.Seed = a.v.GetUint64("pet.seed")
	}
	if a.v.IsSet("animation.scripts") {
		s.Animation.Scripts = a.v.GetStringSlice("animation.scripts")
	}
	if a.v.IsSet("log_level") {
		s.LogLevel = a.v.GetString("log_level")
	}
	return nil
}
