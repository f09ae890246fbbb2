package prefabs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/deskpet/animation"
	"github.com/milk9111/deskpet/cycle"
)

const SettingsFile = "settings.yaml"

// LoadSpec decodes a yaml prefab straight from fsys, without disk overrides.
func LoadSpec[T any](fsys fs.FS, filename string) (T, error) {
	var zero T
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SettingsSpec struct {
	Timer     TimerSpec     `yaml:"timer"`
	Pet       PetSpec       `yaml:"pet"`
	Animation AnimationSpec `yaml:"animation"`
	LogLevel  string        `yaml:"log_level"`
}

type TimerSpec struct {
	Work         YAMLDuration             `yaml:"work"`
	Break        YAMLDuration             `yaml:"break"`
	LongBreak    YAMLDuration             `yaml:"long_break"`
	SetsPerCycle int                      `yaml:"sets_per_cycle"`
	Triggers     map[string][]TriggerSpec `yaml:"triggers"`
}

// TriggerSpec sets exactly one of After or BeforeEnd.
type TriggerSpec struct {
	ID        string        `yaml:"id"`
	After     *YAMLDuration `yaml:"after"`
	BeforeEnd *YAMLDuration `yaml:"before_end"`
}

type PetSpec struct {
	MarchSpeed  float64 `yaml:"march_speed"`
	WanderSpeed float64 `yaml:"wander_speed"`
	Seed        uint64  `yaml:"seed"`
}

type AnimationSpec struct {
	Scripts []string `yaml:"scripts"`
}

func LoadSettings() (*SettingsSpec, error) {
	data, err := Load(SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", SettingsFile, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes settings on top of the embedded defaults, so a partial
// file only overrides what it names.
func ParseSettings(data []byte) (*SettingsSpec, error) {
	spec, err := defaultSettings()
	if err != nil {
		return nil, err
	}
	// triggers are replaced as a whole, never merged
	var probe struct {
		Timer struct {
			Triggers *yaml.Node `yaml:"triggers"`
		} `yaml:"timer"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", SettingsFile, err)
	}
	if probe.Timer.Triggers != nil {
		spec.Timer.Triggers = nil
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", SettingsFile, err)
	}
	return &spec, nil
}

func defaultSettings() (SettingsSpec, error) {
	return LoadSpec[SettingsSpec](PrefabsFS, SettingsFile)
}

// ToTimerConfig converts the timer section and validates the result.
func (s *SettingsSpec) ToTimerConfig() (cycle.TimerConfig, error) {
	cfg := cycle.TimerConfig{
		Work:         s.Timer.Work.Duration,
		Break:        s.Timer.Break.Duration,
		LongBreak:    s.Timer.LongBreak.Duration,
		SetsPerCycle: s.Timer.SetsPerCycle,
	}

	var errs []error
	if len(s.Timer.Triggers) > 0 {
		cfg.Triggers = make(map[cycle.PhaseType][]cycle.TriggerSpec, len(s.Timer.Triggers))
	}
	for phase, specs := range s.Timer.Triggers {
		pt := cycle.PhaseType(phase)
		if !pt.Valid() {
			errs = append(errs, fmt.Errorf("triggers: unknown phase %q", phase))
			continue
		}
		for _, ts := range specs {
			trig, err := ts.toTrigger()
			if err != nil {
				errs = append(errs, fmt.Errorf("triggers.%s: %w", phase, err))
				continue
			}
			cfg.Triggers[pt] = append(cfg.Triggers[pt], trig)
		}
	}
	if len(errs) > 0 {
		return cycle.TimerConfig{}, fmt.Errorf("prefabs: %s: %w", SettingsFile, errors.Join(errs...))
	}

	if err := cfg.Validate(); err != nil {
		return cycle.TimerConfig{}, fmt.Errorf("prefabs: %s: %w", SettingsFile, err)
	}
	return cfg, nil
}

func (t TriggerSpec) toTrigger() (cycle.TriggerSpec, error) {
	switch {
	case t.After != nil && t.BeforeEnd != nil:
		return cycle.TriggerSpec{}, fmt.Errorf("trigger %q sets both after and before_end", t.ID)
	case t.After != nil:
		return cycle.TriggerSpec{ID: t.ID, Timing: cycle.AfterElapsed(t.After.Duration)}, nil
	case t.BeforeEnd != nil:
		return cycle.TriggerSpec{ID: t.ID, Timing: cycle.BeforeEnd(t.BeforeEnd.Duration)}, nil
	default:
		return cycle.TriggerSpec{}, fmt.Errorf("trigger %q needs after or before_end", t.ID)
	}
}

// LoadScriptRules compiles the configured animation scripts in order. A script
// that fails to load or compile is reported and skipped.
func (s *SettingsSpec) LoadScriptRules() ([]animation.Rule, error) {
	var (
		rules []animation.Rule
		errs  []error
	)
	for _, name := range s.Animation.Scripts {
		src, err := LoadScript(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("prefabs: load script %s: %w", name, err))
			continue
		}
		rule, err := animation.CompileScript(strings.TrimSuffix(path.Base(cleanScriptPath(name)), ".tengo"), src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, errors.Join(errs...)
}

// YAMLDuration accepts Go duration strings ("25m", "90s") or a bare number of
// minutes.
type YAMLDuration struct {
	time.Duration
}

func (d *YAMLDuration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}

	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// ParseDuration reads a Go duration string or a bare number of minutes.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if mins, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(mins * float64(time.Minute)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

func (d YAMLDuration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}
