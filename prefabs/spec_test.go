package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/deskpet/cycle"
)

func TestEmbeddedSettings(t *testing.T) {
	spec, err := defaultSettings()
	if err != nil {
		t.Fatalf("defaultSettings: %v", err)
	}
	cfg, err := spec.ToTimerConfig()
	if err != nil {
		t.Fatalf("ToTimerConfig: %v", err)
	}
	if cfg.Work != 25*time.Minute || cfg.Break != 5*time.Minute || cfg.LongBreak != 15*time.Minute || cfg.SetsPerCycle != 4 {
		t.Fatalf("unexpected embedded timer config %+v", cfg)
	}
	work := cfg.Triggers[cycle.PhaseWork]
	if len(work) != 2 || work[0].ID != "halfway" || work[1].Timing != cycle.BeforeEnd(time.Minute) {
		t.Fatalf("unexpected work triggers %+v", work)
	}
	if len(spec.Animation.Scripts) == 0 {
		t.Fatalf("expected embedded animation scripts")
	}
}

func TestParseSettingsOverridesDefaults(t *testing.T) {
	spec, err := ParseSettings([]byte(`
timer:
  work: 50
  break: 90s
  triggers:
    work:
      - id: only
        before_end: 30s
pet:
  march_speed: 80
`))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	cfg, err := spec.ToTimerConfig()
	if err != nil {
		t.Fatalf("ToTimerConfig: %v", err)
	}
	if cfg.Work != 50*time.Minute || cfg.Break != 90*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LongBreak != 15*time.Minute || cfg.SetsPerCycle != 4 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if len(cfg.Triggers) != 1 || len(cfg.Triggers[cycle.PhaseWork]) != 1 {
		t.Fatalf("triggers should be replaced, got %+v", cfg.Triggers)
	}
	if spec.Pet.MarchSpeed != 80 || spec.Pet.WanderSpeed != 35 {
		t.Fatalf("unexpected pet settings %+v", spec.Pet)
	}
}

func TestToTimerConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{name: "unknown_phase", yaml: "timer:\n  triggers:\n    lunch:\n      - id: x\n        after: 1m\n"},
		{name: "both_timings", yaml: "timer:\n  triggers:\n    work:\n      - id: x\n        after: 1m\n        before_end: 1m\n"},
		{name: "no_timing", yaml: "timer:\n  triggers:\n    work:\n      - id: x\n"},
		{name: "invalid_sets", yaml: "timer:\n  sets_per_cycle: 0\n"},
		{name: "negative_work", yaml: "timer:\n  work: -5m\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := ParseSettings([]byte(c.yaml))
			if err != nil {
				t.Fatalf("ParseSettings: %v", err)
			}
			if _, err := spec.ToTimerConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	spec, _ := ParseSettings([]byte("timer:\n  sets_per_cycle: 0\n"))
	if _, err := spec.ToTimerConfig(); !errors.Is(err, cycle.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseSettingsRejectsBadDuration(t *testing.T) {
	if _, err := ParseSettings([]byte("timer:\n  work: soon\n")); err == nil {
		t.Fatalf("expected duration error")
	}
}

func TestLoadScriptRules(t *testing.T) {
	spec := &SettingsSpec{Animation: AnimationSpec{Scripts: []string{"snore.tengo", "prefabs/scripts/wiggle.tengo", "missing.tengo"}}}
	rules, err := spec.LoadScriptRules()
	if err == nil {
		t.Fatalf("expected error for missing script")
	}
	if len(rules) != 2 || rules[0].Name != "script:snore" || rules[1].Name != "script:wiggle" {
		names := make([]string, len(rules))
		for i, r := range rules {
			names[i] = r.Name
		}
		t.Fatalf("unexpected rules %v", names)
	}
}

func TestWatchFilters(t *testing.T) {
	if !IsSettingsFile("prefabs/settings.yaml") || IsSettingsFile("prefabs/other.yaml") {
		t.Fatalf("settings filter wrong")
	}
	if !IsScriptFile("prefabs/scripts/snore.tengo") || IsScriptFile("snore.lua") {
		t.Fatalf("script filter wrong")
	}
}

func TestLoadSpec(t *testing.T) {
	fsys := fstest.MapFS{
		"pet.yaml": {Data: []byte("march_speed: 12\nseed: 3\n")},
		"bad.yaml": {Data: []byte("march_speed: [\n")},
	}
	pet, err := LoadSpec[PetSpec](fsys, "pet.yaml")
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if pet.MarchSpeed != 12 || pet.Seed != 3 {
		t.Fatalf("unexpected spec %+v", pet)
	}
	if _, err := LoadSpec[PetSpec](fsys, "bad.yaml"); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if _, err := LoadSpec[PetSpec](fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestDiskOverrideAndModTime(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, ok := ModTime(SettingsFile); ok {
		t.Fatalf("expected no disk override yet")
	}

	if err := os.MkdirAll(filepath.Join(Dir(), "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(Dir(), SettingsFile), []byte("timer:\n  work: 10m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(Dir(), "scripts", "snore.tengo"), []byte("match = false"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := ModTime(SettingsFile); !ok {
		t.Fatalf("expected a mod time for the disk settings")
	}
	if _, ok := ModTime(filepath.Join(Dir(), "scripts", "snore.tengo")); !ok {
		t.Fatalf("expected a mod time for a watched script path")
	}

	spec, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if spec.Timer.Work.Duration != 10*time.Minute || spec.Timer.Break.Duration != 5*time.Minute {
		t.Fatalf("expected disk work over embedded break, got %+v", spec.Timer)
	}
	src, err := LoadScript("snore.tengo")
	if err != nil || string(src) != "match = false" {
		t.Fatalf("expected disk script, got %q (%v)", src, err)
	}
}
