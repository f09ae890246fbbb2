package cycle

import "time"

// State is a read-only snapshot of the engine counters.
type State struct {
	PhaseIndex           int
	Phase                Phase
	Elapsed              time.Duration
	Running              bool
	CompletedCycles      int
	CompletedSetsInCycle int
}

// Engine is the phase scheduler. It never spawns work of its own: the host
// advances it with Tick and forwards the returned events.
type Engine struct {
	cfg   TimerConfig
	plan  []Phase
	now   func() time.Time
	index int

	elapsed              time.Duration
	running              bool
	completedCycles      int
	completedSetsInCycle int

	fired map[string]bool
}

type Option func(*Engine)

// WithClock sets the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(cfg TimerConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Triggers = cloneTriggers(cfg.Triggers)
	e := &Engine{
		cfg:   cfg,
		plan:  BuildPlan(cfg),
		now:   time.Now,
		fired: map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() TimerConfig { return e.cfg }
func (e *Engine) Running() bool       { return e.running }
func (e *Engine) CurrentPhase() Phase { return e.plan[e.index] }

func (e *Engine) Plan() []Phase {
	return append([]Phase(nil), e.plan...)
}

func (e *Engine) State() State {
	return State{
		PhaseIndex:           e.index,
		Phase:                e.plan[e.index],
		Elapsed:              e.elapsed,
		Running:              e.running,
		CompletedCycles:      e.completedCycles,
		CompletedSetsInCycle: e.completedSetsInCycle,
	}
}

func (e *Engine) Remaining() time.Duration {
	return e.plan[e.index].Duration - e.elapsed
}

// Progress is the fraction of the current phase that has elapsed.
func (e *Engine) Progress() float64 {
	d := e.plan[e.index].Duration
	if d <= 0 {
		return 0
	}
	p := float64(e.elapsed) / float64(d)
	if p > 1 {
		return 1
	}
	return p
}

func (e *Engine) Start() []Event {
	if e.running {
		return nil
	}
	e.running = true
	return []Event{{Kind: EventPhaseStarted, At: e.now(), Phase: e.plan[e.index]}}
}

// Pause is ignored while congrats plays.
func (e *Engine) Pause() []Event {
	if !e.running || e.plan[e.index].Type == PhaseCongrats {
		return nil
	}
	e.running = false
	return []Event{{Kind: EventTimerPaused, At: e.now(), Elapsed: e.elapsed}}
}

func (e *Engine) Reset() []Event {
	e.plan = BuildPlan(e.cfg)
	e.index = 0
	e.elapsed = 0
	e.running = false
	e.completedCycles = 0
	e.completedSetsInCycle = 0
	e.clearFired()
	return []Event{{Kind: EventTimerReset, At: e.now()}}
}

func (e *Engine) ExitManually() []Event {
	if !e.running || e.plan[e.index].Type == PhaseCongrats {
		return nil
	}
	return e.Reset()
}

// Reconfigure replaces the config wholesale and resets. The engine is left
// untouched when cfg is invalid.
func (e *Engine) Reconfigure(cfg TimerConfig) ([]Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Triggers = cloneTriggers(cfg.Triggers)
	e.cfg = cfg
	return e.Reset(), nil
}

// Tick advances the running engine by dt. Any number of phases may complete in
// one call; each still reports its own completion and start in order.
func (e *Engine) Tick(dt time.Duration) []Event {
	if !e.running || dt < 0 {
		return nil
	}

	var events []Event
	e.elapsed += dt
	for {
		phase := e.plan[e.index]
		events = e.fireTriggers(events, phase)
		if e.elapsed < phase.Duration {
			break
		}

		overflow := e.elapsed - phase.Duration
		at := e.now()
		events = append(events, Event{Kind: EventPhaseCompleted, At: at, Phase: phase})

		if phase.Type.IsRest() {
			e.completedSetsInCycle++
			events = append(events, Event{Kind: EventSetCompleted, At: at, Phase: phase, SetNumber: phase.SetNumber, TotalSets: e.cfg.SetsPerCycle})
		}

		e.clearFired()
		if e.index == len(e.plan)-1 {
			e.index = 0
			e.completedCycles++
			events = append(events, Event{Kind: EventCycleCompleted, At: at, CycleNumber: e.completedCycles})
			e.completedSetsInCycle = 0
			e.running = false
			// the engine stops here; leftover time has nowhere to go
			e.elapsed = 0
			break
		}

		e.index++
		e.elapsed = overflow
		events = append(events, Event{Kind: EventPhaseStarted, At: at, Phase: e.plan[e.index]})
	}

	return append(events, Event{Kind: EventTimerTicked, At: e.now(), Remaining: e.Remaining()})
}

func (e *Engine) fireTriggers(events []Event, phase Phase) []Event {
	specs := e.cfg.Triggers[phase.Type]
	if len(specs) == 0 {
		return events
	}
	elapsed := e.elapsed
	if elapsed > phase.Duration {
		elapsed = phase.Duration
	}
	for _, spec := range dueTriggers(specs, phase.Duration, elapsed, e.fired) {
		e.fired[spec.ID] = true
		events = append(events, Event{Kind: EventTriggerFired, At: e.now(), Phase: phase, TriggerID: spec.ID})
	}
	return events
}

func (e *Engine) clearFired() {
	clear(e.fired)
}

func cloneTriggers(src map[PhaseType][]TriggerSpec) map[PhaseType][]TriggerSpec {
	if src == nil {
		return nil
	}
	out := make(map[PhaseType][]TriggerSpec, len(src))
	for phase, specs := range src {
		out[phase] = append([]TriggerSpec(nil), specs...)
	}
	return out
}
