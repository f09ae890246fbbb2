// Package orchestrator couples the phase engine to the behavior machine and
// is the only part of the simulation that talks to the outside world.
package orchestrator

import (
	"io"
	"log/slog"
	"time"

	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/cycle"
)

// NotificationKind identifies what a Notification carries.
type NotificationKind string

const (
	NotifyEvent         NotificationKind = "event"
	NotifyPresetApplied NotificationKind = "preset_applied"
	NotifySceneExited   NotificationKind = "scene_exited"
)

// ExitReason says why the scene was left.
type ExitReason string

const (
	ExitManual         ExitReason = "manual"
	ExitCycleCompleted ExitReason = "cycle_completed"
)

// Notification is what listeners outside the simulation receive.
type Notification struct {
	Kind   NotificationKind
	Event  cycle.Event
	Preset behavior.PresetName
	State  behavior.State
	Reason ExitReason
}

// Publisher delivers notifications to whoever listens. Queue implements it.
type Publisher interface {
	Publish(Notification)
}

// phasePresets maps each phase to the behavior it starts.
var phasePresets = map[cycle.PhaseType]behavior.PresetName{
	cycle.PhaseWork:      behavior.PresetMarchCycle,
	cycle.PhaseBreak:     behavior.PresetRestCycle,
	cycle.PhaseLongBreak: behavior.PresetJoyfulRest,
	cycle.PhaseCongrats:  behavior.PresetCelebrate,
}

// PresetFor returns the preset started by a phase type.
func PresetFor(t cycle.PhaseType) (behavior.PresetName, bool) {
	p, ok := phasePresets[t]
	return p, ok
}

type Orchestrator struct {
	engine  *cycle.Engine
	machine *behavior.Machine
	pub     Publisher
	log     *slog.Logger
}

type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

type discard struct{}

func (discard) Publish(Notification) {}

func New(engine *cycle.Engine, machine *behavior.Machine, pub Publisher, opts ...Option) *Orchestrator {
	if pub == nil {
		pub = discard{}
	}
	o := &Orchestrator{
		engine:  engine,
		machine: machine,
		pub:     pub,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Engine() *cycle.Engine       { return o.engine }
func (o *Orchestrator) Machine() *behavior.Machine { return o.machine }

func (o *Orchestrator) Start() []cycle.Event {
	return o.Handle(o.engine.Start())
}

func (o *Orchestrator) Pause() []cycle.Event {
	return o.Handle(o.engine.Pause())
}

func (o *Orchestrator) Reset() []cycle.Event {
	return o.Handle(o.engine.Reset())
}

// Reconfigure swaps the timer config and lets the resulting reset revert the
// pet like any other reset.
func (o *Orchestrator) Reconfigure(cfg cycle.TimerConfig) ([]cycle.Event, error) {
	evs, err := o.engine.Reconfigure(cfg)
	if err != nil {
		return nil, err
	}
	return o.Handle(evs), nil
}

// ExitScene leaves the focus scene on request. It is refused while congrats
// plays, like the engine's own manual exit.
func (o *Orchestrator) ExitScene() []cycle.Event {
	if o.engine.CurrentPhase().Type == cycle.PhaseCongrats && o.engine.Running() {
		return nil
	}
	return o.exitScene(ExitManual)
}

// Tick advances the engine, reacts to what it reported, then advances the
// pet. Events produced by an automatic scene exit come after the engine's.
// When a phase boundary falls inside dt, the whole dt and its movement go to
// the state the new preset entered.
func (o *Orchestrator) Tick(dt time.Duration) ([]cycle.Event, behavior.TickResult) {
	evs := o.Handle(o.engine.Tick(dt))
	return evs, o.machine.Tick(dt)
}

// Handle reacts to engine events in order and forwards them to the
// publisher. It returns evs plus anything a scene exit produced.
func (o *Orchestrator) Handle(evs []cycle.Event) []cycle.Event {
	if len(evs) == 0 {
		return evs
	}
	out := make([]cycle.Event, 0, len(evs))
	completed := false
	for _, ev := range evs {
		out = append(out, ev)
		switch ev.Kind {
		case cycle.EventPhaseStarted:
			if preset, ok := PresetFor(ev.Phase.Type); ok {
				o.applyPreset(preset)
			}
		case cycle.EventTimerPaused, cycle.EventTimerReset:
			o.applyPreset(behavior.PresetAutonomous)
		}
		o.pub.Publish(Notification{Kind: NotifyEvent, Event: ev})

		if ev.Kind == cycle.EventCycleCompleted {
			o.log.Info("cycle completed", "cycle", ev.CycleNumber)
			completed = true
		}
	}
	// the exit waits for the rest of the batch so TimerTicked keeps its place
	if completed {
		out = append(out, o.exitScene(ExitCycleCompleted)...)
	}
	return out
}

func (o *Orchestrator) exitScene(reason ExitReason) []cycle.Event {
	evs := o.engine.Reset()
	for _, ev := range evs {
		o.pub.Publish(Notification{Kind: NotifyEvent, Event: ev})
	}
	o.applyPreset(behavior.PresetAutonomous)
	o.log.Info("scene exited", "reason", string(reason))
	o.pub.Publish(Notification{Kind: NotifySceneExited, Reason: reason})
	return evs
}

func (o *Orchestrator) applyPreset(name behavior.PresetName) {
	state, err := o.machine.ApplyPreset(name)
	if err != nil {
		o.log.Error("apply preset", "preset", string(name), "err", err)
		return
	}
	o.log.Debug("preset applied", "preset", string(name), "state", string(state))
	o.pub.Publish(Notification{Kind: NotifyPresetApplied, Preset: name, State: state})
}
