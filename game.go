package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/deskpet/animation"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/cycle"
	"github.com/milk9111/deskpet/interaction"
	"github.com/milk9111/deskpet/orchestrator"
	"github.com/milk9111/deskpet/prefabs"
)

const (
	petWidth  = 48
	petHeight = 48

	// cycles after which the pet is fully tired
	fatigueCycles = 8
)

type Game struct {
	frames int
	debug  bool
	log    *slog.Logger

	orch     *orchestrator.Orchestrator
	notes    *orchestrator.Queue[orchestrator.Notification]
	tracker  *interaction.Tracker
	resolver *animation.Resolver
	rng      behavior.Rand
	watcher  *prefabs.Watcher
	modTimes map[string]time.Time
	ui       *ebitenui.UI
	status   *widget.Text

	gestures  Gestures
	pos       cp.Vector
	grab      cp.Vector
	selection animation.Selection
	rule      string

	day         int
	cyclesToday int
	lastEvent   string
}

func NewGame(settings *prefabs.SettingsSpec, debug bool, log *slog.Logger) (*Game, error) {
	cfg, err := settings.ToTimerConfig()
	if err != nil {
		return nil, err
	}
	engine, err := cycle.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	warnUnreachable(log, cfg)

	rng := behavior.NewRand(settings.Pet.Seed)
	machine := behavior.NewMachine(
		behavior.WithRand(rng),
		behavior.WithSpeeds(settings.Pet.MarchSpeed, settings.Pet.WanderSpeed),
		behavior.WithScrollDirection(cp.Vector{X: 1}),
	)

	scripts, err := settings.LoadScriptRules()
	if err != nil {
		log.Warn("animation scripts", "err", err)
	}

	notes := &orchestrator.Queue[orchestrator.Notification]{}
	g := &Game{
		debug:    debug,
		log:      log,
		orch:     orchestrator.New(engine, machine, notes, orchestrator.WithLogger(log)),
		notes:    notes,
		tracker:  interaction.NewTracker(),
		resolver: animation.NewResolver(animation.DefaultRules(scripts...), animation.WithRand(rng)),
		rng:      rng,
		modTimes: make(map[string]time.Time),
		pos:      cp.Vector{X: (common.BaseWidth - petWidth) / 2, Y: common.BaseHeight - petHeight - 40},
		day:      time.Now().YearDay(),
	}

	// fsnotify is not recursive, so scripts need their own watch
	if w, err := prefabs.NewWatcher(prefabs.Dir(), filepath.Join(prefabs.Dir(), "scripts")); err != nil {
		log.Debug("settings watcher disabled", "err", err)
	} else {
		g.watcher = w
	}

	g.ui = NewControlUI(g)
	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	dt := time.Second / time.Duration(ebiten.TPS())

	g.pollSettings()
	g.rollDay()
	g.ui.Update()

	g.handleInput(dt)

	_, res := g.orch.Tick(dt)
	g.tracker.Tick(dt)
	g.move(res)
	g.drainNotifications()

	g.selection, g.rule = g.resolver.Explain(g.animationContext())
	g.status.Label = statusLine(g.orch.Engine())
	return nil
}

func (g *Game) handleInput(dt time.Duration) {
	mx, my := ebiten.CursorPosition()
	cursor := cp.Vector{X: float64(mx), Y: float64(my)}
	p := Pointer{
		Pos:     cursor,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		OverPet: g.petContains(cursor),
	}

	machine := g.orch.Machine()
	for _, kind := range g.gestures.Update(p, dt) {
		if kind == behavior.InteractionDragStart {
			g.grab = g.pos.Sub(cursor)
		}
		if kind == behavior.InteractionClick && !machine.IsInteractionLocked() {
			g.tracker.RecordClick()
		}
		machine.Transition(behavior.Interact(kind))
	}
	if g.gestures.Dragging() && machine.Current() == behavior.StateDragged {
		g.pos = common.ClampToRect(cursor.Add(g.grab), petWidth, petHeight)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		if !machine.IsInteractionLocked() {
			g.tracker.RecordFeeding()
		}
		machine.Transition(behavior.Interact(behavior.InteractionFeed))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
}

// move applies the machine's movement and turns the march around at the
// screen edges.
func (g *Game) move(res behavior.TickResult) {
	if !res.Moving {
		return
	}
	next := g.pos.Add(res.Movement)
	clamped := common.ClampToRect(next, petWidth, petHeight)
	if clamped.X != next.X && g.orch.Machine().IsScrolling() {
		g.orch.Machine().SetScrollDirection(cp.Vector{X: -res.Movement.X})
	}
	g.pos = clamped
}

func (g *Game) drainNotifications() {
	for _, n := range g.notes.Drain() {
		switch n.Kind {
		case orchestrator.NotifyEvent:
			switch n.Event.Kind {
			case cycle.EventTimerTicked:
				continue
			case cycle.EventCycleCompleted:
				g.cyclesToday++
			}
			g.lastEvent = string(n.Event.Kind)
			g.log.Debug("timer event", "kind", string(n.Event.Kind), "phase", string(n.Event.Phase.Type), "trigger", n.Event.TriggerID)
		case orchestrator.NotifySceneExited:
			g.lastEvent = "scene exited (" + string(n.Reason) + ")"
		}
	}
}

func (g *Game) rollDay() {
	if day := time.Now().YearDay(); day != g.day {
		g.day = day
		g.cyclesToday = 0
		g.tracker.ResetDaily()
	}
}

func (g *Game) pollSettings() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("settings watcher", "err", err)
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	if mt, ok := prefabs.ModTime(name); ok {
		if prev, seen := g.modTimes[name]; seen && mt.Equal(prev) {
			return
		}
		g.modTimes[name] = mt
	}

	settings, err := prefabs.LoadSettings()
	if err != nil {
		g.log.Error("reload settings", "file", name, "err", err)
		return
	}

	// settings.yaml may change animation.scripts, so both paths rebuild the chain
	scripts, err := settings.LoadScriptRules()
	if err != nil {
		g.log.Warn("animation scripts", "err", err)
	}
	g.resolver = animation.NewResolver(animation.DefaultRules(scripts...), animation.WithRand(g.rng))
	g.log.Info("animation scripts reloaded", "count", len(scripts))
	if prefabs.IsScriptFile(name) {
		return
	}

	cfg, err := settings.ToTimerConfig()
	if err != nil {
		g.log.Error("reload settings", "file", name, "err", err)
		return
	}
	if _, err := g.orch.Reconfigure(cfg); err != nil {
		g.log.Error("reconfigure timer", "err", err)
		return
	}
	warnUnreachable(g.log, cfg)
	g.log.Info("settings reloaded", "work", cfg.Work, "break", cfg.Break, "long_break", cfg.LongBreak, "sets", cfg.SetsPerCycle)
}

func warnUnreachable(log *slog.Logger, cfg cycle.TimerConfig) {
	for _, id := range cfg.UnreachableTriggers() {
		log.Warn("trigger never fires", "trigger", id)
	}
}

func (g *Game) animationContext() animation.Context {
	machine := g.orch.Machine()
	history := g.tracker.History()
	tod := animation.TimeOfDayAt(time.Now())
	cycles := g.cyclesToday
	return animation.Context{
		State:                machine.Current(),
		PreviousState:        machine.Previous(),
		Preset:               machine.Preset(),
		PhaseProgress:        g.orch.Engine().Progress(),
		Emotion:              &animation.Emotion{Fatigue: common.Clamp01(float64(cycles) / fatigueCycles)},
		Interaction:          &history,
		TimeOfDay:            &tod,
		TodayCompletedCycles: &cycles,
	}
}

func (g *Game) petContains(p cp.Vector) bool {
	return p.X >= g.pos.X && p.X < g.pos.X+petWidth && p.Y >= g.pos.Y && p.Y < g.pos.Y+petHeight
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff})

	vector.DrawFilledRect(screen, float32(g.pos.X), float32(g.pos.Y), petWidth, petHeight, stateColor(g.orch.Machine().Current()), true)
	ebitenutil.DebugPrintAt(screen, g.selection.Clip, int(g.pos.X), int(g.pos.Y)-16)

	g.ui.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, g.debugText())
	}
}

func (g *Game) debugText() string {
	engine := g.orch.Engine()
	machine := g.orch.Machine()
	phase := engine.CurrentPhase()

	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f\n", ebiten.ActualFPS())
	fmt.Fprintf(&b, "phase: %s (set %d/%d) running=%t\n", phase.Type, phase.SetNumber, engine.Config().SetsPerCycle, engine.Running())
	fmt.Fprintf(&b, "remaining: %s progress: %.2f\n", engine.Remaining().Round(time.Second), engine.Progress())
	fmt.Fprintf(&b, "preset: %s state: %s (%s/%s)\n", machine.Preset(), machine.Current(), machine.Elapsed().Round(100*time.Millisecond), machine.Duration().Round(100*time.Millisecond))
	fmt.Fprintf(&b, "clip: %s loop=%t speed=%.2f rule=%s\n", g.selection.Clip, g.selection.Loop, g.selection.Speed, g.rule)
	h := g.tracker.History()
	fmt.Fprintf(&b, "clicks: %d feedings: %d cycles today: %d\n", h.RecentClicks, h.TotalFeedingsToday, g.cyclesToday)
	fmt.Fprintf(&b, "last event: %s", g.lastEvent)
	return b.String()
}

func stateColor(s behavior.State) color.Color {
	switch s {
	case behavior.StateMarch, behavior.StateWander:
		return colornames.Cornflowerblue
	case behavior.StateSleep, behavior.StateSit:
		return colornames.Slateblue
	case behavior.StateHappy, behavior.StatePet:
		return colornames.Gold
	case behavior.StateReaction, behavior.StateRefuse:
		return colornames.Tomato
	case behavior.StateDragged:
		return colornames.Orchid
	case behavior.StateFeeding:
		return colornames.Limegreen
	default:
		return colornames.Lightgrey
	}
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
