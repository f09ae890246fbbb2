// Package interaction keeps the short-term click history and the daily
// feeding count that the animation rules look at.
package interaction

import "time"

// ClickWindow is how long a click counts as recent.
const ClickWindow = 3 * time.Second

// History is what the resolver sees.
type History struct {
	RecentClicks       int
	TotalFeedingsToday int
}

// Tracker runs on simulation time: the host advances it with Tick, so the
// window always agrees with the frame the rest of the simulation is on.
type Tracker struct {
	now      time.Duration
	clicks   []time.Duration
	feedings int
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Tick(dt time.Duration) {
	if dt > 0 {
		t.now += dt
	}
}

func (t *Tracker) RecordClick() {
	t.clicks = append(t.clicks, t.now)
}

func (t *Tracker) RecordFeeding() {
	t.feedings++
}

// ResetDaily is the only way the feeding count goes down.
func (t *Tracker) ResetDaily() {
	t.feedings = 0
}

// History prunes stale clicks before counting them.
func (t *Tracker) History() History {
	t.prune()
	return History{RecentClicks: len(t.clicks), TotalFeedingsToday: t.feedings}
}

func (t *Tracker) prune() {
	cutoff := t.now - ClickWindow
	keep := 0
	for keep < len(t.clicks) && t.clicks[keep] <= cutoff {
		keep++
	}
	if keep > 0 {
		t.clicks = append(t.clicks[:0], t.clicks[keep:]...)
	}
}
