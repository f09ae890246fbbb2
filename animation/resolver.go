// Package animation picks the clip to play for the pet each frame. Rules are
// evaluated strictly in order and the first match wins; the order is part of
// the behavior and must not be shuffled.
package animation

import (
	"github.com/milk9111/deskpet/behavior"
)

// Rand is the randomness rules may consult.
type Rand interface {
	Float64() float64
}

// Rule is one link of the chain. Resolve is only ever called directly after
// its own Match returned true for the same context, so a rule may hand a
// result from Match to Resolve.
type Rule struct {
	Name    string
	Match   func(ctx Context, rng Rand) bool
	Resolve func(ctx Context, rng Rand) Selection
}

// Resolver holds the chain and its injected RNG. It keeps no per-call state
// of its own, but script rules do, so use one Resolver per goroutine.
type Resolver struct {
	rules []Rule
	rng   Rand
}

type Option func(*Resolver)

func WithRand(rng Rand) Option {
	return func(r *Resolver) {
		if rng != nil {
			r.rng = rng
		}
	}
}

func NewResolver(rules []Rule, opts ...Option) *Resolver {
	r := &Resolver{rules: append([]Rule(nil), rules...)}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = behavior.NewRand(0)
	}
	return r
}

// Rules returns a copy of the chain in evaluation order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve never fails: the default table covers every state.
func (r *Resolver) Resolve(ctx Context) Selection {
	sel, _ := r.Explain(ctx)
	return sel
}

// Explain is Resolve plus the name of the rule that produced the selection
// ("default" for the fallback table).
func (r *Resolver) Explain(ctx Context) (Selection, string) {
	for _, rule := range r.rules {
		if rule.Match == nil || rule.Resolve == nil {
			continue
		}
		if rule.Match(ctx, r.rng) {
			return rule.Resolve(ctx, r.rng), rule.Name
		}
	}
	return DefaultClip(ctx.State), "default"
}
