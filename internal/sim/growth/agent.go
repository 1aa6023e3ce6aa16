package growth

import (
	"errors"
	"fmt"

	"crystalsim/internal/sim/tuning"
)

type Status int

const (
	StatusAlive Status = iota
	StatusDestroyed
)

// Options wires an agent to its host.
type Options struct {
	RNG RNG
	// Config is consulted once per tick; nil means tuning defaults.
	Config func() tuning.Growth
	// Notify is invoked once per committed mutation.
	Notify func(Notification)
}

// Agent drives one growth strategy for one item entity. It owns its timer and
// nothing else; the carried stack lives in the world and is re-read every tick.
type Agent struct {
	id       string
	strategy Strategy
	rng      RNG
	config   func() tuning.Growth
	notify   func(Notification)

	timer Timer
	dead  bool
	state State
}

var ErrNoRNG = errors.New("growth: agent needs a randomness source")

func NewAgent(entityID string, kind Kind, opts Options) (*Agent, error) {
	if entityID == "" {
		return nil, errors.New("growth: empty entity id")
	}
	if opts.RNG == nil {
		return nil, ErrNoRNG
	}
	st, ok := StrategyFor(kind)
	if !ok {
		return nil, fmt.Errorf("growth: unknown kind %q", kind)
	}
	return NewAgentWithStrategy(entityID, st, opts), nil
}

// NewAgentWithStrategy is NewAgent for custom strategies. opts.RNG must be set.
func NewAgentWithStrategy(entityID string, st Strategy, opts Options) *Agent {
	cfg := opts.Config
	if cfg == nil {
		def := tuning.Defaults().Growth
		cfg = func() tuning.Growth { return def }
	}
	return &Agent{
		id:       entityID,
		strategy: st,
		rng:      opts.RNG,
		config:   cfg,
		notify:   opts.Notify,
		state:    State{AgentID: entityID, Kind: st.Kind(), Alive: true},
	}
}

func (a *Agent) ID() string      { return a.id }
func (a *Agent) Kind() Kind      { return a.strategy.Kind() }
func (a *Agent) Progress() int   { return a.timer.Ticks() }
func (a *Agent) Destroyed() bool { return a.dead }

// State returns the snapshot published at the end of the last Advance.
func (a *Agent) State() State { return a.state }

// Advance runs one simulation step. It never panics on world state and is a
// no-op once the agent is destroyed.
func (a *Agent) Advance(w World, tick uint64) Status {
	if a.dead {
		return StatusDestroyed
	}
	self, ok := w.Entity(a.id)
	if !ok || self.Stack.Empty() {
		// Entity already gone (merged, picked up, consumed by a neighbour).
		w.Remove(a.id)
		return a.destroy(tick)
	}
	def, ok := w.Item(self.Stack.Item)
	if !ok || Kind(def.Growth) != a.strategy.Kind() {
		return a.destroy(tick)
	}
	if a.strategy.NeedsProps() && (self.Stack.Props == nil || !self.Stack.Props.Valid()) {
		w.Remove(a.id)
		return a.destroy(tick)
	}
	// One record describes one unit; a multi-unit stack is left as a plain item.
	if a.strategy.NeedsProps() && self.Stack.Count != 1 {
		return a.destroy(tick)
	}

	cfg := a.config()
	timing := a.strategy.Timing(cfg)
	ctx := &Context{World: w, Self: self, Def: def, Config: cfg, RNG: a.rng, Tick: tick}

	sit := Situation{Mode: ModeIneligible}
	if timing.Enabled && IsCharged(w, self.Cell(), cfg.ChargedFluid) {
		sit = a.strategy.ClassifyCompanion(ctx)
	}

	if a.timer.Observe(sit.Eligible(), timing.ThresholdTicks, timing.Odds, a.rng) {
		out := a.strategy.TryMutate(ctx, sit)
		if out.Committed {
			a.timer.Reset()
			if a.notify != nil {
				a.notify(out.Event)
			}
			if out.SelfConsumed {
				return a.destroy(tick)
			}
		} else {
			a.timer.Rollback(cfg.RetryPenaltyTicks)
		}
	}

	// Re-read: the mutation may have changed the stack.
	if cur, ok := w.Entity(a.id); ok {
		self = cur
	} else {
		return a.destroy(tick)
	}
	a.publish(self, sit, timing, tick)
	return StatusAlive
}

func (a *Agent) destroy(tick uint64) Status {
	a.dead = true
	a.timer.Reset()
	a.state.Alive = false
	a.state.Tick = tick
	a.state.Progress = 0
	a.state.Charging = false
	return StatusDestroyed
}
