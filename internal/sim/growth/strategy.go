package growth

import (
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/kernel/model"
)

type Kind string

const (
	KindRawCrystal Kind = catalogs.GrowthRawCrystal
	KindTool       Kind = catalogs.GrowthTool
	KindDust       Kind = catalogs.GrowthDust
)

type Mode int

const (
	ModeIneligible Mode = iota
	ModeGrow
	ModeGem
	ModeMerge
)

func (m Mode) String() string {
	switch m {
	case ModeGrow:
		return "GROW"
	case ModeGem:
		return "GEM"
	case ModeMerge:
		return "MERGE"
	default:
		return "INELIGIBLE"
	}
}

// Situation is what a strategy concluded from the companion scan.
type Situation struct {
	Mode      Mode
	Companion model.ItemEntity
}

func (s Situation) Eligible() bool { return s.Mode != ModeIneligible }

// Outcome reports what a firing did. A zero Outcome means the world rejected
// the mutation and nothing was committed.
type Outcome struct {
	Committed bool
	// SelfConsumed is set when the mutation destroyed or used up the agent's entity.
	SelfConsumed bool
	Event        Notification
}

// Context is everything a strategy may look at during one tick.
type Context struct {
	World  World
	Self   model.ItemEntity
	Def    catalogs.ItemDef
	Config tuning.Growth
	RNG    RNG
	Tick   uint64
}

func (c *Context) props() crystal.Properties {
	if c.Self.Stack.Props == nil {
		return crystal.Properties{}
	}
	return *c.Self.Stack.Props
}

func (c *Context) event(kind string) Notification {
	return Notification{
		Tick:    c.Tick,
		Kind:    kind,
		AgentID: c.Self.EntityID,
		Item:    c.Self.Stack.Item,
		Pos:     c.Self.Cell(),
	}
}

// Strategy is one growth variant. The agent owns the control flow; strategies
// only classify and mutate.
type Strategy interface {
	Kind() Kind
	// NeedsProps reports whether the carried stack must hold a readable record.
	NeedsProps() bool
	Timing(cfg tuning.Growth) tuning.Timing
	ClassifyCompanion(c *Context) Situation
	TryMutate(c *Context, s Situation) Outcome
}

// StrategyFor returns the built-in strategy for a growth kind.
func StrategyFor(k Kind) (Strategy, bool) {
	switch k {
	case KindRawCrystal:
		return crystalStrategy{}, true
	case KindTool:
		return toolStrategy{}, true
	case KindDust:
		return dustStrategy{}, true
	default:
		return nil, false
	}
}

func propsPtr(p crystal.Properties) *crystal.Properties { return &p }
