package growth

import (
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/kernel/model"
)

// dustStrategy merges crystal dust with a raw crystal into a celestial crystal block.
type dustStrategy struct{}

func (dustStrategy) Kind() Kind       { return KindDust }
func (dustStrategy) NeedsProps() bool { return false }

func (dustStrategy) Timing(cfg tuning.Growth) tuning.Timing { return cfg.Dust.Timing }

func (dustStrategy) ClassifyCompanion(c *Context) Situation {
	match := InFamily(c.World, c.Config.Dust.CompanionFamily)
	res := Scan(c.World, c.Self.EntityID, model.CellBox(c.Self.Cell()), match)
	if res.Status != ScanFound {
		return Situation{Mode: ModeIneligible}
	}
	return Situation{Mode: ModeMerge, Companion: res.Companion}
}

func (dustStrategy) TryMutate(c *Context, sit Situation) Outcome {
	if sit.Mode != ModeMerge {
		return Outcome{}
	}
	if !c.World.PlaceBlock(c.Self.Cell(), c.Config.Dust.ResultBlock) {
		return Outcome{}
	}
	c.World.Consume(c.Self.EntityID, 1)
	c.World.Consume(sit.Companion.EntityID, 1)
	ev := c.event(EventCelestial)
	ev.CompanionID = sit.Companion.EntityID
	return Outcome{Committed: true, SelfConsumed: c.Self.Stack.Count <= 1, Event: ev}
}
