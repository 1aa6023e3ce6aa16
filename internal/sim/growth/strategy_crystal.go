package growth

import (
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/kernel/model"
)

// crystalStrategy grows or repairs a raw crystal alone in its cell, or turns
// it into a gem cluster when luminous dust shares the cell.
type crystalStrategy struct{}

func (crystalStrategy) Kind() Kind       { return KindRawCrystal }
func (crystalStrategy) NeedsProps() bool { return true }

func (crystalStrategy) Timing(cfg tuning.Growth) tuning.Timing { return cfg.Crystal.Timing }

func (crystalStrategy) ClassifyCompanion(c *Context) Situation {
	cfg := c.Config.Crystal
	res := Scan(c.World, c.Self.EntityID, model.CellBox(c.Self.Cell()), IsItem(cfg.GemCatalyst))
	switch {
	case res.Empty():
		return Situation{Mode: ModeGrow}
	case res.Status == ScanFound && cfg.GemFormation:
		return Situation{Mode: ModeGem, Companion: res.Companion}
	default:
		return Situation{Mode: ModeIneligible}
	}
}

func (s crystalStrategy) TryMutate(c *Context, sit Situation) Outcome {
	switch sit.Mode {
	case ModeGrow:
		return s.grow(c)
	case ModeGem:
		return s.formGem(c, sit.Companion)
	default:
		return Outcome{}
	}
}

func (crystalStrategy) grow(c *Context) Outcome {
	res := RepairOrGrow(c.props(), c.Def.MaxSize, c.Config.Crystal.Duplication, c.RNG)
	if !c.World.SetProps(c.Self.EntityID, res.Props) {
		return Outcome{}
	}
	var ev Notification
	switch res.Phase {
	case PhaseRepair:
		ev = c.event(EventRepaired)
	case PhaseDuplicate:
		ev = c.event(EventDuplicated)
		spawnAt := c.Self.Cell().Add(0, 1, 0).Center()
		dup := model.Stack{Item: c.Self.Stack.Item, Count: 1}.WithProps(*res.Duplicate)
		ev.SpawnedID = c.World.Spawn(spawnAt, dup)
	default:
		ev = c.event(EventGrown)
	}
	ev.Props = propsPtr(res.Props)
	return Outcome{Committed: true, Event: ev}
}

// formGem places the cluster first so a rejected placement consumes nothing.
func (crystalStrategy) formGem(c *Context, catalyst model.ItemEntity) Outcome {
	cell := c.Self.Cell()
	if !c.World.PlaceBlock(cell, c.Config.Crystal.GemBlock) {
		return Outcome{}
	}
	c.World.Consume(catalyst.EntityID, 1)
	c.World.Remove(c.Self.EntityID)
	ev := c.event(EventGemFormed)
	ev.CompanionID = catalyst.EntityID
	return Outcome{Committed: true, SelfConsumed: true, Event: ev}
}
