package growth

import (
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/kernel/model"
)

// toolStrategy grows a crystal tool that has its cell to itself. The scan box
// is inflated slightly so a neighbour resting on the cell edge still blocks.
type toolStrategy struct{}

func (toolStrategy) Kind() Kind       { return KindTool }
func (toolStrategy) NeedsProps() bool { return true }

func (toolStrategy) Timing(cfg tuning.Growth) tuning.Timing { return cfg.Tool.Timing }

func (toolStrategy) ClassifyCompanion(c *Context) Situation {
	box := model.CellBox(c.Self.Cell()).Inflate(c.Config.Tool.ScanEpsilon)
	if Scan(c.World, c.Self.EntityID, box, nil).Empty() {
		return Situation{Mode: ModeGrow}
	}
	return Situation{Mode: ModeIneligible}
}

func (toolStrategy) TryMutate(c *Context, sit Situation) Outcome {
	if sit.Mode != ModeGrow {
		return Outcome{}
	}
	next := ToolGrow(c.props(), c.Def.MaxSize, c.RNG)
	if !c.World.SetProps(c.Self.EntityID, next) {
		return Outcome{}
	}
	ev := c.event(EventToolGrown)
	ev.Props = propsPtr(next)
	return Outcome{Committed: true, Event: ev}
}
