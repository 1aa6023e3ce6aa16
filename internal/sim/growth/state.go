package growth

import (
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/kernel/model"
)

// State is the read-only view of an agent published once per tick. The
// presentation side only ever sees copies of it.
type State struct {
	AgentID   string              `json:"agent_id"`
	Kind      Kind                `json:"kind"`
	Item      string              `json:"item"`
	Count     int                 `json:"count"`
	Pos       model.Vec3          `json:"pos"`
	Props     *crystal.Properties `json:"props,omitempty"`
	Mode      string              `json:"mode"`
	Progress  int                 `json:"progress"`
	Threshold int                 `json:"threshold"`
	Charging  bool                `json:"charging"`
	Alive     bool                `json:"alive"`
	Tick      uint64              `json:"tick"`
}

// Fraction is progress toward the threshold in [0,1].
func (s State) Fraction() float64 {
	if s.Threshold <= 0 {
		return 0
	}
	f := float64(s.Progress) / float64(s.Threshold)
	if f > 1 {
		return 1
	}
	return f
}

func (a *Agent) publish(self model.ItemEntity, sit Situation, timing tuning.Timing, tick uint64) {
	st := State{
		AgentID:   a.id,
		Kind:      a.strategy.Kind(),
		Item:      self.Stack.Item,
		Count:     self.Stack.Count,
		Pos:       self.Pos,
		Mode:      sit.Mode.String(),
		Progress:  a.timer.Ticks(),
		Threshold: timing.ThresholdTicks,
		Charging:  sit.Eligible(),
		Alive:     true,
		Tick:      tick,
	}
	if self.Stack.Props != nil {
		st.Props = propsPtr(*self.Stack.Props)
	}
	a.state = st
}
