package world

import (
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
)

// Mirror is the read-only presentation replica published once per tick.
// A published Mirror is never modified; readers may hold on to it freely.
type Mirror struct {
	WorldID string                `json:"world_id"`
	Tick    uint64                `json:"tick"`
	Agents  []growth.State        `json:"agents"`
	Events  []growth.Notification `json:"events,omitempty"`
	Growth  tuning.Growth         `json:"growth"`
}

// Mirror returns the latest published replica. Safe from any goroutine.
func (w *World) Mirror() *Mirror { return w.mirror.Load() }

// AgentState looks up one agent in the latest published replica.
func (m *Mirror) AgentState(id string) (growth.State, bool) {
	if m == nil {
		return growth.State{}, false
	}
	for _, s := range m.Agents {
		if s.AgentID == id {
			return s, true
		}
	}
	return growth.State{}, false
}

func (w *World) publishMirror(tick uint64, ids []string) {
	m := &Mirror{
		WorldID: w.cfg.ID,
		Tick:    tick,
		Agents:  make([]growth.State, 0, len(ids)),
		Events:  w.events,
		Growth:  w.growth,
	}
	for _, id := range ids {
		if a := w.agents[id]; a != nil {
			m.Agents = append(m.Agents, a.State())
		}
	}
	w.mirror.Store(m)
}
