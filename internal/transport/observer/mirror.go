package observer

import (
	"slices"

	"crystalsim/internal/observerproto"
	"crystalsim/internal/sim/world"
)

// BuildMirrorMsg converts a published replica into the wire form, applying
// the subscription's kind filter.
func BuildMirrorMsg(m *world.Mirror, sub observerproto.SubscribeMsg) observerproto.MirrorMsg {
	out := observerproto.MirrorMsg{
		Type:            observerproto.TypeMirror,
		ProtocolVersion: observerproto.Version,
		WorldID:         m.WorldID,
		Tick:            m.Tick,
		Agents:          make([]observerproto.AgentState, 0, len(m.Agents)),
	}
	keep := make(map[string]bool, len(m.Agents))
	for _, st := range m.Agents {
		if len(sub.Kinds) > 0 && !slices.Contains(sub.Kinds, string(st.Kind)) {
			continue
		}
		keep[st.AgentID] = true
		as := observerproto.AgentState{
			ID:        st.AgentID,
			Kind:      string(st.Kind),
			Item:      st.Item,
			Count:     st.Count,
			Pos:       st.Pos.ToArray(),
			Mode:      st.Mode,
			Progress:  st.Progress,
			Threshold: st.Threshold,
			Fraction:  st.Fraction(),
			Charging:  st.Charging,
		}
		if p := st.Props; p != nil {
			as.Props = &observerproto.Props{
				Size:         p.Size,
				DisplaySize:  p.DisplaySize(),
				Purity:       p.Purity,
				Cut:          p.Cut,
				Fracturation: p.Fracturation,
			}
		}
		out.Agents = append(out.Agents, as)
	}
	if sub.NoEvents {
		return out
	}
	for _, ev := range m.Events {
		if len(sub.Kinds) > 0 && !keep[ev.AgentID] {
			continue
		}
		out.Events = append(out.Events, observerproto.GrowthEvent{
			Tick:        ev.Tick,
			Kind:        ev.Kind,
			AgentID:     ev.AgentID,
			Item:        ev.Item,
			Pos:         ev.Pos.ToArray(),
			CompanionID: ev.CompanionID,
			SpawnedID:   ev.SpawnedID,
		})
	}
	return out
}
