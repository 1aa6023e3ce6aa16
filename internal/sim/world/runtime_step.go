package world

import (
	"sort"

	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
)

// StepOnce advances the world by a single tick using the same ordering semantics as the server.
// It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce() (tick uint64, digest string) {
	tick = w.tick.Load()
	w.step(nil, nil)
	return tick, w.StateDigest()
}

func (w *World) step(drops []DropRequest, updates []tuning.Growth) {
	nowTick := w.tick.Load()

	// Growth config changes and drops apply at the tick boundary, in arrival order.
	for _, g := range updates {
		_ = w.SetGrowth(g)
	}
	for _, req := range drops {
		id, err := w.Drop(req.Pos, req.Stack)
		if req.Resp != nil {
			req.Resp <- DropResponse{EntityID: id, Err: err}
		}
	}

	w.events = nil
	ids := w.sortedAgentIDs()
	for _, id := range ids {
		a := w.agents[id]
		if a == nil {
			continue
		}
		w.actor = id
		if a.Advance(w, nowTick) == growth.StatusDestroyed {
			delete(w.agents, id)
			delete(w.agentSeeds, id)
		}
	}
	w.actor = ""

	// Agents spawned this tick start advancing next tick but are visible now.
	w.publishMirror(nowTick, w.sortedAgentIDs())

	// Snapshot every N ticks, starting after tick 0.
	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		if nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
			snap := w.ExportSnapshot(nowTick)
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	w.tick.Add(1)
}

func (w *World) sortedAgentIDs() []string {
	ids := make([]string, 0, len(w.agents))
	for id := range w.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
