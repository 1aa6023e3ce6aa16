package world

import (
	"fmt"

	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/terrain/store"
)

// ImportSnapshot replaces the current in-memory world state with the snapshot.
// It sets the world's tick to snapshotTick+1 (the next tick to simulate).
// Restored agents start with zero progress.
//
// This must be called only when the world is stopped or from the world loop goroutine.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}
	if w.cfg.Seed != s.Seed {
		return fmt.Errorf("snapshot seed mismatch: cfg=%d snap=%d", w.cfg.Seed, s.Seed)
	}
	if w.cfg.Height != s.Height {
		return fmt.Errorf("snapshot height mismatch: cfg=%d snap=%d", w.cfg.Height, s.Height)
	}
	if w.cfg.BoundaryR != s.BoundaryR {
		return fmt.Errorf("snapshot boundary_r mismatch: cfg=%d snap=%d", w.cfg.BoundaryR, s.BoundaryR)
	}

	g := growthFromSnapshot(s.Growth, w.growth)
	if err := checkGrowthBlocks(w.catalogs, g); err != nil {
		return err
	}

	chunks, err := store.ImportChunks(w.chunks.Gen, s.Chunks)
	if err != nil {
		return err
	}

	items := map[string]*ItemEntity{}
	itemsAt := map[Vec3i][]string{}
	for _, it := range s.Items {
		if it.EntityID == "" || it.Count <= 0 {
			continue
		}
		st := Stack{Item: it.Item, Count: it.Count}
		if p := it.Props; p != nil {
			props := crystal.New(p.Size, p.Purity, p.Cut, p.Fracturation)
			if p.HasOverride {
				props = props.WithOverride(p.SizeOverride)
			}
			st = st.WithProps(props)
		}
		e := &ItemEntity{
			EntityID:    it.EntityID,
			Pos:         Vec3{X: it.Pos[0], Y: it.Pos[1], Z: it.Pos[2]},
			Stack:       st,
			CreatedTick: it.CreatedTick,
		}
		items[e.EntityID] = e
		itemsAt[e.Cell()] = append(itemsAt[e.Cell()], e.EntityID)
	}

	w.chunks = chunks
	w.items = items
	w.itemsAt = itemsAt
	w.agents = map[string]*growth.Agent{}
	w.agentSeeds = map[string]int64{}
	w.growth = g
	if s.SnapshotEveryTicks > 0 {
		w.cfg.SnapshotEveryTicks = s.SnapshotEveryTicks
	}
	for _, a := range s.Agents {
		if _, ok := items[a.EntityID]; !ok {
			continue
		}
		w.attachAgent(a.EntityID, a.Seed)
	}

	w.nextItemNum.Store(s.Counters.NextItem)
	w.events = nil
	w.tick.Store(s.Header.Tick + 1)
	w.publishMirror(s.Header.Tick, w.sortedAgentIDs())
	return nil
}

func timingFromSnapshot(t snapshot.TimingV1, def tuning.Timing) tuning.Timing {
	if t.ThresholdTicks <= 0 {
		return def
	}
	return tuning.Timing{Enabled: t.Enabled, ThresholdTicks: t.ThresholdTicks, Odds: t.Odds}
}

// growthFromSnapshot treats the snapshot as authoritative when it carries values.
func growthFromSnapshot(s snapshot.GrowthV1, cur tuning.Growth) tuning.Growth {
	if s.ChargedFluid == "" {
		return cur
	}
	g := cur
	g.ChargedFluid = s.ChargedFluid
	g.RetryPenaltyTicks = s.RetryPenaltyTicks
	g.Crystal.Timing = timingFromSnapshot(s.Crystal, cur.Crystal.Timing)
	g.Tool.Timing = timingFromSnapshot(s.Tool, cur.Tool.Timing)
	g.Dust.Timing = timingFromSnapshot(s.Dust, cur.Dust.Timing)
	g.Crystal.Duplication = s.Duplication
	g.Crystal.GemFormation = s.GemFormation
	if s.GemCatalyst != "" {
		g.Crystal.GemCatalyst = s.GemCatalyst
	}
	if s.GemBlock != "" {
		g.Crystal.GemBlock = s.GemBlock
	}
	if s.ScanEpsilon > 0 {
		g.Tool.ScanEpsilon = s.ScanEpsilon
	}
	if s.CompanionFamily != "" {
		g.Dust.CompanionFamily = s.CompanionFamily
	}
	if s.ResultBlock != "" {
		g.Dust.ResultBlock = s.ResultBlock
	}
	g.Normalize()
	return g
}
