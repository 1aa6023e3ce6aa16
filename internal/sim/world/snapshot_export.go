package world

import (
	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/tuning"
	itemspkg "crystalsim/internal/sim/world/feature/entities/items"
	"crystalsim/internal/sim/world/terrain/store"
)

// ExportSnapshot captures blocks, item entities and agent attachments.
// Agent progress is not exported.
func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	// Snapshot must be called from the world loop goroutine.
	chunks := store.ExportLoadedChunks(w.chunks.Chunks, w.chunks.LoadedChunkKeys())

	ids := itemspkg.SortedIDs(w.items)
	items := make([]snapshot.ItemEntityV1, 0, len(ids))
	agents := make([]snapshot.GrowthAgentV1, 0, len(w.agents))
	for _, id := range ids {
		e := w.items[id]
		it := snapshot.ItemEntityV1{
			EntityID:    e.EntityID,
			Pos:         e.Pos.ToArray(),
			Item:        e.Stack.Item,
			Count:       e.Stack.Count,
			CreatedTick: e.CreatedTick,
		}
		if p := e.Stack.Props; p != nil {
			it.Props = &snapshot.PropertiesV1{
				Size:         p.Size,
				Purity:       p.Purity,
				Cut:          p.Cut,
				Fracturation: p.Fracturation,
				SizeOverride: p.SizeOverride,
				HasOverride:  p.HasSizeOverride,
			}
		}
		items = append(items, it)
		if a := w.agents[id]; a != nil {
			agents = append(agents, snapshot.GrowthAgentV1{
				ID:       a.ID(),
				EntityID: id,
				Kind:     string(a.Kind()),
				Seed:     w.agentSeeds[id],
			})
		}
	}

	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
		},
		Seed:               w.cfg.Seed,
		TickRate:           w.cfg.TickRateHz,
		Height:             w.cfg.Height,
		BoundaryR:          w.cfg.BoundaryR,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		Growth:             growthToSnapshot(w.growth),
		Chunks:             chunks,
		Items:              items,
		Agents:             agents,
		Counters: snapshot.CountersV1{
			NextItem:  w.nextItemNum.Load(),
			NextAgent: uint64(len(agents)),
		},
	}
}

func timingToSnapshot(t tuning.Timing) snapshot.TimingV1 {
	return snapshot.TimingV1{Enabled: t.Enabled, ThresholdTicks: t.ThresholdTicks, Odds: t.Odds}
}

func growthToSnapshot(g tuning.Growth) snapshot.GrowthV1 {
	return snapshot.GrowthV1{
		ChargedFluid:      g.ChargedFluid,
		RetryPenaltyTicks: g.RetryPenaltyTicks,
		Crystal:           timingToSnapshot(g.Crystal.Timing),
		Tool:              timingToSnapshot(g.Tool.Timing),
		Dust:              timingToSnapshot(g.Dust.Timing),
		Duplication:       g.Crystal.Duplication,
		GemFormation:      g.Crystal.GemFormation,
		GemCatalyst:       g.Crystal.GemCatalyst,
		GemBlock:          g.Crystal.GemBlock,
		ScanEpsilon:       g.Tool.ScanEpsilon,
		CompanionFamily:   g.Dust.CompanionFamily,
		ResultBlock:       g.Dust.ResultBlock,
	}
}
