package world

import "crystalsim/internal/sim/tuning"

type WorldConfig struct {
	ID         string
	TickRateHz int
	Height     int
	Seed       int64
	BoundaryR  int

	// FloorBlock fills layer y=0 of freshly generated chunks.
	FloorBlock string

	// Operational parameters. These are included in snapshots for deterministic replay/resume.
	SnapshotEveryTicks int
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.Height <= 0 {
		c.Height = 64
	}
	if c.BoundaryR <= 0 {
		c.BoundaryR = 512
	}
	if c.FloorBlock == "" {
		c.FloorBlock = "STONE"
	}
}

// ConfigFromTuning derives a world config from loaded tuning.
func ConfigFromTuning(id string, seed int64, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                 id,
		TickRateHz:         t.TickRateHz,
		Height:             t.Height,
		Seed:               seed,
		BoundaryR:          t.WorldBoundaryR,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
	}
}
