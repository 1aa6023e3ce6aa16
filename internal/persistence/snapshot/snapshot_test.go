package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "120.snap.zst")
	in := SnapshotV1{
		Header:    Header{Version: Version, WorldID: "w1", Tick: 120},
		Seed:      42,
		TickRate:  20,
		Height:    4,
		BoundaryR: 64,
		Growth: GrowthV1{
			ChargedFluid:      "CHARGED_WATER",
			RetryPenaltyTicks: 20,
			Crystal:           TimingV1{Enabled: true, ThresholdTicks: 1200, Odds: 300},
		},
		Chunks: []ChunkV1{{CX: 0, CZ: -1, Height: 4, RLE: []byte{0, 0x80, 0x08}}},
		Items: []ItemEntityV1{{
			EntityID: "I1",
			Pos:      [3]float64{0.5, 1, 0.5},
			Item:     "RAW_CRYSTAL",
			Count:    1,
			Props:    &PropertiesV1{Size: 60, Purity: 70, Cut: 10, Fracturation: 20},
		}},
		Agents:   []GrowthAgentV1{{ID: "G1", EntityID: "I1", Kind: "crystal", Seed: 9}},
		Counters: CountersV1{NextItem: 1, NextAgent: 1},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Tick != 120 || h.WorldID != "w1" {
		t.Fatalf("unexpected header: %+v", h)
	}

	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Seed != 42 || out.Growth.Crystal.ThresholdTicks != 1200 {
		t.Fatalf("unexpected snapshot: %+v", out)
	}
	if len(out.Items) != 1 || out.Items[0].Props == nil || out.Items[0].Props.Purity != 70 {
		t.Fatalf("unexpected items: %+v", out.Items)
	}
	if len(out.Agents) != 1 || out.Agents[0].Kind != "crystal" {
		t.Fatalf("unexpected agents: %+v", out.Agents)
	}
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap.zst")
	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("expected error")
	}
}
