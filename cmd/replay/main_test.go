package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	persistlog "crystalsim/internal/persistence/log"
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

func TestSummaryAndRestore(t *testing.T) {
	cats, err := catalogs.LoadDefault()
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	w, err := world.New(world.WorldConfig{ID: "replay_test", Height: 8, BoundaryR: 32, Seed: 5}, cats, tuning.Defaults())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	st := world.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(10, 10, 0, 0))
	if _, err := w.Drop(world.Vec3{X: 0.5, Y: 1.5, Z: 0.5}, st); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := w.Drop(world.Vec3{X: 3.5, Y: 1.5, Z: 0.5}, world.Stack{Item: "STONE", Count: 4}); err != nil {
		t.Fatalf("drop stone: %v", err)
	}
	w.StepOnce()
	snap := w.ExportSnapshot(0)

	var buf bytes.Buffer
	printSummary(&buf, snap)
	out := buf.String()
	for _, want := range []string{"world=replay_test", "items=2", "agents=1", "agents kind=RAW_CRYSTAL count=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	restored, err := restore(snap, cats)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.AgentCount() != 1 || restored.CurrentTick() != 1 {
		t.Fatalf("restored agents=%d tick=%d", restored.AgentCount(), restored.CurrentTick())
	}
}

func TestPrintEvents_Filters(t *testing.T) {
	dir := t.TempDir()
	l := persistlog.NewGrowthEventLogger(dir)
	for _, ev := range []growth.Notification{
		{Tick: 2, Kind: growth.EventRepaired, AgentID: "IT000001", Item: "RAW_CRYSTAL"},
		{Tick: 5, Kind: growth.EventDuplicated, AgentID: "IT000001", Item: "RAW_CRYSTAL", SpawnedID: "IT000003"},
		{Tick: 7, Kind: growth.EventRepaired, AgentID: "IT000002", Item: "RAW_CRYSTAL"},
	} {
		if err := l.WriteGrowthEvent(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	eventsDir := filepath.Join(dir, "events")

	var buf bytes.Buffer
	counts, err := printEvents(&buf, eventsDir, eventFilter{Kind: growth.EventRepaired})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if counts[growth.EventRepaired] != 2 || counts[growth.EventDuplicated] != 0 {
		t.Fatalf("kind filter counts: %v", counts)
	}

	buf.Reset()
	counts, err = printEvents(&buf, eventsDir, eventFilter{AgentID: "IT000001", From: 3, To: 6})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if len(counts) != 1 || counts[growth.EventDuplicated] != 1 {
		t.Fatalf("agent/tick filter counts: %v", counts)
	}
	if !strings.Contains(buf.String(), "spawned=IT000003") {
		t.Fatalf("expected spawned id in output: %s", buf.String())
	}

	buf.Reset()
	printCounts(&buf, map[string]int{"B": 1, "A": 2})
	if got := buf.String(); !strings.HasPrefix(got, "events kind=A count=2\n") || !strings.HasSuffix(got, "events total=3\n") {
		t.Fatalf("counts output: %q", got)
	}
}
