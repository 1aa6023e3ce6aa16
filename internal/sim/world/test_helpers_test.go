package world

import (
	"sync"
	"testing"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
)

type testEventLog struct {
	mu     sync.Mutex
	events []growth.Notification
}

func (l *testEventLog) WriteGrowthEvent(ev growth.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *testEventLog) kinds() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, ev.Kind)
	}
	return out
}

type testAuditLog struct {
	entries []AuditEntry
}

func (l *testAuditLog) WriteAudit(e AuditEntry) error {
	l.entries = append(l.entries, e)
	return nil
}

func (l *testAuditLog) actions(action string) []AuditEntry {
	var out []AuditEntry
	for _, e := range l.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// fastTuning fires every kind on the first tick past a short threshold.
func fastTuning() tuning.Tuning {
	t := tuning.Defaults()
	t.Growth.Crystal.ThresholdTicks = 3
	t.Growth.Crystal.Odds = 1
	t.Growth.Tool.ThresholdTicks = 3
	t.Growth.Tool.Odds = 1
	t.Growth.Dust.ThresholdTicks = 3
	t.Growth.Dust.Odds = 1
	return t
}

func newTestWorld(t *testing.T, tune tuning.Tuning) *World {
	t.Helper()
	cats, err := catalogs.LoadDefault()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := New(WorldConfig{
		ID:         "test",
		TickRateHz: 20,
		Height:     8,
		Seed:       42,
		BoundaryR:  32,
	}, cats, tune)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

// chargedPool turns the cell above the stone floor into a charged source.
func chargedPool(t *testing.T, w *World, x, z int) Vec3i {
	t.Helper()
	c := Vec3i{X: x, Y: 1, Z: z}
	if err := w.SetBlock(c, "CHARGED_WATER", "TEST"); err != nil {
		t.Fatalf("set pool: %v", err)
	}
	return c
}

func crystalStack(size, purity, cut, frac int) Stack {
	return Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(size, purity, cut, frac))
}

func mustDrop(t *testing.T, w *World, pos Vec3, st Stack) string {
	t.Helper()
	id, err := w.Drop(pos, st)
	if err != nil {
		t.Fatalf("drop %s: %v", st.Item, err)
	}
	return id
}

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.StepOnce()
	}
}
