package world

import (
	"errors"
	"testing"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
)

func TestNewRejectsUnknownGrowthBlocks(t *testing.T) {
	cats, err := catalogs.LoadDefault()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune := tuning.Defaults()
	tune.Growth.Dust.ResultBlock = "NOPE"
	if _, err := New(WorldConfig{}, cats, tune); !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("expected ErrUnknownBlock, got %v", err)
	}
	if _, err := New(WorldConfig{FloorBlock: "NOPE"}, cats, tuning.Defaults()); err == nil {
		t.Fatalf("expected unknown floor block error")
	}
}

func TestDropValidation(t *testing.T) {
	w := newTestWorld(t, tuning.Defaults())
	pos := Vec3i{X: 1, Y: 1, Z: 1}.Center()
	cases := []struct {
		name string
		pos  Vec3
		st   Stack
		want error
	}{
		{"unknown item", pos, Stack{Item: "NOPE", Count: 1}, ErrUnknownItem},
		{"zero count", pos, Stack{Item: "STONE"}, ErrBadCount},
		{"out of bounds", Vec3i{X: 100, Y: 1}.Center(), Stack{Item: "STONE", Count: 1}, ErrOutOfBounds},
		{"below floor", Vec3i{Y: -1}.Center(), Stack{Item: "STONE", Count: 1}, ErrOutOfBounds},
		{"missing props", pos, Stack{Item: "RAW_CRYSTAL", Count: 1}, ErrPropsRequired},
		{"crystal stack", pos, crystalStack(10, 50, 0, 0).WithCount(3), ErrSingleUnit},
		{"tool stack", pos, Stack{Item: "CRYSTAL_PICKAXE", Count: 2}.WithProps(crystal.New(100, 50, 50, 0)), ErrSingleUnit},
	}
	for _, tc := range cases {
		if _, err := w.Drop(tc.pos, tc.st); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if len(w.ItemEntities()) != 0 {
		t.Fatalf("rejected drops must not spawn entities")
	}
}

func TestDropAttachesAgentsForGrowthItems(t *testing.T) {
	w := newTestWorld(t, tuning.Defaults())
	c := Vec3i{X: 2, Y: 1, Z: 2}
	mustDrop(t, w, c.Center(), Stack{Item: "STONE", Count: 3})
	cid := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))
	did := mustDrop(t, w, c.Center(), Stack{Item: "CRYSTAL_DUST", Count: 1})
	if w.AgentCount() != 2 {
		t.Fatalf("expected 2 agents, got %d", w.AgentCount())
	}
	again := mustDrop(t, w, c.Center(), Stack{Item: "CRYSTAL_DUST", Count: 2})
	if again != did {
		t.Fatalf("expected dust to merge into %s, got %s", did, again)
	}
	if w.AgentCount() != 2 {
		t.Fatalf("merged drop must not attach a second agent")
	}
	e, ok := w.Entity(did)
	if !ok || e.Stack.Count != 3 {
		t.Fatalf("expected merged dust count 3, got %+v", e.Stack)
	}
	if cid == did {
		t.Fatalf("crystal and dust must be distinct entities")
	}
}

func TestDropClampsProps(t *testing.T) {
	w := newTestWorld(t, tuning.Defaults())
	id := mustDrop(t, w, Vec3i{X: 1, Y: 1, Z: 1}.Center(), crystalStack(9999, 300, 5, 150))
	e, _ := w.Entity(id)
	p := e.Stack.Props
	if p.Size != 500 || p.Purity != 100 || p.Fracturation != 100 {
		t.Fatalf("expected clamped props, got %+v", *p)
	}
}

func TestPlaceBlock(t *testing.T) {
	w := newTestWorld(t, tuning.Defaults())
	audits := &testAuditLog{}
	w.SetAuditLogger(audits)

	if w.PlaceBlock(Vec3i{X: 0, Y: 0, Z: 0}, "GLASS") {
		t.Fatalf("expected placement on stone floor to fail")
	}
	if w.PlaceBlock(Vec3i{X: 0, Y: 8, Z: 0}, "GLASS") {
		t.Fatalf("expected placement above height to fail")
	}
	if w.PlaceBlock(Vec3i{X: 0, Y: 1, Z: 0}, "NOPE") {
		t.Fatalf("expected unknown block to fail")
	}
	if !w.PlaceBlock(Vec3i{X: 0, Y: 1, Z: 0}, "GLASS") {
		t.Fatalf("expected placement into air to succeed")
	}
	if got := w.BlockName(Vec3i{X: 0, Y: 1, Z: 0}); got != "GLASS" {
		t.Fatalf("expected GLASS, got %s", got)
	}
	if w.PlaceBlock(Vec3i{X: 0, Y: 1, Z: 0}, "STONE") {
		t.Fatalf("expected placement over glass to fail")
	}
	if n := len(audits.actions("SET_BLOCK")); n != 1 {
		t.Fatalf("expected 1 SET_BLOCK audit, got %d", n)
	}
}

func TestCrystalFiresInChargedPool(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	log := &testEventLog{}
	w.SetEventLogger(log)
	c := chargedPool(t, w, 3, 3)
	id := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))

	stepN(w, 2)
	st, ok := w.Mirror().AgentState(id)
	if !ok || !st.Charging || st.Progress != 2 {
		t.Fatalf("expected charging progress 2, got %+v ok=%v", st, ok)
	}
	w.StepOnce()
	m := w.Mirror()
	if len(m.Events) != 1 || m.Events[0].Kind != growth.EventGrown {
		t.Fatalf("expected one CRYSTAL_GROWN event, got %+v", m.Events)
	}
	st, _ = m.AgentState(id)
	if st.Progress != 0 {
		t.Fatalf("expected progress reset after firing, got %d", st.Progress)
	}
	e, _ := w.Entity(id)
	if e.Stack.Props.Size < 50 || e.Stack.Props.Size > 139 {
		t.Fatalf("unexpected grown size %d", e.Stack.Props.Size)
	}
	if got := log.kinds(); len(got) != 1 {
		t.Fatalf("expected event logger to see 1 event, got %v", got)
	}
}

func TestCrystalOutsidePoolNeverCharges(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	id := mustDrop(t, w, Vec3i{X: 5, Y: 1, Z: 5}.Center(), crystalStack(10, 50, 0, 0))
	stepN(w, 10)
	st, ok := w.Mirror().AgentState(id)
	if !ok || st.Charging || st.Progress != 0 {
		t.Fatalf("expected idle agent, got %+v", st)
	}
}

func TestFlowingFluidDoesNotCharge(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	c := Vec3i{X: 4, Y: 1, Z: 4}
	if err := w.SetBlock(c, "CHARGED_WATER_FLOW", "TEST"); err != nil {
		t.Fatal(err)
	}
	id := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))
	stepN(w, 10)
	if st, _ := w.Mirror().AgentState(id); st.Progress != 0 {
		t.Fatalf("expected no progress in flowing fluid, got %d", st.Progress)
	}
}

func TestDustMergeThroughWorld(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	audits := &testAuditLog{}
	w.SetAuditLogger(audits)
	c := chargedPool(t, w, 6, 6)
	crys := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))
	dust := mustDrop(t, w, c.Center(), Stack{Item: "CRYSTAL_DUST", Count: 2})

	stepN(w, 3)

	if got := w.BlockName(c); got != "CELESTIAL_CRYSTAL" {
		t.Fatalf("expected CELESTIAL_CRYSTAL at %v, got %s", c, got)
	}
	if e, ok := w.Entity(dust); !ok || e.Stack.Count != 1 {
		t.Fatalf("expected one dust unit consumed, got %+v ok=%v", e.Stack, ok)
	}
	if _, ok := w.Entity(crys); ok {
		t.Fatalf("expected single-unit companion consumed")
	}
	var formed int
	for _, ev := range w.Mirror().Events {
		if ev.Kind == growth.EventCelestial {
			formed++
			if ev.CompanionID != crys {
				t.Fatalf("expected companion %s, got %s", crys, ev.CompanionID)
			}
		}
	}
	if formed != 1 {
		t.Fatalf("expected 1 CELESTIAL_FORMED event, got %d", formed)
	}
	placed := audits.actions("SET_BLOCK")
	if len(placed) != 2 || placed[1].Actor != dust {
		t.Fatalf("expected pool setup plus placement attributed to %s, got %+v", dust, placed)
	}

	stepN(w, 10)
	if e, _ := w.Entity(dust); e.Stack.Count != 1 {
		t.Fatalf("dust must not merge again without a companion, count=%d", e.Stack.Count)
	}
}

func TestDustIgnoresCrystalInNextCell(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	c := chargedPool(t, w, 4, 4)
	dust := mustDrop(t, w, c.Center(), Stack{Item: "CRYSTAL_DUST", Count: 2})
	crys := mustDrop(t, w, Vec3{X: 5, Y: 1.5, Z: 5}, crystalStack(10, 50, 0, 0))

	stepN(w, 10)

	if got := w.BlockName(c); got != "CHARGED_WATER" {
		t.Fatalf("expected pool untouched, got %s", got)
	}
	if e, ok := w.Entity(dust); !ok || e.Stack.Count != 2 {
		t.Fatalf("dust consumed by a merge with the next cell: %+v", e.Stack)
	}
	if _, ok := w.Entity(crys); !ok {
		t.Fatalf("crystal in the next cell was consumed")
	}
}

func TestGemFormationThroughWorld(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	c := chargedPool(t, w, 7, 7)
	crys := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))
	cat := mustDrop(t, w, c.Center(), Stack{Item: "LUMINOUS_DUST", Count: 2})

	stepN(w, 3)

	if got := w.BlockName(c); got != "GEM_CLUSTER_0" {
		t.Fatalf("expected GEM_CLUSTER_0, got %s", got)
	}
	if _, ok := w.Entity(crys); ok {
		t.Fatalf("expected crystal consumed")
	}
	if e, ok := w.Entity(cat); !ok || e.Stack.Count != 1 {
		t.Fatalf("expected one catalyst unit consumed, got %+v ok=%v", e.Stack, ok)
	}
	if w.AgentCount() != 0 {
		t.Fatalf("expected no agents left, got %d", w.AgentCount())
	}
}

func TestLiveGrowthToggle(t *testing.T) {
	tune := fastTuning()
	tune.Growth.Crystal.ThresholdTicks = 100
	w := newTestWorld(t, tune)
	c := chargedPool(t, w, 8, 8)
	id := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))

	stepN(w, 5)
	g := w.Growth()
	g.Crystal.Enabled = false
	if err := w.SetGrowth(g); err != nil {
		t.Fatalf("set growth: %v", err)
	}
	w.StepOnce()
	st, _ := w.Mirror().AgentState(id)
	if st.Charging || st.Progress != 0 {
		t.Fatalf("expected disabled kind to reset, got %+v", st)
	}

	g.Crystal.GemBlock = "NOPE"
	if err := w.SetGrowth(g); err == nil {
		t.Fatalf("expected unknown block to be rejected")
	}
}

func TestMirrorIsStable(t *testing.T) {
	w := newTestWorld(t, fastTuning())
	c := chargedPool(t, w, 9, 9)
	id := mustDrop(t, w, c.Center(), crystalStack(10, 50, 0, 0))
	w.StepOnce()
	m := w.Mirror()
	before, _ := m.AgentState(id)
	stepN(w, 5)
	after, _ := m.AgentState(id)
	if m.Tick != 0 || before != after {
		t.Fatalf("published mirror changed: %+v -> %+v", before, after)
	}
	if w.Mirror().Tick != 5 {
		t.Fatalf("expected latest mirror at tick 5, got %d", w.Mirror().Tick)
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	run := func() string {
		tune := fastTuning()
		tune.Growth.Crystal.Odds = 4
		w := newTestWorld(t, tune)
		for i := 0; i < 4; i++ {
			c := chargedPool(t, w, i*2, 0)
			mustDrop(t, w, c.Center(), crystalStack(10*i, 40, 0, 30))
		}
		var digest string
		for i := 0; i < 300; i++ {
			_, digest = w.StepOnce()
		}
		return digest
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("expected identical digests, got %s vs %s", a, b)
	}
}
