package growth

import (
	"testing"

	"crystalsim/internal/sim/growth/crystal"
)

func checkBounds(t *testing.T, in, out crystal.Properties, maxSize int) {
	t.Helper()
	if out.Size < 0 || out.Size > maxSize {
		t.Fatalf("size out of bounds: %d (max %d)", out.Size, maxSize)
	}
	if out.Fracturation < 0 || out.Fracturation > crystal.MaxFracturation {
		t.Fatalf("fracturation out of bounds: %d", out.Fracturation)
	}
	if out.Purity < 0 || out.Purity > crystal.MaxPurity {
		t.Fatalf("purity out of bounds: %d", out.Purity)
	}
	if out.SizeOverride != in.SizeOverride || out.HasSizeOverride != in.HasSizeOverride {
		t.Fatalf("size override changed: in=%+v out=%+v", in, out)
	}
}

func TestRepairOrGrow_BoundsAcrossSeeds(t *testing.T) {
	const maxSize = 500
	for seed := int64(1); seed <= 200; seed++ {
		r := NewRNG(seed)
		p := crystal.New(r.IntN(maxSize+1), r.IntN(101), r.IntN(111), r.IntN(101))
		if seed%2 == 0 {
			p = p.WithOverride(int(seed))
		}
		for i := 0; i < 60; i++ {
			res := RepairOrGrow(p, maxSize, true, r)
			checkBounds(t, p, res.Props, maxSize)
			if res.Duplicate != nil {
				checkBounds(t, p, *res.Duplicate, maxSize)
				if res.Duplicate.Fracturation != 0 {
					t.Fatalf("duplicate must start repaired: %+v", res.Duplicate)
				}
			}
			p = res.Props
		}
	}
}

func TestRepair_MonotonicAndNoGrowth(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		r := NewRNG(seed)
		p := crystal.New(120, 40, 60, 1+r.IntN(100))
		for p.Fracturation > 0 {
			res := RepairOrGrow(p, 500, true, r)
			if res.Phase != PhaseRepair {
				t.Fatalf("expected repair phase, got %v", res.Phase)
			}
			want := max(0, p.Fracturation-25)
			if res.Props.Fracturation > want {
				t.Fatalf("fracturation %d -> %d, want <= %d", p.Fracturation, res.Props.Fracturation, want)
			}
			if res.Props.Size != p.Size {
				t.Fatalf("size changed during repair: %d -> %d", p.Size, res.Props.Size)
			}
			p = res.Props
		}
	}
}

func TestScenarioA_RepairFromForty(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		in := crystal.New(50, 50, 50, 40)
		res := RepairOrGrow(in, 500, true, NewRNG(seed))
		got := res.Props
		if got.Fracturation < 0 || got.Fracturation > 15 {
			t.Fatalf("seed %d: fracturation %d not in [0,15]", seed, got.Fracturation)
		}
		if got.Size != 50 || got.Purity != 50 || got.Cut != 50 {
			t.Fatalf("seed %d: unexpected stats %+v", seed, got)
		}
		if res.Duplicate != nil {
			t.Fatalf("repair must not duplicate")
		}
	}
}

func TestScenarioB_GrowthWithoutDuplication(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		in := crystal.New(50, 50, 50, 0)
		res := RepairOrGrow(in, 500, false, NewRNG(seed))
		got := res.Props
		if res.Phase != PhaseGrow {
			t.Fatalf("expected growth, got %v", res.Phase)
		}
		if g := got.Size - 50; g < 40 || g >= 130 {
			t.Fatalf("seed %d: growth %d not in [40,130)", seed, g)
		}
		if got.Purity != 50 || got.Cut != 50 || got.Fracturation != 0 {
			t.Fatalf("seed %d: unexpected stats %+v", seed, got)
		}
	}
}

func TestGrow_CapsAtMaxSize(t *testing.T) {
	got := Grow(crystal.New(480, 10, 10, 0), 500, &seqRNG{ints: []int{89}})
	if got.Size != 500 {
		t.Fatalf("size = %d, want 500", got.Size)
	}
}

func TestRepair_BonusOnlyAtCap(t *testing.T) {
	in := crystal.New(200, 100, 100, 95)
	got := Repair(in, 500, &seqRNG{ints: []int{0}, bools: []bool{true, true}})
	if got.Cut != 101 {
		t.Fatalf("cut = %d, want 101", got.Cut)
	}
	if got.Purity != 100 {
		t.Fatalf("purity must stay clamped at 100, got %d", got.Purity)
	}
	if got.Fracturation != 70 {
		t.Fatalf("fracturation = %d, want 70", got.Fracturation)
	}

	low := crystal.New(200, 60, 60, 95)
	got = Repair(low, 500, &seqRNG{ints: []int{29}, bools: []bool{true, true}})
	if got.Cut != 60 || got.Purity != 60 || got.Fracturation != 41 {
		t.Fatalf("unexpected repair below cap: %+v", got)
	}
}

func TestRepairOrGrow_DuplicationPerturbsBoth(t *testing.T) {
	in := crystal.New(500, 95, 80, 0).WithOverride(12)
	// oneIn(6) hit, dup size/purity/cut, orig size/cut.
	r := &seqRNG{ints: []int{0, 10, 9, 5, 50, 39}}
	res := RepairOrGrow(in, 500, true, r)
	if res.Phase != PhaseDuplicate || res.Duplicate == nil {
		t.Fatalf("expected duplication, got %+v", res)
	}
	dup := *res.Duplicate
	if dup.Size != 30 || dup.Purity != 100 || dup.Cut != 35 || dup.Fracturation != 0 {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	if res.Props.Size != 150 || res.Props.Cut != 69 || res.Props.Purity != 95 {
		t.Fatalf("unexpected original: %+v", res.Props)
	}
	if v, ok := dup.Override(); !ok || v != 12 {
		t.Fatalf("override not carried to duplicate")
	}
}

func TestRepairOrGrow_DuplicationNeedsMaxSize(t *testing.T) {
	in := crystal.New(499, 50, 50, 0)
	res := RepairOrGrow(in, 500, true, alwaysRNG{})
	if res.Phase != PhaseGrow || res.Duplicate != nil {
		t.Fatalf("below max size must grow, got %+v", res)
	}
}

func TestToolGrow(t *testing.T) {
	in := crystal.New(100, 70, 50, 30).WithOverride(4)
	got := ToolGrow(in, 800, &seqRNG{ints: []int{3, 100}})
	if got.Cut != 37 || got.Size != 300 {
		t.Fatalf("unexpected tool growth: %+v", got)
	}
	if got.Purity != 70 || got.Fracturation != 30 {
		t.Fatalf("purity/fracturation must not change: %+v", got)
	}
	checkBounds(t, in, got, 800)

	worn := ToolGrow(crystal.New(790, 70, 5, 0), 800, &seqRNG{ints: []int{9, 249}})
	if worn.Cut != 0 || worn.Size != 800 {
		t.Fatalf("expected floor/cap: %+v", worn)
	}
}
