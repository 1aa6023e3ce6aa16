package growth

import "crystalsim/internal/sim/growth/crystal"

type Phase int

const (
	PhaseRepair Phase = iota + 1
	PhaseGrow
	PhaseDuplicate
)

func (p Phase) String() string {
	switch p {
	case PhaseRepair:
		return "REPAIR"
	case PhaseGrow:
		return "GROW"
	case PhaseDuplicate:
		return "DUPLICATE"
	default:
		return "NONE"
	}
}

// CrystalResult is the outcome of one repair-or-grow firing.
type CrystalResult struct {
	Phase     Phase
	Props     crystal.Properties
	Duplicate *crystal.Properties
}

// RepairOrGrow mends fracturation first; only a fully repaired crystal grows.
// At max size, duplication (when enabled) rerolls the original and yields a
// second, independently rolled record.
func RepairOrGrow(p crystal.Properties, maxSize int, duplication bool, r RNG) CrystalResult {
	if p.Fracturation > 0 {
		return CrystalResult{Phase: PhaseRepair, Props: Repair(p, maxSize, r)}
	}
	if duplication && p.Size >= maxSize && oneIn(r, 6) {
		orig, dup := Duplicate(p, maxSize, r)
		return CrystalResult{Phase: PhaseDuplicate, Props: orig, Duplicate: &dup}
	}
	return CrystalResult{Phase: PhaseGrow, Props: Grow(p, maxSize, r)}
}

// Repair lowers fracturation by 25 plus up to 29 more. Heavily fractured
// crystals at the purity or cut cap may gain a point of either.
func Repair(p crystal.Properties, maxSize int, r RNG) crystal.Properties {
	frac, cut, purity := p.Fracturation, p.Cut, p.Purity
	if frac >= 90 && cut >= crystal.NominalMaxCut && frac >= cut-10 && r.Bool() {
		cut++
	}
	if frac >= 90 && purity >= crystal.MaxPurity && frac >= purity-10 && r.Bool() {
		purity++
	}
	frac = frac - 25 - r.IntN(30)
	if frac < 0 {
		frac = 0
	}
	out := p
	out.Purity = purity
	out.Cut = cut
	out.Fracturation = frac
	return out.Clamp(maxSize)
}

// Grow adds 40..129 to size, capped at maxSize.
func Grow(p crystal.Properties, maxSize int, r RNG) crystal.Properties {
	out := p
	out.Size = min(p.Size+between(r, 40, 130), maxSize)
	return out.Clamp(maxSize)
}

// Duplicate returns the rerolled original and the new sibling record.
func Duplicate(p crystal.Properties, maxSize int, r RNG) (orig, dup crystal.Properties) {
	dup = p
	dup.Size = between(r, 20, 120)
	dup.Purity = min(p.Purity+r.IntN(10), crystal.MaxPurity)
	dup.Cut = between(r, 30, 70)
	dup.Fracturation = 0

	orig = p
	orig.Size = between(r, 100, 400)
	orig.Cut = between(r, 30, 70)
	return orig.Clamp(maxSize), dup.Clamp(maxSize)
}

// ToolGrow wears the cut stat down by 10..19 and adds 100..349 to size.
func ToolGrow(p crystal.Properties, maxSize int, r RNG) crystal.Properties {
	out := p
	out.Cut = max(0, p.Cut-between(r, 10, 20))
	out.Size = min(p.Size+between(r, 100, 350), maxSize)
	return out.Clamp(maxSize)
}
