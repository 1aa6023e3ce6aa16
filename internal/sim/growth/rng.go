package growth

import "math/rand/v2"

// RNG is the randomness source an agent draws from. Implementations must be
// seedable so tests can replay a run.
type RNG interface {
	IntN(n int) int
	Float64() float64
	Bool() bool
}

// PCG is a deterministic RNG backed by math/rand/v2.
type PCG struct {
	r *rand.Rand
}

func NewRNG(seed int64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

func (p *PCG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return p.r.IntN(n)
}

func (p *PCG) Float64() float64 { return p.r.Float64() }

func (p *PCG) Bool() bool { return p.r.IntN(2) == 1 }

// between draws uniformly from [lo,hi).
func between(r RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo)
}

// oneIn reports success of a uniform 1-in-n draw.
func oneIn(r RNG, n int) bool {
	if n <= 1 {
		return true
	}
	return r.IntN(n) == 0
}
