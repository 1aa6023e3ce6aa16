package growth

// Timer accumulates progress while an agent stays eligible.
type Timer struct {
	ticks int
}

func (t *Timer) Ticks() int { return t.ticks }

// Observe advances the timer by one tick. It reports whether the mutation
// should fire: the threshold is reached and the 1-in-odds coin succeeds. The
// coin is only drawn once the threshold is reached.
func (t *Timer) Observe(eligible bool, threshold, odds int, r RNG) bool {
	if !eligible {
		t.ticks = 0
		return false
	}
	t.ticks++
	if t.ticks < threshold {
		return false
	}
	return oneIn(r, odds)
}

func (t *Timer) Reset() { t.ticks = 0 }

// Rollback subtracts a retry penalty without dropping below zero.
func (t *Timer) Rollback(penalty int) {
	t.ticks -= penalty
	if t.ticks < 0 {
		t.ticks = 0
	}
}
