package world

// Capture is a scoped interception of item spawns. While a capture is the
// innermost active one, every stack the world would spawn (drops and growth
// derivatives) is recorded here instead of entering the world.
//
// Captures nest: BeginCapture pushes, End pops. Loop goroutine only.
type Capture struct {
	w      *World
	ended  bool
	stacks []CapturedStack
}

type CapturedStack struct {
	Tick  uint64 `json:"tick"`
	Pos   Vec3   `json:"pos"`
	Stack Stack  `json:"stack"`
}

func (w *World) BeginCapture() *Capture {
	c := &Capture{w: w}
	w.captures = append(w.captures, c)
	return c
}

// End detaches the capture and returns everything it intercepted. Ending a
// capture that is not innermost also ends every capture opened after it.
// Calling End twice returns the same stacks.
func (c *Capture) End() []CapturedStack {
	if c == nil || c.ended {
		return c.Stacks()
	}
	caps := c.w.captures
	for i := len(caps) - 1; i >= 0; i-- {
		if caps[i] != c {
			continue
		}
		for _, inner := range caps[i:] {
			inner.ended = true
		}
		c.w.captures = caps[:i]
		break
	}
	c.ended = true
	return c.Stacks()
}

func (c *Capture) Active() bool { return c != nil && !c.ended }

// Stacks returns a copy of the intercepted stacks.
func (c *Capture) Stacks() []CapturedStack {
	if c == nil {
		return nil
	}
	out := make([]CapturedStack, len(c.stacks))
	copy(out, c.stacks)
	return out
}

// CaptureDepth reports how many captures are open.
func (w *World) CaptureDepth() int { return len(w.captures) }

func (w *World) intercept(pos Vec3, st Stack) bool {
	if len(w.captures) == 0 {
		return false
	}
	c := w.captures[len(w.captures)-1]
	c.stacks = append(c.stacks, CapturedStack{Tick: w.tick.Load(), Pos: pos, Stack: st})
	return true
}
