// Package crystal holds the stat bundle carried by crystal item stacks.
package crystal

// Stat bounds. A crystal at MaxFracturation is shattered.
const (
	MaxPurity       = 100
	MaxFracturation = 100
	// NominalMaxCut is the soft cap for the cut stat. Repair bonuses may push past it.
	NominalMaxCut = 100
)

// Properties is an immutable value. Mutations build a new value and never
// touch SizeOverride.
type Properties struct {
	Size         int `json:"size"`
	Purity       int `json:"purity"`
	Cut          int `json:"cut"`
	Fracturation int `json:"fracturation"`

	SizeOverride    int  `json:"size_override,omitempty"`
	HasSizeOverride bool `json:"has_size_override,omitempty"`
}

// New builds a record without a size override.
func New(size, purity, cut, fracturation int) Properties {
	return Properties{Size: size, Purity: purity, Cut: cut, Fracturation: fracturation}
}

// WithOverride returns p with the display size pinned to v.
func (p Properties) WithOverride(v int) Properties {
	p.SizeOverride = v
	p.HasSizeOverride = true
	return p
}

// Override returns the display size override, if any.
func (p Properties) Override() (int, bool) {
	return p.SizeOverride, p.HasSizeOverride
}

// DisplaySize is the size shown to players.
func (p Properties) DisplaySize() int {
	if p.HasSizeOverride {
		return p.SizeOverride
	}
	return p.Size
}

// Broken reports a fracturation at the destructive threshold.
func (p Properties) Broken() bool { return p.Fracturation >= MaxFracturation }

// Repaired reports that no fracturation is left, so the next firing grows.
func (p Properties) Repaired() bool { return p.Fracturation <= 0 }

// Clamp bounds size to [0,maxSize], purity and fracturation to [0,100] and cut to >= 0.
func (p Properties) Clamp(maxSize int) Properties {
	p.Size = clampInt(p.Size, 0, maxSize)
	p.Purity = clampInt(p.Purity, 0, MaxPurity)
	p.Fracturation = clampInt(p.Fracturation, 0, MaxFracturation)
	if p.Cut < 0 {
		p.Cut = 0
	}
	return p
}

// Valid reports whether the record is readable at all.
func (p Properties) Valid() bool {
	return p.Size >= 0 && p.Purity >= 0 && p.Cut >= 0 && p.Fracturation >= 0
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
