package growth

import "crystalsim/internal/sim/world/kernel/model"

// IsCharged reports whether p is a source cell of the given fluid resting on a
// block with a full upward face.
func IsCharged(w BlockReader, p model.Vec3i, fluid string) bool {
	if w == nil || fluid == "" {
		return false
	}
	b := w.BlockAt(p)
	if !b.Source || b.Fluid != fluid {
		return false
	}
	return w.BlockAt(p.Below()).SolidTop
}
