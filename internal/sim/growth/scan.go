package growth

import "crystalsim/internal/sim/world/kernel/model"

type ScanStatus int

const (
	ScanNone ScanStatus = iota
	ScanFound
)

// ScanResult classifies the objects sharing an agent's box.
type ScanResult struct {
	Status    ScanStatus
	Companion model.ItemEntity
	// Occupants holds every other entity in the box, matched or not.
	Occupants []model.ItemEntity
}

func (r ScanResult) Empty() bool { return len(r.Occupants) == 0 }

type Predicate func(e model.ItemEntity) bool

// IsItem matches held units of one material.
func IsItem(item string) Predicate {
	return func(e model.ItemEntity) bool {
		return item != "" && e.Stack.Item == item && e.Stack.Count > 0
	}
}

// InFamily matches held units whose item belongs to an abstract family.
func InFamily(items ItemReader, family string) Predicate {
	return func(e model.ItemEntity) bool {
		if items == nil || family == "" || e.Stack.Count <= 0 {
			return false
		}
		def, ok := items.Item(e.Stack.Item)
		return ok && def.Family == family
	}
}

// Scan looks for a companion of self inside box. The first match in entity id
// order wins. Scan never mutates the world.
func Scan(w EntityReader, self string, box model.AABB, match Predicate) ScanResult {
	var res ScanResult
	if w == nil {
		return res
	}
	for _, e := range w.EntitiesIn(box) {
		if e.EntityID == self || !box.Contains(e.Pos) {
			continue
		}
		res.Occupants = append(res.Occupants, e)
		if res.Status == ScanNone && match != nil && match(e) {
			res.Status = ScanFound
			res.Companion = e
		}
	}
	return res
}
