package items

import (
	"sort"

	modelpkg "crystalsim/internal/sim/world/kernel/model"
)

// FindMergeTarget returns the first entity among ids whose stack can absorb st.
func FindMergeTarget(ids []string, st modelpkg.Stack, load func(string) (modelpkg.Stack, bool)) (string, bool) {
	if load == nil || st.Empty() {
		return "", false
	}
	for _, id := range ids {
		cur, ok := load(id)
		if !ok || cur.Empty() {
			continue
		}
		if cur.Mergeable(st) {
			return id, true
		}
	}
	return "", false
}

func RemoveID(ids []string, id string) []string {
	for i := 0; i < len(ids); i++ {
		if ids[i] != id {
			continue
		}
		copy(ids[i:], ids[i+1:])
		return ids[:len(ids)-1]
	}
	return ids
}

// InBox collects copies of every entity whose position lies in box, sorted by id.
func InBox(box modelpkg.AABB, items map[string]*modelpkg.ItemEntity, itemsAt map[modelpkg.Vec3i][]string) []modelpkg.ItemEntity {
	var out []modelpkg.ItemEntity
	for _, c := range box.Cells() {
		for _, id := range itemsAt[c] {
			e := items[id]
			if e == nil || !box.Contains(e.Pos) {
				continue
			}
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

// SortedIDs lists entity ids in ascending order.
func SortedIDs(items map[string]*modelpkg.ItemEntity) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
