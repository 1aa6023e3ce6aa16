package items

import modelpkg "crystalsim/internal/sim/world/kernel/model"

type AuditFunc func(nowTick uint64, actor, action string, pos modelpkg.Vec3i, reason string, details map[string]any)

// Spawn adds st at pos, merging into a compatible entity in the same cell.
// It returns the receiving entity id and whether a new entity was created.
func Spawn(
	nowTick uint64,
	actor string,
	pos modelpkg.Vec3,
	st modelpkg.Stack,
	reason string,
	items map[string]*modelpkg.ItemEntity,
	itemsAt map[modelpkg.Vec3i][]string,
	newID func() string,
	audit AuditFunc,
) (string, bool) {
	if st.Empty() {
		return "", false
	}
	cell := pos.Cell()

	if ids := itemsAt[cell]; len(ids) > 0 {
		mergeID, ok := FindMergeTarget(ids, st, func(id string) (modelpkg.Stack, bool) {
			e := items[id]
			if e == nil {
				return modelpkg.Stack{}, false
			}
			return e.Stack, true
		})
		if ok {
			e := items[mergeID]
			e.Stack.Count += st.Count
			if audit != nil {
				audit(nowTick, actor, "ITEM_SPAWN", cell, reason, map[string]any{
					"entity_id": e.EntityID,
					"item":      st.Item,
					"count":     st.Count,
					"merged":    true,
				})
			}
			return e.EntityID, false
		}
	}

	id := newID()
	items[id] = &modelpkg.ItemEntity{
		EntityID:    id,
		Pos:         pos,
		Stack:       st,
		CreatedTick: nowTick,
	}
	itemsAt[cell] = append(itemsAt[cell], id)
	if audit != nil {
		audit(nowTick, actor, "ITEM_SPAWN", cell, reason, map[string]any{
			"entity_id": id,
			"item":      st.Item,
			"count":     st.Count,
			"merged":    false,
		})
	}
	return id, true
}

func Remove(
	nowTick uint64,
	actor string,
	id string,
	reason string,
	items map[string]*modelpkg.ItemEntity,
	itemsAt map[modelpkg.Vec3i][]string,
	audit AuditFunc,
) bool {
	e := items[id]
	if e == nil {
		return false
	}
	cell := e.Cell()
	delete(items, id)
	ids := RemoveID(itemsAt[cell], id)
	if len(ids) == 0 {
		delete(itemsAt, cell)
	} else {
		itemsAt[cell] = ids
	}
	if audit != nil {
		audit(nowTick, actor, "ITEM_DESPAWN", cell, reason, map[string]any{
			"entity_id": id,
			"item":      e.Stack.Item,
			"count":     e.Stack.Count,
		})
	}
	return true
}

// Consume takes n units off an entity, removing it once empty. It fails
// without side effects when the entity holds fewer than n units.
func Consume(
	nowTick uint64,
	actor string,
	id string,
	n int,
	reason string,
	items map[string]*modelpkg.ItemEntity,
	itemsAt map[modelpkg.Vec3i][]string,
	audit AuditFunc,
) bool {
	e := items[id]
	if e == nil || n <= 0 || e.Stack.Count < n {
		return false
	}
	e.Stack.Count -= n
	if audit != nil {
		audit(nowTick, actor, "ITEM_CONSUME", e.Cell(), reason, map[string]any{
			"entity_id": id,
			"item":      e.Stack.Item,
			"count":     n,
		})
	}
	if e.Stack.Count == 0 {
		Remove(nowTick, actor, id, reason, items, itemsAt, audit)
	}
	return true
}
