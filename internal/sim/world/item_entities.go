package world

import (
	"fmt"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	itemspkg "crystalsim/internal/sim/world/feature/entities/items"
	"crystalsim/internal/sim/world/logic/mathx"
)

func (w *World) newItemEntityID() (string, uint64) {
	n := w.nextItemNum.Add(1)
	return fmt.Sprintf("IT%06d", n), n
}

// Drop places a stack into the world at pos and attaches a growth agent when
// the item has a growth kind. It returns the id of the entity now holding
// the stack, or "" when an active capture intercepted it.
func (w *World) Drop(pos Vec3, st Stack) (string, error) {
	def, ok := w.catalogs.Item(st.Item)
	if !ok {
		return "", fmt.Errorf("drop %q: %w", st.Item, ErrUnknownItem)
	}
	if st.Count <= 0 {
		return "", fmt.Errorf("drop %q: %w", st.Item, ErrBadCount)
	}
	if !w.InBounds(pos.Cell()) {
		return "", fmt.Errorf("drop %q at %v: %w", st.Item, pos.ToArray(), ErrOutOfBounds)
	}
	if needsProps(def) {
		if st.Props == nil {
			return "", fmt.Errorf("drop %q: %w", st.Item, ErrPropsRequired)
		}
		if st.Count != 1 {
			return "", fmt.Errorf("drop %q x%d: %w", st.Item, st.Count, ErrSingleUnit)
		}
		st = st.WithProps(st.Props.Clamp(def.MaxSize))
	}
	if w.intercept(pos, st) {
		return "", nil
	}
	return w.spawn(pos, st, "WORLD", "DROP"), nil
}

func needsProps(def catalogs.ItemDef) bool {
	st, ok := growth.StrategyFor(growth.Kind(def.Growth))
	return ok && st.NeedsProps()
}

func (w *World) spawn(pos Vec3, st Stack, actor, reason string) string {
	var num uint64
	newID := func() string {
		id, n := w.newItemEntityID()
		num = n
		return id
	}
	id, created := itemspkg.Spawn(w.tick.Load(), actor, pos, st, reason, w.items, w.itemsAt, newID, w.auditEvent)
	if created {
		w.attachAgent(id, mathx.DeriveSeed(w.cfg.Seed, num))
	}
	return id
}

// attachAgent binds a growth agent to a freshly created entity if its item grows.
func (w *World) attachAgent(id string, seed int64) {
	e := w.items[id]
	if e == nil {
		return
	}
	def, ok := w.catalogs.Item(e.Stack.Item)
	if !ok || def.Growth == "" {
		return
	}
	a, err := growth.NewAgent(id, growth.Kind(def.Growth), growth.Options{
		RNG:    growth.NewRNG(seed),
		Config: w.Growth,
		Notify: w.onGrowthEvent,
	})
	if err != nil {
		return
	}
	w.agents[id] = a
	w.agentSeeds[id] = seed
}

func (w *World) onGrowthEvent(ev growth.Notification) {
	w.events = append(w.events, ev)
	if w.eventLogger != nil {
		_ = w.eventLogger.WriteGrowthEvent(ev)
	}
}

// The methods below implement growth.World.

func (w *World) EntitiesIn(box AABB) []ItemEntity {
	return itemspkg.InBox(box, w.items, w.itemsAt)
}

func (w *World) Entity(id string) (ItemEntity, bool) {
	e := w.items[id]
	if e == nil {
		return ItemEntity{}, false
	}
	return *e, true
}

func (w *World) Item(id string) (catalogs.ItemDef, bool) { return w.catalogs.Item(id) }

func (w *World) SetProps(id string, p crystal.Properties) bool {
	e := w.items[id]
	if e == nil || e.Stack.Empty() {
		return false
	}
	e.Stack = e.Stack.WithProps(p)
	return true
}

func (w *World) Consume(id string, n int) bool {
	return itemspkg.Consume(w.tick.Load(), w.actorOr("WORLD"), id, n, "GROWTH", w.items, w.itemsAt, w.auditEvent)
}

func (w *World) Remove(id string) {
	itemspkg.Remove(w.tick.Load(), w.actorOr("WORLD"), id, "GROWTH", w.items, w.itemsAt, w.auditEvent)
}

// Spawn adds a derivative stack produced by growth. Captures see it first.
func (w *World) Spawn(pos Vec3, st Stack) string {
	if st.Empty() {
		return ""
	}
	if w.intercept(pos, st) {
		return ""
	}
	return w.spawn(pos, st, w.actorOr("WORLD"), "GROWTH")
}

// ItemEntities returns copies of every entity, sorted by id.
func (w *World) ItemEntities() []ItemEntity {
	ids := itemspkg.SortedIDs(w.items)
	out := make([]ItemEntity, 0, len(ids))
	for _, id := range ids {
		out = append(out, *w.items[id])
	}
	return out
}

var _ growth.World = (*World)(nil)
