package growth

import (
	"fmt"
	"sort"
	"testing"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/world/kernel/model"
)

// fakeWorld is a minimal in-memory World for exercising agents without the host loop.
type fakeWorld struct {
	cats     *catalogs.Catalogs
	blocks   map[model.Vec3i]string
	entities map[string]*model.ItemEntity
	nextID   int

	rejectPlacements int // number of upcoming PlaceBlock calls to reject
	placed           map[model.Vec3i]string
	removed          []string
}

func newFakeWorld(t *testing.T) *fakeWorld {
	t.Helper()
	cats, err := catalogs.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return &fakeWorld{
		cats:     cats,
		blocks:   map[model.Vec3i]string{},
		entities: map[string]*model.ItemEntity{},
		placed:   map[model.Vec3i]string{},
	}
}

// chargedPool makes c a charged source cell over stone.
func (w *fakeWorld) chargedPool(c model.Vec3i) {
	w.blocks[c] = "CHARGED_WATER"
	w.blocks[c.Below()] = "STONE"
}

func (w *fakeWorld) drop(c model.Vec3i, st model.Stack) string {
	w.nextID++
	id := fmt.Sprintf("IT%06d", w.nextID)
	w.entities[id] = &model.ItemEntity{EntityID: id, Pos: c.Center(), Stack: st}
	return id
}

func (w *fakeWorld) BlockAt(p model.Vec3i) catalogs.BlockDef {
	id, ok := w.blocks[p]
	if !ok {
		id = "AIR"
	}
	d, _ := w.cats.Block(id)
	return d
}

func (w *fakeWorld) EntitiesIn(box model.AABB) []model.ItemEntity {
	var out []model.ItemEntity
	for _, e := range w.entities {
		if box.Contains(e.Pos) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

func (w *fakeWorld) Entity(id string) (model.ItemEntity, bool) {
	e := w.entities[id]
	if e == nil {
		return model.ItemEntity{}, false
	}
	return *e, true
}

func (w *fakeWorld) Item(id string) (catalogs.ItemDef, bool) { return w.cats.Item(id) }

func (w *fakeWorld) SetProps(id string, p crystal.Properties) bool {
	e := w.entities[id]
	if e == nil {
		return false
	}
	e.Stack = e.Stack.WithProps(p)
	return true
}

func (w *fakeWorld) Consume(id string, n int) bool {
	e := w.entities[id]
	if e == nil || n <= 0 || e.Stack.Count < n {
		return false
	}
	e.Stack.Count -= n
	if e.Stack.Count == 0 {
		w.Remove(id)
	}
	return true
}

func (w *fakeWorld) Remove(id string) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	w.removed = append(w.removed, id)
}

func (w *fakeWorld) PlaceBlock(p model.Vec3i, block string) bool {
	if w.rejectPlacements > 0 {
		w.rejectPlacements--
		return false
	}
	if !w.BlockAt(p).Replaceable {
		return false
	}
	w.blocks[p] = block
	w.placed[p] = block
	return true
}

func (w *fakeWorld) Spawn(pos model.Vec3, st model.Stack) string {
	w.nextID++
	id := fmt.Sprintf("IT%06d", w.nextID)
	w.entities[id] = &model.ItemEntity{EntityID: id, Pos: pos, Stack: st}
	return id
}

// seqRNG replays fixed draws; IntN values are reduced mod n.
type seqRNG struct {
	ints  []int
	bools []bool
}

func (r *seqRNG) IntN(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *seqRNG) Float64() float64 { return 0 }

func (r *seqRNG) Bool() bool {
	if len(r.bools) == 0 {
		return false
	}
	v := r.bools[0]
	r.bools = r.bools[1:]
	return v
}

// alwaysRNG makes every coin succeed (IntN always returns 0).
type alwaysRNG struct{}

func (alwaysRNG) IntN(int) int     { return 0 }
func (alwaysRNG) Float64() float64 { return 0 }
func (alwaysRNG) Bool() bool       { return true }

func crystalStack(p crystal.Properties) model.Stack {
	return model.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(p)
}

func crystalProps(size int) crystal.Properties { return crystal.New(size, 50, 50, 0) }
