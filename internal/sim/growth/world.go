package growth

import (
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/world/kernel/model"
)

// BlockReader answers voxel queries. Unknown or out-of-range cells read as AIR.
type BlockReader interface {
	BlockAt(p model.Vec3i) catalogs.BlockDef
}

// EntityReader enumerates item entities. Results are copies sorted by entity id.
type EntityReader interface {
	EntitiesIn(box model.AABB) []model.ItemEntity
	Entity(id string) (model.ItemEntity, bool)
}

type ItemReader interface {
	Item(id string) (catalogs.ItemDef, bool)
}

// World is the narrow surface agents use. Agents never assume exclusive access.
type World interface {
	BlockReader
	EntityReader
	ItemReader

	// SetProps replaces the property record on an entity's stack.
	SetProps(id string, p crystal.Properties) bool
	// Consume removes n units from an entity, despawning it at zero.
	Consume(id string, n int) bool
	Remove(id string)
	// PlaceBlock writes a block if the target cell accepts it.
	PlaceBlock(p model.Vec3i, block string) bool
	Spawn(pos model.Vec3, st model.Stack) string
}

// Mutation kinds reported through the notification hook.
const (
	EventRepaired   = "CRYSTAL_REPAIRED"
	EventGrown      = "CRYSTAL_GROWN"
	EventDuplicated = "CRYSTAL_DUPLICATED"
	EventGemFormed  = "GEM_FORMED"
	EventToolGrown  = "TOOL_GROWN"
	EventCelestial  = "CELESTIAL_FORMED"
)

// Notification is emitted exactly once per committed mutation.
type Notification struct {
	Tick        uint64              `json:"tick"`
	Kind        string              `json:"kind"`
	AgentID     string              `json:"agent_id"`
	Item        string              `json:"item"`
	Pos         model.Vec3i         `json:"pos"`
	Props       *crystal.Properties `json:"props,omitempty"`
	CompanionID string              `json:"companion_id,omitempty"`
	SpawnedID   string              `json:"spawned_id,omitempty"`
}
