package model

// ItemEntity is a dropped item stack in the world.
// It is part of the authoritative sim state and must be snapshot'd.
type ItemEntity struct {
	EntityID    string
	Pos         Vec3
	Stack       Stack
	CreatedTick uint64
}

func (e *ItemEntity) ID() string { return e.EntityID }

func (e *ItemEntity) Cell() Vec3i { return e.Pos.Cell() }
