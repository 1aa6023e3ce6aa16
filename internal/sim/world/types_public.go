package world

import modelpkg "crystalsim/internal/sim/world/kernel/model"

type Vec3i = modelpkg.Vec3i
type Vec3 = modelpkg.Vec3
type AABB = modelpkg.AABB
type Stack = modelpkg.Stack
type ItemEntity = modelpkg.ItemEntity
