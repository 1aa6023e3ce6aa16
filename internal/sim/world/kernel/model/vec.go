package model

import "math"

// Vec3i addresses a voxel cell.
type Vec3i struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (v Vec3i) ToArray() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) Below() Vec3i { return Vec3i{X: v.X, Y: v.Y - 1, Z: v.Z} }

func (v Vec3i) Add(dx, dy, dz int) Vec3i { return Vec3i{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz} }

// Center is the continuous position in the middle of the cell.
func (v Vec3i) Center() Vec3 {
	return Vec3{X: float64(v.X) + 0.5, Y: float64(v.Y) + 0.5, Z: float64(v.Z) + 0.5}
}

// Vec3 is a continuous world position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Cell returns the voxel containing v.
func (v Vec3) Cell() Vec3i {
	return Vec3i{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y)), Z: int(math.Floor(v.Z))}
}

func (v Vec3) Add(dx, dy, dz float64) Vec3 { return Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz} }

func (v Vec3) ToArray() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// AABB is an axis-aligned box, closed at Min and open at Max.
type AABB struct {
	Min Vec3
	Max Vec3
}

// CellBox is the unit box covering one voxel.
func CellBox(c Vec3i) AABB {
	return AABB{
		Min: Vec3{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)},
		Max: Vec3{X: float64(c.X + 1), Y: float64(c.Y + 1), Z: float64(c.Z + 1)},
	}
}

// Inflate grows the box by eps on every side.
func (b AABB) Inflate(eps float64) AABB {
	return AABB{Min: b.Min.Add(-eps, -eps, -eps), Max: b.Max.Add(eps, eps, eps)}
}

func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// Cells lists every voxel the box overlaps, in x,y,z order.
func (b AABB) Cells() []Vec3i {
	lo := b.Min.Cell()
	hi := Vec3i{
		X: int(math.Ceil(b.Max.X)) - 1,
		Y: int(math.Ceil(b.Max.Y)) - 1,
		Z: int(math.Ceil(b.Max.Z)) - 1,
	}
	if hi.X < lo.X || hi.Y < lo.Y || hi.Z < lo.Z {
		return nil
	}
	out := make([]Vec3i, 0, (hi.X-lo.X+1)*(hi.Y-lo.Y+1)*(hi.Z-lo.Z+1))
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				out = append(out, Vec3i{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}
