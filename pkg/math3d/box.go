package math3d

import "math"

// Box2 is an axis-aligned 2D rectangle. An empty box has Min > Max.
type Box2 struct {
	Min, Max Vec2
}

// EmptyBox2 returns a box that contains nothing and expands to fit the
// first point added.
func EmptyBox2() Box2 {
	return Box2{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// Box2FromPoints returns the smallest box containing pts.
func Box2FromPoints(pts ...Vec2) Box2 {
	b := EmptyBox2()
	for _, p := range pts {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// ExpandByPoint grows the box to include p.
func (b Box2) ExpandByPoint(p Vec2) Box2 {
	return Box2{b.Min.Min(p), b.Max.Max(p)}
}

// ExpandByScalar grows the box by s on every side.
func (b Box2) ExpandByScalar(s float64) Box2 {
	return Box2{b.Min.Sub(Vec2{s, s}), b.Max.Add(Vec2{s, s})}
}

// Union returns the smallest box containing both boxes.
func (b Box2) Union(o Box2) Box2 {
	return Box2{b.Min.Min(o.Min), b.Max.Max(o.Max)}
}

// Intersect returns the overlap of the two boxes, which may be empty.
func (b Box2) Intersect(o Box2) Box2 {
	return Box2{b.Min.Max(o.Min), b.Max.Min(o.Max)}
}

// IntersectsBox reports whether the boxes overlap. Touching edges count.
func (b Box2) IntersectsBox(o Box2) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y)
}

// ContainsPoint reports whether p lies inside the box or on its edge.
func (b Box2) ContainsPoint(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Center returns the center of the box.
func (b Box2) Center() Vec2 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the width and height of the box.
func (b Box2) Size() Vec2 {
	if b.IsEmpty() {
		return Vec2{}
	}
	return b.Max.Sub(b.Min)
}

// Box3 is an axis-aligned bounding box. An empty box has Min > Max.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns a box that contains nothing.
func EmptyBox3() Box3 {
	return Box3{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Box3FromPoints returns the smallest box containing pts.
func Box3FromPoints(pts ...Vec3) Box3 {
	b := EmptyBox3()
	for _, p := range pts {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows the box to include p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{b.Min.Min(p), b.Max.Max(p)}
}

// ExpandByScalar grows the box by s on every side.
func (b Box3) ExpandByScalar(s float64) Box3 {
	return Box3{b.Min.Sub(Vec3{s, s, s}), b.Max.Add(Vec3{s, s, s})}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	return Box3{b.Min.Min(o.Min), b.Max.Max(o.Max)}
}

// Intersect returns the overlap of the two boxes, which may be empty.
func (b Box3) Intersect(o Box3) Box3 {
	return Box3{b.Min.Max(o.Min), b.Max.Min(o.Max)}
}

// IntersectsBox reports whether the boxes overlap. Touching faces count.
func (b Box3) IntersectsBox(o Box3) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z)
}

// ContainsPoint reports whether p lies inside the box or on its surface.
func (b Box3) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the center of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b Box3) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// ApplyMat4 returns the box that bounds the eight transformed corners.
func (b Box3) ApplyMat4(m Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for _, c := range b.Corners() {
		out = out.ExpandByPoint(m.MulVec3(c))
	}
	return out
}
