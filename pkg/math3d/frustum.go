package math3d

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// FrustumFromMatrix extracts frustum planes from a view-projection matrix
// with the Gribb/Hartmann method. Plane normals point inward.
func FrustumFromMatrix(m Mat4) Frustum {
	var f Frustum

	// Row i of the column-major matrix is m[i], m[i+4], m[i+8], m[i+12].
	f.Planes[FrustumLeft] = Plane{V3(m[3]+m[0], m[7]+m[4], m[11]+m[8]), m[15] + m[12]}
	f.Planes[FrustumRight] = Plane{V3(m[3]-m[0], m[7]-m[4], m[11]-m[8]), m[15] - m[12]}
	f.Planes[FrustumBottom] = Plane{V3(m[3]+m[1], m[7]+m[5], m[11]+m[9]), m[15] + m[13]}
	f.Planes[FrustumTop] = Plane{V3(m[3]-m[1], m[7]-m[5], m[11]-m[9]), m[15] - m[13]}
	f.Planes[FrustumNear] = Plane{V3(m[3]+m[2], m[7]+m[6], m[11]+m[10]), m[15] + m[14]}
	f.Planes[FrustumFar] = Plane{V3(m[3]-m[2], m[7]-m[6], m[11]-m[10]), m[15] - m[14]}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere touches the frustum.
func (f Frustum) IntersectsSphere(s Sphere) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IntersectsBox tests if any part of the box is inside the frustum.
// Uses the "positive vertex" test: the corner furthest along each plane
// normal must be in front of that plane.
func (f Frustum) IntersectsBox(b Box3) bool {
	for i := range f.Planes {
		plane := f.Planes[i]
		p := V3(
			pick(plane.Normal.X >= 0, b.Max.X, b.Min.X),
			pick(plane.Normal.Y >= 0, b.Max.Y, b.Min.Y),
			pick(plane.Normal.Z >= 0, b.Max.Z, b.Min.Z),
		)
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsBox tests if the box is completely inside the frustum.
func (f Frustum) ContainsBox(b Box3) bool {
	for i := range f.Planes {
		plane := f.Planes[i]
		n := V3(
			pick(plane.Normal.X >= 0, b.Min.X, b.Max.X),
			pick(plane.Normal.Y >= 0, b.Min.Y, b.Max.Y),
			pick(plane.Normal.Z >= 0, b.Min.Z, b.Max.Z),
		)
		if plane.DistanceToPoint(n) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
