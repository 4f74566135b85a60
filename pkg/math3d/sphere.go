package math3d

import "math"

// Sphere is a bounding sphere. A negative radius marks an empty sphere.
type Sphere struct {
	Center Vec3
	Radius float64
}

// SphereFromPoints returns a sphere centered on the bounding box of pts
// that contains all of them.
func SphereFromPoints(pts ...Vec3) Sphere {
	if len(pts) == 0 {
		return Sphere{Radius: -1}
	}
	center := Box3FromPoints(pts...).Center()
	var maxSq float64
	for _, p := range pts {
		maxSq = math.Max(maxSq, p.Sub(center).LenSq())
	}
	return Sphere{Center: center, Radius: math.Sqrt(maxSq)}
}

// IsEmpty reports whether the sphere has a negative radius.
func (s Sphere) IsEmpty() bool {
	return s.Radius < 0
}

// ApplyMat4 transforms the sphere. The radius grows by the largest axis scale.
func (s Sphere) ApplyMat4(m Mat4) Sphere {
	return Sphere{
		Center: m.MulVec3(s.Center),
		Radius: s.Radius * m.MaxScaleOnAxis(),
	}
}

// ContainsPoint reports whether p lies inside or on the sphere.
func (s Sphere) ContainsPoint(p Vec3) bool {
	return p.Sub(s.Center).LenSq() <= s.Radius*s.Radius
}
