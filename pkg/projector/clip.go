package projector

import (
	"cmp"

	"github.com/taigrr/vista/pkg/math3d"
)

var clipBox = math3d.Box3{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

// ProjectVertex fills v's world and screen positions from v.Position.
// The screen position is divided by w in x, y and z; w keeps the clip-space
// value. The vertex is visible when all three divided coordinates are in
// [-1, 1].
func ProjectVertex(v *RenderableVertex, model, viewProj math3d.Mat4) {
	v.PositionWorld = model.MulVec3(v.Position)
	s := viewProj.MulVec4(math3d.V4FromV3(v.PositionWorld, 1))
	invW := 1 / s.W
	s.X *= invW
	s.Y *= invW
	s.Z *= invW
	v.PositionScreen = s
	v.Visible = s.X >= -1 && s.X <= 1 &&
		s.Y >= -1 && s.Y <= 1 &&
		s.Z >= -1 && s.Z <= 1
}

// CheckTriangleVisibility reports whether a projected triangle may touch
// the clip volume: one of its vertices is visible, or its screen bounding
// box overlaps [-1, 1] on every axis.
func CheckTriangleVisibility(v1, v2, v3 *RenderableVertex) bool {
	if v1.Visible || v2.Visible || v3.Visible {
		return true
	}
	box := math3d.Box3FromPoints(
		v1.PositionScreen.Vec3(),
		v2.PositionScreen.Vec3(),
		v3.PositionScreen.Vec3(),
	)
	return clipBox.IntersectsBox(box)
}

// CheckBackfaceCulling reports whether the projected triangle is front
// facing, that is whether its signed screen area is negative.
func CheckBackfaceCulling(v1, v2, v3 *RenderableVertex) bool {
	a, b, c := v1.PositionScreen, v2.PositionScreen, v3.PositionScreen
	return (c.X-a.X)*(b.Y-a.Y)-(c.Y-a.Y)*(b.X-a.X) < 0
}

// ClipLine clips the clip-space segment s1-s2 against the near and far
// planes in place. It returns false when nothing of the segment remains.
// Both endpoints are interpolated from the unclipped segment.
func ClipLine(s1, s2 *math3d.Vec4) bool {
	bc1near := s1.Z + s1.W
	bc2near := s2.Z + s2.W
	bc1far := -s1.Z + s1.W
	bc2far := -s2.Z + s2.W

	if bc1near >= 0 && bc2near >= 0 && bc1far >= 0 && bc2far >= 0 {
		return true
	}
	if (bc1near < 0 && bc2near < 0) || (bc1far < 0 && bc2far < 0) {
		return false
	}

	alpha1, alpha2 := 0.0, 1.0

	if bc1near < 0 {
		alpha1 = max(alpha1, bc1near/(bc1near-bc2near))
	} else if bc2near < 0 {
		alpha2 = min(alpha2, bc1near/(bc1near-bc2near))
	}

	if bc1far < 0 {
		alpha1 = max(alpha1, bc1far/(bc1far-bc2far))
	} else if bc2far < 0 {
		alpha2 = min(alpha2, bc1far/(bc1far-bc2far))
	}

	if alpha2 < alpha1 {
		return false
	}

	o1, o2 := *s1, *s2
	*s1 = o1.Lerp(o2, alpha1)
	*s2 = o1.Lerp(o2, alpha2)
	return true
}

// PaintOrder orders elements for the painter's algorithm: ascending render
// order, then far to near, then by object id.
func PaintOrder(a, b Element) int {
	return paintOrder(a.RenderOrder, b.RenderOrder, a.Z, b.Z, a.ID, b.ID)
}

func objectOrder(a, b RenderableObject) int {
	return paintOrder(a.RenderOrder, b.RenderOrder, a.Z, b.Z, a.ID, b.ID)
}

func paintOrder(ra, rb int, za, zb float64, ia, ib int64) int {
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	if za != zb {
		return cmp.Compare(zb, za)
	}
	return cmp.Compare(ia, ib)
}
