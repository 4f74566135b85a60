package scene

import (
	"github.com/taigrr/vista/pkg/math3d"
)

// Rotation returns the node's rotation as Euler angles in RotationOrder.
func (n *Node) Rotation() math3d.Euler {
	return math3d.EulerFromQuat(n.Quaternion, n.RotationOrder)
}

// SetRotation sets the rotation from Euler angles.
func (n *Node) SetRotation(e math3d.Euler) {
	n.Quaternion = e.Quat()
	n.RotationOrder = e.Order
}

// RotateOnAxis rotates around a normalized axis in local space.
func (n *Node) RotateOnAxis(axis math3d.Vec3, angle float64) *Node {
	n.Quaternion = n.Quaternion.Mul(math3d.QuatFromAxisAngle(axis, angle))
	return n
}

// RotateOnWorldAxis rotates around a normalized axis in world space.
// Parent rotations are ignored.
func (n *Node) RotateOnWorldAxis(axis math3d.Vec3, angle float64) *Node {
	n.Quaternion = math3d.QuatFromAxisAngle(axis, angle).Mul(n.Quaternion)
	return n
}

func (n *Node) RotateX(angle float64) *Node { return n.RotateOnAxis(math3d.V3(1, 0, 0), angle) }
func (n *Node) RotateY(angle float64) *Node { return n.RotateOnAxis(math3d.V3(0, 1, 0), angle) }
func (n *Node) RotateZ(angle float64) *Node { return n.RotateOnAxis(math3d.V3(0, 0, 1), angle) }

// TranslateOnAxis moves the node along a normalized local axis.
func (n *Node) TranslateOnAxis(axis math3d.Vec3, distance float64) *Node {
	n.Position = n.Position.Add(axis.ApplyQuat(n.Quaternion).Scale(distance))
	return n
}

// ApplyMatrix premultiplies the local transform by m and decomposes the
// result back into position, rotation and scale.
func (n *Node) ApplyMatrix(m math3d.Mat4) {
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	n.Matrix = m.Mul(n.Matrix)
	n.Position, n.Quaternion, n.Scale = n.Matrix.Decompose()
}

// UpdateMatrix recomposes the local matrix and marks the world matrix stale.
func (n *Node) UpdateMatrix() {
	n.Matrix = math3d.Compose(n.Position, n.Quaternion, n.Scale)
	n.MatrixWorldNeedsUpdate = true
}

// UpdateMatrixWorld refreshes world matrices for n and its descendants.
// A node whose world matrix changes forces the update through its whole
// subtree, so afterwards every node satisfies
// MatrixWorld == parent.MatrixWorld * Matrix.
func (n *Node) UpdateMatrixWorld(force bool) {
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	if n.MatrixWorldNeedsUpdate || force {
		n.updateWorld()
		n.MatrixWorldNeedsUpdate = false
		force = true
	}
	for _, c := range n.children {
		c.UpdateMatrixWorld(force)
	}
	n.updateCamera()
}

// UpdateWorldMatrix refreshes n's world matrix, optionally refreshing its
// ancestors first and its descendants after.
func (n *Node) UpdateWorldMatrix(updateParents, updateChildren bool) {
	if updateParents && n.parent != nil {
		n.parent.UpdateWorldMatrix(true, false)
	}
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	n.updateWorld()
	n.MatrixWorldNeedsUpdate = false
	if updateChildren {
		for _, c := range n.children {
			c.UpdateWorldMatrix(false, true)
		}
	}
	n.updateCamera()
}

func (n *Node) updateWorld() {
	if n.parent == nil {
		n.MatrixWorld = n.Matrix
	} else {
		n.MatrixWorld = n.parent.MatrixWorld.Mul(n.Matrix)
	}
}

func (n *Node) updateCamera() {
	if n.Camera != nil {
		n.Camera.MatrixWorldInverse = n.MatrixWorld.Inverse()
	}
}

// LookAt rotates the node to face target in world space. Cameras point
// their -Z axis at the target, other nodes their +Z axis.
func (n *Node) LookAt(target math3d.Vec3) {
	n.UpdateWorldMatrix(true, false)
	pos := n.MatrixWorld.Translation()

	var m math3d.Mat4
	if n.Camera != nil {
		m = math3d.LookRotation(pos, target, n.Up)
	} else {
		m = math3d.LookRotation(target, pos, n.Up)
	}
	q := math3d.QuatFromRotationMatrix(m)

	if n.parent != nil {
		pq := math3d.QuatFromRotationMatrix(n.parent.MatrixWorld.ExtractRotation())
		q = pq.Inverse().Mul(q)
	}
	n.Quaternion = q
}

// LocalToWorld converts a point from n's local space to world space using
// the current world matrix.
func (n *Node) LocalToWorld(v math3d.Vec3) math3d.Vec3 {
	return n.MatrixWorld.MulVec3(v)
}

// WorldToLocal converts a world-space point into n's local space.
func (n *Node) WorldToLocal(v math3d.Vec3) math3d.Vec3 {
	return n.MatrixWorld.Inverse().MulVec3(v)
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() math3d.Vec3 {
	n.UpdateWorldMatrix(true, false)
	return n.MatrixWorld.Translation()
}

// WorldQuaternion returns the node's world rotation.
func (n *Node) WorldQuaternion() math3d.Quat {
	n.UpdateWorldMatrix(true, false)
	_, q, _ := n.MatrixWorld.Decompose()
	return q
}

// WorldScale returns the node's world scale.
func (n *Node) WorldScale() math3d.Vec3 {
	n.UpdateWorldMatrix(true, false)
	_, _, s := n.MatrixWorld.Decompose()
	return s
}

// WorldDirection returns the world-space direction the node faces: +Z for
// ordinary nodes, -Z for cameras.
func (n *Node) WorldDirection() math3d.Vec3 {
	n.UpdateWorldMatrix(true, false)
	m := n.MatrixWorld
	d := math3d.V3(m[8], m[9], m[10]).Normalize()
	if n.Camera != nil {
		d = d.Negate()
	}
	return d
}
