// Package scene provides the node hierarchy that the projector walks: groups,
// meshes, lines, sprites, points and cameras, each carrying a local transform
// and a cached world matrix.
package scene

import (
	"slices"
	"sync/atomic"

	"github.com/barkimedes/go-deepcopy"
	"github.com/google/uuid"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
)

// Kind is the node discriminant.
type Kind int

const (
	KindGroup Kind = iota
	KindScene
	KindMesh
	KindLine
	KindSprite
	KindPoints
	KindCamera
)

var kindNames = [...]string{"Group", "Scene", "Mesh", "Line", "Sprite", "Points", "Camera"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// LineMode selects how a line node's vertices are paired.
type LineMode int

const (
	LineStrip    LineMode = iota // each vertex connects to the next
	LineSegments                 // vertices are consumed in pairs
)

// DefaultUp is the up vector given to new nodes.
var DefaultUp = math3d.V3(0, 1, 0)

var nextID atomic.Int64

// Node is an element of the scene graph.
//
// Position, Quaternion and Scale are the local transform; Matrix and
// MatrixWorld are derived from them by UpdateMatrixWorld. Rotation is only
// ever stored as a quaternion.
type Node struct {
	ID   int64
	UUID string
	Name string
	Kind Kind

	Position      math3d.Vec3
	Quaternion    math3d.Quat
	Scale         math3d.Vec3
	Up            math3d.Vec3
	RotationOrder math3d.EulerOrder

	Matrix                 math3d.Mat4
	MatrixWorld            math3d.Mat4
	MatrixAutoUpdate       bool
	MatrixWorldNeedsUpdate bool

	Visible       bool
	FrustumCulled bool
	RenderOrder   int
	UserData      map[string]any

	// Geometry is a *geometry.BufferGeometry or *geometry.Geometry.
	Geometry geometry.Bounded
	Material material.Material
	// Materials, when non-empty, is indexed by geometry group or face
	// material index and takes precedence over Material.
	Materials []material.Material
	LineMode  LineMode

	// Camera is set on camera nodes.
	Camera *Camera

	// AutoUpdate makes the projector refresh world matrices of a scene root
	// before each frame.
	AutoUpdate bool

	parent    *Node
	children  []*Node
	listeners map[string][]listener
}

func newNode(kind Kind) *Node {
	return &Node{
		ID:               nextID.Add(1),
		UUID:             uuid.New().String(),
		Kind:             kind,
		Quaternion:       math3d.IdentityQuat(),
		Scale:            math3d.V3(1, 1, 1),
		Up:               DefaultUp,
		Matrix:           math3d.Identity(),
		MatrixWorld:      math3d.Identity(),
		MatrixAutoUpdate: true,
		Visible:          true,
		FrustumCulled:    true,
	}
}

// NewGroup creates an empty grouping node.
func NewGroup() *Node { return newNode(KindGroup) }

// NewScene creates a scene root. World matrices under it are refreshed
// automatically on projection.
func NewScene() *Node {
	n := newNode(KindScene)
	n.AutoUpdate = true
	return n
}

// NewMesh creates a mesh node.
func NewMesh(g geometry.Bounded, m material.Material) *Node {
	n := newNode(KindMesh)
	n.Geometry = g
	n.Material = m
	return n
}

// NewLine creates a line strip node.
func NewLine(g geometry.Bounded, m material.Material) *Node {
	n := newNode(KindLine)
	n.Geometry = g
	n.Material = m
	return n
}

// NewLineSegments creates a line node that draws disjoint segments.
func NewLineSegments(g geometry.Bounded, m material.Material) *Node {
	n := NewLine(g, m)
	n.LineMode = LineSegments
	return n
}

// NewSprite creates a screen-aligned sprite at the node's origin.
func NewSprite(m material.Material) *Node {
	n := newNode(KindSprite)
	n.Material = m
	return n
}

// NewPoints creates a node drawn as one sprite per vertex.
func NewPoints(g geometry.Bounded, m material.Material) *Node {
	n := newNode(KindPoints)
	n.Geometry = g
	n.Material = m
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// MaterialAt returns the material for a group or face material index.
// Without a Materials list every index maps to Material.
func (n *Node) MaterialAt(i int) material.Material {
	if len(n.Materials) == 0 {
		return n.Material
	}
	if i < 0 || i >= len(n.Materials) {
		return nil
	}
	return n.Materials[i]
}

// Add appends children to n. A child that already has a parent is removed
// from it first. Adding nil, n itself or one of n's ancestors is reported
// and ignored.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		switch {
		case c == nil:
			diag.Warn("scene: cannot add nil child", "parent", n.Name)
			continue
		case c == n:
			diag.Warn("scene: node cannot be added as a child of itself", "node", n.Name)
			continue
		case c.isAncestorOf(n):
			diag.Warn("scene: adding an ancestor would create a cycle", "node", c.Name, "parent", n.Name)
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
		c.DispatchEvent(Event{Type: EventAdded})
	}
	return n
}

// Remove detaches children from n. Nodes that are not children of n are
// ignored.
func (n *Node) Remove(children ...*Node) *Node {
	for _, c := range children {
		i := slices.Index(n.children, c)
		if i < 0 {
			continue
		}
		c.parent = nil
		n.children = slices.Delete(n.children, i, i+1)
		c.DispatchEvent(Event{Type: EventRemoved})
	}
	return n
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() *Node {
	if n.parent != nil {
		n.parent.Remove(n)
	}
	return n
}

// Clear removes every child.
func (n *Node) Clear() *Node {
	return n.Remove(slices.Clone(n.children)...)
}

// Attach adds child to n while keeping the child's world transform.
func (n *Node) Attach(child *Node) *Node {
	if child == nil || child == n || child.isAncestorOf(n) {
		diag.Warn("scene: invalid attach", "parent", n.Name)
		return n
	}
	n.UpdateWorldMatrix(true, false)
	m := n.MatrixWorld.Inverse()
	if child.parent != nil {
		child.parent.UpdateWorldMatrix(true, false)
		m = m.Mul(child.parent.MatrixWorld)
	}
	child.ApplyMatrix(m)
	n.Add(child)
	child.UpdateWorldMatrix(false, true)
	return n
}

func (n *Node) isAncestorOf(o *Node) bool {
	for p := o.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is Traverse restricted to visible subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.TraverseVisible(fn)
	}
}

// TraverseAncestors calls fn for each ancestor, nearest first.
func (n *Node) TraverseAncestors(fn func(*Node)) {
	for p := n.parent; p != nil; p = p.parent {
		fn(p)
	}
}

// ByName returns the first node named name in n's subtree, n included.
func (n *Node) ByName(name string) *Node {
	return n.find(func(o *Node) bool { return o.Name == name })
}

// ByID returns the node with the given id in n's subtree, n included.
func (n *Node) ByID(id int64) *Node {
	return n.find(func(o *Node) bool { return o.ID == id })
}

func (n *Node) find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.children {
		if f := c.find(match); f != nil {
			return f
		}
	}
	return nil
}

// Clone copies n into a new, parentless node with its own ID and UUID.
// Geometry and materials are shared; UserData is deep-copied. With
// recursive set, children are cloned too.
func (n *Node) Clone(recursive bool) *Node {
	c := newNode(n.Kind)
	c.Name = n.Name
	c.Position, c.Quaternion, c.Scale, c.Up = n.Position, n.Quaternion, n.Scale, n.Up
	c.RotationOrder = n.RotationOrder
	c.Matrix, c.MatrixWorld = n.Matrix, n.MatrixWorld
	c.MatrixAutoUpdate = n.MatrixAutoUpdate
	c.MatrixWorldNeedsUpdate = n.MatrixWorldNeedsUpdate
	c.Visible, c.FrustumCulled, c.RenderOrder = n.Visible, n.FrustumCulled, n.RenderOrder
	c.Geometry, c.Material = n.Geometry, n.Material
	c.Materials = slices.Clone(n.Materials)
	c.LineMode = n.LineMode
	c.AutoUpdate = n.AutoUpdate
	if n.Camera != nil {
		cam := *n.Camera
		c.Camera = &cam
	}
	if n.UserData != nil {
		ud, err := deepcopy.Anything(n.UserData)
		if err != nil {
			diag.Warn("scene: user data not cloned", "node", n.Name, "err", err)
		} else {
			c.UserData = ud.(map[string]any)
		}
	}
	if recursive {
		for _, child := range n.children {
			c.Add(child.Clone(true))
		}
	}
	return c
}
