package scene

import (
	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
)

// Axis colors used by NewAxesHelper.
var (
	AxisColorX = math3d.Hex(0xff0000)
	AxisColorY = math3d.Hex(0x00ff00)
	AxisColorZ = math3d.Hex(0x0000ff)
)

// boxEdges indexes Box3.Corners: bit 0 is X, bit 1 is Y, bit 2 is Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

func vertexColoredLines() *material.LineBasic {
	m := material.NewLineBasic()
	m.VertexColors = material.ColorsVertex
	return m
}

func lineGeometry(positions, colors []float64) *geometry.BufferGeometry {
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute(positions, 3))
	g.SetAttribute(geometry.AttrColor, geometry.NewBufferAttribute(colors, 3))
	return g
}

// NewAxesHelper draws the X, Y and Z axes from the origin, colored red,
// green and blue.
func NewAxesHelper(size float64) *Node {
	positions := []float64{
		0, 0, 0, size, 0, 0,
		0, 0, 0, 0, size, 0,
		0, 0, 0, 0, 0, size,
	}
	var colors []float64
	for _, c := range []math3d.Color{AxisColorX, AxisColorY, AxisColorZ} {
		colors = append(colors, c.R, c.G, c.B, c.R, c.G, c.B)
	}
	n := NewLineSegments(lineGeometry(positions, colors), vertexColoredLines())
	n.Name = "axes"
	return n
}

// NewGridHelper draws a square grid on the XZ plane centered at the origin.
// The two center lines use centerColor, the rest gridColor.
func NewGridHelper(size float64, divisions int, centerColor, gridColor math3d.Color) *Node {
	if divisions < 1 {
		divisions = 1
	}
	step := size / float64(divisions)
	half := size / 2
	center := divisions / 2

	var positions, colors []float64
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		positions = append(positions,
			-half, 0, k, half, 0, k,
			k, 0, -half, k, 0, half,
		)
		c := gridColor
		if i == center {
			c = centerColor
		}
		for range 4 {
			colors = append(colors, c.R, c.G, c.B)
		}
	}
	n := NewLineSegments(lineGeometry(positions, colors), vertexColoredLines())
	n.Name = "grid"
	return n
}

// NewBoxHelper outlines target's world-space bounding box. The outline is a
// snapshot; rebuild it after target moves.
func NewBoxHelper(target *Node, color math3d.Color) *Node {
	m := material.NewLineBasic()
	m.Color = color

	box := math3d.EmptyBox3()
	target.UpdateWorldMatrix(true, false)
	target.Traverse(func(o *Node) {
		if o.Geometry == nil {
			return
		}
		o.UpdateWorldMatrix(false, false)
		box = box.Union(o.Geometry.BoundingBox().ApplyMat4(o.MatrixWorld))
	})

	positions := make([]float64, 0, len(boxEdges)*6)
	if !box.IsEmpty() {
		corners := box.Corners()
		for _, e := range boxEdges {
			a, b := corners[e[0]], corners[e[1]]
			positions = append(positions, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute(positions, 3))

	n := NewLineSegments(g, m)
	n.Name = "box"
	n.MatrixAutoUpdate = false
	return n
}
