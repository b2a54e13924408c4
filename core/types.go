package core

import (
	"forward-renderer/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

func (c Color) Vec4() math.Vec4 {
	return math.Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}
}

// Vertex is the interleaved layout shared by every mesh. Backends derive
// attribute offsets from this struct, so field order is part of the GPU
// contract.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Tangent  math.Vec3
}

// MeshData is decoded, CPU-side geometry ready for buffer creation.
type MeshData struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Bounds returns the local-space bounding box of the vertices. Empty data
// yields a zero box.
func (d MeshData) Bounds() (lo, hi math.Vec3) {
	if len(d.Vertices) == 0 {
		return math.Vec3Zero, math.Vec3Zero
	}
	lo, hi = d.Vertices[0].Position, d.Vertices[0].Position
	for _, v := range d.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	return lo, hi
}

// FlipHandedness converts right-handed data (OBJ, glTF) into the renderer's
// left-handed frame: Z is negated and triangle winding reversed.
func (d *MeshData) FlipHandedness() {
	for i := range d.Vertices {
		d.Vertices[i].Position.Z = -d.Vertices[i].Position.Z
		d.Vertices[i].Normal.Z = -d.Vertices[i].Normal.Z
		d.Vertices[i].Tangent.Z = -d.Vertices[i].Tangent.Z
	}
	for i := 0; i+2 < len(d.Indices); i += 3 {
		d.Indices[i+1], d.Indices[i+2] = d.Indices[i+2], d.Indices[i+1]
	}
}

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// FullViewport covers a width x height surface with the [0, 1] depth range.
func FullViewport(width, height int) Viewport {
	return Viewport{Width: float32(width), Height: float32(height), MinDepth: 0, MaxDepth: 1}
}
