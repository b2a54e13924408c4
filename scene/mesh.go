package scene

import (
	"fmt"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

// Mesh owns an immutable vertex buffer and index buffer. It is shared by
// handle between entities and never changes after creation.
type Mesh struct {
	Name string

	vb          gpu.Buffer
	ib          gpu.Buffer
	indexCount  int
	vertexCount int
	bounds      AABB
}

// NewMesh uploads data to the device. Empty data yields ErrEmptyMesh.
func NewMesh(device gpu.Device, data core.MeshData) (*Mesh, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q: %w", data.Name, ErrEmptyMesh)
	}

	vb, err := device.CreateVertexBuffer(data.Name+".vb", data.Vertices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: vertex buffer: %w", data.Name, err)
	}
	ib, err := device.CreateIndexBuffer(data.Name+".ib", data.Indices)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %q: index buffer: %w", data.Name, err)
	}

	lo, hi := data.Bounds()
	return &Mesh{
		Name:        data.Name,
		vb:          vb,
		ib:          ib,
		indexCount:  len(data.Indices),
		vertexCount: len(data.Vertices),
		bounds:      AABB{Min: lo, Max: hi},
	}, nil
}

func (m *Mesh) IndexCount() int  { return m.indexCount }
func (m *Mesh) VertexCount() int { return m.vertexCount }

// Bounds is the local-space bounding box.
func (m *Mesh) Bounds() AABB { return m.bounds }

func (m *Mesh) VertexBuffer() gpu.Buffer { return m.vb }
func (m *Mesh) IndexBuffer() gpu.Buffer  { return m.ib }

// Draw binds the mesh's buffers and issues one indexed draw over all
// indices. Shaders and constants must already be bound.
func (m *Mesh) Draw(ctx gpu.Context) {
	ctx.SetVertexBuffer(m.vb)
	ctx.SetIndexBuffer(m.ib)
	ctx.DrawIndexed(m.indexCount, 0, 0)
}

func (m *Mesh) Release() {
	m.vb.Release()
	m.ib.Release()
}
