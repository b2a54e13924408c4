package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

var vertexStride = int(unsafe.Sizeof(core.Vertex{}))

// Buffer is an immutable GL buffer object.
type Buffer struct {
	label string
	id    uint32
	kind  gpu.BufferKind
	n     int
}

func (b *Buffer) Label() string        { return b.label }
func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Len() int             { return b.n }

func (b *Buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// bindVertexLayout points the attributes of the bound VAO at the bound
// ARRAY_BUFFER: position 0, normal 1, uv 2, tangent 3.
func bindVertexLayout() {
	var v core.Vertex
	stride := int32(vertexStride)
	attribs := []struct {
		loc    uint32
		size   int32
		offset uintptr
	}{
		{0, 3, unsafe.Offsetof(v.Position)},
		{1, 3, unsafe.Offsetof(v.Normal)},
		{2, 2, unsafe.Offsetof(v.UV)},
		{3, 3, unsafe.Offsetof(v.Tangent)},
	}
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.loc)
		gl.VertexAttribPointer(a.loc, a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}
}
