// Package opengl implements the gpu contracts on OpenGL 4.1 core.
//
// Clip space follows the D3D convention used by the math package: depth is
// in [0, 1] and clockwise triangles face front. Shaders must remap depth
// with gl_Position.z = gl_Position.z * 2.0 - gl_Position.w.
//
// Every call must happen on the thread that owns the GL context.
package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/logger"
)

// Device creates GL objects. It also hands out the uniform-block binding
// points shared by all programs.
type Device struct {
	log         *zap.Logger
	nextBinding uint32
	version     string
	renderer    string
}

// NewDevice loads the GL entry points. The context must already be current.
func NewDevice(log *zap.Logger) (*Device, error) {
	log = logger.OrNop(log)
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{
		log:      log,
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	log.Info("OpenGL initialized", zap.String("version", d.version), zap.String("renderer", d.renderer))
	return d, nil
}

func (d *Device) Version() string  { return d.version }
func (d *Device) Renderer() string { return d.renderer }

func (d *Device) CreateVertexBuffer(label string, vertices []core.Vertex) (gpu.Buffer, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("vertex buffer %q: no vertices", label)
	}
	b := &Buffer{label: label, kind: gpu.VertexBufferKind, n: len(vertices)}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexStride, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := glError("vertex buffer " + label); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (d *Device) CreateIndexBuffer(label string, indices []uint32) (gpu.Buffer, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("index buffer %q: no indices", label)
	}
	b := &Buffer{label: label, kind: gpu.IndexBufferKind, n: len(indices)}
	gl.GenBuffers(1, &b.id)
	// Element buffers attach to the bound VAO; upload through COPY_WRITE
	// so the context's VAO is not touched.
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if err := glError("index buffer " + label); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (d *Device) CreateTexture2D(label string, img *image.RGBA) (gpu.TextureView, error) {
	t, err := newTexture2D(label, img)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) CreateTextureCube(label string, faces [6]*image.RGBA) (gpu.TextureView, error) {
	t, err := newTextureCube(label, faces)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) CreateDepthTarget(label string, size int) (gpu.DepthStencilView, gpu.TextureView, error) {
	dt, err := newDepthTarget(label, size)
	if err != nil {
		return nil, nil, err
	}
	return dt, dt.view, nil
}

func (d *Device) CreateSamplerState(label string, desc gpu.SamplerDesc) (gpu.SamplerState, error) {
	s, err := newSampler(label, desc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Device) CreateRasterizerState(label string, desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	return &RasterizerState{label: label, desc: desc}, nil
}

func (d *Device) CreateDepthStencilState(label string, desc gpu.DepthStencilDesc) (gpu.DepthStencilState, error) {
	return &DepthStencilState{label: label, desc: desc}, nil
}

func (d *Device) CreateVertexShader(label string, code []byte) (gpu.VertexShader, error) {
	s, err := d.newShader(label, gpu.VertexStage, code)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Device) CreatePixelShader(label string, code []byte) (gpu.PixelShader, error) {
	s, err := d.newShader(label, gpu.PixelStage, code)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// glError drains the GL error queue and reports the first error.
func glError(what string) error {
	var first uint32
	for {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = e
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: GL error 0x%X", what, first)
	}
	return nil
}
