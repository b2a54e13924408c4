// Package gpu declares the contracts the renderer core consumes: a Device
// that creates resources, a Context that binds state and draws, a SwapChain
// that presents, and the named-parameter interface of compiled shaders.
//
// Creation calls return errors and are expected only during setup. Per-frame
// calls on Context have no error path.
package gpu

import (
	"image"

	"forward-renderer/core"
	"forward-renderer/math"
)

// Resource is implemented by every object a Device hands out.
type Resource interface {
	Label() string
	Release()
}

type Buffer interface {
	Resource
	Kind() BufferKind
	// Len is the element count: vertices or indices.
	Len() int
}

// TextureView is a shader-readable view of a texture.
type TextureView interface {
	Resource
	Dimension() TextureDimension
}

type RenderTargetView interface {
	Resource
	Size() (width, height int)
}

type DepthStencilView interface {
	Resource
	DepthSize() (width, height int)
}

type SamplerState interface {
	Resource
	SamplerDesc() SamplerDesc
}

type RasterizerState interface {
	Resource
	RasterizerDesc() RasterizerDesc
}

type DepthStencilState interface {
	Resource
	DepthStencilDesc() DepthStencilDesc
}

// ShaderParams sets named shader constants and resource bindings. Every
// setter reports whether the active shader declares the name; an unknown
// name is a no-op. Constants are staged until CopyAllBufferData.
type ShaderParams interface {
	SetMatrix4x4(name string, m math.Mat4) bool
	SetFloat(name string, v float32) bool
	SetFloat2(name string, v math.Vec2) bool
	SetFloat3(name string, v math.Vec3) bool
	SetFloat4(name string, v math.Vec4) bool
	SetInt(name string, v int32) bool
	// SetData uploads a fixed-size value (see LightBlock) to a named block.
	SetData(name string, data any) bool
	SetShaderResourceView(name string, view TextureView) bool
	SetSamplerState(name string, sampler SamplerState) bool
	CopyAllBufferData()
}

type VertexShader interface {
	Resource
	ShaderParams
	Stage() ShaderStage
}

type PixelShader interface {
	Resource
	ShaderParams
	Stage() ShaderStage
}

type Device interface {
	CreateVertexBuffer(label string, vertices []core.Vertex) (Buffer, error)
	CreateIndexBuffer(label string, indices []uint32) (Buffer, error)
	CreateTexture2D(label string, img *image.RGBA) (TextureView, error)
	// CreateTextureCube takes faces in +X, -X, +Y, -Y, +Z, -Z order; all
	// faces must be square and the same size.
	CreateTextureCube(label string, faces [6]*image.RGBA) (TextureView, error)
	// CreateDepthTarget returns a size x size depth target together with a
	// view that lets shaders sample it.
	CreateDepthTarget(label string, size int) (DepthStencilView, TextureView, error)
	CreateSamplerState(label string, desc SamplerDesc) (SamplerState, error)
	CreateRasterizerState(label string, desc RasterizerDesc) (RasterizerState, error)
	CreateDepthStencilState(label string, desc DepthStencilDesc) (DepthStencilState, error)
	CreateVertexShader(label string, code []byte) (VertexShader, error)
	CreatePixelShader(label string, code []byte) (PixelShader, error)
}

// Context issues commands on the single render thread. Passing nil to a
// state setter restores the backend default; a nil color target binds a
// depth-only target; a nil pixel shader disables the fragment stage.
type Context interface {
	SetRenderTargets(color RenderTargetView, depth DepthStencilView)
	SetViewport(vp core.Viewport)
	ClearRenderTarget(target RenderTargetView, color core.Color)
	ClearDepth(target DepthStencilView, depth float32)
	SetRasterizerState(state RasterizerState)
	SetDepthStencilState(state DepthStencilState)
	SetPrimitiveTopology(t Topology)
	SetVertexBuffer(b Buffer)
	SetIndexBuffer(b Buffer)
	SetVertexShader(vs VertexShader)
	SetPixelShader(ps PixelShader)
	// UnbindShaderResources detaches every texture bound for reading so the
	// same resource can be bound as a target.
	UnbindShaderResources()
	DrawIndexed(indexCount, startIndex, baseVertex int)
}

type SwapChain interface {
	BackBuffer() RenderTargetView
	DepthBuffer() DepthStencilView
	Size() (width, height int)
	Resize(width, height int) error
	Present(vsync bool)
}
