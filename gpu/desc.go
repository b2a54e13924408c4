package gpu

type BufferKind int

const (
	VertexBufferKind BufferKind = iota
	IndexBufferKind
)

type TextureDimension int

const (
	Texture2D TextureDimension = iota
	TextureCube
	TextureDepth
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	PixelStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "pixel"
}

type Topology int

const (
	TriangleList Topology = iota
	LineList
)

type Filter int

const (
	FilterLinear Filter = iota
	FilterPoint
	FilterAnisotropic
)

type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressBorder
)

type ComparisonFunc int

const (
	ComparisonNever ComparisonFunc = iota
	ComparisonLess
	ComparisonLessEqual
	ComparisonAlways
)

// SamplerDesc describes a texture sampler. A Comparison other than
// ComparisonNever makes it a comparison sampler returning filtered
// pass/fail against a reference depth.
type SamplerDesc struct {
	Filter        Filter
	AddressU      AddressMode
	AddressV      AddressMode
	AddressW      AddressMode
	BorderColor   [4]float32
	Comparison    ComparisonFunc
	MaxAnisotropy int
}

func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		Filter:        FilterAnisotropic,
		AddressU:      AddressWrap,
		AddressV:      AddressWrap,
		AddressW:      AddressWrap,
		MaxAnisotropy: 16,
	}
}

type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// RasterizerDesc follows the D3D convention: clockwise triangles are front
// facing and DepthBias is in units of the smallest depth increment.
type RasterizerDesc struct {
	Cull                 CullMode
	Wireframe            bool
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32
}

type DepthStencilDesc struct {
	DepthEnable bool
	DepthWrite  bool
	DepthFunc   ComparisonFunc
}

func DefaultDepthStencilDesc() DepthStencilDesc {
	return DepthStencilDesc{DepthEnable: true, DepthWrite: true, DepthFunc: ComparisonLess}
}
