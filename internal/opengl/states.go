package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

// GL_TEXTURE_MAX_ANISOTROPY, core in 4.6 and universally exposed as
// EXT_texture_filter_anisotropic before that.
const textureMaxAnisotropy = 0x84FE

// Sampler wraps a GL sampler object.
type Sampler struct {
	label string
	id    uint32
	desc  gpu.SamplerDesc
}

func (s *Sampler) Label() string                { return s.label }
func (s *Sampler) SamplerDesc() gpu.SamplerDesc { return s.desc }

func (s *Sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

func newSampler(label string, desc gpu.SamplerDesc) (*Sampler, error) {
	s := &Sampler{label: label, desc: desc}
	gl.GenSamplers(1, &s.id)

	switch desc.Filter {
	case gpu.FilterPoint:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	default:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	if desc.Filter == gpu.FilterAnisotropic && desc.MaxAnisotropy > 1 {
		gl.SamplerParameterf(s.id, textureMaxAnisotropy, float32(desc.MaxAnisotropy))
	}
	// Comparison samplers read single-level depth textures.
	if desc.Comparison != gpu.ComparisonNever {
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.Comparison)))
	}

	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, addressMode(desc.AddressU))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, addressMode(desc.AddressV))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, addressMode(desc.AddressW))
	border := desc.BorderColor
	gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &border[0])

	if err := glError("sampler " + label); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func addressMode(m gpu.AddressMode) int32 {
	switch m {
	case gpu.AddressClamp:
		return gl.CLAMP_TO_EDGE
	case gpu.AddressBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func compareFunc(f gpu.ComparisonFunc) uint32 {
	switch f {
	case gpu.ComparisonLess:
		return gl.LESS
	case gpu.ComparisonLessEqual:
		return gl.LEQUAL
	case gpu.ComparisonAlways:
		return gl.ALWAYS
	default:
		return gl.NEVER
	}
}

// RasterizerState and DepthStencilState have no GL object; the context
// applies their descriptors when they are bound.
type RasterizerState struct {
	label string
	desc  gpu.RasterizerDesc
}

func (r *RasterizerState) Label() string                      { return r.label }
func (r *RasterizerState) Release()                           {}
func (r *RasterizerState) RasterizerDesc() gpu.RasterizerDesc { return r.desc }

type DepthStencilState struct {
	label string
	desc  gpu.DepthStencilDesc
}

func (d *DepthStencilState) Label() string                          { return d.label }
func (d *DepthStencilState) Release()                               {}
func (d *DepthStencilState) DepthStencilDesc() gpu.DepthStencilDesc { return d.desc }

func applyRasterizer(desc gpu.RasterizerDesc) {
	gl.FrontFace(gl.CW)
	switch desc.Cull {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	if desc.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	// GL has no bias clamp in 4.1; DepthBiasClamp is ignored.
	if desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(desc.SlopeScaledDepthBias, float32(desc.DepthBias))
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
}

func applyDepthStencil(desc gpu.DepthStencilDesc) {
	if desc.DepthEnable {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(compareFunc(desc.DepthFunc))
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(desc.DepthWrite)
}
