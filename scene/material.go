package scene

import (
	"forward-renderer/gpu"
	"forward-renderer/math"
)

type textureBinding struct {
	name   string
	handle TextureHandle
}

type samplerBinding struct {
	name   string
	handle SamplerHandle
}

// Material is a shader pair plus the surface parameters and named
// texture/sampler bindings applied before each draw. It holds no GPU
// resources of its own and may be shared by any number of entities.
type Material struct {
	Name         string
	ColorTint    math.Vec4
	Roughness    float32 // 0 = smooth, 1 = rough
	UVScale      math.Vec2
	UVOffset     math.Vec2
	VertexShader gpu.VertexShader
	PixelShader  gpu.PixelShader

	textures []textureBinding
	samplers []samplerBinding
}

// NewMaterial creates a white, half-rough material with an identity UV
// transform.
func NewMaterial(name string, vs gpu.VertexShader, ps gpu.PixelShader) *Material {
	return &Material{
		Name:         name,
		ColorTint:    math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		Roughness:    0.5,
		UVScale:      math.Vec2One,
		VertexShader: vs,
		PixelShader:  ps,
	}
}

// SetTexture binds a texture under name. Rebinding an existing name replaces
// the handle in place.
func (m *Material) SetTexture(name string, h TextureHandle) {
	for i := range m.textures {
		if m.textures[i].name == name {
			m.textures[i].handle = h
			return
		}
	}
	m.textures = append(m.textures, textureBinding{name, h})
}

// SetSampler binds a sampler under name with the same replace semantics as
// SetTexture.
func (m *Material) SetSampler(name string, h SamplerHandle) {
	for i := range m.samplers {
		if m.samplers[i].name == name {
			m.samplers[i].handle = h
			return
		}
	}
	m.samplers = append(m.samplers, samplerBinding{name, h})
}

// TextureNames returns the bound texture names in insertion order.
func (m *Material) TextureNames() []string {
	names := make([]string, len(m.textures))
	for i, b := range m.textures {
		names[i] = b.name
	}
	return names
}

func (m *Material) SamplerNames() []string {
	names := make([]string, len(m.samplers))
	for i, b := range m.samplers {
		names[i] = b.name
	}
	return names
}

// SetMaps applies the surface parameters and every binding to ps. It
// returns the names ps does not declare or whose handle is not in reg; those
// bindings are skipped.
func (m *Material) SetMaps(ps gpu.ShaderParams, reg *Registry) (missing []string) {
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}

	check("colorTint", ps.SetFloat4("colorTint", m.ColorTint))
	check("roughness", ps.SetFloat("roughness", m.Roughness))
	check("uvScale", ps.SetFloat2("uvScale", m.UVScale))
	check("uvOffset", ps.SetFloat2("uvOffset", m.UVOffset))

	for _, b := range m.textures {
		view, ok := reg.Texture(b.handle)
		if ok {
			ok = ps.SetShaderResourceView(b.name, view)
		}
		check(b.name, ok)
	}
	for _, b := range m.samplers {
		s, ok := reg.Sampler(b.handle)
		if ok {
			ok = ps.SetSamplerState(b.name, s)
		}
		check(b.name, ok)
	}
	return missing
}
