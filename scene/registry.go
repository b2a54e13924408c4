package scene

import (
	"fmt"
	"image"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

// Handles index into a Registry. Zero is never a valid handle.
type (
	MeshHandle     uint32
	MaterialHandle uint32
	TextureHandle  uint32
	SamplerHandle  uint32
)

// Registry exclusively owns every mesh, material, texture, sampler and shader
// of a scene. Entities and materials refer to its contents by handle.
type Registry struct {
	device gpu.Device

	meshes    []*Mesh
	materials []*Material
	textures  []gpu.TextureView
	samplers  []gpu.SamplerState
	shaders   []gpu.Resource
}

func NewRegistry(device gpu.Device) *Registry {
	return &Registry{device: device}
}

func (r *Registry) Device() gpu.Device { return r.device }

func (r *Registry) CreateMesh(data core.MeshData) (MeshHandle, error) {
	m, err := NewMesh(r.device, data)
	if err != nil {
		return 0, err
	}
	r.meshes = append(r.meshes, m)
	return MeshHandle(len(r.meshes)), nil
}

func (r *Registry) AddMaterial(m *Material) MaterialHandle {
	r.materials = append(r.materials, m)
	return MaterialHandle(len(r.materials))
}

// CreateTexture uploads img as a 2D texture, converting it to RGBA first if
// needed.
func (r *Registry) CreateTexture(label string, img image.Image) (TextureHandle, error) {
	view, err := r.device.CreateTexture2D(label, toRGBA(img))
	if err != nil {
		return 0, fmt.Errorf("texture %q: %w", label, err)
	}
	return r.AddTexture(view), nil
}

// AddTexture takes ownership of an already created view.
func (r *Registry) AddTexture(view gpu.TextureView) TextureHandle {
	r.textures = append(r.textures, view)
	return TextureHandle(len(r.textures))
}

func (r *Registry) CreateSampler(label string, desc gpu.SamplerDesc) (SamplerHandle, error) {
	s, err := r.device.CreateSamplerState(label, desc)
	if err != nil {
		return 0, fmt.Errorf("sampler %q: %w", label, err)
	}
	r.samplers = append(r.samplers, s)
	return SamplerHandle(len(r.samplers)), nil
}

func (r *Registry) CreateVertexShader(label string, code []byte) (gpu.VertexShader, error) {
	vs, err := r.device.CreateVertexShader(label, code)
	if err != nil {
		return nil, fmt.Errorf("vertex shader %q: %w", label, err)
	}
	r.shaders = append(r.shaders, vs)
	return vs, nil
}

func (r *Registry) CreatePixelShader(label string, code []byte) (gpu.PixelShader, error) {
	ps, err := r.device.CreatePixelShader(label, code)
	if err != nil {
		return nil, fmt.Errorf("pixel shader %q: %w", label, err)
	}
	r.shaders = append(r.shaders, ps)
	return ps, nil
}

func (r *Registry) Mesh(h MeshHandle) (*Mesh, bool) {
	if h == 0 || int(h) > len(r.meshes) {
		return nil, false
	}
	return r.meshes[h-1], true
}

func (r *Registry) Material(h MaterialHandle) (*Material, bool) {
	if h == 0 || int(h) > len(r.materials) {
		return nil, false
	}
	return r.materials[h-1], true
}

func (r *Registry) Texture(h TextureHandle) (gpu.TextureView, bool) {
	if h == 0 || int(h) > len(r.textures) {
		return nil, false
	}
	return r.textures[h-1], true
}

func (r *Registry) Sampler(h SamplerHandle) (gpu.SamplerState, bool) {
	if h == 0 || int(h) > len(r.samplers) {
		return nil, false
	}
	return r.samplers[h-1], true
}

func (r *Registry) MeshCount() int     { return len(r.meshes) }
func (r *Registry) MaterialCount() int { return len(r.materials) }
func (r *Registry) TextureCount() int  { return len(r.textures) }
func (r *Registry) SamplerCount() int  { return len(r.samplers) }

// Release frees every GPU resource the registry owns. Handles are invalid
// afterwards.
func (r *Registry) Release() {
	for _, m := range r.meshes {
		m.Release()
	}
	for _, t := range r.textures {
		t.Release()
	}
	for _, s := range r.samplers {
		s.Release()
	}
	for _, s := range r.shaders {
		s.Release()
	}
	r.meshes, r.materials, r.textures, r.samplers, r.shaders = nil, nil, nil, nil, nil
}
