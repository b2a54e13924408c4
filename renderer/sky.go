package renderer

import (
	"fmt"
	"image"

	"forward-renderer/gpu"
	"forward-renderer/scene"
)

const SkyPassName = "sky"

// Sky is the environment backdrop: a cube mesh drawn around the camera
// with a cube texture. The vertex shader is expected to push the cube to the
// far plane.
type Sky struct {
	mesh       *scene.Mesh
	cube       gpu.TextureView
	sampler    gpu.SamplerState
	rasterizer gpu.RasterizerState
	depthState gpu.DepthStencilState
	vs         gpu.VertexShader
	ps         gpu.PixelShader
}

// NewSky uploads the six faces (+X, -X, +Y, -Y, +Z, -Z) and creates the
// states the sky pass needs: front-face culling, since the camera sits
// inside the cube, and a LESS_EQUAL depth test so far-plane depth passes.
func NewSky(device gpu.Device, faces [6]*image.RGBA, vsCode, psCode []byte) (*Sky, error) {
	s := &Sky{}
	var err error

	cube := scene.CreateCube(1)
	cube.Name = "sky"
	if s.mesh, err = scene.NewMesh(device, cube); err != nil {
		return nil, fmt.Errorf("sky mesh: %w", err)
	}
	if s.cube, err = device.CreateTextureCube("sky.cube", faces); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky texture: %w", err)
	}
	if s.sampler, err = device.CreateSamplerState("sky.sampler", gpu.SamplerDesc{
		Filter:   gpu.FilterLinear,
		AddressU: gpu.AddressClamp,
		AddressV: gpu.AddressClamp,
		AddressW: gpu.AddressClamp,
	}); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky sampler: %w", err)
	}
	if s.rasterizer, err = device.CreateRasterizerState("sky.rasterizer", gpu.RasterizerDesc{Cull: gpu.CullFront}); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky rasterizer: %w", err)
	}
	if s.depthState, err = device.CreateDepthStencilState("sky.depth", gpu.DepthStencilDesc{
		DepthEnable: true,
		DepthWrite:  true,
		DepthFunc:   gpu.ComparisonLessEqual,
	}); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky depth state: %w", err)
	}
	if s.vs, err = device.CreateVertexShader("sky.vs", vsCode); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky vertex shader: %w", err)
	}
	if s.ps, err = device.CreatePixelShader("sky.ps", psCode); err != nil {
		s.Release()
		return nil, fmt.Errorf("sky pixel shader: %w", err)
	}
	return s, nil
}

func (s *Sky) Release() {
	if s.mesh != nil {
		s.mesh.Release()
	}
	for _, r := range []gpu.Resource{s.cube, s.sampler, s.rasterizer, s.depthState, s.vs, s.ps} {
		if r != nil {
			r.Release()
		}
	}
}

// SkyPass draws the Sky after opaque geometry.
type SkyPass struct {
	sky      *Sky
	bindings *bindingLog
}

func NewSkyPass(sky *Sky) *SkyPass {
	return &SkyPass{sky: sky}
}

func (sp *SkyPass) Name() string { return SkyPassName }

func (sp *SkyPass) Bind(f *Frame) {
	f.Context.SetRasterizerState(sp.sky.rasterizer)
	f.Context.SetDepthStencilState(sp.sky.depthState)
}

func (sp *SkyPass) Execute(f *Frame) int {
	s := sp.sky
	ctx := f.Context
	ctx.SetVertexShader(s.vs)
	ctx.SetPixelShader(s.ps)

	b := sp.bindings
	b.check(s.vs, "view", s.vs.SetMatrix4x4("view", f.View))
	b.check(s.vs, "projection", s.vs.SetMatrix4x4("projection", f.Projection))
	b.check(s.ps, "skybox", s.ps.SetShaderResourceView("skybox", s.cube))
	b.check(s.ps, "samplerState", s.ps.SetSamplerState("samplerState", s.sampler))
	s.vs.CopyAllBufferData()
	s.ps.CopyAllBufferData()

	s.mesh.Draw(ctx)
	return 1
}

func (sp *SkyPass) Unbind(f *Frame) {
	f.Context.SetRasterizerState(nil)
	f.Context.SetDepthStencilState(nil)
}
