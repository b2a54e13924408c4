package renderer

import (
	"fmt"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

const ShadowPassName = "shadow"

// ShadowPass renders scene depth from the configured light into a square
// depth target. Only the vertex stage runs; no color target is bound.
type ShadowPass struct {
	size       int
	depth      gpu.DepthStencilView
	view       gpu.TextureView
	sampler    gpu.SamplerState
	rasterizer gpu.RasterizerState
	vs         gpu.VertexShader

	lightView       math.Mat4
	lightProjection math.Mat4

	bindings *bindingLog
}

// NewShadowPass creates the depth target, its comparison sampler, the biased
// rasterizer and the depth-only vertex shader. Any failure releases what was
// already created.
func NewShadowPass(device gpu.Device, cfg Config, vsCode []byte) (*ShadowPass, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp := &ShadowPass{
		size:            cfg.ShadowMapSize,
		lightView:       cfg.LightView(),
		lightProjection: cfg.LightProjection(),
	}

	var err error
	sp.depth, sp.view, err = device.CreateDepthTarget("shadow.depth", cfg.ShadowMapSize)
	if err != nil {
		return nil, fmt.Errorf("shadow depth target: %w", err)
	}

	sp.sampler, err = device.CreateSamplerState("shadow.sampler", gpu.SamplerDesc{
		Filter:      gpu.FilterLinear,
		AddressU:    gpu.AddressBorder,
		AddressV:    gpu.AddressBorder,
		AddressW:    gpu.AddressBorder,
		BorderColor: [4]float32{1, 1, 1, 1},
		Comparison:  gpu.ComparisonLessEqual,
	})
	if err != nil {
		sp.Release()
		return nil, fmt.Errorf("shadow sampler: %w", err)
	}

	sp.rasterizer, err = device.CreateRasterizerState("shadow.rasterizer", gpu.RasterizerDesc{
		Cull:                 gpu.CullBack,
		DepthBias:            cfg.DepthBias,
		SlopeScaledDepthBias: cfg.SlopeScaledDepthBias,
		DepthBiasClamp:       cfg.DepthBiasClamp,
	})
	if err != nil {
		sp.Release()
		return nil, fmt.Errorf("shadow rasterizer: %w", err)
	}

	sp.vs, err = device.CreateVertexShader("shadow.vs", vsCode)
	if err != nil {
		sp.Release()
		return nil, fmt.Errorf("shadow vertex shader: %w", err)
	}
	return sp, nil
}

func (sp *ShadowPass) Name() string { return ShadowPassName }

func (sp *ShadowPass) LightView() math.Mat4       { return sp.lightView }
func (sp *ShadowPass) LightProjection() math.Mat4 { return sp.lightProjection }

// DepthView is the shader-readable view of the shadow map.
func (sp *ShadowPass) DepthView() gpu.TextureView { return sp.view }
func (sp *ShadowPass) Sampler() gpu.SamplerState  { return sp.sampler }

func (sp *ShadowPass) Bind(f *Frame) {
	ctx := f.Context
	// The lit pass of the previous frame left the map bound for reading.
	ctx.UnbindShaderResources()
	ctx.SetRenderTargets(nil, sp.depth)
	ctx.SetViewport(core.FullViewport(sp.size, sp.size))
	ctx.ClearDepth(sp.depth, 1)

	ctx.SetRasterizerState(sp.rasterizer)
	ctx.SetVertexShader(sp.vs)
	ctx.SetPixelShader(nil)

	sp.bindings.check(sp.vs, "view", sp.vs.SetMatrix4x4("view", sp.lightView))
	sp.bindings.check(sp.vs, "projection", sp.vs.SetMatrix4x4("projection", sp.lightProjection))
}

func (sp *ShadowPass) Execute(f *Frame) int {
	reg := f.Scene.Registry
	draws := 0
	for _, e := range f.Scene.Entities() {
		mesh, _, ok := drawable(reg, e)
		if !ok {
			continue
		}
		sp.bindings.check(sp.vs, "world", sp.vs.SetMatrix4x4("world", e.Transform.WorldMatrix()))
		sp.vs.CopyAllBufferData()
		mesh.Draw(f.Context)
		draws++
	}
	return draws
}

// Unbind returns to the swap chain's targets and the default rasterizer.
func (sp *ShadowPass) Unbind(f *Frame) {
	ctx := f.Context
	w, h := f.SwapChain.Size()
	ctx.SetRenderTargets(f.SwapChain.BackBuffer(), f.SwapChain.DepthBuffer())
	ctx.SetViewport(core.FullViewport(w, h))
	ctx.SetRasterizerState(nil)
}

// Release frees the pass's GPU resources. It is safe on a partially
// constructed pass.
func (sp *ShadowPass) Release() {
	for _, r := range []gpu.Resource{sp.depth, sp.view, sp.sampler, sp.rasterizer, sp.vs} {
		if r != nil {
			r.Release()
		}
	}
}
