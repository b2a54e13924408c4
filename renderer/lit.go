package renderer

import (
	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/scene"
)

const LitPassName = "lit"

// LitPass draws every entity with its material, sampling the shadow map
// produced earlier in the frame.
type LitPass struct {
	clearColor core.Color
	cull       bool
	shadow     *ShadowPass
	bindings   *bindingLog
}

func NewLitPass(cfg Config, shadow *ShadowPass) *LitPass {
	return &LitPass{
		clearColor: cfg.ClearColor,
		cull:       cfg.FrustumCulling,
		shadow:     shadow,
	}
}

func (lp *LitPass) Name() string { return LitPassName }

func (lp *LitPass) Bind(f *Frame) {
	ctx := f.Context
	ctx.ClearRenderTarget(f.SwapChain.BackBuffer(), lp.clearColor)
	ctx.ClearDepth(f.SwapChain.DepthBuffer(), 1)
	ctx.SetPrimitiveTopology(gpu.TriangleList)
}

func (lp *LitPass) Execute(f *Frame) int {
	reg := f.Scene.Registry
	draws := 0
	for _, e := range f.Scene.Entities() {
		mesh, mat, ok := drawable(reg, e)
		if !ok {
			continue
		}
		world := e.Transform.WorldMatrix()
		if lp.cull && !mesh.Bounds().Transform(world).IntersectsFrustum(&f.Frustum) {
			f.Culled++
			continue
		}

		// Each entity sets its full state, so nothing leaks in from
		// whatever ran before it.
		vs, ps := mat.VertexShader, mat.PixelShader
		f.Context.SetRasterizerState(nil)
		f.Context.SetDepthStencilState(nil)
		f.Context.SetPrimitiveTopology(gpu.TriangleList)
		f.Context.SetVertexShader(vs)
		f.Context.SetPixelShader(ps)

		lp.vertexConstants(f, vs, &e.Transform)
		lp.pixelConstants(f, ps, mat)

		vs.CopyAllBufferData()
		ps.CopyAllBufferData()
		mesh.Draw(f.Context)
		draws++
	}
	return draws
}

func (lp *LitPass) Unbind(f *Frame) {}

func (lp *LitPass) vertexConstants(f *Frame, vs gpu.VertexShader, t *scene.Transform) {
	b := lp.bindings
	b.check(vs, "world", vs.SetMatrix4x4("world", t.WorldMatrix()))
	b.check(vs, "worldInverseTranspose", vs.SetMatrix4x4("worldInverseTranspose", t.WorldInverseTransposeMatrix()))
	b.check(vs, "view", vs.SetMatrix4x4("view", f.View))
	b.check(vs, "projection", vs.SetMatrix4x4("projection", f.Projection))
	b.check(vs, "lightView", vs.SetMatrix4x4("lightView", lp.shadow.LightView()))
	b.check(vs, "lightProjection", vs.SetMatrix4x4("lightProjection", lp.shadow.LightProjection()))
}

func (lp *LitPass) pixelConstants(f *Frame, ps gpu.PixelShader, mat *scene.Material) {
	b := lp.bindings
	b.check(ps, "cameraPosition", ps.SetFloat3("cameraPosition", f.CameraPosition))
	b.check(ps, "ambientColor", ps.SetFloat3("ambientColor", f.Scene.Ambient.Vec3()))
	b.check(ps, "lights", ps.SetData("lights", f.Lights))
	b.check(ps, "shadowMap", ps.SetShaderResourceView("shadowMap", lp.shadow.DepthView()))
	b.check(ps, "shadowSampler", ps.SetSamplerState("shadowSampler", lp.shadow.Sampler()))
	if missing := mat.SetMaps(ps, f.Scene.Registry); len(missing) > 0 {
		b.missing(ps, missing...)
	}
}
