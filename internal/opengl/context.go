package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

// Context issues draw commands through one VAO and one program pipeline.
// Shader stages are swapped on the pipeline; the vertex layout is
// re-pointed whenever a vertex buffer is bound.
type Context struct {
	vao      uint32
	pipeline uint32
	mode     uint32
	fbo      uint32
	depth    gpu.DepthStencilDesc
}

// NewContext creates the context objects and applies the default state.
func NewContext() *Context {
	c := &Context{mode: gl.TRIANGLES}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenProgramPipelines(1, &c.pipeline)
	gl.UseProgram(0)
	gl.BindProgramPipeline(c.pipeline)

	c.SetRasterizerState(nil)
	c.SetDepthStencilState(nil)
	return c
}

func (c *Context) Release() {
	if c.pipeline != 0 {
		gl.DeleteProgramPipelines(1, &c.pipeline)
		c.pipeline = 0
	}
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

func framebufferOf(depth gpu.DepthStencilView) uint32 {
	if dt, ok := depth.(*DepthTarget); ok {
		return dt.fbo
	}
	return 0
}

func (c *Context) bindFramebuffer(fbo uint32) {
	if c.fbo != fbo {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
		c.fbo = fbo
	}
}

// SetRenderTargets binds the default framebuffer unless color is nil and
// depth is an offscreen depth target.
func (c *Context) SetRenderTargets(color gpu.RenderTargetView, depth gpu.DepthStencilView) {
	if color == nil {
		c.bindFramebuffer(framebufferOf(depth))
		return
	}
	c.bindFramebuffer(0)
}

func (c *Context) SetViewport(vp core.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
}

func (c *Context) ClearRenderTarget(target gpu.RenderTargetView, color core.Color) {
	prev := c.fbo
	c.bindFramebuffer(0)
	gl.ColorMask(true, true, true, true)
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	c.bindFramebuffer(prev)
}

func (c *Context) ClearDepth(target gpu.DepthStencilView, depth float32) {
	prev := c.fbo
	c.bindFramebuffer(framebufferOf(target))
	gl.DepthMask(true)
	gl.ClearDepthf(depth)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.DepthMask(c.depth.DepthWrite)
	c.bindFramebuffer(prev)
}

func (c *Context) SetRasterizerState(state gpu.RasterizerState) {
	desc := gpu.RasterizerDesc{Cull: gpu.CullBack}
	if state != nil {
		desc = state.RasterizerDesc()
	}
	applyRasterizer(desc)
}

func (c *Context) SetDepthStencilState(state gpu.DepthStencilState) {
	c.depth = gpu.DefaultDepthStencilDesc()
	if state != nil {
		c.depth = state.DepthStencilDesc()
	}
	applyDepthStencil(c.depth)
}

func (c *Context) SetPrimitiveTopology(t gpu.Topology) {
	if t == gpu.LineList {
		c.mode = gl.LINES
		return
	}
	c.mode = gl.TRIANGLES
}

func (c *Context) SetVertexBuffer(b gpu.Buffer) {
	buf, _ := b.(*Buffer)
	if buf == nil {
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.id)
	bindVertexLayout()
}

func (c *Context) SetIndexBuffer(b gpu.Buffer) {
	var id uint32
	if buf, _ := b.(*Buffer); buf != nil {
		id = buf.id
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
}

func (c *Context) useStage(bit uint32, s *Shader) {
	var prog uint32
	if s != nil {
		prog = s.prog
	}
	gl.UseProgramStages(c.pipeline, bit, prog)
}

func (c *Context) SetVertexShader(vs gpu.VertexShader) {
	s, _ := vs.(*Shader)
	c.useStage(gl.VERTEX_SHADER_BIT, s)
}

func (c *Context) SetPixelShader(ps gpu.PixelShader) {
	s, _ := ps.(*Shader)
	c.useStage(gl.FRAGMENT_SHADER_BIT, s)
}

func (c *Context) UnbindShaderResources() {
	for unit := uint32(0); unit < maxTextureUnits; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		gl.BindSampler(unit, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (c *Context) DrawIndexed(indexCount, startIndex, baseVertex int) {
	gl.DrawElementsBaseVertex(c.mode, int32(indexCount), gl.UNSIGNED_INT,
		gl.PtrOffset(startIndex*4), int32(baseVertex))
}
