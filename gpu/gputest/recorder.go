// Package gputest provides a recording implementation of the gpu contracts.
// It draws nothing; it logs every context call together with the state that
// was bound when each draw was issued, so tests can assert on pass ordering
// and on the constants each draw saw.
package gputest

import (
	"fmt"
	"image"
	"maps"
	"strings"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

type Op string

const (
	OpSetRenderTargets  Op = "SetRenderTargets"
	OpSetViewport       Op = "SetViewport"
	OpClearColor        Op = "ClearRenderTarget"
	OpClearDepth        Op = "ClearDepth"
	OpSetRasterizer     Op = "SetRasterizerState"
	OpSetDepthStencil   Op = "SetDepthStencilState"
	OpSetTopology       Op = "SetPrimitiveTopology"
	OpSetVertexBuffer   Op = "SetVertexBuffer"
	OpSetIndexBuffer    Op = "SetIndexBuffer"
	OpSetVertexShader   Op = "SetVertexShader"
	OpSetPixelShader    Op = "SetPixelShader"
	OpUnbindResources   Op = "UnbindShaderResources"
	OpCopyAllBufferData Op = "CopyAllBufferData"
	OpDrawIndexed       Op = "DrawIndexed"
	OpPresent           Op = "Present"
)

// Call is one recorded context command. For OpDrawIndexed every field
// describes the state bound at the time of the draw.
type Call struct {
	Op    Op
	Label string

	Color string
	Depth string

	ClearColor core.Color
	ClearDepth float32
	Viewport   core.Viewport
	Count      int

	Rasterizer   string
	DepthStencil string
	VertexShader string
	PixelShader  string
	VertexBuffer string
	IndexBuffer  string

	VSParams map[string]any
	PSParams map[string]any
}

// Recorder implements gpu.Device, gpu.Context and gpu.SwapChain.
type Recorder struct {
	Calls []Call
	// Hazards lists depth targets that were bound for writing while their
	// shader view was still bound for reading.
	Hazards []string
	// FailCreate makes creation of the labelled resource return the error.
	FailCreate map[string]error

	width, height int
	backBuffer    *RenderTarget
	depthBuffer   *DepthTarget

	color      *RenderTarget
	depth      *DepthTarget
	rasterizer gpu.RasterizerState
	depthState gpu.DepthStencilState
	vs         *Shader
	ps         *Shader
	vb, ib     *Buffer
	readable   map[*Texture]bool
}

func NewRecorder(width, height int) *Recorder {
	r := &Recorder{
		width:    width,
		height:   height,
		readable: make(map[*Texture]bool),
	}
	r.backBuffer = &RenderTarget{resource: resource{label: "backbuffer"}, w: width, h: height}
	r.depthBuffer = &DepthTarget{resource: resource{label: "depthbuffer"}, w: width, h: height}
	return r
}

// Reset clears the call log, keeping created resources and bound state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Hazards = nil
}

// Filter returns the recorded calls whose Op is one of ops, in order.
func (r *Recorder) Filter(ops ...Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		for _, op := range ops {
			if c.Op == op {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (r *Recorder) Draws() []Call {
	return r.Filter(OpDrawIndexed)
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) fail(label string) error {
	if err, ok := r.FailCreate[label]; ok {
		return fmt.Errorf("gputest: create %q: %w", label, err)
	}
	return nil
}

// ── Resources ────────────────────────────────────────────────────────────────

type resource struct {
	label    string
	Released bool
}

func (r *resource) Label() string { return r.label }
func (r *resource) Release()      { r.Released = true }

type Buffer struct {
	resource
	kind gpu.BufferKind
	n    int
}

func (b *Buffer) Kind() gpu.BufferKind { return b.kind }
func (b *Buffer) Len() int             { return b.n }

type Texture struct {
	resource
	dim           gpu.TextureDimension
	Width, Height int
}

func (t *Texture) Dimension() gpu.TextureDimension { return t.dim }

type RenderTarget struct {
	resource
	w, h int
}

func (t *RenderTarget) Size() (int, int) { return t.w, t.h }

type DepthTarget struct {
	resource
	w, h int
	view *Texture
}

func (t *DepthTarget) DepthSize() (int, int) { return t.w, t.h }

type Sampler struct {
	resource
	desc gpu.SamplerDesc
}

func (s *Sampler) SamplerDesc() gpu.SamplerDesc { return s.desc }

type Rasterizer struct {
	resource
	desc gpu.RasterizerDesc
}

func (s *Rasterizer) RasterizerDesc() gpu.RasterizerDesc { return s.desc }

type DepthStencil struct {
	resource
	desc gpu.DepthStencilDesc
}

func (s *DepthStencil) DepthStencilDesc() gpu.DepthStencilDesc { return s.desc }

// ── Device ───────────────────────────────────────────────────────────────────

func (r *Recorder) CreateVertexBuffer(label string, vertices []core.Vertex) (gpu.Buffer, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return &Buffer{resource: resource{label: label}, kind: gpu.VertexBufferKind, n: len(vertices)}, nil
}

func (r *Recorder) CreateIndexBuffer(label string, indices []uint32) (gpu.Buffer, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return &Buffer{resource: resource{label: label}, kind: gpu.IndexBufferKind, n: len(indices)}, nil
}

func (r *Recorder) CreateTexture2D(label string, img *image.RGBA) (gpu.TextureView, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Texture{resource: resource{label: label}, dim: gpu.Texture2D, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Recorder) CreateTextureCube(label string, faces [6]*image.RGBA) (gpu.TextureView, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	b := faces[0].Bounds()
	return &Texture{resource: resource{label: label}, dim: gpu.TextureCube, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Recorder) CreateDepthTarget(label string, size int) (gpu.DepthStencilView, gpu.TextureView, error) {
	if err := r.fail(label); err != nil {
		return nil, nil, err
	}
	view := &Texture{resource: resource{label: label + ".srv"}, dim: gpu.TextureDepth, Width: size, Height: size}
	return &DepthTarget{resource: resource{label: label}, w: size, h: size, view: view}, view, nil
}

func (r *Recorder) CreateSamplerState(label string, desc gpu.SamplerDesc) (gpu.SamplerState, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return &Sampler{resource: resource{label: label}, desc: desc}, nil
}

func (r *Recorder) CreateRasterizerState(label string, desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return &Rasterizer{resource: resource{label: label}, desc: desc}, nil
}

func (r *Recorder) CreateDepthStencilState(label string, desc gpu.DepthStencilDesc) (gpu.DepthStencilState, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return &DepthStencil{resource: resource{label: label}, desc: desc}, nil
}

func (r *Recorder) CreateVertexShader(label string, code []byte) (gpu.VertexShader, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return newShader(r, label, gpu.VertexStage, code), nil
}

func (r *Recorder) CreatePixelShader(label string, code []byte) (gpu.PixelShader, error) {
	if err := r.fail(label); err != nil {
		return nil, err
	}
	return newShader(r, label, gpu.PixelStage, code), nil
}

// ── Context ──────────────────────────────────────────────────────────────────

func (r *Recorder) SetRenderTargets(color gpu.RenderTargetView, depth gpu.DepthStencilView) {
	r.color, _ = color.(*RenderTarget)
	r.depth, _ = depth.(*DepthTarget)
	if r.depth != nil && r.depth.view != nil && r.readable[r.depth.view] {
		r.Hazards = append(r.Hazards, r.depth.label)
	}
	r.record(Call{Op: OpSetRenderTargets, Color: labelOf(color), Depth: labelOf(depth)})
}

func (r *Recorder) SetViewport(vp core.Viewport) {
	r.record(Call{Op: OpSetViewport, Viewport: vp})
}

func (r *Recorder) ClearRenderTarget(target gpu.RenderTargetView, color core.Color) {
	r.record(Call{Op: OpClearColor, Color: labelOf(target), ClearColor: color})
}

func (r *Recorder) ClearDepth(target gpu.DepthStencilView, depth float32) {
	r.record(Call{Op: OpClearDepth, Depth: labelOf(target), ClearDepth: depth})
}

func (r *Recorder) SetRasterizerState(state gpu.RasterizerState) {
	r.rasterizer = state
	r.record(Call{Op: OpSetRasterizer, Label: labelOf(state)})
}

func (r *Recorder) SetDepthStencilState(state gpu.DepthStencilState) {
	r.depthState = state
	r.record(Call{Op: OpSetDepthStencil, Label: labelOf(state)})
}

func (r *Recorder) SetPrimitiveTopology(t gpu.Topology) {
	r.record(Call{Op: OpSetTopology, Count: int(t)})
}

func (r *Recorder) SetVertexBuffer(b gpu.Buffer) {
	r.vb, _ = b.(*Buffer)
	r.record(Call{Op: OpSetVertexBuffer, Label: labelOf(b)})
}

func (r *Recorder) SetIndexBuffer(b gpu.Buffer) {
	r.ib, _ = b.(*Buffer)
	r.record(Call{Op: OpSetIndexBuffer, Label: labelOf(b)})
}

func (r *Recorder) SetVertexShader(vs gpu.VertexShader) {
	r.vs, _ = vs.(*Shader)
	r.record(Call{Op: OpSetVertexShader, Label: labelOf(vs)})
}

func (r *Recorder) SetPixelShader(ps gpu.PixelShader) {
	r.ps, _ = ps.(*Shader)
	r.record(Call{Op: OpSetPixelShader, Label: labelOf(ps)})
}

func (r *Recorder) UnbindShaderResources() {
	clear(r.readable)
	r.record(Call{Op: OpUnbindResources})
}

func (r *Recorder) DrawIndexed(indexCount, startIndex, baseVertex int) {
	c := Call{
		Op:           OpDrawIndexed,
		Count:        indexCount,
		Color:        labelOf(r.color),
		Depth:        labelOf(r.depth),
		Rasterizer:   labelOf(r.rasterizer),
		DepthStencil: labelOf(r.depthState),
		VertexShader: labelOf(r.vs),
		PixelShader:  labelOf(r.ps),
		VertexBuffer: labelOf(r.vb),
		IndexBuffer:  labelOf(r.ib),
	}
	if r.vs != nil {
		c.VSParams = maps.Clone(r.vs.committed)
	}
	if r.ps != nil {
		c.PSParams = maps.Clone(r.ps.committed)
	}
	r.record(c)
}

// ── SwapChain ────────────────────────────────────────────────────────────────

func (r *Recorder) BackBuffer() gpu.RenderTargetView { return r.backBuffer }
func (r *Recorder) DepthBuffer() gpu.DepthStencilView { return r.depthBuffer }
func (r *Recorder) Size() (int, int)                  { return r.width, r.height }

func (r *Recorder) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gputest: invalid size %dx%d", width, height)
	}
	r.width, r.height = width, height
	r.backBuffer.w, r.backBuffer.h = width, height
	r.depthBuffer.w, r.depthBuffer.h = width, height
	return nil
}

func (r *Recorder) Present(vsync bool) {
	r.record(Call{Op: OpPresent})
}

// labelOf returns the resource label, or "" for a nil interface or nil
// pointer.
func labelOf(v any) string {
	switch res := v.(type) {
	case nil:
		return ""
	case *RenderTarget:
		if res == nil {
			return ""
		}
	case *DepthTarget:
		if res == nil {
			return ""
		}
	case *Shader:
		if res == nil {
			return ""
		}
	case *Buffer:
		if res == nil {
			return ""
		}
	}
	if r, ok := v.(gpu.Resource); ok {
		return r.Label()
	}
	return ""
}

// ── Shaders ──────────────────────────────────────────────────────────────────

// Shader records named parameters. The code passed at creation lists the
// declared names separated by whitespace; empty code declares every name.
type Shader struct {
	resource
	rec       *Recorder
	stage     gpu.ShaderStage
	declared  map[string]bool
	staged    map[string]any
	committed map[string]any
	// Missing counts Set calls for undeclared names.
	Missing map[string]int
}

func newShader(rec *Recorder, label string, stage gpu.ShaderStage, code []byte) *Shader {
	s := &Shader{
		resource:  resource{label: label},
		rec:       rec,
		stage:     stage,
		staged:    make(map[string]any),
		committed: make(map[string]any),
		Missing:   make(map[string]int),
	}
	if names := strings.Fields(string(code)); len(names) > 0 {
		s.declared = make(map[string]bool, len(names))
		for _, n := range names {
			s.declared[n] = true
		}
	}
	return s
}

func (s *Shader) Stage() gpu.ShaderStage { return s.stage }

func (s *Shader) set(name string, v any) bool {
	if s.declared != nil && !s.declared[name] {
		s.Missing[name]++
		return false
	}
	s.staged[name] = v
	return true
}

func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool { return s.set(name, m) }
func (s *Shader) SetFloat(name string, v float32) bool       { return s.set(name, v) }
func (s *Shader) SetFloat2(name string, v math.Vec2) bool    { return s.set(name, v) }
func (s *Shader) SetFloat3(name string, v math.Vec3) bool    { return s.set(name, v) }
func (s *Shader) SetFloat4(name string, v math.Vec4) bool    { return s.set(name, v) }
func (s *Shader) SetInt(name string, v int32) bool           { return s.set(name, v) }
func (s *Shader) SetData(name string, data any) bool         { return s.set(name, data) }

func (s *Shader) SetShaderResourceView(name string, view gpu.TextureView) bool {
	if !s.set(name, view) {
		return false
	}
	if t, ok := view.(*Texture); ok {
		s.rec.readable[t] = true
	}
	return true
}

func (s *Shader) SetSamplerState(name string, sampler gpu.SamplerState) bool {
	return s.set(name, sampler)
}

func (s *Shader) CopyAllBufferData() {
	maps.Copy(s.committed, s.staged)
	s.rec.record(Call{Op: OpCopyAllBufferData, Label: s.label})
}

// Param returns the last committed value for name.
func (s *Shader) Param(name string) (any, bool) {
	v, ok := s.committed[name]
	return v, ok
}
