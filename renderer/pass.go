package renderer

import (
	"go.uber.org/zap"

	"forward-renderer/gpu"
	"forward-renderer/math"
	"forward-renderer/scene"
)

// Frame is the per-frame state shared by every pass. It is filled by
// FrameRenderer.Draw before the first pass runs.
type Frame struct {
	Scene     *scene.Scene
	Context   gpu.Context
	SwapChain gpu.SwapChain

	View           math.Mat4
	Projection     math.Mat4
	CameraPosition math.Vec3
	Frustum        scene.Frustum
	Lights         gpu.LightBlock

	// Culled counts lit-pass entities skipped by frustum culling.
	Culled int
}

// Pass is one stage of the frame pipeline. Bind establishes the pass's
// targets and fixed state, Execute issues its draws and returns how many it
// issued, and Unbind restores what the next pass expects.
type Pass interface {
	Name() string
	Bind(f *Frame)
	Execute(f *Frame) int
	Unbind(f *Frame)
}

// drawable resolves an entity's mesh and material. Entities whose handles
// no longer resolve are skipped.
func drawable(reg *scene.Registry, e *scene.Entity) (*scene.Mesh, *scene.Material, bool) {
	mesh, ok := reg.Mesh(e.Mesh)
	if !ok {
		return nil, nil, false
	}
	mat, ok := reg.Material(e.Material)
	if !ok {
		return nil, nil, false
	}
	return mesh, mat, true
}

type bindingKey struct {
	shader string
	name   string
}

// bindingLog reports shader parameters the active shader does not declare,
// once per shader and name.
type bindingLog struct {
	log  *zap.Logger
	seen map[bindingKey]bool
}

func newBindingLog(log *zap.Logger) *bindingLog {
	return &bindingLog{log: log, seen: make(map[bindingKey]bool)}
}

func (b *bindingLog) check(shader gpu.Resource, name string, ok bool) {
	if ok || b == nil {
		return
	}
	b.missing(shader, name)
}

func (b *bindingLog) missing(shader gpu.Resource, names ...string) {
	if b == nil {
		return
	}
	for _, name := range names {
		k := bindingKey{shader.Label(), name}
		if b.seen[k] {
			continue
		}
		b.seen[k] = true
		b.log.Debug("shader does not declare parameter",
			zap.String("shader", k.shader), zap.String("name", name))
	}
}
