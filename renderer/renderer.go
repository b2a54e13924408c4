// Package renderer sequences a frame: a depth-only shadow pass from the
// configured light, a lit forward pass that samples it, and an optional sky
// pass, followed by present.
package renderer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"forward-renderer/gpu"
	"forward-renderer/logger"
	"forward-renderer/math"
	"forward-renderer/scene"
)

// Backend bundles the GPU collaborators a FrameRenderer draws through.
type Backend struct {
	Device    gpu.Device
	Context   gpu.Context
	SwapChain gpu.SwapChain
}

// FrameRenderer owns the pass list and the resources of the shadow and sky
// passes. It draws whatever scene it is handed each frame.
type FrameRenderer struct {
	backend Backend
	cfg     Config
	log     *zap.Logger

	shadow *ShadowPass
	lit    *LitPass
	sky    *Sky
	passes []Pass

	bindings     *bindingLog
	warnedLights bool
	warnedScene  bool
	stats        FrameStats
}

// New validates cfg and builds the shadow and lit passes. shadowVS is the
// backend-specific code of the depth-only vertex shader. A nil log disables
// logging.
func New(b Backend, cfg Config, shadowVS []byte, log *zap.Logger) (*FrameRenderer, error) {
	log = logger.OrNop(log)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("renderer config: %w", err)
	}

	shadow, err := NewShadowPass(b.Device, cfg, shadowVS)
	if err != nil {
		return nil, fmt.Errorf("shadow pass: %w", err)
	}

	fr := &FrameRenderer{
		backend:  b,
		cfg:      cfg,
		log:      log,
		shadow:   shadow,
		lit:      NewLitPass(cfg, shadow),
		bindings: newBindingLog(log),
	}
	fr.shadow.bindings = fr.bindings
	fr.lit.bindings = fr.bindings
	fr.passes = []Pass{fr.shadow, fr.lit}

	log.Info("renderer initialized",
		zap.Int("shadowMapSize", cfg.ShadowMapSize),
		zap.Float32("shadowProjectionSize", cfg.ShadowProjectionSize),
		zap.Bool("frustumCulling", cfg.FrustumCulling))
	return fr, nil
}

// SetSky appends the sky pass, or replaces its sky. The renderer takes
// ownership of sky and releases it in Release.
func (fr *FrameRenderer) SetSky(sky *Sky) {
	if fr.sky != nil && fr.sky != sky {
		fr.sky.Release()
	}
	fr.sky = sky
	for _, p := range fr.passes {
		if sp, ok := p.(*SkyPass); ok {
			sp.sky = sky
			return
		}
	}
	sp := NewSkyPass(sky)
	sp.bindings = fr.bindings
	fr.passes = append(fr.passes, sp)
}

// Passes returns the pass list in execution order.
func (fr *FrameRenderer) Passes() []Pass { return fr.passes }

func (fr *FrameRenderer) Config() Config { return fr.cfg }

// Shadow exposes the shadow pass, mainly for its light matrices.
func (fr *FrameRenderer) Shadow() *ShadowPass { return fr.shadow }

// Stats returns statistics of the most recent Draw.
func (fr *FrameRenderer) Stats() FrameStats { return fr.stats }

// Draw renders one frame of s and presents it. A scene that fails
// Validate is skipped with a single warning.
func (fr *FrameRenderer) Draw(s *scene.Scene) {
	start := time.Now()
	if err := s.Validate(); err != nil {
		if !fr.warnedScene {
			fr.warnedScene = true
			fr.log.Warn("scene not drawable", zap.Error(err))
		}
		return
	}

	f := fr.newFrame(s)
	stats := FrameStats{
		Frame:    fr.stats.Frame + 1,
		Passes:   make([]PassStats, 0, len(fr.passes)),
		Entities: len(s.Entities()),
	}

	for _, p := range fr.passes {
		p.Bind(f)
		n := p.Execute(f)
		p.Unbind(f)
		stats.Passes = append(stats.Passes, PassStats{Name: p.Name(), Draws: n})
	}

	fr.present()

	stats.Culled = f.Culled
	stats.FrameTime = time.Since(start)
	fr.stats = stats
}

func (fr *FrameRenderer) newFrame(s *scene.Scene) *Frame {
	cam := s.Camera
	view, proj := cam.View(), cam.Projection()

	lights, dropped := PackLights(s.Lights)
	if dropped > 0 && !fr.warnedLights {
		fr.warnedLights = true
		fr.log.Warn("too many lights, extra lights dropped",
			zap.Int("lights", len(s.Lights)),
			zap.Int("dropped", dropped),
			zap.Int("maxDirectional", gpu.MaxDirectionalLights),
			zap.Int("maxPoint", gpu.MaxPointLights))
	}

	f := &Frame{
		Scene:          s,
		Context:        fr.backend.Context,
		SwapChain:      fr.backend.SwapChain,
		View:           view,
		Projection:     proj,
		CameraPosition: cam.Transform().Position(),
		Lights:         lights,
	}
	if fr.cfg.FrustumCulling {
		f.Frustum = scene.FrustumFromViewProjection(view.Mul(proj))
	}
	return f
}

// present detaches every readable texture, swaps, and rebinds the main
// targets, which some backends invalidate on present.
func (fr *FrameRenderer) present() {
	ctx, sc := fr.backend.Context, fr.backend.SwapChain
	ctx.UnbindShaderResources()
	sc.Present(fr.cfg.VSync)
	ctx.SetRenderTargets(sc.BackBuffer(), sc.DepthBuffer())
}

// Resize resizes the swap chain and updates the camera's aspect ratio.
func (fr *FrameRenderer) Resize(width, height int, cam *scene.Camera) error {
	if err := fr.backend.SwapChain.Resize(width, height); err != nil {
		return fmt.Errorf("resize %dx%d: %w", width, height, err)
	}
	if cam != nil && height > 0 {
		cam.UpdateProjectionMatrix(float32(width) / float32(height))
	}
	return nil
}

// LightViewProjection is the combined light matrix used by the shadow pass.
func (fr *FrameRenderer) LightViewProjection() math.Mat4 {
	return fr.shadow.LightView().Mul(fr.shadow.LightProjection())
}

// Release frees the shadow and sky resources. Scene resources belong to the
// scene's registry.
func (fr *FrameRenderer) Release() {
	fr.shadow.Release()
	if fr.sky != nil {
		fr.sky.Release()
	}
}
