package renderer

import (
	"fmt"

	"forward-renderer/core"
	"forward-renderer/math"
)

// Config holds the fixed per-run parameters of the frame pipeline. The
// shadow-casting light is described here rather than taken from the scene:
// its view and projection are computed once when the renderer is built.
type Config struct {
	ClearColor core.Color
	VSync      bool

	ShadowMapSize        int     // square depth target edge, texels
	ShadowProjectionSize float32 // width and height of the light's orthographic volume
	LightPosition        math.Vec3
	LightTarget          math.Vec3
	LightUp              math.Vec3
	LightNear            float32
	LightFar             float32

	// Rasterizer bias for the shadow pass, in D3D units.
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32

	// FrustumCulling skips lit-pass draws whose world bounds fall outside the
	// camera frustum. The shadow pass never culls.
	FrustumCulling bool
}

func DefaultConfig() Config {
	c := Config{
		ClearColor:           core.Color{R: 0.4, G: 0.6, B: 0.75, A: 0},
		VSync:                true,
		ShadowMapSize:        2048,
		ShadowProjectionSize: 20,
		LightUp:              math.Vec3Up,
		LightNear:            1,
		LightFar:             100,
		DepthBias:            1000,
		SlopeScaledDepthBias: 1,
	}
	c.AimLight(math.Vec3{X: 0, Y: -0.5, Z: -0.2}, 20)
	return c
}

// AimLight places the shadow light distance units back along direction,
// looking at the origin. A light up vector that is zero or parallel to
// direction is replaced so the light view stays well defined.
func (c *Config) AimLight(direction math.Vec3, distance float32) {
	dir := direction.Normalize()
	c.LightTarget = math.Vec3Zero
	c.LightPosition = dir.Mul(-distance)
	if parallel(dir, c.LightUp) {
		c.LightUp = math.Vec3Up
		if parallel(dir, c.LightUp) {
			c.LightUp = math.Vec3Forward
		}
	}
}

func parallel(dir, up math.Vec3) bool {
	return up.LengthSqr() == 0 || dir.Cross(up.Normalize()).LengthSqr() < 1e-8
}

// Validate reports the first problem that would make the light matrices or
// the shadow target unusable.
func (c Config) Validate() error {
	if c.ShadowMapSize <= 0 {
		return fmt.Errorf("shadow map size %d: %w", c.ShadowMapSize, ErrInvalidConfig)
	}
	if c.ShadowProjectionSize <= 0 {
		return fmt.Errorf("shadow projection size %v: %w", c.ShadowProjectionSize, ErrInvalidConfig)
	}
	if c.LightNear >= c.LightFar {
		return fmt.Errorf("light near %v >= far %v: %w", c.LightNear, c.LightFar, ErrInvalidConfig)
	}
	dir := c.LightTarget.Sub(c.LightPosition)
	if dir.LengthSqr() == 0 {
		return fmt.Errorf("light position equals target: %w", ErrDegenerateLight)
	}
	if parallel(dir.Normalize(), c.LightUp) {
		return fmt.Errorf("direction %v, up %v: %w", dir, c.LightUp, ErrDegenerateLight)
	}
	return nil
}

// LightView is the shadow light's view matrix.
func (c Config) LightView() math.Mat4 {
	return math.Mat4LookAtLH(c.LightPosition, c.LightTarget, c.LightUp)
}

func (c Config) LightProjection() math.Mat4 {
	return math.Mat4OrthographicLH(c.ShadowProjectionSize, c.ShadowProjectionSize, c.LightNear, c.LightFar)
}
