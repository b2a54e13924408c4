package scene

import (
	stdmath "math"

	"forward-renderer/core"
	"forward-renderer/math"
)

// CameraConfig holds the lens and fly-control parameters of a Camera.
type CameraConfig struct {
	Position    math.Vec3
	FieldOfView float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	MoveSpeed      float32 // units per second
	LookSpeed      float32 // radians per second per pixel of mouse travel
	FastMultiplier float32
	SlowMultiplier float32
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:       math.Vec3{X: 0, Y: 0, Z: -5},
		FieldOfView:    stdmath.Pi / 4,
		AspectRatio:    1280.0 / 720.0,
		NearPlane:      0.01,
		FarPlane:       1000,
		MoveSpeed:      5,
		LookSpeed:      5,
		FastMultiplier: 5,
		SlowMultiplier: 0.5,
	}
}

// Camera is a fly camera. Update rebuilds both the view and the projection
// matrix every tick.
type Camera struct {
	transform Transform
	config    CameraConfig

	view       math.Mat4
	projection math.Mat4
}

func NewCamera(config CameraConfig) *Camera {
	c := &Camera{
		transform: NewTransform(),
		config:    config,
	}
	c.transform.SetPosition(config.Position.X, config.Position.Y, config.Position.Z)
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix(config.AspectRatio)
	return c
}

// Transform returns the camera's own transform for direct manipulation.
// Call UpdateViewMatrix after changing it outside of Update.
func (c *Camera) Transform() *Transform {
	return &c.transform
}

func (c *Camera) View() math.Mat4       { return c.view }
func (c *Camera) Projection() math.Mat4 { return c.projection }
func (c *Camera) FieldOfView() float32  { return c.config.FieldOfView }
func (c *Camera) AspectRatio() float32  { return c.config.AspectRatio }
func (c *Camera) NearPlane() float32    { return c.config.NearPlane }
func (c *Camera) FarPlane() float32     { return c.config.FarPlane }

// Update applies one tick of fly controls from input.
//
// W/S move along the camera's forward axis, A/D strafe, Space and X move
// vertically in world space. Shift speeds movement up and Control slows it
// down. Dragging with the left mouse button held rotates the camera. The
// plus and minus keys widen and narrow the field of view.
func (c *Camera) Update(dt float32, input core.InputState) {
	speed := dt * c.config.MoveSpeed
	if input.KeyDown(core.KeyShift) {
		speed *= c.config.FastMultiplier
	}
	if input.KeyDown(core.KeyControl) {
		speed *= c.config.SlowMultiplier
	}

	if input.KeyDown(core.KeyW) {
		c.transform.MoveRelative(0, 0, speed)
	}
	if input.KeyDown(core.KeyS) {
		c.transform.MoveRelative(0, 0, -speed)
	}
	if input.KeyDown(core.KeyA) {
		c.transform.MoveRelative(-speed, 0, 0)
	}
	if input.KeyDown(core.KeyD) {
		c.transform.MoveRelative(speed, 0, 0)
	}
	if input.KeyDown(core.KeySpace) {
		c.transform.MoveAbsolute(0, speed, 0)
	}
	if input.KeyDown(core.KeyX) {
		c.transform.MoveAbsolute(0, -speed, 0)
	}

	if input.MouseButtonDown(core.MouseLeft) {
		dx, dy := input.MouseDelta()
		ls := dt * c.config.LookSpeed
		c.transform.Rotate(dy*ls, dx*ls, 0)
	}

	c.UpdateViewMatrix()

	if input.KeyDown(core.KeyPlus) {
		c.config.FieldOfView += dt
	}
	if input.KeyDown(core.KeyMinus) {
		c.config.FieldOfView -= dt
	}
	c.UpdateProjectionMatrix(c.config.AspectRatio)
}

func (c *Camera) UpdateViewMatrix() {
	c.view = math.Mat4LookToLH(c.transform.Position(), c.transform.Forward(), c.transform.Up())
}

// UpdateProjectionMatrix must be called whenever the output surface is
// resized.
func (c *Camera) UpdateProjectionMatrix(aspectRatio float32) {
	c.config.AspectRatio = aspectRatio
	c.projection = math.Mat4PerspectiveFovLH(
		c.config.FieldOfView, aspectRatio, c.config.NearPlane, c.config.FarPlane)
}
