package scene

import (
	stdmath "math"
	"testing"

	"forward-renderer/core"
	"forward-renderer/math"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())

	expectedPos := math.Vec3{Z: -5}
	if got := cam.Transform().Position(); got != expectedPos {
		t.Errorf("Position: expected %v, got %v", expectedPos, got)
	}

	expectedView := math.Mat4LookToLH(expectedPos, math.Vec3Forward, math.Vec3Up)
	if got := cam.View(); !got.ApproxEqual(expectedView, eps) {
		t.Errorf("View: expected %v, got %v", expectedView, got)
	}

	// The origin sits 5 units in front of the camera.
	if got := cam.View().MulPoint(math.Vec3Zero); !got.ApproxEqual(math.Vec3{Z: 5}, eps) {
		t.Errorf("View origin: expected (0,0,5), got %v", got)
	}

	expectedProj := math.Mat4PerspectiveFovLH(stdmath.Pi/4, 1280.0/720.0, 0.01, 1000)
	if got := cam.Projection(); !got.ApproxEqual(expectedProj, eps) {
		t.Errorf("Projection: expected %v, got %v", expectedProj, got)
	}
}

func TestCameraMovement(t *testing.T) {
	tests := []struct {
		name     string
		keys     []core.Key
		expected math.Vec3
	}{
		{"forward", []core.Key{core.KeyW}, math.Vec3{Z: -4.5}},
		{"back", []core.Key{core.KeyS}, math.Vec3{Z: -5.5}},
		{"left", []core.Key{core.KeyA}, math.Vec3{X: -0.5, Z: -5}},
		{"right", []core.Key{core.KeyD}, math.Vec3{X: 0.5, Z: -5}},
		{"up", []core.Key{core.KeySpace}, math.Vec3{Y: 0.5, Z: -5}},
		{"down", []core.Key{core.KeyX}, math.Vec3{Y: -0.5, Z: -5}},
		{"fast", []core.Key{core.KeyW, core.KeyShift}, math.Vec3{Z: -2.5}},
		{"slow", []core.Key{core.KeyW, core.KeyControl}, math.Vec3{Z: -4.75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(DefaultCameraConfig())
			input := (&core.InputSnapshot{}).Press(tt.keys...)
			cam.Update(0.1, input)

			if got := cam.Transform().Position(); !got.ApproxEqual(tt.expected, eps) {
				t.Errorf("Position: expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCameraMouseLookRequiresButton(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())
	input := &core.InputSnapshot{DeltaX: 2, DeltaY: 1}

	cam.Update(0.1, input)
	if got := cam.Transform().Rotation(); got != math.Vec3Zero {
		t.Errorf("Rotation without button: expected zero, got %v", got)
	}

	input.Buttons[core.MouseLeft] = true
	cam.Update(0.1, input)

	// look speed = dt * 5 = 0.5; pitch from dy, yaw from dx
	expected := math.Vec3{X: 0.5, Y: 1}
	if got := cam.Transform().Rotation(); !got.ApproxEqual(expected, eps) {
		t.Errorf("Rotation: expected %v, got %v", expected, got)
	}
}

func TestCameraViewFollowsTransform(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())
	input := &core.InputSnapshot{DeltaX: stdmath.Pi, Buttons: [core.MouseButtonCount]bool{core.MouseLeft: true}}

	// yaw = dx * dt * 5 = pi/2 with dt = 0.1
	cam.Update(0.1, input)

	tr := cam.Transform()
	expected := math.Mat4LookToLH(tr.Position(), tr.Forward(), tr.Up())
	if got := cam.View(); !got.ApproxEqual(expected, eps) {
		t.Errorf("View: expected %v, got %v", expected, got)
	}
	if got := tr.Forward(); !got.ApproxEqual(math.Vec3Right, 1e-4) {
		t.Errorf("Forward: expected %v, got %v", math.Vec3Right, got)
	}

	// Moving forward now travels along +X.
	cam.Update(0.1, (&core.InputSnapshot{}).Press(core.KeyW))
	expectedPos := math.Vec3{X: 0.5, Z: -5}
	if got := tr.Position(); !got.ApproxEqual(expectedPos, 1e-4) {
		t.Errorf("Position: expected %v, got %v", expectedPos, got)
	}
}

func TestCameraFieldOfView(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())
	before := cam.Projection()

	cam.Update(0.25, (&core.InputSnapshot{}).Press(core.KeyPlus))

	expectedFov := float32(stdmath.Pi/4) + 0.25
	if got := cam.FieldOfView(); stdmath.Abs(float64(got-expectedFov)) > eps {
		t.Errorf("FieldOfView: expected %v, got %v", expectedFov, got)
	}
	expected := math.Mat4PerspectiveFovLH(expectedFov, cam.AspectRatio(), cam.NearPlane(), cam.FarPlane())
	if got := cam.Projection(); !got.ApproxEqual(expected, eps) {
		t.Errorf("Projection: expected %v, got %v", expected, got)
	}
	if cam.Projection() == before {
		t.Errorf("Projection: expected change after FOV update")
	}

	cam.Update(0.25, (&core.InputSnapshot{}).Press(core.KeyMinus))
	if got := cam.FieldOfView(); stdmath.Abs(float64(got-stdmath.Pi/4)) > eps {
		t.Errorf("FieldOfView: expected %v, got %v", stdmath.Pi/4, got)
	}
}

func TestCameraUpdateProjectionMatrix(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())
	cam.UpdateProjectionMatrix(2)

	if cam.AspectRatio() != 2 {
		t.Errorf("AspectRatio: expected 2, got %v", cam.AspectRatio())
	}
	expected := math.Mat4PerspectiveFovLH(stdmath.Pi/4, 2, 0.01, 1000)
	if got := cam.Projection(); !got.ApproxEqual(expected, eps) {
		t.Errorf("Projection: expected %v, got %v", expected, got)
	}
}
