package scene

import (
	stdmath "math"
	"testing"

	"forward-renderer/math"
)

func testFrustum() Frustum {
	view := math.Mat4LookToLH(math.Vec3Zero, math.Vec3Forward, math.Vec3Up)
	proj := math.Mat4PerspectiveFovLH(stdmath.Pi/2, 1, 0.1, 100)
	return FrustumFromViewProjection(view.Mul(proj))
}

func TestFrustumContainment(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"in front", AABB{Min: math.Vec3{X: -1, Y: -1, Z: 9}, Max: math.Vec3{X: 1, Y: 1, Z: 11}}, true},
		{"behind", AABB{Min: math.Vec3{X: -1, Y: -1, Z: -11}, Max: math.Vec3{X: 1, Y: 1, Z: -9}}, false},
		{"beyond far", AABB{Min: math.Vec3{X: -1, Y: -1, Z: 200}, Max: math.Vec3{X: 1, Y: 1, Z: 201}}, false},
		{"left of view", AABB{Min: math.Vec3{X: -30, Y: -1, Z: 9}, Max: math.Vec3{X: -20, Y: 1, Z: 11}}, false},
		{"straddles near", AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.IntersectsFrustum(&f); got != tt.expected {
				t.Errorf("IntersectsFrustum: expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFrustumNearPlaneDepthRange(t *testing.T) {
	f := testFrustum()

	// With a [0, 1] depth range the near plane sits at z = near.
	if d := f.Planes[4].DistanceTo(math.Vec3{Z: 0.1}); d > 1e-4 || d < -1e-4 {
		t.Errorf("near plane: expected distance 0 at z=0.1, got %v", d)
	}
	if d := f.Planes[5].DistanceTo(math.Vec3{Z: 100}); d > 1e-3 || d < -1e-3 {
		t.Errorf("far plane: expected distance 0 at z=100, got %v", d)
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3One}
	m := math.Mat4Scale(math.Vec3{X: 2, Y: 1, Z: 1}).Mul(math.Mat4Translation(math.Vec3{X: 5}))

	got := box.Transform(m)
	expected := AABB{Min: math.Vec3{X: 3, Y: -1, Z: -1}, Max: math.Vec3{X: 7, Y: 1, Z: 1}}
	if !got.Min.ApproxEqual(expected.Min, eps) || !got.Max.ApproxEqual(expected.Max, eps) {
		t.Errorf("Transform: expected %v, got %v", expected, got)
	}
}
