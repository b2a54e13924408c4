package scene

import (
	stdmath "math"
	"testing"

	"forward-renderer/math"
)

const eps = 1e-5

func TestNewTransformIsIdentity(t *testing.T) {
	tr := NewTransform()

	if got := tr.WorldMatrix(); got != math.Mat4Identity() {
		t.Errorf("WorldMatrix: expected identity, got %v", got)
	}
	if tr.recomputes != 0 {
		t.Errorf("recomputes: expected 0 for a clean transform, got %d", tr.recomputes)
	}
	if got := tr.Forward(); !got.ApproxEqual(math.Vec3Forward, eps) {
		t.Errorf("Forward: expected %v, got %v", math.Vec3Forward, got)
	}
	if got := tr.Right(); !got.ApproxEqual(math.Vec3Right, eps) {
		t.Errorf("Right: expected %v, got %v", math.Vec3Right, got)
	}
	if got := tr.Up(); !got.ApproxEqual(math.Vec3Up, eps) {
		t.Errorf("Up: expected %v, got %v", math.Vec3Up, got)
	}
}

func TestTransformLazyRecompute(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(1, 2, 3)
	tr.Rotate(0.1, 0.2, 0.3)
	tr.Scale(2, 2, 2)
	tr.MoveAbsolute(0, 1, 0)
	tr.MoveRelative(0, 0, 1)
	tr.SetScale(1, 3, 1)

	if tr.recomputes != 0 {
		t.Fatalf("recomputes: mutators must not recompute, got %d", tr.recomputes)
	}

	for i := 0; i < 4; i++ {
		tr.WorldMatrix()
		tr.WorldInverseTransposeMatrix()
	}
	if tr.recomputes != 1 {
		t.Errorf("recomputes: expected 1 per dirty period, got %d", tr.recomputes)
	}

	p, r, s := tr.Position(), tr.Rotation(), tr.ScaleFactors()
	expected := math.Mat4Scale(s).
		Mul(math.Mat4RotationRollPitchYaw(r.X, r.Y, r.Z)).
		Mul(math.Mat4Translation(p))
	if got := tr.WorldMatrix(); got != expected {
		t.Errorf("WorldMatrix: expected %v, got %v", expected, got)
	}

	tr.SetPosition(0, 0, 0)
	tr.WorldMatrix()
	tr.WorldMatrix()
	if tr.recomputes != 2 {
		t.Errorf("recomputes: expected 2 after second dirty period, got %d", tr.recomputes)
	}
}

func TestTransformScaleThenTranslate(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(1, 0, 0)
	tr.SetScale(2, 2, 2)

	got := tr.WorldMatrix().MulPoint(math.Vec3{X: 1})
	expected := math.Vec3{X: 3}
	if !got.ApproxEqual(expected, eps) {
		t.Errorf("MulPoint: expected %v, got %v", expected, got)
	}
}

func TestTransformMoveRelativeFollowsYaw(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(0, stdmath.Pi/2, 0)
	tr.MoveRelative(0, 0, 1)

	expected := math.Vec3{X: 1}
	if got := tr.Position(); !got.ApproxEqual(expected, eps) {
		t.Errorf("MoveRelative: expected %v, got %v", expected, got)
	}
	if got := tr.Forward(); !got.ApproxEqual(tr.Position(), eps) {
		t.Errorf("Forward: expected movement direction %v, got %v", tr.Position(), got)
	}
}

func TestTransformMoveAbsoluteIgnoresRotation(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(0.4, 1.3, -0.2)
	tr.MoveAbsolute(0, 0, 2)

	expected := math.Vec3{Z: 2}
	if got := tr.Position(); got != expected {
		t.Errorf("MoveAbsolute: expected %v, got %v", expected, got)
	}
}

func TestTransformScaleMultiplies(t *testing.T) {
	tr := NewTransform()
	tr.Scale(2, 3, 4)
	tr.Scale(2, 3, 4)

	expected := math.Vec3{X: 4, Y: 9, Z: 16}
	if got := tr.ScaleFactors(); got != expected {
		t.Errorf("Scale: expected %v, got %v", expected, got)
	}
}

func TestTransformRotateAccumulates(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(0.1, 0.2, 0.3)
	tr.Rotate(0.1, 0.2, 0.3)

	expected := math.Vec3{X: 0.2, Y: 0.4, Z: 0.6}
	if got := tr.Rotation(); !got.ApproxEqual(expected, eps) {
		t.Errorf("Rotate: expected %v, got %v", expected, got)
	}
}

func TestTransformWorldMatrixIdempotent(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(4, -2, 7)
	tr.SetRotation(0.3, 1.1, -0.4)
	tr.SetScale(2, 3, 0.5)

	a := tr.WorldMatrix()
	b := tr.WorldMatrix()
	if a != b {
		t.Errorf("WorldMatrix: expected bit-identical results, got %v and %v", a, b)
	}
}

func TestTransformBasisVectorsTrackRotation(t *testing.T) {
	tr := NewTransform()
	tr.Forward()
	tr.SetRotation(0, stdmath.Pi/2, 0)

	if got := tr.Forward(); !got.ApproxEqual(math.Vec3Right, eps) {
		t.Errorf("Forward: expected %v, got %v", math.Vec3Right, got)
	}
	if got := tr.Right(); !got.ApproxEqual(math.Vec3Back, eps) {
		t.Errorf("Right: expected %v, got %v", math.Vec3Back, got)
	}

	// Position changes leave the cached vectors alone.
	tr.SetPosition(5, 5, 5)
	if got := tr.Forward(); !got.ApproxEqual(math.Vec3Right, eps) {
		t.Errorf("Forward after SetPosition: expected %v, got %v", math.Vec3Right, got)
	}
}

func TestTransformInverseTranspose(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(1, 2, 3)
	tr.SetRotation(0.2, -0.7, 0.1)
	tr.SetScale(1, 4, 2)

	expected := tr.WorldMatrix().Transpose().Inverse()
	if got := tr.WorldInverseTransposeMatrix(); !got.ApproxEqual(expected, eps) {
		t.Errorf("WorldInverseTransposeMatrix: expected %v, got %v", expected, got)
	}

	// A normal transformed by the inverse transpose stays perpendicular to a
	// transformed surface tangent.
	tangent := math.Vec3{X: 1, Y: -1}
	normal := math.Vec3{X: 1, Y: 1}
	wt := tr.WorldMatrix().MulDirection(tangent)
	wn := tr.WorldInverseTransposeMatrix().MulDirection(normal)
	if d := wt.Dot(wn); stdmath.Abs(float64(d)) > 1e-4 {
		t.Errorf("normal transform: expected perpendicular, got dot %v", d)
	}
}

func TestTransformZeroScaleIsDocumented(t *testing.T) {
	tr := NewTransform()
	tr.SetScale(0, 1, 1)

	if got := tr.WorldInverseTransposeMatrix(); got != math.Mat4Identity() {
		t.Errorf("WorldInverseTransposeMatrix: expected identity for singular world, got %v", got)
	}
}

func BenchmarkTransformWorldMatrix(b *testing.B) {
	tr := NewTransform()
	for i := 0; i < b.N; i++ {
		tr.Rotate(0.001, 0.002, 0)
		_ = tr.WorldMatrix()
	}
}
