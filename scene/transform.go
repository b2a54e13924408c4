package scene

import (
	"forward-renderer/math"
)

// Transform is a position, pitch/yaw/roll orientation and scale with a lazily
// rebuilt world matrix and basis vectors.
//
// Mutators only mark state dirty. The world matrix and its inverse transpose
// are rebuilt together on the first read after a mutation; the basis vectors
// are rebuilt separately and only go stale when the rotation changes.
//
// A zero scale component makes the world matrix singular. The inverse
// transpose is then the identity matrix (see math.Mat4.Inverse).
type Transform struct {
	position     math.Vec3
	pitchYawRoll math.Vec3
	scale        math.Vec3

	world             math.Mat4
	worldInvTranspose math.Mat4
	right, up, fwd    math.Vec3

	matrixDirty  bool
	vectorsDirty bool

	// recomputes counts world matrix rebuilds.
	recomputes int
}

func NewTransform() Transform {
	return Transform{
		scale:             math.Vec3One,
		world:             math.Mat4Identity(),
		worldInvTranspose: math.Mat4Identity(),
		vectorsDirty:      true,
	}
}

func (t *Transform) MoveAbsolute(dx, dy, dz float32) {
	t.position = t.position.Add(math.Vec3{X: dx, Y: dy, Z: dz})
	t.matrixDirty = true
}

// MoveRelative moves along the transform's own axes: the offset is rotated
// by the current orientation before it is added.
func (t *Transform) MoveRelative(dx, dy, dz float32) {
	offset := t.orientation().RotateVector(math.Vec3{X: dx, Y: dy, Z: dz})
	t.position = t.position.Add(offset)
	t.matrixDirty = true
}

func (t *Transform) Rotate(dPitch, dYaw, dRoll float32) {
	t.pitchYawRoll = t.pitchYawRoll.Add(math.Vec3{X: dPitch, Y: dYaw, Z: dRoll})
	t.matrixDirty = true
	t.vectorsDirty = true
}

// Scale multiplies the current scale component-wise.
func (t *Transform) Scale(sx, sy, sz float32) {
	t.scale = t.scale.MulVec(math.Vec3{X: sx, Y: sy, Z: sz})
	t.matrixDirty = true
}

func (t *Transform) SetPosition(x, y, z float32) {
	t.position = math.Vec3{X: x, Y: y, Z: z}
	t.matrixDirty = true
}

func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.pitchYawRoll = math.Vec3{X: pitch, Y: yaw, Z: roll}
	t.matrixDirty = true
	t.vectorsDirty = true
}

func (t *Transform) SetScale(x, y, z float32) {
	t.scale = math.Vec3{X: x, Y: y, Z: z}
	t.matrixDirty = true
}

func (t *Transform) Position() math.Vec3     { return t.position }
func (t *Transform) Rotation() math.Vec3     { return t.pitchYawRoll }
func (t *Transform) ScaleFactors() math.Vec3 { return t.scale }

func (t *Transform) WorldMatrix() math.Mat4 {
	t.updateMatrices()
	return t.world
}

// WorldInverseTransposeMatrix transforms normals correctly under non-uniform
// scale.
func (t *Transform) WorldInverseTransposeMatrix() math.Mat4 {
	t.updateMatrices()
	return t.worldInvTranspose
}

func (t *Transform) Right() math.Vec3 {
	t.updateVectors()
	return t.right
}

func (t *Transform) Up() math.Vec3 {
	t.updateVectors()
	return t.up
}

func (t *Transform) Forward() math.Vec3 {
	t.updateVectors()
	return t.fwd
}

func (t *Transform) orientation() math.Quaternion {
	return math.QuaternionRollPitchYaw(t.pitchYawRoll.X, t.pitchYawRoll.Y, t.pitchYawRoll.Z)
}

func (t *Transform) updateMatrices() {
	if !t.matrixDirty {
		return
	}
	s := math.Mat4Scale(t.scale)
	r := math.Mat4RotationRollPitchYaw(t.pitchYawRoll.X, t.pitchYawRoll.Y, t.pitchYawRoll.Z)
	tr := math.Mat4Translation(t.position)

	t.world = s.Mul(r).Mul(tr)
	t.worldInvTranspose = t.world.Transpose().Inverse()
	t.matrixDirty = false
	t.recomputes++
}

func (t *Transform) updateVectors() {
	if !t.vectorsDirty {
		return
	}
	q := t.orientation()
	t.right = q.RotateVector(math.Vec3Right)
	t.up = q.RotateVector(math.Vec3Up)
	t.fwd = q.RotateVector(math.Vec3Forward)
	t.vectorsDirty = false
}
