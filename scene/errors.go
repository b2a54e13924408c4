package scene

import "errors"

var (
	ErrInvalidHandle = errors.New("scene: invalid handle")
	ErrEmptyMesh     = errors.New("scene: mesh has no vertices or indices")
	ErrNoCamera      = errors.New("scene: no camera defined")
	ErrDescription   = errors.New("scene: invalid description")
)
