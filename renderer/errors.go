package renderer

import "errors"

var (
	ErrInvalidConfig   = errors.New("renderer: invalid config")
	ErrDegenerateLight = errors.New("renderer: light up vector is parallel to its direction")
)
