package scene

import (
	"fmt"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

// Scene holds everything one frame draws: entities, the camera, the lights
// and the registry that owns their resources.
type Scene struct {
	Registry *Registry
	Camera   *Camera
	Lights   []Light
	Ambient  core.Color

	entities []*Entity
}

func NewScene(device gpu.Device) *Scene {
	return &Scene{
		Registry: NewRegistry(device),
		Ambient:  core.Color{R: 0.1, G: 0.1, B: 0.15, A: 1},
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// AddEntity creates an entity at the origin. Both handles must resolve in
// the scene's registry.
func (s *Scene) AddEntity(name string, mesh MeshHandle, material MaterialHandle) (*Entity, error) {
	if _, ok := s.Registry.Mesh(mesh); !ok {
		return nil, fmt.Errorf("entity %q: mesh %d: %w", name, mesh, ErrInvalidHandle)
	}
	if _, ok := s.Registry.Material(material); !ok {
		return nil, fmt.Errorf("entity %q: material %d: %w", name, material, ErrInvalidHandle)
	}
	e := &Entity{
		Name:      name,
		Transform: NewTransform(),
		Mesh:      mesh,
		Material:  material,
	}
	s.entities = append(s.entities, e)
	return e, nil
}

// Entities returns the entities in insertion order, which is also draw
// order.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

func (s *Scene) AddLight(l Light) {
	s.Lights = append(s.Lights, l)
}

// Validate reports whether the scene can be drawn.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	return nil
}

// Release frees the registry's GPU resources.
func (s *Scene) Release() {
	s.Registry.Release()
}
