package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"forward-renderer/core"
	"forward-renderer/math"
)

// ── JSON data structures ──────────────────────────────────────────────────────

type Vec3JSON struct {
	X, Y, Z float32
}

type ColorJSON struct {
	R, G, B, A float32
}

type TransformJSON struct {
	Position Vec3JSON
	Rotation Vec3JSON // pitch, yaw, roll in radians
	Scale    *Vec3JSON
}

type CameraJSON struct {
	Position Vec3JSON
	Rotation Vec3JSON
	FOV      float32
	Near     float32
	Far      float32
}

type LightJSON struct {
	Type      string // "directional" or "point"
	Direction Vec3JSON
	Position  Vec3JSON
	Color     Vec3JSON
	Intensity float32
	Range     float32
}

// MeshJSON names a mesh source: a primitive ("cube", "sphere", "plane",
// "cylinder", "torus") sized by Size, or a model file path.
type MeshJSON struct {
	Primitive string `json:",omitempty"`
	Size      float32
	Model     string `json:",omitempty"`
}

type EntityJSON struct {
	Name      string
	Mesh      MeshJSON
	Transform TransformJSON
	Tint      *ColorJSON `json:",omitempty"`
	Roughness *float32   `json:",omitempty"`
	Texture   string     `json:",omitempty"`
}

// Description is a declarative scene: camera, lights, ambient color and the
// entities to build. Meshes are referenced by primitive name or model path.
type Description struct {
	Version  int
	Ambient  ColorJSON
	Camera   *CameraJSON `json:",omitempty"`
	Lights   []LightJSON
	Entities []EntityJSON
}

// ── Load / Save ──────────────────────────────────────────────────────────────

func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %q: %w", path, err)
	}
	d, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", path, err)
	}
	return d, nil
}

func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Description) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}
	return nil
}

func (d *Description) Validate() error {
	for i, l := range d.Lights {
		if l.Type != "directional" && l.Type != "point" {
			return fmt.Errorf("light %d: unknown type %q: %w", i, l.Type, ErrDescription)
		}
	}
	for _, e := range d.Entities {
		if err := e.Mesh.validate(); err != nil {
			return fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	return nil
}

func (m MeshJSON) validate() error {
	if m.Model != "" {
		if m.Primitive != "" {
			return fmt.Errorf("both primitive and model set: %w", ErrDescription)
		}
		return nil
	}
	switch m.Primitive {
	case "cube", "sphere", "plane", "cylinder", "torus":
		return nil
	default:
		return fmt.Errorf("unknown primitive %q: %w", m.Primitive, ErrDescription)
	}
}

// Build generates or imports the mesh data. Primitives yield one white
// mesh; models yield one mesh per imported primitive.
func (m MeshJSON) Build() ([]ImportedMesh, error) {
	if m.Model != "" {
		return ImportModel(m.Model)
	}
	size := m.Size
	if size <= 0 {
		size = 1
	}
	var data core.MeshData
	switch m.Primitive {
	case "cube":
		data = CreateCube(size)
	case "sphere":
		data = CreateSphere(size/2, 32, 16)
	case "plane":
		data = CreatePlane(size, size, 4)
	case "cylinder":
		data = CreateCylinder(size/2, size, 32)
	case "torus":
		data = CreateTorus(size/2, size/6, 32, 16)
	default:
		return nil, fmt.Errorf("unknown primitive %q: %w", m.Primitive, ErrDescription)
	}
	return []ImportedMesh{{Data: data, BaseColor: core.ColorWhite}}, nil
}

// ApplyToScene sets the scene's ambient color, lights and camera transform
// from the description. Entities are built by the caller, which owns the
// shaders their materials need.
func (d *Description) ApplyToScene(s *Scene, camera CameraConfig) {
	s.Ambient = jsonToColor(d.Ambient)

	s.Lights = s.Lights[:0]
	for _, l := range d.Lights {
		s.AddLight(jsonToLight(l))
	}

	if d.Camera != nil {
		camera.Position = jsonToVec3(d.Camera.Position)
		if d.Camera.FOV > 0 {
			camera.FieldOfView = d.Camera.FOV
		}
		if d.Camera.Near > 0 {
			camera.NearPlane = d.Camera.Near
		}
		if d.Camera.Far > 0 {
			camera.FarPlane = d.Camera.Far
		}
	}
	cam := NewCamera(camera)
	if d.Camera != nil {
		r := d.Camera.Rotation
		cam.Transform().SetRotation(r.X, r.Y, r.Z)
		cam.UpdateViewMatrix()
	}
	s.SetCamera(cam)
}

// Apply writes the described placement into t.
func (tj TransformJSON) Apply(t *Transform) {
	t.SetPosition(tj.Position.X, tj.Position.Y, tj.Position.Z)
	t.SetRotation(tj.Rotation.X, tj.Rotation.Y, tj.Rotation.Z)
	if tj.Scale != nil {
		t.SetScale(tj.Scale.X, tj.Scale.Y, tj.Scale.Z)
	}
}

// DefaultDescription is the demo scene: a ground plane, a few primitives,
// one shadow-casting sun and two point lights.
func DefaultDescription() *Description {
	rough := float32(0.9)
	return &Description{
		Version: 1,
		Ambient: ColorJSON{0.08, 0.09, 0.12, 1},
		Camera:  &CameraJSON{Position: Vec3JSON{0, 3, -12}, Rotation: Vec3JSON{0.2, 0, 0}},
		Lights: []LightJSON{
			{Type: "directional", Direction: Vec3JSON{0, -0.5, -0.2}, Color: Vec3JSON{1, 0.95, 0.85}, Intensity: 1},
			{Type: "point", Position: Vec3JSON{-3, 2, -2}, Color: Vec3JSON{1, 0.3, 0.2}, Intensity: 2, Range: 8},
			{Type: "point", Position: Vec3JSON{3, 2, 2}, Color: Vec3JSON{0.2, 0.4, 1}, Intensity: 2, Range: 8},
		},
		Entities: []EntityJSON{
			{Name: "ground", Mesh: MeshJSON{Primitive: "plane", Size: 30}, Transform: TransformJSON{Position: Vec3JSON{0, -1, 0}}, Roughness: &rough},
			{Name: "cube", Mesh: MeshJSON{Primitive: "cube", Size: 1.5}, Transform: TransformJSON{Position: Vec3JSON{-3, 0, 0}, Rotation: Vec3JSON{0, 0.6, 0}}, Tint: &ColorJSON{0.9, 0.4, 0.3, 1}},
			{Name: "sphere", Mesh: MeshJSON{Primitive: "sphere", Size: 2}, Tint: &ColorJSON{0.8, 0.8, 0.85, 1}},
			{Name: "torus", Mesh: MeshJSON{Primitive: "torus", Size: 2}, Transform: TransformJSON{Position: Vec3JSON{3, 0, 0}, Rotation: Vec3JSON{1.2, 0, 0}}, Tint: &ColorJSON{0.3, 0.7, 0.4, 1}},
			{Name: "pillar", Mesh: MeshJSON{Primitive: "cylinder", Size: 3}, Transform: TransformJSON{Position: Vec3JSON{0, 0.5, 4}}},
		},
	}
}

// ── conversion helpers ────────────────────────────────────────────────────────

func jsonToVec3(v Vec3JSON) math.Vec3    { return math.Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func jsonToColor(c ColorJSON) core.Color { return core.Color{R: c.R, G: c.G, B: c.B, A: c.A} }

func jsonToLight(lj LightJSON) Light {
	if lj.Type == "point" {
		return PointLight(jsonToVec3(lj.Position), jsonToVec3(lj.Color), lj.Intensity, lj.Range)
	}
	return DirectionalLight(jsonToVec3(lj.Direction), jsonToVec3(lj.Color), lj.Intensity)
}

func (c ColorJSON) Color() core.Color { return jsonToColor(c) }
