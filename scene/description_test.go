package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"forward-renderer/gpu/gputest"
	"forward-renderer/math"
)

func TestDefaultDescriptionValidates(t *testing.T) {
	d := DefaultDescription()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, e := range d.Entities {
		meshes, err := e.Mesh.Build()
		if err != nil {
			t.Errorf("Build %q: %v", e.Name, err)
			continue
		}
		if len(meshes) != 1 || len(meshes[0].Data.Indices) == 0 {
			t.Errorf("Build %q: expected one non-empty mesh", e.Name)
		}
	}
}

func TestDescriptionValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown primitive", `{"Entities":[{"Name":"x","Mesh":{"Primitive":"teapot"}}]}`},
		{"primitive and model", `{"Entities":[{"Name":"x","Mesh":{"Primitive":"cube","Model":"a.obj"}}]}`},
		{"unknown light", `{"Lights":[{"Type":"spot"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.json))
			if !errors.Is(err, ErrDescription) {
				t.Errorf("ParseDescription: expected ErrDescription, got %v", err)
			}
		})
	}

	if _, err := ParseDescription([]byte("{")); err == nil || errors.Is(err, ErrDescription) {
		t.Errorf("ParseDescription: expected a JSON syntax error, got %v", err)
	}
}

func TestDescriptionSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	d := DefaultDescription()
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("LoadDescription: %v", err)
	}
	if len(loaded.Entities) != len(d.Entities) || len(loaded.Lights) != len(d.Lights) {
		t.Errorf("LoadDescription: expected %d entities and %d lights, got %d and %d",
			len(d.Entities), len(d.Lights), len(loaded.Entities), len(loaded.Lights))
	}
	if *loaded.Entities[0].Roughness != *d.Entities[0].Roughness {
		t.Errorf("Roughness: expected %v, got %v", *d.Entities[0].Roughness, *loaded.Entities[0].Roughness)
	}
}

func TestDescriptionApplyToScene(t *testing.T) {
	s := NewScene(gputest.NewRecorder(64, 64))
	s.AddLight(PointLight(math.Vec3Zero, math.Vec3One, 1, 1))

	d := DefaultDescription()
	d.ApplyToScene(s, DefaultCameraConfig())

	if len(s.Lights) != len(d.Lights) {
		t.Errorf("Lights: expected %d (replaced), got %d", len(d.Lights), len(s.Lights))
	}
	if s.Lights[0].Type != LightDirectional {
		t.Errorf("Lights[0]: expected directional, got %v", s.Lights[0].Type)
	}
	if s.Camera == nil {
		t.Fatalf("Camera: expected camera to be set")
	}
	expected := jsonToVec3(d.Camera.Position)
	if got := s.Camera.Transform().Position(); got != expected {
		t.Errorf("Camera position: expected %v, got %v", expected, got)
	}
	if s.Ambient != d.Ambient.Color() {
		t.Errorf("Ambient: expected %v, got %v", d.Ambient.Color(), s.Ambient)
	}
}

func TestTransformJSONApply(t *testing.T) {
	tj := TransformJSON{
		Position: Vec3JSON{1, 2, 3},
		Rotation: Vec3JSON{0, 0.5, 0},
		Scale:    &Vec3JSON{2, 2, 2},
	}
	tr := NewTransform()
	tj.Apply(&tr)

	if tr.Position() != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Position: expected (1,2,3), got %v", tr.Position())
	}
	if tr.Rotation() != (math.Vec3{Y: 0.5}) {
		t.Errorf("Rotation: expected (0,0.5,0), got %v", tr.Rotation())
	}
	if tr.ScaleFactors() != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Scale: expected (2,2,2), got %v", tr.ScaleFactors())
	}

	// No scale keeps the current one.
	TransformJSON{}.Apply(&tr)
	if tr.ScaleFactors() != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Scale: expected unchanged, got %v", tr.ScaleFactors())
	}
}
