package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"

	"forward-renderer/gpu/gputest"
	"forward-renderer/math"
	"forward-renderer/renderer"
	"forward-renderer/scene"
)

func cliContext(t *testing.T, scenePath, model string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("scene", scenePath, "")
	set.String("model", model, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadDescriptionDefault(t *testing.T) {
	desc, err := loadDescription(cliContext(t, "", ""))
	if err != nil {
		t.Fatalf("loadDescription: %v", err)
	}
	expected := len(scene.DefaultDescription().Entities)
	if len(desc.Entities) != expected {
		t.Errorf("Entities: expected %d, got %d", expected, len(desc.Entities))
	}
}

func TestLoadDescriptionAddsModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	d := &scene.Description{Version: 1, Entities: []scene.EntityJSON{
		{Name: "box", Mesh: scene.MeshJSON{Primitive: "cube", Size: 1}},
	}}
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	desc, err := loadDescription(cliContext(t, path, filepath.Join("models", "teapot.obj")))
	if err != nil {
		t.Fatalf("loadDescription: %v", err)
	}
	if len(desc.Entities) != 2 {
		t.Fatalf("Entities: expected 2, got %d", len(desc.Entities))
	}
	if got := desc.Entities[1]; got.Name != "teapot.obj" || got.Mesh.Model != filepath.Join("models", "teapot.obj") {
		t.Errorf("model entity: expected teapot.obj, got %+v", got)
	}
}

func TestLoadDescriptionMissingFile(t *testing.T) {
	if _, err := loadDescription(cliContext(t, filepath.Join(t.TempDir(), "nope.json"), "")); err == nil {
		t.Errorf("loadDescription: expected error for missing file")
	}
}

func TestPopulateScene(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	s := scene.NewScene(rec)
	desc := scene.DefaultDescription()
	desc.ApplyToScene(s, scene.DefaultCameraConfig())

	if err := populateScene(s, desc, shaderCode{}); err != nil {
		t.Fatalf("populateScene: %v", err)
	}

	entities := s.Entities()
	if len(entities) != len(desc.Entities) {
		t.Fatalf("Entities: expected %d, got %d", len(desc.Entities), len(entities))
	}
	// white and flat normal are shared by every material
	if got := s.Registry.TextureCount(); got != 2 {
		t.Errorf("TextureCount: expected 2, got %d", got)
	}

	for i, e := range entities {
		ej := desc.Entities[i]
		if e.Name != ej.Name {
			t.Errorf("entity %d: expected name %q, got %q", i, ej.Name, e.Name)
		}
		expectedPos := math.Vec3{X: ej.Transform.Position.X, Y: ej.Transform.Position.Y, Z: ej.Transform.Position.Z}
		if got := e.Transform.Position(); got != expectedPos {
			t.Errorf("%s: expected position %v, got %v", e.Name, expectedPos, got)
		}

		mat, ok := s.Registry.Material(e.Material)
		if !ok {
			t.Fatalf("%s: material handle does not resolve", e.Name)
		}
		if ej.Tint != nil {
			if expected := ej.Tint.Color().Vec4(); mat.ColorTint != expected {
				t.Errorf("%s: expected tint %v, got %v", e.Name, expected, mat.ColorTint)
			}
		}
		if ej.Roughness != nil && mat.Roughness != *ej.Roughness {
			t.Errorf("%s: expected roughness %v, got %v", e.Name, *ej.Roughness, mat.Roughness)
		}
		expectedMaps := []string{"albedo", "normalMap", "basicSampler"}
		names := append(mat.TextureNames(), mat.SamplerNames()...)
		if strings.Join(names, ",") != strings.Join(expectedMaps, ",") {
			t.Errorf("%s: expected bindings %v, got %v", e.Name, expectedMaps, names)
		}
	}
}

func TestPopulateSceneImportsOBJ(t *testing.T) {
	dir := t.TempDir()
	obj := "o a\nv 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 3\no b\nv 0 0 1\nv 1 0 1\nv 1 1 1\nf 4 5 6\n"
	path := filepath.Join(dir, "pair.obj")
	if err := os.WriteFile(path, []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}

	s := scene.NewScene(gputest.NewRecorder(64, 64))
	desc := &scene.Description{Entities: []scene.EntityJSON{{Name: "pair", Mesh: scene.MeshJSON{Model: path}}}}
	if err := populateScene(s, desc, shaderCode{}); err != nil {
		t.Fatalf("populateScene: %v", err)
	}

	var names []string
	for _, e := range s.Entities() {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "pair/0,pair/1" {
		t.Errorf("Entities: expected [pair/0 pair/1], got %v", names)
	}
}

func TestPopulateScenePropagatesCreateFailure(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	rec.FailCreate = map[string]error{"sphere.vb": os.ErrInvalid}
	s := scene.NewScene(rec)

	err := populateScene(s, scene.DefaultDescription(), shaderCode{})
	if err == nil || !strings.Contains(err.Error(), `"sphere"`) {
		t.Errorf("populateScene: expected sphere error, got %v", err)
	}
}

func TestAimShadowUsesFirstDirectionalLight(t *testing.T) {
	lights := []scene.Light{
		scene.PointLight(math.Vec3{Y: 3}, math.Vec3One, 1, 5),
		scene.DirectionalLight(math.Vec3{X: 1}, math.Vec3One, 1),
		scene.DirectionalLight(math.Vec3{Y: -1}, math.Vec3One, 1),
	}
	cfg := renderer.DefaultConfig()
	aimShadow(&cfg, lights)

	expected := math.Vec3{X: -sunDistance}
	if !cfg.LightPosition.ApproxEqual(expected, 1e-5) {
		t.Errorf("LightPosition: expected %v, got %v", expected, cfg.LightPosition)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: expected aimed config to be valid, got %v", err)
	}

	untouched := renderer.DefaultConfig()
	aimShadow(&untouched, lights[:1])
	if untouched != renderer.DefaultConfig() {
		t.Errorf("aimShadow: expected no change without a directional light")
	}
}

func TestSkyFacesGradient(t *testing.T) {
	faces, err := skyFaces("")
	if err != nil {
		t.Fatalf("skyFaces: %v", err)
	}
	for i, f := range faces {
		if f.Rect.Dx() != 256 || f.Rect.Dy() != 256 {
			t.Errorf("face %d: expected 256x256, got %v", i, f.Rect)
		}
	}
}

func TestDebugOverlayTick(t *testing.T) {
	do := NewDebugOverlay(0.5)
	stats := renderer.FrameStats{
		Passes: []renderer.PassStats{
			{Name: renderer.ShadowPassName, Draws: 4},
			{Name: renderer.LitPassName, Draws: 3},
			{Name: renderer.SkyPassName, Draws: 1},
		},
		Culled:    1,
		FrameTime: 2500 * time.Microsecond,
	}

	// 0.125 is exact in float32, so four ticks land on the period
	for i := 0; i < 3; i++ {
		if _, ok := do.Tick(0.125, stats); ok {
			t.Fatalf("Tick %d: expected no refresh before the period", i)
		}
	}
	text, ok := do.Tick(0.125, stats)
	if !ok {
		t.Fatalf("Tick: expected refresh after the period")
	}
	expected := "8 fps | 8 draws | shadow 4 | lit 3 | culled 1 | 2.50 ms"
	if text != expected {
		t.Errorf("Tick: expected %q, got %q", expected, text)
	}
	if _, ok := do.Tick(0.125, stats); ok {
		t.Errorf("Tick: expected the period to restart")
	}
}

func TestWriteInspection(t *testing.T) {
	var buf bytes.Buffer
	if err := writeInspection(&buf, scene.DefaultDescription()); err != nil {
		t.Fatalf("writeInspection: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ground", "plane", "torus", "directional", "point", "TOTAL", "(1.50, 1.50, 1.50)"} {
		if !strings.Contains(out, want) {
			t.Errorf("writeInspection: expected output to contain %q\n%s", want, out)
		}
	}
}

func TestWriteInspectionRejectsBadMesh(t *testing.T) {
	desc := &scene.Description{Entities: []scene.EntityJSON{{Name: "bad", Mesh: scene.MeshJSON{Primitive: "cone"}}}}
	if err := writeInspection(&bytes.Buffer{}, desc); err == nil {
		t.Errorf("writeInspection: expected error for unknown primitive")
	}
}
