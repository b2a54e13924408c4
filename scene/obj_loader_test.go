package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"forward-renderer/core"
	"forward-renderer/math"
)

const quadOBJ = `# unit quad facing +Z in a right-handed frame
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	meshes, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("meshes: expected 1, got %d", len(meshes))
	}
	data := meshes[0]

	if data.Name != "quad" {
		t.Errorf("Name: expected quad, got %q", data.Name)
	}
	if len(data.Vertices) != 4 {
		t.Errorf("Vertices: expected 4, got %d", len(data.Vertices))
	}
	if len(data.Indices) != 6 {
		t.Errorf("Indices: expected 6 after fan triangulation, got %d", len(data.Indices))
	}

	for i, v := range data.Vertices {
		if v.Normal != (math.Vec3{Z: -1}) {
			t.Errorf("vertex %d: expected normal (0,0,-1) after handedness flip, got %v", i, v.Normal)
		}
	}
	// vt 0 0 is the bottom-left of the image, which samples at v = 1.
	if uv := data.Vertices[0].UV; uv != (math.Vec2{X: 0, Y: 1}) {
		t.Errorf("UV: expected (0,1), got %v", uv)
	}

	checkWinding(t, data)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	meshes, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	data := meshes[0]
	if len(data.Indices) != 3 {
		t.Fatalf("Indices: expected 3, got %d", len(data.Indices))
	}

	expected := []math.Vec3{{}, {Y: 1}, {X: 1}}
	for i, idx := range data.Indices {
		if got := data.Vertices[idx].Position; got != expected[i] {
			t.Errorf("corner %d: expected %v, got %v", i, expected[i], got)
		}
	}
	// Without normals the generated ones face the viewer of the flipped
	// triangle.
	checkWinding(t, data)
}

func TestParseOBJGroups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
g first
f 1 2 3
g second
f 1 3 2
`
	meshes, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("meshes: expected 2, got %d", len(meshes))
	}
	if meshes[0].Name != "first" || meshes[1].Name != "second" {
		t.Errorf("names: expected first and second, got %q and %q", meshes[0].Name, meshes[1].Name)
	}
}

func TestParseOBJEmpty(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("# nothing\nv 0 0 0\n"))
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("ParseOBJ: expected ErrEmptyMesh, got %v", err)
	}
}

func TestLoadOBJWithMaterial(t *testing.T) {
	dir := t.TempDir()
	obj := "mtllib quad.mtl\nusemtl red\n" + quadOBJ
	mtl := "newmtl red\nKd 1 0 0\n"
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "quad.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatal(err)
	}

	meshes, err := ImportModel(filepath.Join(dir, "quad.obj"))
	if err != nil {
		t.Fatalf("ImportModel: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("meshes: expected 1, got %d", len(meshes))
	}
	if meshes[0].BaseColor != (core.Color{R: 1, A: 1}) {
		t.Errorf("BaseColor: expected red, got %v", meshes[0].BaseColor)
	}
	if meshes[0].BaseColorImage != nil {
		t.Errorf("BaseColorImage: expected nil without map_Kd")
	}
}

func TestImportModelUnsupported(t *testing.T) {
	if _, err := ImportModel("model.fbx"); err == nil {
		t.Errorf("ImportModel: expected error for .fbx")
	}
}
