package scene

import (
	"errors"
	"reflect"
	"testing"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/gpu/gputest"
	"forward-renderer/math"
)

func newTestShaders(t *testing.T, reg *Registry, psNames string) (gpu.VertexShader, gpu.PixelShader) {
	t.Helper()
	vs, err := reg.CreateVertexShader("vs", nil)
	if err != nil {
		t.Fatalf("CreateVertexShader: %v", err)
	}
	ps, err := reg.CreatePixelShader("ps", []byte(psNames))
	if err != nil {
		t.Fatalf("CreatePixelShader: %v", err)
	}
	return vs, ps
}

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial("m", nil, nil)

	if m.ColorTint != (math.Vec4{X: 1, Y: 1, Z: 1, W: 1}) {
		t.Errorf("ColorTint: expected white, got %v", m.ColorTint)
	}
	if m.Roughness != 0.5 {
		t.Errorf("Roughness: expected 0.5, got %v", m.Roughness)
	}
	if m.UVScale != math.Vec2One || m.UVOffset != (math.Vec2{}) {
		t.Errorf("UV transform: expected identity, got scale %v offset %v", m.UVScale, m.UVOffset)
	}
}

func TestMaterialSetMapsBindsDeclaredNames(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	reg := NewRegistry(rec)
	vs, ps := newTestShaders(t, reg, "colorTint roughness uvScale uvOffset albedo basicSampler")

	tex, err := reg.CreateTexture("bricks", SolidImage(core.ColorRed))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	smp, err := reg.CreateSampler("basic", gpu.DefaultSamplerDesc())
	if err != nil {
		t.Fatalf("CreateSampler: %v", err)
	}

	m := NewMaterial("bricks", vs, ps)
	m.Roughness = 0.8
	m.SetTexture("albedo", tex)
	m.SetTexture("normalMap", tex)
	m.SetSampler("basicSampler", smp)

	missing := m.SetMaps(ps, reg)
	if !reflect.DeepEqual(missing, []string{"normalMap"}) {
		t.Errorf("SetMaps missing: expected [normalMap], got %v", missing)
	}

	ps.CopyAllBufferData()
	shader := ps.(*gputest.Shader)
	if v, _ := shader.Param("roughness"); v != float32(0.8) {
		t.Errorf("roughness: expected 0.8, got %v", v)
	}
	view, _ := reg.Texture(tex)
	if v, _ := shader.Param("albedo"); v != view {
		t.Errorf("albedo: expected %v, got %v", view, v)
	}
	if shader.Missing["normalMap"] != 1 {
		t.Errorf("Missing[normalMap]: expected 1, got %d", shader.Missing["normalMap"])
	}
}

func TestMaterialSetMapsInvalidHandle(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	reg := NewRegistry(rec)
	vs, ps := newTestShaders(t, reg, "")

	m := NewMaterial("m", vs, ps)
	m.SetTexture("albedo", TextureHandle(7))
	m.SetSampler("basicSampler", 0)

	missing := m.SetMaps(ps, reg)
	expected := []string{"albedo", "basicSampler"}
	if !reflect.DeepEqual(missing, expected) {
		t.Errorf("SetMaps missing: expected %v, got %v", expected, missing)
	}
}

func TestMaterialRebindReplacesInPlace(t *testing.T) {
	m := NewMaterial("m", nil, nil)
	m.SetTexture("albedo", 1)
	m.SetTexture("roughnessMap", 2)
	m.SetTexture("albedo", 3)

	if got := m.TextureNames(); !reflect.DeepEqual(got, []string{"albedo", "roughnessMap"}) {
		t.Errorf("TextureNames: expected [albedo roughnessMap], got %v", got)
	}
	if m.textures[0].handle != 3 {
		t.Errorf("albedo handle: expected 3, got %d", m.textures[0].handle)
	}

	m.SetSampler("s", 1)
	m.SetSampler("s", 2)
	if got := m.SamplerNames(); len(got) != 1 {
		t.Errorf("SamplerNames: expected 1 entry, got %v", got)
	}
}

func TestRegistryHandles(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	reg := NewRegistry(rec)

	h1, err := reg.CreateMesh(CreateCube(1))
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	h2, err := reg.CreateMesh(CreatePlane(1, 1, 1))
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	if h1 != 1 || h2 != 2 {
		t.Errorf("handles: expected 1 and 2, got %d and %d", h1, h2)
	}
	if reg.MeshCount() != 2 {
		t.Errorf("MeshCount: expected 2, got %d", reg.MeshCount())
	}

	if _, ok := reg.Mesh(0); ok {
		t.Errorf("Mesh(0): expected invalid")
	}
	if _, ok := reg.Mesh(3); ok {
		t.Errorf("Mesh(3): expected invalid")
	}
	if _, ok := reg.Material(1); ok {
		t.Errorf("Material(1): expected invalid on empty registry")
	}

	mesh, ok := reg.Mesh(h1)
	if !ok {
		t.Fatalf("Mesh(%d): expected valid", h1)
	}
	if mesh.IndexCount() != 36 || mesh.VertexCount() != 24 {
		t.Errorf("cube mesh: expected 36 indices and 24 vertices, got %d and %d", mesh.IndexCount(), mesh.VertexCount())
	}
}

func TestRegistryEmptyMesh(t *testing.T) {
	reg := NewRegistry(gputest.NewRecorder(64, 64))

	_, err := reg.CreateMesh(core.MeshData{Name: "empty"})
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("CreateMesh: expected ErrEmptyMesh, got %v", err)
	}
	if reg.MeshCount() != 0 {
		t.Errorf("MeshCount: expected 0, got %d", reg.MeshCount())
	}
}

func TestRegistryCreateFailure(t *testing.T) {
	boom := errors.New("out of memory")
	rec := gputest.NewRecorder(64, 64)
	rec.FailCreate = map[string]error{"cube.ib": boom}
	reg := NewRegistry(rec)

	data := CreateCube(1)
	data.Name = "cube"
	_, err := reg.CreateMesh(data)
	if !errors.Is(err, boom) {
		t.Errorf("CreateMesh: expected wrapped device error, got %v", err)
	}

	rec.FailCreate = map[string]error{"ps": boom}
	if _, err := reg.CreatePixelShader("ps", nil); !errors.Is(err, boom) {
		t.Errorf("CreatePixelShader: expected wrapped device error, got %v", err)
	}
}

func TestRegistryRelease(t *testing.T) {
	rec := gputest.NewRecorder(64, 64)
	reg := NewRegistry(rec)

	h, _ := reg.CreateMesh(CreateCube(1))
	mesh, _ := reg.Mesh(h)
	th, _ := reg.CreateTexture("white", SolidImage(core.ColorWhite))
	tex, _ := reg.Texture(th)
	vs, _ := reg.CreateVertexShader("vs", nil)

	reg.Release()

	if !mesh.VertexBuffer().(*gputest.Buffer).Released || !mesh.IndexBuffer().(*gputest.Buffer).Released {
		t.Errorf("Release: expected mesh buffers released")
	}
	if !tex.(*gputest.Texture).Released {
		t.Errorf("Release: expected texture released")
	}
	if !vs.(*gputest.Shader).Released {
		t.Errorf("Release: expected shader released")
	}
	if _, ok := reg.Mesh(h); ok {
		t.Errorf("Mesh(%d): expected invalid after Release", h)
	}
}

func TestSceneAddEntity(t *testing.T) {
	s := NewScene(gputest.NewRecorder(64, 64))
	mh, _ := s.Registry.CreateMesh(CreateCube(1))
	mat := s.Registry.AddMaterial(NewMaterial("m", nil, nil))

	if _, err := s.AddEntity("bad", 9, mat); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("AddEntity bad mesh: expected ErrInvalidHandle, got %v", err)
	}
	if _, err := s.AddEntity("bad", mh, 0); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("AddEntity bad material: expected ErrInvalidHandle, got %v", err)
	}

	a, err := s.AddEntity("a", mh, mat)
	if err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	b, _ := s.AddEntity("b", mh, mat)
	if got := s.Entities(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Entities: expected insertion order [a b], got %v", got)
	}
	if a.Transform.WorldMatrix() != math.Mat4Identity() {
		t.Errorf("new entity: expected identity world matrix")
	}

	if err := s.Validate(); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Validate: expected ErrNoCamera, got %v", err)
	}
	s.SetCamera(NewCamera(DefaultCameraConfig()))
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: expected nil, got %v", err)
	}
}

func TestLightDescriptor(t *testing.T) {
	l := DirectionalLight(math.Vec3{Y: -2}, math.Vec3One, 0.7)
	d := l.Descriptor()

	if d.Direction != [3]float32{0, -1, 0} {
		t.Errorf("Direction: expected normalized (0,-1,0), got %v", d.Direction)
	}
	if d.Type != int32(LightDirectional) || d.Intensity != 0.7 {
		t.Errorf("Descriptor: expected directional with intensity 0.7, got %+v", d)
	}

	p := PointLight(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: 1}, 2, 10).Descriptor()
	if p.Type != int32(LightPoint) || p.Position != [3]float32{1, 2, 3} || p.Range != 10 {
		t.Errorf("Descriptor: expected point light at (1,2,3) range 10, got %+v", p)
	}
}
