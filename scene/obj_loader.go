package scene

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"forward-renderer/core"
	"forward-renderer/math"
)

// ImportedMesh is one mesh decoded from a model file together with its base
// color. BaseColorImage is nil when the source has no texture for it.
type ImportedMesh struct {
	Data           core.MeshData
	BaseColor      core.Color
	BaseColorImage *image.RGBA
}

// ImportModel loads an .obj, .gltf or .glb file by extension.
func ImportModel(path string) ([]ImportedMesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("import %q: unsupported model format", path)
	}
}

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

type objMaterial struct {
	diffuse core.Color
	mapKd   string
}

// LoadOBJ parses a Wavefront .obj file and returns one mesh per object or
// group. A companion .mtl file referenced by "mtllib" supplies diffuse colors
// and diffuse maps.
func LoadOBJ(path string) ([]ImportedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	objects, mtllibs, err := parseOBJ(f, dir)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}

	materials := map[string]objMaterial{}
	for _, lib := range mtllibs {
		loaded, err := loadMTL(lib, dir)
		if err != nil {
			continue
		}
		for k, v := range loaded {
			materials[k] = v
		}
	}

	out := make([]ImportedMesh, 0, len(objects))
	for _, obj := range objects {
		im := ImportedMesh{Data: obj.data, BaseColor: core.ColorWhite}
		if mat, ok := materials[obj.matName]; ok {
			im.BaseColor = mat.diffuse
			if mat.mapKd != "" {
				if img, err := LoadImage(mat.mapKd); err == nil {
					im.BaseColorImage = img
				}
			}
		}
		out = append(out, im)
	}
	return out, nil
}

type parsedObject struct {
	data    core.MeshData
	matName string
}

// ParseOBJ reads OBJ geometry from r, ignoring material libraries. The
// result is converted to the left-handed frame.
func ParseOBJ(r io.Reader) ([]core.MeshData, error) {
	objects, _, err := parseOBJ(r, "")
	if err != nil {
		return nil, err
	}
	out := make([]core.MeshData, len(objects))
	for i, o := range objects {
		out[i] = o.data
	}
	return out, nil
}

func parseOBJ(r io.Reader, dir string) ([]parsedObject, []string, error) {
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2
	var mtllibs []string

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseVec3(fields[1:4]))

		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseVec3(fields[1:4]))

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			// OBJ puts the texture origin bottom-left; the renderer samples
			// top-left.
			uvs = append(uvs, math.Vec2{X: float32(u), Y: 1 - float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				mtllibs = append(mtllibs, filepath.Join(dir, fields[1]))
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			fverts := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, nil, fmt.Errorf("no geometry: %w", ErrEmptyMesh)
	}

	out := make([]parsedObject, 0, len(objects))
	for _, obj := range objects {
		data := buildMeshFromOBJ(obj.name, obj.faces, positions, normals, uvs)
		data.FlipHandedness()
		ComputeTangents(&data)
		out = append(out, parsedObject{data: data, matName: obj.matName})
	}
	return out, mtllibs, nil
}

func parseVec3(fields []string) math.Vec3 {
	x, _ := strconv.ParseFloat(fields[0], 32)
	y, _ := strconv.ParseFloat(fields[1], 32)
	z, _ := strconv.ParseFloat(fields[2], 32)
	return math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

type faceVertex struct{ v, vt, vn int }

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn",
// "v/vt/vn". OBJ indices are 1-based, and negative ones count back from the
// end of the current pool; the result is 0-based with -1 for absent.
func parseFaceVertex(tok string, nv, nvt, nvn int) faceVertex {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil || i == 0:
			return -1
		case i > 0:
			return i - 1
		default:
			return n + i
		}
	}
	parts := strings.Split(tok, "/")
	res := faceVertex{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// buildMeshFromOBJ converts parsed face data into deduplicated vertices.
func buildMeshFromOBJ(name string, faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) core.MeshData {
	vertMap := map[faceVertex]uint32{}
	data := core.MeshData{Name: name}

	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3Zero
	}
	safeNorm := func(i int) math.Vec3 {
		if i >= 0 && i < len(normals) {
			return normals[i]
		}
		return math.Vec3Up
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := faceVertex{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				idx = uint32(len(data.Vertices))
				data.Vertices = append(data.Vertices, core.Vertex{
					Position: safePos(k.v),
					Normal:   safeNorm(k.vn),
					UV:       safeUV(k.vt),
				})
				vertMap[k] = idx
			}
			data.Indices = append(data.Indices, idx)
		}
	}

	if len(normals) == 0 {
		generateNormals(data.Vertices, data.Indices)
	}
	return data
}

// generateNormals computes area-weighted vertex normals.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := vertices[i0].Position
		v1 := vertices[i1].Position
		v2 := vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if accum[i].LengthSqr() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]objMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]objMaterial{}
	var cur string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				cur = fields[1]
				mats[cur] = objMaterial{diffuse: core.ColorWhite}
			}
		case "Kd":
			if m, ok := mats[cur]; ok && len(fields) >= 4 {
				c := parseVec3(fields[1:4])
				m.diffuse = core.Color{R: c.X, G: c.Y, B: c.Z, A: 1}
				mats[cur] = m
			}
		case "map_Kd":
			if m, ok := mats[cur]; ok && len(fields) >= 2 {
				m.mapKd = filepath.Join(dir, fields[len(fields)-1])
				mats[cur] = m
			}
		}
	}
	return mats, scanner.Err()
}
