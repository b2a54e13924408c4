package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"forward-renderer/core"
	"forward-renderer/math"
)

// LoadGLTF opens a .glb or .gltf file and returns one mesh per triangle
// primitive reachable from the default scene. Node transforms are baked into
// the vertices, so the result has no hierarchy. Base color factors and
// base color textures are carried over; everything else in the material is
// ignored.
func LoadGLTF(path string) ([]ImportedMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	var skipped []error

	// ── 1. Images ────────────────────────────────────────────────────────────
	images := make([]*image.RGBA, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		switch {
		case img.BufferView != nil:
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				skipped = append(skipped, fmt.Errorf("image %d bufferview: %w", *gt.Source, err))
				continue
			}
			decoded, _, err := image.Decode(bytes.NewReader(raw))
			if err != nil {
				skipped = append(skipped, fmt.Errorf("image %d decode: %w", *gt.Source, err))
				continue
			}
			images[i] = toRGBA(decoded)
		case img.URI != "" && !img.IsEmbeddedResource():
			loaded, err := LoadImage(filepath.Join(dir, img.URI))
			if err != nil {
				skipped = append(skipped, fmt.Errorf("image %d: %w", *gt.Source, err))
				continue
			}
			images[i] = loaded
		}
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	type baseColor struct {
		factor core.Color
		image  *image.RGBA
	}
	materials := make([]baseColor, len(doc.Materials))
	for i, gm := range doc.Materials {
		bc := baseColor{factor: core.ColorWhite}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			bc.factor = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
			if t := pbr.BaseColorTexture; t != nil && t.Index < len(images) {
				bc.image = images[t.Index]
			}
		}
		materials[i] = bc
	}

	// ── 3. Nodes ─────────────────────────────────────────────────────────────
	var out []ImportedMesh
	var visit func(idx int, parent math.Mat4)
	visit = func(idx int, parent math.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := nodeMatrix(gn).Mul(parent)

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				data, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
				if err != nil {
					skipped = append(skipped, fmt.Errorf("mesh %d prim %d: %w", *gn.Mesh, pi, err))
					continue
				}
				bakeTransform(&data, world)
				data.FlipHandedness()
				ComputeTangents(&data)

				im := ImportedMesh{Data: data, BaseColor: core.ColorWhite}
				if prim.Material != nil && *prim.Material < len(materials) {
					im.BaseColor = materials[*prim.Material].factor
					im.BaseColorImage = materials[*prim.Material].image
				}
				out = append(out, im)
			}
		}
		for _, c := range gn.Children {
			visit(c, world)
		}
	}
	for _, root := range gltfRoots(doc) {
		visit(root, math.Mat4Identity())
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("gltf %q: %w", path, errors.Join(append([]error{ErrEmptyMesh}, skipped...)...))
	}
	return out, nil
}

// gltfRoots returns the default scene's root nodes, or every parentless node
// when the document names no scene.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix returns the node's local transform in row-vector form.
func nodeMatrix(gn *gltf.Node) math.Mat4 {
	if mat := gn.MatrixOrDefault(); mat != gltf.DefaultMatrix {
		// glTF stores column-major column-vector matrices, which is the
		// row-major row-vector layout.
		var m math.Mat4
		for i := 0; i < 16; i++ {
			m[i/4][i%4] = float32(mat[i])
		}
		return m
	}
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	q := math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}

	return math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}).
		Mul(q.ToMat4()).
		Mul(math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}))
}

func bakeTransform(data *core.MeshData, world math.Mat4) {
	if world == math.Mat4Identity() {
		return
	}
	normalMat := world.Inverse().Transpose()
	for i := range data.Vertices {
		v := &data.Vertices[i]
		v.Position = world.MulPoint(v.Position)
		v.Normal = normalMat.MulDirection(v.Normal).Normalize()
	}
}

// loadGLTFPrimitive converts one glTF mesh primitive into mesh data in the
// file's own right-handed frame.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (core.MeshData, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	data := core.MeshData{Name: name}

	if prim.Mode != gltf.PrimitiveTriangles {
		return data, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return data, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return data, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	data.Vertices = make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		data.Vertices[i] = v
	}

	if prim.Indices != nil {
		data.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return data, fmt.Errorf("indices: %w", err)
		}
	} else {
		data.Indices = make([]uint32, len(positions))
		for i := range data.Indices {
			data.Indices[i] = uint32(i)
		}
	}

	if len(normals) == 0 {
		generateNormals(data.Vertices, data.Indices)
	}
	return data, nil
}
