package scene

import (
	stdmath "math"

	"forward-renderer/core"
	"forward-renderer/math"
)

// All generators produce left-handed geometry with clockwise front faces,
// centered on the origin. Tangents are filled in analytically.

// cubeFaces lists each face as its outward normal and the right/up axes seen
// from outside the face. right x up == -normal for every face.
var cubeFaces = [6][3]math.Vec3{
	{{X: 1}, {Z: 1}, {Y: 1}},
	{{X: -1}, {Z: -1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: 1}},
	{{Y: -1}, {X: 1}, {Z: -1}},
	{{Z: 1}, {X: -1}, {Y: 1}},
	{{Z: -1}, {X: 1}, {Y: 1}},
}

// CreateCube generates a cube with 24 vertices so every face has its own
// normals and UVs.
func CreateCube(size float32) core.MeshData {
	h := size / 2
	corners := [4][2]float32{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}

	data := core.MeshData{Name: "Cube"}
	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		base := uint32(len(data.Vertices))
		for _, c := range corners {
			pos := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(h)
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: pos,
				Normal:   n,
				UV:       math.Vec2{X: (c[0] + 1) / 2, Y: (1 - c[1]) / 2},
				Tangent:  u,
			})
		}
		data.Indices = append(data.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return data
}

// CreateSphere generates a UV sphere.
func CreateSphere(radius float32, segments, rings int) core.MeshData {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	data := core.MeshData{Name: "Sphere"}
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := float32(stdmath.Sin(phi)), float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			sinTheta, cosTheta := float32(stdmath.Sin(theta)), float32(stdmath.Cos(theta))

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
				Tangent:  math.Vec3{X: -sinTheta, Z: cosTheta},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			data.Indices = append(data.Indices,
				next, current, current+1,
				next, current+1, next+1)
		}
	}
	return data
}

// CreatePlane generates a subdivided plane in XZ facing +Y.
func CreatePlane(width, depth float32, subdivisions int) core.MeshData {
	if subdivisions < 1 {
		subdivisions = 1
	}
	n := subdivisions

	data := core.MeshData{Name: "Plane"}
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			fu, fv := float32(i)/float32(n), float32(j)/float32(n)
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: math.Vec3{X: (fu - 0.5) * width, Z: (fv - 0.5) * depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: fu, Y: 1 - fv},
				Tangent:  math.Vec3Right,
			})
		}
	}

	row := uint32(n + 1)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := uint32(j)*row + uint32(i) // (i, j)
			b := a + row                   // (i, j+1)
			c := b + 1                     // (i+1, j+1)
			d := a + 1                     // (i+1, j)
			data.Indices = append(data.Indices, a, b, c, a, c, d)
		}
	}
	return data
}

// CreateCylinder generates a capped cylinder along Y.
func CreateCylinder(radius, height float32, segments int) core.MeshData {
	if segments < 3 {
		segments = 3
	}
	half := height / 2
	ring := func(i int) (float32, float32) {
		theta := float64(i) * 2 * stdmath.Pi / float64(segments)
		return float32(stdmath.Cos(theta)), float32(stdmath.Sin(theta))
	}

	data := core.MeshData{Name: "Cylinder"}
	for i := 0; i <= segments; i++ {
		cosT, sinT := ring(i)
		normal := math.Vec3{X: cosT, Z: sinT}
		tangent := math.Vec3{X: -sinT, Z: cosT}
		u := float32(i) / float32(segments)
		data.Vertices = append(data.Vertices,
			core.Vertex{
				Position: math.Vec3{X: cosT * radius, Y: -half, Z: sinT * radius},
				Normal:   normal, UV: math.Vec2{X: u, Y: 1}, Tangent: tangent,
			},
			core.Vertex{
				Position: math.Vec3{X: cosT * radius, Y: half, Z: sinT * radius},
				Normal:   normal, UV: math.Vec2{X: u, Y: 0}, Tangent: tangent,
			})
	}
	for i := 0; i < segments; i++ {
		b0 := uint32(i * 2)
		t0, b1, t1 := b0+1, b0+2, b0+3
		data.Indices = append(data.Indices, b0, t0, t1, b0, t1, b1)
	}

	addCap := func(y float32, normal math.Vec3, top bool) {
		center := uint32(len(data.Vertices))
		data.Vertices = append(data.Vertices, core.Vertex{
			Position: math.Vec3{Y: y}, Normal: normal,
			UV: math.Vec2{X: 0.5, Y: 0.5}, Tangent: math.Vec3Right,
		})
		for i := 0; i <= segments; i++ {
			cosT, sinT := ring(i)
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: math.Vec3{X: cosT * radius, Y: y, Z: sinT * radius},
				Normal:   normal,
				UV:       math.Vec2{X: cosT*0.5 + 0.5, Y: sinT*0.5 + 0.5},
				Tangent:  math.Vec3Right,
			})
		}
		for i := 0; i < segments; i++ {
			p0, p1 := center+1+uint32(i), center+2+uint32(i)
			if top {
				data.Indices = append(data.Indices, center, p1, p0)
			} else {
				data.Indices = append(data.Indices, center, p0, p1)
			}
		}
	}
	addCap(half, math.Vec3Up, true)
	addCap(-half, math.Vec3Down, false)
	return data
}

// CreateTorus generates a torus around the Y axis.
func CreateTorus(majorRadius, minorRadius float32, majorSegments, minorSegments int) core.MeshData {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}

	data := core.MeshData{Name: "Torus"}
	for i := 0; i <= majorSegments; i++ {
		theta := float64(i) * 2 * stdmath.Pi / float64(majorSegments)
		cosT, sinT := float32(stdmath.Cos(theta)), float32(stdmath.Sin(theta))
		for j := 0; j <= minorSegments; j++ {
			phi := float64(j) * 2 * stdmath.Pi / float64(minorSegments)
			cosP, sinP := float32(stdmath.Cos(phi)), float32(stdmath.Sin(phi))

			r := majorRadius + minorRadius*cosP
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: math.Vec3{X: r * cosT, Y: minorRadius * sinP, Z: r * sinT},
				Normal:   math.Vec3{X: cosP * cosT, Y: sinP, Z: cosP * sinT},
				UV:       math.Vec2{X: float32(i) / float32(majorSegments), Y: float32(j) / float32(minorSegments)},
				Tangent:  math.Vec3{X: -sinT, Z: cosT},
			})
		}
	}

	stride := uint32(minorSegments + 1)
	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			a := uint32(i)*stride + uint32(j) // (i, j)
			b := a + 1                        // (i, j+1)
			c := b + stride                   // (i+1, j+1)
			d := a + stride                   // (i+1, j)
			data.Indices = append(data.Indices, a, b, c, a, c, d)
		}
	}
	return data
}
