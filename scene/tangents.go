package scene

import (
	"forward-renderer/core"
	"forward-renderer/math"
)

// ComputeTangents generates per-vertex tangents for tangent-space normal
// mapping. The data must carry UVs; triangles with a degenerate UV area
// contribute nothing. The bitangent is rebuilt in the shader as
// cross(normal, tangent).
func ComputeTangents(data *core.MeshData) {
	verts := data.Vertices
	for i := range verts {
		verts[i].Tangent = math.Vec3{}
	}

	accum := func(i0, i1, i2 uint32) {
		v0, v1, v2 := verts[i0], verts[i1], verts[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)

		du1 := v1.UV.X - v0.UV.X
		dv1 := v1.UV.Y - v0.UV.Y
		du2 := v2.UV.X - v0.UV.X
		dv2 := v2.UV.Y - v0.UV.Y

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			return
		}
		r := 1.0 / denom
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))

		verts[i0].Tangent = verts[i0].Tangent.Add(t)
		verts[i1].Tangent = verts[i1].Tangent.Add(t)
		verts[i2].Tangent = verts[i2].Tangent.Add(t)
	}

	for i := 0; i+2 < len(data.Indices); i += 3 {
		accum(data.Indices[i], data.Indices[i+1], data.Indices[i+2])
	}

	// Gram-Schmidt against the normal.
	for i := range verts {
		n := verts[i].Normal
		t := verts[i].Tangent.Sub(n.Mul(n.Dot(verts[i].Tangent)))
		if t.LengthSqr() < 1e-8 {
			t = anyPerpendicular(n)
		}
		verts[i].Tangent = t.Normalize()
	}
}

func anyPerpendicular(n math.Vec3) math.Vec3 {
	if n.X > -0.9 && n.X < 0.9 {
		return math.Vec3{X: 1}.Sub(n.Mul(n.X))
	}
	return math.Vec3{Y: 1}.Sub(n.Mul(n.Y))
}
