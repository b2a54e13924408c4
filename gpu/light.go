package gpu

const (
	MaxDirectionalLights = 3
	MaxPointLights       = 2
	MaxLights            = MaxDirectionalLights + MaxPointLights
)

// LightData is one light descriptor as shaders see it. Each vec3 is paired
// with a scalar so the 48-byte record has the same layout under HLSL
// constant-buffer packing and GLSL std140.
type LightData struct {
	Direction [3]float32
	Type      int32
	Position  [3]float32
	Range     float32
	Color     [3]float32
	Intensity float32
}

// LightBlock is the uniform block bound under the "lights" name: directional
// lights first, then point lights, Count entries valid.
type LightBlock struct {
	Lights [MaxLights]LightData
	Count  int32
	_      [3]int32
}
