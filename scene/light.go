package scene

import (
	"forward-renderer/gpu"
	"forward-renderer/math"
)

type LightType int32

const (
	LightDirectional LightType = iota
	LightPoint
)

func (t LightType) String() string {
	if t == LightPoint {
		return "point"
	}
	return "directional"
}

// Light is either directional (Direction) or point (Position, Range).
type Light struct {
	Type      LightType
	Direction math.Vec3
	Position  math.Vec3
	Color     math.Vec3
	Intensity float32
	Range     float32
}

func DirectionalLight(direction, color math.Vec3, intensity float32) Light {
	return Light{
		Type:      LightDirectional,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

func PointLight(position, color math.Vec3, intensity, rng float32) Light {
	return Light{
		Type:      LightPoint,
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Range:     rng,
	}
}

// Descriptor converts the light to the layout shaders consume.
func (l Light) Descriptor() gpu.LightData {
	return gpu.LightData{
		Direction: l.Direction.Array(),
		Type:      int32(l.Type),
		Position:  l.Position.Array(),
		Range:     l.Range,
		Color:     l.Color.Array(),
		Intensity: l.Intensity,
	}
}
