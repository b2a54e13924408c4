package renderer

import (
	"forward-renderer/gpu"
	"forward-renderer/scene"
)

// PackLights fills the shader light block: up to MaxDirectionalLights
// directional lights first, then up to MaxPointLights point lights, each in
// scene order. dropped counts the lights that did not fit.
func PackLights(lights []scene.Light) (block gpu.LightBlock, dropped int) {
	n := 0
	dirs := 0
	for _, l := range lights {
		if l.Type != scene.LightDirectional {
			continue
		}
		if dirs == gpu.MaxDirectionalLights {
			dropped++
			continue
		}
		block.Lights[n] = l.Descriptor()
		n++
		dirs++
	}
	points := 0
	for _, l := range lights {
		if l.Type != scene.LightPoint {
			continue
		}
		if points == gpu.MaxPointLights {
			dropped++
			continue
		}
		block.Lights[n] = l.Descriptor()
		n++
		points++
	}
	block.Count = int32(n)
	return block, dropped
}
