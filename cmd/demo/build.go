package main

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
	"forward-renderer/renderer"
	"forward-renderer/scene"
)

// sunDistance is how far back along its direction the shadow camera sits.
const sunDistance = 20

var (
	skyZenith  = core.Color{R: 0.18, G: 0.36, B: 0.78, A: 1}
	skyHorizon = core.Color{R: 0.62, G: 0.76, B: 0.92, A: 1}
	skyGround  = core.Color{R: 0.16, G: 0.14, B: 0.12, A: 1}
	flatNormal = core.Color{R: 0.5, G: 0.5, B: 1, A: 1}
)

// shaderCode is the backend code of the lit material's shaders.
type shaderCode struct {
	litVS, litPS []byte
}

func loadDescription(ctx *cli.Context) (*scene.Description, error) {
	desc := scene.DefaultDescription()
	if path := ctx.String("scene"); path != "" {
		var err error
		if desc, err = scene.LoadDescription(path); err != nil {
			return nil, err
		}
	}
	if model := ctx.String("model"); model != "" {
		desc.Entities = append(desc.Entities, scene.EntityJSON{
			Name: filepath.Base(model),
			Mesh: scene.MeshJSON{Model: model},
		})
	}
	return desc, nil
}

// sunDirection returns the direction of the first directional light, which
// is the one the shadow map is rendered from.
func sunDirection(lights []scene.Light) (math.Vec3, bool) {
	for _, l := range lights {
		if l.Type == scene.LightDirectional && l.Direction.LengthSqr() > 0 {
			return l.Direction, true
		}
	}
	return math.Vec3{}, false
}

// aimShadow points the shadow camera of cfg at the scene's sun.
func aimShadow(cfg *renderer.Config, lights []scene.Light) {
	if dir, ok := sunDirection(lights); ok {
		cfg.AimLight(dir, sunDistance)
	}
}

// populateScene builds every described entity into s with the lit shaders.
// Model entities expand to one entity per imported mesh.
func populateScene(s *scene.Scene, desc *scene.Description, code shaderCode) error {
	reg := s.Registry
	vs, err := reg.CreateVertexShader("lit.vs", code.litVS)
	if err != nil {
		return err
	}
	ps, err := reg.CreatePixelShader("lit.ps", code.litPS)
	if err != nil {
		return err
	}
	sampler, err := reg.CreateSampler("basicSampler", gpu.DefaultSamplerDesc())
	if err != nil {
		return err
	}
	white, err := reg.CreateTexture("white", scene.SolidImage(core.ColorWhite))
	if err != nil {
		return err
	}
	normal, err := reg.CreateTexture("flatNormal", scene.SolidImage(flatNormal))
	if err != nil {
		return err
	}

	for _, ej := range desc.Entities {
		meshes, err := ej.Mesh.Build()
		if err != nil {
			return fmt.Errorf("entity %q: %w", ej.Name, err)
		}
		for i, im := range meshes {
			name := ej.Name
			if len(meshes) > 1 {
				name = fmt.Sprintf("%s/%d", ej.Name, i)
			}
			im.Data.Name = name

			mesh, err := reg.CreateMesh(im.Data)
			if err != nil {
				return fmt.Errorf("entity %q: %w", name, err)
			}

			mat := scene.NewMaterial(name, vs, ps)
			mat.ColorTint = im.BaseColor.Vec4()
			if ej.Tint != nil {
				mat.ColorTint = ej.Tint.Color().Vec4()
			}
			if ej.Roughness != nil {
				mat.Roughness = *ej.Roughness
			}

			albedo := white
			switch {
			case ej.Texture != "":
				if albedo, err = scene.LoadTexture(reg, ej.Texture); err != nil {
					return fmt.Errorf("entity %q: %w", name, err)
				}
			case im.BaseColorImage != nil:
				if albedo, err = reg.CreateTexture(name+".albedo", im.BaseColorImage); err != nil {
					return fmt.Errorf("entity %q: %w", name, err)
				}
			}
			mat.SetTexture("albedo", albedo)
			mat.SetTexture("normalMap", normal)
			mat.SetSampler("basicSampler", sampler)

			e, err := s.AddEntity(name, mesh, reg.AddMaterial(mat))
			if err != nil {
				return err
			}
			ej.Transform.Apply(&e.Transform)
		}
	}
	log.Debug("scene built",
		zap.Int("entities", len(s.Entities())),
		zap.Int("meshes", reg.MeshCount()),
		zap.Int("textures", reg.TextureCount()),
		zap.Int("lights", len(s.Lights)))
	return nil
}

// skyFaces loads the cube faces from dir, or generates the gradient sky.
func skyFaces(dir string) ([6]*image.RGBA, error) {
	if dir == "" {
		return scene.GradientCube(256, skyZenith, skyHorizon, skyGround), nil
	}
	return scene.LoadCubeFaces(dir)
}
