package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"forward-renderer/math"
	"forward-renderer/scene"
)

// inspectScene builds the description's meshes on the CPU and prints one
// table of entities and one of lights. No window or GPU is needed.
func inspectScene(ctx *cli.Context) error {
	desc, err := loadDescription(ctx)
	if err != nil {
		return err
	}
	return writeInspection(ctx.App.Writer, desc)
}

func writeInspection(w io.Writer, desc *scene.Description) error {
	entities := tablewriter.NewWriter(w)
	entities.SetAutoFormatHeaders(false)
	entities.SetAutoWrapText(false)
	entities.SetHeader([]string{"Entity", "Source", "Vertices", "Triangles", "Size", "Position"})

	var vertices, triangles int
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
			lo, hi := im.Data.Bounds()
			nv, nt := len(im.Data.Vertices), len(im.Data.Indices)/3
			vertices += nv
			triangles += nt
			entities.Append([]string{
				name,
				meshSource(ej.Mesh),
				fmt.Sprintf("%d", nv),
				fmt.Sprintf("%d", nt),
				formatVec3(hi.Sub(lo)),
				formatVec3(math.Vec3{X: ej.Transform.Position.X, Y: ej.Transform.Position.Y, Z: ej.Transform.Position.Z}),
			})
		}
	}
	entities.SetFooter([]string{"TOTAL", "", fmt.Sprintf("%d", vertices), fmt.Sprintf("%d", triangles), "", ""})
	entities.Render()

	lights := tablewriter.NewWriter(w)
	lights.SetAutoFormatHeaders(false)
	lights.SetAutoWrapText(false)
	lights.SetHeader([]string{"Light", "Type", "Direction/Position", "Color", "Intensity", "Range"})
	for i, lj := range desc.Lights {
		where := lj.Direction
		rng := "-"
		if lj.Type == "point" {
			where = lj.Position
			rng = fmt.Sprintf("%.2f", lj.Range)
		}
		lights.Append([]string{
			fmt.Sprintf("%d", i),
			lj.Type,
			formatVec3(math.Vec3{X: where.X, Y: where.Y, Z: where.Z}),
			formatVec3(math.Vec3{X: lj.Color.X, Y: lj.Color.Y, Z: lj.Color.Z}),
			fmt.Sprintf("%.2f", lj.Intensity),
			rng,
		})
	}
	lights.Render()
	return nil
}

func meshSource(m scene.MeshJSON) string {
	if m.Model != "" {
		return m.Model
	}
	return m.Primitive
}

func formatVec3(v math.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
