// Command demo drives the forward renderer: "run" opens a window and draws a
// scene description, "inspect" prints what a description would build.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"forward-renderer/logger"
)

var log = zap.NewNop()

func main() {
	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Usage: "JSON scene description; the built-in demo scene when empty",
		},
		cli.StringFlag{
			Name:  "model",
			Usage: "add an .obj, .gltf or .glb model to the scene",
		},
	}

	app := cli.NewApp()
	app.Name = "forward-renderer"
	app.Usage = "real-time forward renderer with shadow mapping"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		l, err := logger.New(ctx.GlobalBool("debug"))
		if err != nil {
			return err
		}
		log = l
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		_ = log.Sync()
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and render the scene",
			Description: `
Render the scene every frame: a depth-only shadow pass from the first
directional light, the lit pass and the sky. WASD moves, Space/X rise and
sink, the left mouse button looks around, +/- change the field of view.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "window height",
				},
				cli.BoolTFlag{
					Name:  "vsync",
					Usage: "wait for vertical sync when presenting",
				},
				cli.IntFlag{
					Name:  "shadow-size",
					Value: 2048,
					Usage: "shadow map resolution in texels",
				},
				cli.Float64Flag{
					Name:  "shadow-extent",
					Value: 20,
					Usage: "width and height of the light's orthographic projection",
				},
				cli.StringFlag{
					Name:  "sky-dir",
					Usage: "directory with right/left/up/down/front/back cube faces; a gradient when empty",
				},
				cli.BoolFlag{
					Name:  "cull",
					Usage: "skip entities outside the camera frustum",
				},
			}, sceneFlags...),
			Action: runDemo,
		},
		{
			Name:   "inspect",
			Usage:  "print the entities and lights a scene description builds",
			Flags:  sceneFlags,
			Action: inspectScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("demo failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
