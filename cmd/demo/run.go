package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/internal/opengl"
	"forward-renderer/internal/window"
	"forward-renderer/renderer"
	"forward-renderer/scene"
)

func runDemo(ctx *cli.Context) error {
	desc, err := loadDescription(ctx)
	if err != nil {
		return err
	}

	wcfg := window.DefaultConfig()
	wcfg.Width = ctx.Int("width")
	wcfg.Height = ctx.Int("height")
	wcfg.VSync = ctx.BoolT("vsync")
	win, err := window.New(wcfg)
	if err != nil {
		return err
	}
	defer win.Destroy()

	device, err := opengl.NewDevice(log)
	if err != nil {
		return err
	}
	glctx := opengl.NewContext()
	defer glctx.Release()
	fbw, fbh := win.FramebufferSize()
	swap := opengl.NewSwapChain(win, fbw, fbh)

	s := scene.NewScene(device)
	defer s.Release()
	camCfg := scene.DefaultCameraConfig()
	camCfg.AspectRatio = float32(fbw) / float32(fbh)
	desc.ApplyToScene(s, camCfg)
	if err := populateScene(s, desc, shaderCode{
		litVS: []byte(opengl.LitVS),
		litPS: []byte(opengl.LitPS),
	}); err != nil {
		return err
	}

	cfg := renderer.DefaultConfig()
	cfg.VSync = wcfg.VSync
	cfg.ShadowMapSize = ctx.Int("shadow-size")
	cfg.ShadowProjectionSize = float32(ctx.Float64("shadow-extent"))
	cfg.FrustumCulling = ctx.Bool("cull")
	aimShadow(&cfg, s.Lights)

	fr, err := renderer.New(renderer.Backend{
		Device:    device,
		Context:   glctx,
		SwapChain: swap,
	}, cfg, []byte(opengl.ShadowVS), log)
	if err != nil {
		return err
	}
	defer fr.Release()

	faces, err := skyFaces(ctx.String("sky-dir"))
	if err != nil {
		return err
	}
	sky, err := renderer.NewSky(device, faces, []byte(opengl.SkyVS), []byte(opengl.SkyPS))
	if err != nil {
		return err
	}
	fr.SetSky(sky)

	log.Info("running",
		zap.String("gl", device.Version()),
		zap.String("gpu", device.Renderer()),
		zap.Int("entities", len(s.Entities())))

	hud := NewDebugOverlay(0.5)
	last := win.Time()
	for !win.ShouldClose() {
		now := win.Time()
		dt := float32(now - last)
		last = now

		input := win.Poll()
		if input.Keys[core.KeyEscape] {
			win.SetShouldClose(true)
		}
		if win.TakeResize() {
			if w, h := win.FramebufferSize(); w > 0 && h > 0 {
				if err := fr.Resize(w, h, s.Camera); err != nil {
					log.Warn("resize failed", zap.Error(err))
				}
			}
		}

		s.Camera.Update(dt, input)
		fr.Draw(s)

		if text, ok := hud.Tick(dt, fr.Stats()); ok {
			win.SetTitle(wcfg.Title + " | " + text)
		}
	}

	displayFrameStats(fr.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Draws"})
	for _, p := range stats.Passes {
		table.Append([]string{p.Name, fmt.Sprintf("%d", p.Draws)})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Draws())})
	table.Render()

	log.Info("last frame statistics\n"+buf.String(),
		zap.Uint64("frame", stats.Frame),
		zap.Int("culled", stats.Culled),
		zap.Duration("frameTime", stats.FrameTime))
}
