package opengl

import (
	"fmt"

	"forward-renderer/gpu"
)

// Presenter is the window surface behind the default framebuffer.
type Presenter interface {
	SwapBuffers()
	SetVSync(enabled bool)
}

// SwapChain wraps the default framebuffer. GL resizes it together with the
// window, so Resize only records the new size.
type SwapChain struct {
	presenter     Presenter
	width, height int
	vsync         bool
	vsyncSet      bool
	back          *BackBuffer
	depth         *DefaultDepth
}

// BackBuffer is the color attachment of the default framebuffer.
type BackBuffer struct{ sc *SwapChain }

func (b *BackBuffer) Label() string    { return "backbuffer" }
func (b *BackBuffer) Release()         {}
func (b *BackBuffer) Size() (int, int) { return b.sc.Size() }

// DefaultDepth is the depth attachment of the default framebuffer.
type DefaultDepth struct{ sc *SwapChain }

func (d *DefaultDepth) Label() string         { return "depthbuffer" }
func (d *DefaultDepth) Release()              {}
func (d *DefaultDepth) DepthSize() (int, int) { return d.sc.Size() }

func NewSwapChain(p Presenter, width, height int) *SwapChain {
	sc := &SwapChain{presenter: p, width: width, height: height}
	sc.back = &BackBuffer{sc: sc}
	sc.depth = &DefaultDepth{sc: sc}
	return sc
}

func (sc *SwapChain) BackBuffer() gpu.RenderTargetView  { return sc.back }
func (sc *SwapChain) DepthBuffer() gpu.DepthStencilView { return sc.depth }
func (sc *SwapChain) Size() (int, int)                  { return sc.width, sc.height }

func (sc *SwapChain) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("swap chain resize to %dx%d", width, height)
	}
	sc.width, sc.height = width, height
	return nil
}

// Present swaps buffers, changing the swap interval only when vsync flips.
func (sc *SwapChain) Present(vsync bool) {
	if !sc.vsyncSet || sc.vsync != vsync {
		sc.presenter.SetVSync(vsync)
		sc.vsync, sc.vsyncSet = vsync, true
	}
	sc.presenter.SwapBuffers()
}
