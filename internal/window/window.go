package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"forward-renderer/core"
)

func init() {
	// GLFW and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	lastX, lastY float64
	firstPoll    bool
	resized      bool
}

type Config struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultConfig() Config {
	return Config{
		Width:     1280,
		Height:    720,
		Title:     "Forward Renderer",
		Resizable: true,
		VSync:     false,
	}
}

// New creates a window with a current OpenGL 4.1 core context.
func New(config Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	w := &Window{
		Handle:    handle,
		Width:     config.Width,
		Height:    config.Height,
		Title:     config.Title,
		firstPoll: true,
	}
	w.Width, w.Height = handle.GetFramebufferSize()
	w.SetVSync(config.VSync)

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		w.resized = true
	})

	return w, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

// SwapBuffers presents the back buffer; it satisfies opengl.Presenter.
func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) SetVSync(enabled bool) {
	glfw.SwapInterval(boolToInt(enabled))
}

func (w *Window) FramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// TakeResize reports whether the framebuffer changed size since the last
// call.
func (w *Window) TakeResize() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// Poll pumps the event queue and returns the current input state with the
// mouse delta accumulated since the previous Poll.
func (w *Window) Poll() *core.InputSnapshot {
	glfw.PollEvents()

	s := &core.InputSnapshot{}
	x, y := w.Handle.GetCursorPos()
	if w.firstPoll {
		w.lastX, w.lastY = x, y
		w.firstPoll = false
	}
	s.DeltaX = float32(x - w.lastX)
	s.DeltaY = float32(y - w.lastY)
	w.lastX, w.lastY = x, y

	for key, codes := range keyMap {
		for _, code := range codes {
			if w.Handle.GetKey(code) == glfw.Press {
				s.Keys[key] = true
				break
			}
		}
	}
	s.Buttons[core.MouseLeft] = w.Handle.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	s.Buttons[core.MouseRight] = w.Handle.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	s.Buttons[core.MouseMiddle] = w.Handle.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press
	return s
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// keyMap translates backend-neutral keys to the GLFW key codes that trigger
// them. Modifiers accept either side of the keyboard.
var keyMap = map[core.Key][]glfw.Key{
	core.KeyW:       {glfw.KeyW},
	core.KeyA:       {glfw.KeyA},
	core.KeyS:       {glfw.KeyS},
	core.KeyD:       {glfw.KeyD},
	core.KeyX:       {glfw.KeyX},
	core.KeyC:       {glfw.KeyC},
	core.KeySpace:   {glfw.KeySpace},
	core.KeyShift:   {glfw.KeyLeftShift, glfw.KeyRightShift},
	core.KeyControl: {glfw.KeyLeftControl, glfw.KeyRightControl},
	core.KeyPlus:    {glfw.KeyEqual, glfw.KeyKPAdd},
	core.KeyMinus:   {glfw.KeyMinus, glfw.KeyKPSubtract},
	core.KeyEscape:  {glfw.KeyEscape},
}
