// Package glfwcontext implements the rendering surface on top of GLFW.
package glfwcontext

import (
	"fmt"
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/shaderpad/shaderpad/graphics"
)

// Context owns the GLFW window and forwards its input events.
type Context struct {
	window       *glfw.Window
	pointer      graphics.PointerHandler
	resize       func(width, height int)
	keyCallbacks map[glfw.Key]func()
}

// New creates the window and its GL 4.1 core context. Fragment-only
// rendering needs no alpha, depth, stencil, or multisample buffers, so
// none are requested. Failure here is unrecoverable for the caller.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.AlphaBits, 0)
	glfw.WindowHint(glfw.DepthBits, 0)
	glfw.WindowHint(glfw.StencilBits, 0)
	glfw.WindowHint(glfw.Samples, 0)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetCursorEnterCallback(c.glfwCursorEnterCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	return c, nil
}

// SetPointerHandler routes pointer events to h. Events arrive already
// scaled to framebuffer pixels and Y-flipped to a bottom-left origin.
func (c *Context) SetPointerHandler(h graphics.PointerHandler) { c.pointer = h }

// SetResizeHandler is invoked with the new framebuffer size whenever the
// window layout changes.
func (c *Context) SetResizeHandler(f func(width, height int)) { c.resize = f }

// RegisterKeyCallback registers a function to run when key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if c.pointer == nil || button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		x, y := c.surfacePos(w.GetCursorPos())
		c.pointer.Press(x, y)
	case glfw.Release:
		c.pointer.Release()
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if c.pointer == nil {
		return
	}
	x, y := c.surfacePos(xpos, ypos)
	c.pointer.Move(x, y)
}

func (c *Context) glfwCursorEnterCallback(w *glfw.Window, entered bool) {
	if c.pointer == nil || entered {
		return
	}
	c.pointer.Leave()
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.resize != nil {
		c.resize(width, height)
	}
}

// surfacePos converts window cursor coordinates to framebuffer pixels with
// the origin at the bottom-left. Window and framebuffer sizes differ on
// high-DPI displays.
func (c *Context) surfacePos(cursorX, cursorY float64) (float32, float32) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	return float32(cursorX * scaleX), float32(fbHeight) - float32(cursorY*scaleY)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) WaitEvents(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread; the
// required graphics API being unavailable is fatal and not retried.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	slog.Debug("glfw initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	slog.Debug("glfw terminated")
}
