package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrNotInitialized is returned by Close when the platform window was never created.
var ErrNotInitialized = errors.New("window: not initialized")

// glfwWindow is the GLFW side of an engineWindow. GLFW must be driven from the thread that
// created it, so openGLFW locks the calling goroutine to its OS thread for the rest of the run.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// openGLFW creates a client-API-less GLFW window sized and limited as w describes, routes its
// input callbacks into w, and records the resulting framebuffer size.
func openGLFW(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: glfw init: %w", err)
	}

	// The surface comes from wgpuglfw, never from an OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfwBool(w.resizable))

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create %dx%d: %w", w.width, w.height, err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{window: win, running: true}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			gw.requestClose()
			return
		}
		if w.onKeyDown != nil {
			w.onKeyDown(int(key))
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		ww, wh := win.GetSize()
		w.mouseMove(x, y, ww, wh)
	})
	// Framebuffer, not window, size: they differ on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resize(width, height)
	})

	w.width, w.height = win.GetFramebufferSize()
	return gw, nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (gw *glfwWindow) isRunning() bool {
	return gw.running && !gw.window.ShouldClose()
}

func (gw *glfwWindow) requestClose() {
	gw.running = false
	gw.window.SetShouldClose(true)
}

// poll handles pending events without blocking and reports whether the window is still open.
func (gw *glfwWindow) poll() bool {
	glfw.PollEvents()
	return gw.isRunning()
}

// destroy closes the window and terminates GLFW.
func (gw *glfwWindow) destroy() {
	gw.requestClose()
	gw.window.Destroy()
	glfw.Terminate()
}
