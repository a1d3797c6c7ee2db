package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/emberengine/ember/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the native window and the orbit-style input state the
// demo camera consumes.
type Platform struct {
	Window *glfw.Window

	orbitDelta  [2]float32
	zoomDelta   float32
	dragging    bool
	lastCursorX float64
	lastCursorY float64
}

func New() (*Platform, error) {
	return &Platform{}, nil
}

// Startup initializes GLFW and creates a window configured for Vulkan.
func (p *Platform) Startup(applicationName string, width, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events and reports whether the
// window wants to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return p.Window != nil && p.Window.ShouldClose()
}

// GetRequiredExtensionNames returns the instance extensions the window
// system needs.
func (p *Platform) GetRequiredExtensionNames() []string {
	return p.Window.GetRequiredInstanceExtensions()
}

// ConsumeOrbitInput returns and clears the accumulated camera input since
// the last call: azimuth/polar drag deltas and scroll zoom.
func (p *Platform) ConsumeOrbitInput() (deltaTheta, deltaPhi, deltaZoom float32) {
	deltaTheta, deltaPhi = p.orbitDelta[0], p.orbitDelta[1]
	deltaZoom = p.zoomDelta
	p.orbitDelta = [2]float32{}
	p.zoomDelta = 0
	return deltaTheta, deltaPhi, deltaZoom
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	p.dragging = action == glfw.Press
	if p.dragging {
		p.lastCursorX, p.lastCursorY = w.GetCursorPos()
	}
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if !p.dragging {
		return
	}
	// Quarter degree per pixel, matching the feel of the orbit camera.
	p.orbitDelta[0] += float32(xpos-p.lastCursorX) * 0.005
	p.orbitDelta[1] += float32(ypos-p.lastCursorY) * 0.005
	p.lastCursorX = xpos
	p.lastCursorY = ypos
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.zoomDelta += float32(-yoff) * 0.5
}
