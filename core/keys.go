package core

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"scene-viewer/input"
)

const (
	KeyA      = int(glfw.KeyA)
	KeyC      = int(glfw.KeyC)
	KeyD      = int(glfw.KeyD)
	KeyP      = int(glfw.KeyP)
	KeyR      = int(glfw.KeyR)
	KeyS      = int(glfw.KeyS)
	KeyW      = int(glfw.KeyW)
	KeyUp     = int(glfw.KeyUp)
	KeyDown   = int(glfw.KeyDown)
	KeyLeft   = int(glfw.KeyLeft)
	KeyRight  = int(glfw.KeyRight)
	KeyEscape = int(glfw.KeyEscape)

	MouseLeft   = int(glfw.MouseButtonLeft)
	MouseRight  = int(glfw.MouseButtonRight)
	MouseMiddle = int(glfw.MouseButtonMiddle)
)

// DefaultBindings is WASD movement, R to reset the camera, C to toggle path
// mode and P for wireframe. Left drag pans, right drag orbits.
func DefaultBindings() input.Bindings {
	var b input.Bindings
	b.Keys[input.KeyForward] = KeyW
	b.Keys[input.KeyBack] = KeyS
	b.Keys[input.KeyLeft] = KeyA
	b.Keys[input.KeyRight] = KeyD
	b.Keys[input.KeyReset] = KeyR
	b.Keys[input.KeyModeToggle] = KeyC
	b.Keys[input.KeyWireframe] = KeyP
	b.Buttons[input.MousePrimary] = MouseLeft
	b.Buttons[input.MouseSecondary] = MouseRight
	return b
}

// ArrowBindings swaps WASD for the arrow keys.
func ArrowBindings() input.Bindings {
	b := DefaultBindings()
	b.Keys[input.KeyForward] = KeyUp
	b.Keys[input.KeyBack] = KeyDown
	b.Keys[input.KeyLeft] = KeyLeft
	b.Keys[input.KeyRight] = KeyRight
	return b
}
