// Package input holds the event values delivered to scenes and camera handlers.
// They are plain values built by the engine from glfw callbacks.
package input

import "github.com/go-gl/glfw/v3.3/glfw"

// KeyEvent is a key press with the modifiers held at the time.
type KeyEvent struct {
	Key  glfw.Key
	Mods glfw.ModifierKey
}

func (k KeyEvent) Shift() bool   { return k.Mods&glfw.ModShift != 0 }
func (k KeyEvent) Control() bool { return k.Mods&glfw.ModControl != 0 }
func (k KeyEvent) Alt() bool     { return k.Mods&glfw.ModAlt != 0 }

// MouseButtonEvent is a button press or release.
type MouseButtonEvent struct {
	Button  glfw.MouseButton
	Pressed bool
	Mods    glfw.ModifierKey
}

// MouseMove is the cursor displacement since the previous frame's mouse state,
// in window pixels (y grows downward).
type MouseMove struct {
	DX, DY float64
}

// Scroll is a wheel or touchpad scroll delta.
type Scroll struct {
	DX, DY float64
}

// MouseState is sampled once per frame before events are dispatched.
type MouseState struct {
	X, Y         float64
	Buttons      [glfw.MouseButtonLast + 1]bool
	InsideWindow bool
}

// Pressed reports whether button is held.
func (m MouseState) Pressed(button glfw.MouseButton) bool {
	if button < 0 || int(button) >= len(m.Buttons) {
		return false
	}
	return m.Buttons[button]
}

// Resize carries the new framebuffer size in pixels.
type Resize struct {
	Width, Height int
}
