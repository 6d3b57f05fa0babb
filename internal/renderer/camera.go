// camera.go
package renderer

import (
	"math"

	"OrbitGL/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// dragClampPixels bounds how far a single mouse move event can rotate the
// camera, expressed in pixels.
const dragClampPixels = 20

// OrbitCamera looks at Origin from Altitude units away. Latitude and
// Longitude are the angles (degrees) around the X and Y axes, Roll the angle
// around the viewing axis. The zero value looks down -Z from the origin.
type OrbitCamera struct {
	Altitude  float32
	Latitude  float32
	Longitude float32
	Roll      float32
	Origin    mgl32.Vec3
}

func (c *OrbitCamera) MoveNorth(angle float32) { c.Latitude += angle }
func (c *OrbitCamera) MoveSouth(angle float32) { c.Latitude -= angle }
func (c *OrbitCamera) MoveWest(angle float32)  { c.Longitude += angle }
func (c *OrbitCamera) MoveEast(angle float32)  { c.Longitude -= angle }
func (c *OrbitCamera) RollCW(angle float32)    { c.Roll += angle }
func (c *OrbitCamera) RollCCW(angle float32)   { c.Roll -= angle }

// HandleKey returns the camera after a key press. R restores reset, +/-
// change the altitude by distanceStep, the arrows orbit by angleStep and
// Shift+Left/Right roll instead of changing longitude.
func (c OrbitCamera) HandleKey(ev input.KeyEvent, angleStep, distanceStep float32, reset OrbitCamera) OrbitCamera {
	switch ev.Key {
	case glfw.KeyR:
		return reset
	case glfw.KeyKPAdd, glfw.KeyEqual:
		c.Altitude -= distanceStep
	case glfw.KeyKPSubtract, glfw.KeyMinus:
		c.Altitude += distanceStep
	case glfw.KeyUp:
		c.MoveNorth(angleStep)
	case glfw.KeyDown:
		c.MoveSouth(angleStep)
	case glfw.KeyLeft:
		if ev.Shift() {
			c.RollCCW(angleStep)
		} else {
			c.MoveWest(angleStep)
		}
	case glfw.KeyRight:
		if ev.Shift() {
			c.RollCW(angleStep)
		} else {
			c.MoveEast(angleStep)
		}
	}
	return c
}

// HandleMouseMove orbits the camera while the right or middle button is held
// inside the window. Each axis moves at most 20 pixels worth of degrees per
// event.
func (c OrbitCamera) HandleMouseMove(move input.MouseMove, mouse input.MouseState, degsPerPixel float32) OrbitCamera {
	dragging := mouse.Pressed(glfw.MouseButtonRight) || mouse.Pressed(glfw.MouseButtonMiddle)
	if !dragging || !mouse.InsideWindow {
		return c
	}
	limit := float32(math.Abs(float64(degsPerPixel))) * dragClampPixels
	deltaLong := mgl32.Clamp(float32(move.DX)*degsPerPixel, -limit, limit)
	deltaLat := mgl32.Clamp(float32(move.DY)*degsPerPixel, -limit, limit)
	c.MoveNorth(deltaLat)
	c.MoveWest(deltaLong)
	return c
}

// HandleScroll zooms: scrolling up brings the camera closer.
func (c OrbitCamera) HandleScroll(scroll input.Scroll) OrbitCamera {
	c.Altitude -= float32(scroll.DY)
	return c
}

// ApplyToView replaces view's current matrix with the camera transform.
// Moving the camera is the inverse of moving the scene, hence the order.
func (c OrbitCamera) ApplyToView(view *TransformStack) {
	view.LoadIdentity()
	view.Translate(mgl32.Vec3{0, 0, -c.Altitude})
	view.Rotate(c.Roll, mgl32.Vec3{0, 0, 1})
	view.Rotate(c.Latitude, mgl32.Vec3{1, 0, 0})
	view.Rotate(c.Longitude, mgl32.Vec3{0, 1, 0})
	view.Translate(c.Origin.Mul(-1))
}

// UpdateProgram makes prog current, rebuilds view and uploads it. Only the
// view matrix changes when the camera moves.
func (c OrbitCamera) UpdateProgram(prog *ShaderProgram, view *TransformStack) {
	prog.Use()
	c.ApplyToView(view)
	prog.SetMatStack(view)
}

// DragDegreesPerPixel scales mouse sensitivity with the frame time so that a
// drag covers the same angle regardless of frame rate.
func DragDegreesPerPixel(deltaTime float32) float32 {
	return deltaTime / (0.7 / 30)
}

// Perspective holds projection parameters so the projection can be rebuilt
// when the window is resized.
type Perspective struct {
	FovY   float32 // degrees
	Aspect float32
	Near   float32
	Far    float32
}

func NewPerspective(fovy float32, width, height int, near, far float32) Perspective {
	p := Perspective{FovY: fovy, Near: near, Far: far, Aspect: 1}
	p.SetAspect(width, height)
	return p
}

// SetAspect keeps the previous aspect ratio for a degenerate size
// (minimized window).
func (p *Perspective) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.Aspect = float32(width) / float32(height)
}

func (p Perspective) Apply(projection *TransformStack) {
	projection.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

func (p Perspective) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FovY), p.Aspect, p.Near, p.Far)
}
