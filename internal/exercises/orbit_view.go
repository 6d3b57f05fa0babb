package exercises

import (
	"OrbitGL/internal/engine"
	"OrbitGL/internal/input"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

const (
	cameraAngleStep    = 5
	cameraDistanceStep = 0.5
)

const screenshotKeybind = "F5 : take a screenshot."

const cameraKeybinds = screenshotKeybind + `
R : reset the camera.
+ and - : move the orbit camera closer or farther.
Up/Down : change the camera latitude.
Left/Right : change the camera longitude, or roll with Shift.
Right or middle drag : orbit the camera.
Wheel : zoom.`

// setupGLState applies the render state every exercise starts from.
func setupGLState(app *engine.App, lineWidth float32) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.PointSize(3)
	gl.LineWidth(lineWidth)
	gl.ClearColor(0.1, 0.2, 0.2, 1)

	// Core contexts may reject wide lines; that is worth a log line, not a failure.
	_ = renderer.DrainErrors(app.Driver(), "render state")
}

func clearFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func takeScreenshot(app *engine.App) {
	path, err := app.SaveScreenshot(app.Settings().ScreenshotDir, "")
	if err != nil {
		logger.Log.Error("Screenshot failed", zap.Error(err))
		return
	}
	logger.Log.Info("Screenshot queued", zap.String("path", path))
}

// orbitView drives the view and projection uniforms of a set of programs
// from an orbit camera. Scenes embed it to get the standard camera controls
// and override the handlers they extend.
type orbitView struct {
	camera      renderer.OrbitCamera
	reset       renderer.OrbitCamera
	view        *renderer.TransformStack
	projection  *renderer.TransformStack
	perspective renderer.Perspective
	programs    []*renderer.ShaderProgram
}

func newOrbitView(reset renderer.OrbitCamera, viewName, projectionName string, far float32) orbitView {
	return orbitView{
		camera:      reset,
		reset:       reset,
		view:        renderer.NewTransformStack(viewName),
		projection:  renderer.NewTransformStack(projectionName),
		perspective: renderer.Perspective{FovY: 50, Aspect: 1, Near: 0.1, Far: far},
	}
}

// attach starts driving progs and uploads both matrices to them.
func (o *orbitView) attach(app *engine.App, progs ...*renderer.ShaderProgram) {
	o.programs = append(o.programs, progs...)
	o.updateCamera()
	o.applyPerspective(app)
}

func (o *orbitView) updateCamera() {
	for _, prog := range o.programs {
		o.camera.UpdateProgram(prog, o.view)
	}
}

func (o *orbitView) applyPerspective(app *engine.App) {
	o.perspective.SetAspect(app.FramebufferSize())
	o.perspective.Apply(o.projection)
	for _, prog := range o.programs {
		prog.Use()
		prog.SetMatStack(o.projection)
	}
}

func (o *orbitView) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	o.camera = o.camera.HandleKey(ev, cameraAngleStep, cameraDistanceStep, o.reset)
	o.updateCamera()
	if ev.Key == glfw.KeyF5 {
		takeScreenshot(app)
	}
}

func (o *orbitView) OnMouseMove(app *engine.App, move input.MouseMove) {
	o.camera = o.camera.HandleMouseMove(move, app.Mouse(), renderer.DragDegreesPerPixel(app.DeltaTime()))
	o.updateCamera()
}

func (o *orbitView) OnScroll(_ *engine.App, scroll input.Scroll) {
	o.camera = o.camera.HandleScroll(scroll)
	o.updateCamera()
}

func (o *orbitView) OnResize(app *engine.App, _ input.Resize) {
	o.applyPerspective(app)
}

func (o *orbitView) OnShadersReloaded(app *engine.App) {
	o.updateCamera()
	o.applyPerspective(app)
}

// deletePrograms releases every attached program.
func (o *orbitView) deletePrograms() {
	for _, prog := range o.programs {
		prog.DeleteShaders()
		prog.DeleteProgram()
	}
}
