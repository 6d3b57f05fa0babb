package exercises

import (
	"OrbitGL/internal/engine"
	"OrbitGL/internal/input"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	Register("transformations", "Lecture 3: Transformations", func() engine.Scene {
		return &transformationsScene{angle: renderer.NewUniform[float32]("angle", 0)}
	})
}

// transformationsScene spins a colour triangle in its vertex shader, driven
// by an angle in degrees that grows by one each frame.
type transformationsScene struct {
	triangle renderer.Mesh
	prog     *renderer.ShaderProgram
	angle    renderer.Uniform[float32]
}

func (s *transformationsScene) Keybinds() string { return screenshotKeybind }

func (s *transformationsScene) Init(app *engine.App) error {
	setupGLState(app, 3)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/spin_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/color_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	s.triangle.Vertices = []renderer.VertexData{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: mgl32.Vec4{1, 0, 0, 1}},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: mgl32.Vec4{0, 1, 0, 1}},
		{Position: mgl32.Vec3{0, 0.5, 0}, Color: mgl32.Vec4{0, 0, 1, 1}},
	}
	s.triangle.Setup(gl.STATIC_DRAW)
	return nil
}

func (s *transformationsScene) DrawFrame(_ *engine.App) {
	clearFrame()
	s.angle.Set(s.angle.Get() + 1)
	s.prog.Use()
	renderer.ApplyUniform(s.prog, &s.angle)
	s.triangle.Draw(gl.TRIANGLES)
}

func (s *transformationsScene) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	if ev.Key == glfw.KeyF5 {
		takeScreenshot(app)
	}
}

func (s *transformationsScene) OnClose(_ *engine.App) {
	s.prog.DeleteShaders()
	s.prog.DeleteProgram()
	s.triangle.Delete()
}
