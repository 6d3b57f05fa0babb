package exercises

import (
	"OrbitGL/internal/engine"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	Register("transform-order", "Exercise 3: Order of transformations", func() engine.Scene {
		return &transformOrderScene{
			orbitView: newOrbitView(renderer.OrbitCamera{Altitude: 5}, "view", "projection", 100),
			model:     renderer.NewTransformStack("model"),
		}
	})
}

// transformOrderScene composes scale, rotation and translation on the model
// stack each frame. Each operation right-multiplies, so the translation is
// applied to the vertices first.
type transformOrderScene struct {
	orbitView
	triangle renderer.Mesh
	prog     *renderer.ShaderProgram
	model    *renderer.TransformStack
	angle    float32
}

func (s *transformOrderScene) Keybinds() string { return cameraKeybinds }

func (s *transformOrderScene) Init(app *engine.App) error {
	setupGLState(app, 3)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/basic_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/color_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	s.triangle.Vertices = []renderer.VertexData{
		{Position: mgl32.Vec3{1, -1, 0}, Color: mgl32.Vec4{0, 1, 0, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, Color: mgl32.Vec4{0, 0, 1, 1}},
		{Position: mgl32.Vec3{-1, -1, 0}, Color: mgl32.Vec4{1, 0, 0, 1}},
	}
	s.triangle.Setup(gl.STATIC_DRAW)

	s.attach(app, s.prog)
	return nil
}

func (s *transformOrderScene) DrawFrame(_ *engine.App) {
	clearFrame()
	s.prog.Use()

	s.angle++
	s.model.LoadIdentity()
	s.model.Scale(mgl32.Vec3{0.5, 1, 1})
	s.model.Rotate(s.angle, mgl32.Vec3{0, 0, 1})
	s.model.Translate(mgl32.Vec3{0, 1, 0})

	s.prog.SetMatStack(s.model)
	s.triangle.Draw(gl.TRIANGLES)
}

func (s *transformOrderScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.triangle.Delete()
}
