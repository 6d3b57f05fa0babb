package exercises

import (
	"errors"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/loader"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func init() {
	Register("vertex-shader", "Exercise 2: Vertex shader", func() engine.Scene {
		return &vertexShaderScene{
			orbitView: newOrbitView(renderer.OrbitCamera{Altitude: 5, Latitude: 30, Longitude: 30}, "V", "P", 100),
			model:     renderer.NewTransformStack("M"),
		}
	})
}

// vertexShaderScene draws a cube whose vertex shader applies the M, V and P
// matrices itself.
type vertexShaderScene struct {
	orbitView
	cube  renderer.Mesh
	prog  *renderer.ShaderProgram
	model *renderer.TransformStack
}

func (s *vertexShaderScene) Keybinds() string { return cameraKeybinds }

func (s *vertexShaderScene) Init(app *engine.App) error {
	setupGLState(app, 3)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/mvp_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/color_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	meshes, err := loader.LoadWavefront(app.AssetPath("models/cube.obj"))
	if err != nil {
		return err
	}
	if len(meshes) == 0 {
		return errors.New("cube.obj holds no mesh")
	}
	s.cube = meshes[0]
	s.cube.Setup(gl.STATIC_DRAW)

	s.attach(app, s.prog)
	return nil
}

func (s *vertexShaderScene) DrawFrame(_ *engine.App) {
	clearFrame()
	s.prog.Use()
	s.prog.SetMatStack(s.model)
	s.cube.Draw(gl.TRIANGLES)
}

func (s *vertexShaderScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.cube.Delete()
}
