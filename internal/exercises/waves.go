package exercises

import (
	"image/color"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/input"
	"OrbitGL/internal/loader"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"
	"OrbitGL/internal/water"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const waveHeightStep = 0.1

func init() {
	Register("waves", "Gerstner waves", func() engine.Scene {
		return &wavesScene{
			orbitView:  newOrbitView(renderer.OrbitCamera{Altitude: 16, Latitude: 30, Longitude: 30}, "view", "projection", 1000),
			model:      renderer.NewTransformStack("model"),
			simulation: water.NewSimulation(0.25),
			light:      renderer.NewUniform("lightDirection", mgl32.Vec3{-0.3, 1, 0.5}.Normalize()),
		}
	})
}

// wavesScene displaces a flat grid with Gerstner waves in its vertex
// shader. A small sphere floats on the surface, placed with the same wave
// function on the CPU.
type wavesScene struct {
	orbitView
	surface renderer.Mesh
	buoy    renderer.Mesh

	waterProg *renderer.ShaderProgram
	buoyProg  *renderer.ShaderProgram

	model      *renderer.TransformStack
	simulation *water.Simulation
	light      renderer.Uniform[mgl32.Vec3]
	paint      renderer.BoundTexture
}

func (s *wavesScene) Keybinds() string {
	return cameraKeybinds + "\n[ and ] : lower/raise the waves."
}

func (s *wavesScene) Init(app *engine.App) error {
	setupGLState(app, 1)

	var err error
	s.waterProg, err = app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/water_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/water_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.buoyProg, err = app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/lit_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/texture_frag.glsl"},
	)
	if err != nil {
		return err
	}

	// A height field without amplitude is a flat, centred grid.
	grid := loader.DefaultHeightfieldOptions()
	grid.GridSize = 96
	grid.GridSpacing = 0.2
	grid.Amplitude = 0
	if s.surface, err = loader.Heightfield(grid); err != nil {
		return err
	}
	s.surface.Setup(gl.STATIC_DRAW)

	meshes, err := loader.LoadWavefront(app.AssetPath("models/sphere.obj"))
	if err != nil {
		logger.Log.Warn("Waves drawn without the buoy", zap.Error(err))
	} else if len(meshes) > 0 {
		s.buoy = meshes[0]
		s.buoy.Setup(gl.STATIC_DRAW)
	}
	s.paint = renderer.NewBoundTexture(renderer.TextureFromColor(color.NRGBA{255, 102, 51, 255}), "texMain", 0)

	s.attach(app, s.waterProg, s.buoyProg)
	s.uploadUniforms()
	return nil
}

func (s *wavesScene) uploadUniforms() {
	s.waterProg.Use()
	s.waterProg.SetMatStack(s.model)
	s.simulation.ApplyStatic(s.waterProg)
	renderer.ApplyUniform(s.waterProg, &s.light)

	s.buoyProg.Use()
	s.paint.BindToProgram(s.buoyProg)
}

func (s *wavesScene) DrawFrame(app *engine.App) {
	clearFrame()
	s.simulation.Update(app.DeltaTime())

	s.waterProg.Use()
	s.simulation.Apply(s.waterProg)
	s.surface.Draw(gl.TRIANGLES)

	if s.buoy.VAO == 0 {
		return
	}
	s.buoyProg.Use()
	s.paint.BindToUnit(0)
	s.model.Push()
	s.model.Translate(s.simulation.Displace(0, 0))
	s.model.Scale(mgl32.Vec3{0.3, 0.3, 0.3})
	s.buoyProg.SetMatStack(s.model)
	s.model.Pop()
	s.buoy.Draw(gl.TRIANGLES)
}

func (s *wavesScene) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	s.orbitView.OnKeyPress(app, ev)

	switch ev.Key {
	case glfw.KeyLeftBracket:
		s.simulation.WaveHeight = max(s.simulation.WaveHeight-waveHeightStep, 0)
	case glfw.KeyRightBracket:
		s.simulation.WaveHeight += waveHeightStep
	}
}

func (s *wavesScene) OnShadersReloaded(app *engine.App) {
	s.orbitView.OnShadersReloaded(app)
	s.uploadUniforms()
}

func (s *wavesScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.surface.Delete()
	s.buoy.Delete()
	s.paint.Delete()
}
