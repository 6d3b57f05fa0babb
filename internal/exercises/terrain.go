package exercises

import (
	"image/color"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/input"
	"OrbitGL/internal/loader"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	matricesBinding = 0
	rockLevels      = 5
)

// terrainMatrices mirrors the std140 Matrices block of the terrain shaders.
type terrainMatrices struct {
	Model          mgl32.Mat4
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	LightDirection mgl32.Vec4
}

func init() {
	Register("terrain", "Perlin terrain", func() engine.Scene {
		return &terrainScene{
			orbitView: newOrbitView(renderer.OrbitCamera{Altitude: 14, Latitude: 35, Longitude: 20}, "view", "projection", 1000),
			options:   loader.DefaultHeightfieldOptions(),
			textures:  renderer.NewTextureManager(),
		}
	})
}

// terrainScene draws a Perlin height field. Its matrices reach the shaders
// through a uniform block instead of individual uniforms.
type terrainScene struct {
	orbitView
	terrain  renderer.Mesh
	prog     *renderer.ShaderProgram
	matrices *renderer.UniformBlock[terrainMatrices]
	rock     renderer.BoundTexture
	options  loader.HeightfieldOptions
	textures *renderer.TextureManager
}

func (s *terrainScene) Keybinds() string {
	return cameraKeybinds + "\nN : generate a new terrain."
}

func (s *terrainScene) Init(app *engine.App) error {
	setupGLState(app, 1)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/terrain_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/terrain_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	if err := s.generate(); err != nil {
		return err
	}

	tex, err := s.textures.LoadMipmaps(app.AssetPath("textures/rock%d.png"), rockLevels)
	if err != nil {
		logger.Log.Warn("Terrain drawn with vertex colours only", zap.Error(err))
		tex = renderer.TextureFromColor(color.White)
	}
	s.rock = renderer.NewBoundTexture(tex, "texMain", 0)

	s.matrices = renderer.NewUniformBlock(app.Driver(), "Matrices", matricesBinding, terrainMatrices{
		Model:          mgl32.Ident4(),
		View:           mgl32.Ident4(),
		Projection:     mgl32.Ident4(),
		LightDirection: mgl32.Vec4{-0.4, 1, 0.3, 0}.Normalize(),
	})
	if err := s.matrices.Setup(gl.DYNAMIC_DRAW); err != nil {
		return err
	}

	s.attach(app, s.prog)
	s.uploadUniforms()
	return nil
}

// generate rebuilds the terrain mesh from the current options.
func (s *terrainScene) generate() error {
	mesh, err := loader.Heightfield(s.options)
	if err != nil {
		return err
	}
	s.terrain.Delete()
	s.terrain = mesh
	s.terrain.Setup(gl.STATIC_DRAW)
	return nil
}

func (s *terrainScene) uploadUniforms() {
	if !s.matrices.BindToProgram(s.prog) {
		logger.Log.Warn("Terrain program has no uniform block", zap.String("block", s.matrices.Name()))
	}
	s.rock.BindToProgram(s.prog)
}

func (s *terrainScene) DrawFrame(_ *engine.App) {
	clearFrame()

	s.matrices.Value.View = s.view.Top()
	s.matrices.Value.Projection = s.projection.Top()
	if err := s.matrices.UpdateBuffer(); err != nil {
		logger.Log.Error("Could not update matrices", zap.Error(err))
		return
	}

	s.prog.Use()
	s.rock.BindToUnit(0)
	s.terrain.Draw(gl.TRIANGLES)
}

func (s *terrainScene) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	s.orbitView.OnKeyPress(app, ev)

	if ev.Key == glfw.KeyN {
		s.options.Seed++
		if err := s.generate(); err != nil {
			logger.Log.Error("Could not generate terrain", zap.Error(err))
			return
		}
		logger.Log.Info("New terrain", zap.Int64("seed", s.options.Seed))
	}
}

func (s *terrainScene) OnShadersReloaded(app *engine.App) {
	s.orbitView.OnShadersReloaded(app)
	s.uploadUniforms()
}

func (s *terrainScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.terrain.Delete()
	s.matrices.Delete()
	s.textures.LogStats()
	s.textures.Clear()
	s.rock.Delete()
}
