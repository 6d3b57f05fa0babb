package exercises

import (
	"errors"
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

const lightStep = 0.2

func init() {
	Register("illumination", "Lecture 6: Illumination", func() engine.Scene {
		return &illuminationScene{
			orbitView:     newOrbitView(renderer.OrbitCamera{Altitude: 5, Latitude: 30, Longitude: 30}, "view", "projection", 1000),
			model:         renderer.NewTransformStack("model"),
			lightPosition: renderer.NewUniform("lightPosition", mgl32.Vec3{0, 0, 1}),
			textures:      renderer.NewTextureManager(),
		}
	})
}

// illuminationScene lights a textured triangle from a point light drawn as a
// small sphere. WASD moves the light in the XZ plane.
type illuminationScene struct {
	orbitView
	sphere   renderer.Mesh
	triangle renderer.Mesh

	basicProg *renderer.ShaderProgram
	litProg   *renderer.ShaderProgram

	yellow renderer.BoundTexture
	rock   renderer.BoundTexture

	model         *renderer.TransformStack
	lightPosition renderer.Uniform[mgl32.Vec3]
	textures      *renderer.TextureManager
}

func (s *illuminationScene) Keybinds() string {
	return cameraKeybinds + "\nWASD : move the light in the XZ plane."
}

func (s *illuminationScene) Init(app *engine.App) error {
	setupGLState(app, 3)

	var err error
	s.basicProg, err = app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/lit_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/texture_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.litProg, err = app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/lit_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/lit_frag.glsl"},
	)
	if err != nil {
		return err
	}

	meshes, err := loader.LoadWavefront(app.AssetPath("models/sphere.obj"))
	if err != nil {
		return err
	}
	if len(meshes) == 0 {
		return errors.New("sphere.obj holds no mesh")
	}
	s.sphere = meshes[0]
	s.sphere.Setup(gl.STATIC_DRAW)

	up := mgl32.Vec3{0, 0, 1}
	s.triangle.Vertices = []renderer.VertexData{
		{Position: mgl32.Vec3{-1, -1, 0}, Normal: up, TexCoords: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, -1, 0}, Normal: up, TexCoords: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{0, 1.5, 0}, Normal: up, TexCoords: mgl32.Vec2{0.5, 1}},
	}
	s.triangle.Setup(gl.STATIC_DRAW)

	s.yellow = renderer.NewBoundTexture(renderer.TextureFromColor(color.NRGBA{255, 255, 127, 255}), "texMain", 0)
	s.rock = renderer.NewBoundTexture(
		loadTextureOr(s.textures, app.AssetPath("textures/rock.png"), 5, color.NRGBA{128, 128, 128, 255}),
		"texMain", 1)

	s.attach(app, s.basicProg, s.litProg)
	s.uploadUniforms()
	return nil
}

func (s *illuminationScene) uploadUniforms() {
	s.basicProg.Use()
	s.yellow.BindToProgram(s.basicProg)
	s.litProg.Use()
	s.rock.BindToProgram(s.litProg)
}

func (s *illuminationScene) DrawFrame(_ *engine.App) {
	clearFrame()

	s.basicProg.Use()
	s.yellow.BindToUnit(0)
	s.model.Push()
	s.model.Translate(s.lightPosition.Get())
	s.model.Scale(mgl32.Vec3{0.2, 0.2, 0.2})
	s.basicProg.SetMatStack(s.model)
	s.model.Pop()
	s.sphere.Draw(gl.TRIANGLES)

	s.litProg.Use()
	s.rock.BindToUnit(1)
	s.litProg.SetMatStack(s.model)
	renderer.ApplyUniform(s.litProg, &s.lightPosition)
	s.triangle.Draw(gl.TRIANGLES)
}

func (s *illuminationScene) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	s.orbitView.OnKeyPress(app, ev)

	light := s.lightPosition.Ptr()
	switch ev.Key {
	case glfw.KeyW:
		light[2] -= lightStep
	case glfw.KeyS:
		light[2] += lightStep
	case glfw.KeyA:
		light[0] -= lightStep
	case glfw.KeyD:
		light[0] += lightStep
	}
}

func (s *illuminationScene) OnShadersReloaded(app *engine.App) {
	s.orbitView.OnShadersReloaded(app)
	s.uploadUniforms()
}

func (s *illuminationScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.sphere.Delete()
	s.triangle.Delete()
	s.yellow.Delete()
	s.textures.LogStats()
	s.textures.Clear()
	s.rock.Delete()
}

// loadTextureOr loads path through tm, or logs and returns a 1x1 texture of
// fallback when the file cannot be read.
func loadTextureOr(tm *renderer.TextureManager, path string, levels int32, fallback color.Color) renderer.Texture {
	tex, err := tm.Load(path, levels)
	if err != nil {
		logger.Log.Warn("Using a plain colour texture", zap.String("path", path), zap.Error(err))
		return renderer.TextureFromColor(fallback)
	}
	return tex
}
