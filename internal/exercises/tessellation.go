package exercises

import (
	"image/color"
	"math"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/input"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const minSegments = 3

func init() {
	Register("tessellation", "Lecture 8: Tessellation", func() engine.Scene {
		return &tessellationScene{
			orbitView: newOrbitView(renderer.OrbitCamera{Altitude: 4}, "view", "projection", 100),
			model:     renderer.NewTransformStack("model"),
			segments:  4,
		}
	})
}

// tessellationScene approximates one period of a sine wave with a line
// strip whose segment count is changed with 1 and 2, drawn inside a
// reference frame.
type tessellationScene struct {
	orbitView
	sineLine renderer.Mesh
	refQuad  renderer.Mesh
	prog     *renderer.ShaderProgram

	white, yellow renderer.Texture
	sampler       renderer.Uniform[int32]

	model    *renderer.TransformStack
	phase    float32
	segments int
}

func (s *tessellationScene) Keybinds() string {
	return cameraKeybinds + "\n1 and 2 : decrease/increase the number of curve segments."
}

func (s *tessellationScene) Init(app *engine.App) error {
	setupGLState(app, 4)
	gl.Enable(gl.LINE_SMOOTH)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/basic_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/texture_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	s.yellow = renderer.TextureFromColor(color.NRGBA{255, 255, 127, 255})
	s.white = renderer.TextureFromColor(color.White)
	s.sampler = renderer.NewUniform[int32]("texMain", 0)

	s.refQuad.Vertices = []renderer.VertexData{
		{Position: mgl32.Vec3{0, -1.1, 0}},
		{Position: mgl32.Vec3{1, -1.1, 0}},
		{Position: mgl32.Vec3{1, 1.1, 0}},
		{Position: mgl32.Vec3{0, 1.1, 0}},
	}
	s.refQuad.Setup(gl.STATIC_DRAW)

	s.sineLine.Vertices = sinePoints(s.segments, 0)
	s.sineLine.Setup(gl.DYNAMIC_DRAW)

	s.attach(app, s.prog)
	s.uploadUniforms()
	return nil
}

func (s *tessellationScene) uploadUniforms() {
	s.prog.Use()
	renderer.ApplyUniform(s.prog, &s.sampler)
}

func (s *tessellationScene) DrawFrame(app *engine.App) {
	clearFrame()
	s.prog.Use()

	s.phase += 0.5 * app.DeltaTime()
	s.sineLine.Vertices = sinePoints(s.segments, s.phase)
	s.sineLine.UpdateBuffers(gl.DYNAMIC_DRAW)

	s.model.Push()
	s.model.Scale(mgl32.Vec3{3, 1, 1})
	s.model.Translate(mgl32.Vec3{-0.5, 0, 0})
	s.prog.SetMatStack(s.model)
	s.model.Pop()

	s.white.BindToUnit(0)
	s.refQuad.Draw(gl.LINE_LOOP)
	s.yellow.BindToUnit(0)
	s.sineLine.Draw(gl.LINE_STRIP)
}

func (s *tessellationScene) OnKeyPress(app *engine.App, ev input.KeyEvent) {
	s.orbitView.OnKeyPress(app, ev)

	switch ev.Key {
	case glfw.Key1:
		s.segments = max(s.segments-1, minSegments)
	case glfw.Key2:
		s.segments = max(s.segments+1, minSegments)
	default:
		return
	}
	logger.Log.Info("Curve segments", zap.Int("segments", s.segments))
}

func (s *tessellationScene) OnShadersReloaded(app *engine.App) {
	s.orbitView.OnShadersReloaded(app)
	s.uploadUniforms()
}

func (s *tessellationScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.sineLine.Delete()
	s.refQuad.Delete()
	s.white.Delete()
	s.yellow.Delete()
}

// sinePoints samples one period of a sine wave over x in [0, 1] with
// segments+1 points, shifted by phase periods.
func sinePoints(segments int, phase float32) []renderer.VertexData {
	points := make([]renderer.VertexData, segments+1)
	for i := range points {
		x := float32(i) / float32(segments)
		y := float32(math.Sin(2 * math.Pi * float64(x+phase)))
		points[i].Position = mgl32.Vec3{x, y, 0}
	}
	return points
}
