package exercises

import (
	"image"
	"image/color"
	"image/draw"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const imageSide = 8

func init() {
	Register("image", "Lecture 4: Image", func() engine.Scene {
		return &imageScene{
			orbitView: newOrbitView(renderer.OrbitCamera{Altitude: 5}, "view", "projection", 100),
		}
	})
}

// imageScene draws a square whose fragment shader looks its colour up in an
// 8x8 array uniform instead of a texture.
type imageScene struct {
	orbitView
	square renderer.Mesh
	prog   *renderer.ShaderProgram
	pixels []mgl32.Vec4
}

func (s *imageScene) Keybinds() string { return cameraKeybinds }

func (s *imageScene) Init(app *engine.App) error {
	setupGLState(app, 3)

	prog, err := app.BuildProgram(
		engine.ShaderFile{Stage: renderer.VertexShader, Path: "shaders/basic_vert.glsl"},
		engine.ShaderFile{Stage: renderer.FragmentShader, Path: "shaders/pixel_array_frag.glsl"},
	)
	if err != nil {
		return err
	}
	s.prog = prog

	s.square.Vertices = []renderer.VertexData{
		{Position: mgl32.Vec3{-1, -1, 0}, TexCoords: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, -1, 0}, TexCoords: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{1, 1, 0}, TexCoords: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-1, 1, 0}, TexCoords: mgl32.Vec2{0, 1}},
	}
	s.square.Indices = []uint32{
		0, 1, 2,
		0, 2, 3,
	}
	s.square.Setup(gl.STATIC_DRAW)

	img, err := renderer.LoadImage(app.AssetPath("textures/smiley.png"))
	if err != nil {
		logger.Log.Warn("Using a blank image", zap.Error(err))
		blank := image.NewRGBA(image.Rect(0, 0, imageSide, imageSide))
		draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
		img = blank
	}
	s.pixels = imagePixels(renderer.FlipImage(img), imageSide, imageSide)

	s.attach(app, s.prog)
	s.uploadPixels()
	return nil
}

func (s *imageScene) uploadPixels() {
	s.prog.Use()
	s.prog.SetVec4Array(s.prog.UniformLocation("img"), s.pixels)
}

func (s *imageScene) DrawFrame(_ *engine.App) {
	clearFrame()
	s.prog.Use()
	s.square.Draw(gl.TRIANGLES)
}

func (s *imageScene) OnShadersReloaded(app *engine.App) {
	s.orbitView.OnShadersReloaded(app)
	s.uploadPixels()
}

func (s *imageScene) OnClose(_ *engine.App) {
	s.deletePrograms()
	s.square.Delete()
}

// imagePixels returns the top-left width x height pixels of img in row-major
// order as non-premultiplied colours in [0, 1]. Pixels outside img stay
// transparent black.
func imagePixels(img image.Image, width, height int) []mgl32.Vec4 {
	b := img.Bounds()
	pixels := make([]mgl32.Vec4, width*height)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			p := image.Pt(b.Min.X+i, b.Min.Y+j)
			if !p.In(b) {
				continue
			}
			c := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
			pixels[j*width+i] = mgl32.Vec4{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
				float32(c.A) / 255,
			}
		}
	}
	return pixels
}
