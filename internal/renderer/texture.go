package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/go-gl/gl/v4.1-core/gl"

	// imgio registers png, jpeg and bmp; tiff is registered here.
	_ "golang.org/x/image/tiff"
)

// Texture is a 2D texture object. Levels is the number of mipmap levels,
// 1 when the texture has no mipmaps.
type Texture struct {
	ID     uint32
	Width  int
	Height int
	Levels int32
}

// LoadImage decodes an image file in any registered format.
func LoadImage(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// FlipImage flips img vertically so that its first row is the bottom one,
// the order OpenGL expects pixel rows in.
func FlipImage(img image.Image) *image.RGBA {
	return transform.FlipV(img)
}

func uploadLevel(level int32, rgba *image.RGBA) {
	size := rgba.Rect.Size()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, level, gl.RGBA, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
}

func newTextureObject(levels int32) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, levels-1)
	if levels > 1 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	return textureID
}

// TextureFromImage uploads img with its rows flipped. When levels > 1 the
// remaining levels are generated by the driver.
func TextureFromImage(img image.Image, levels int32) Texture {
	if levels < 1 {
		levels = 1
	}
	rgba := FlipImage(img)
	tex := Texture{
		ID:     newTextureObject(levels),
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Levels: levels,
	}
	uploadLevel(0, rgba)
	if levels > 1 {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// LoadTexture loads an image file into a new texture.
func LoadTexture(path string, levels int32) (Texture, error) {
	img, err := LoadImage(path)
	if err != nil {
		return Texture{}, err
	}
	return TextureFromImage(img, levels), nil
}

// LoadMipmapTextures loads one file per mipmap level. pattern holds a single
// %d verb replaced by the level number, starting at 0.
func LoadMipmapTextures(pattern string, levels int32) (Texture, error) {
	if levels < 1 {
		return Texture{}, fmt.Errorf("mipmap %s: need at least one level, got %d", pattern, levels)
	}
	images := make([]*image.RGBA, 0, levels)
	for level := int32(0); level < levels; level++ {
		img, err := LoadImage(fmt.Sprintf(pattern, level))
		if err != nil {
			return Texture{}, fmt.Errorf("mipmap level %d: %w", level, err)
		}
		images = append(images, FlipImage(img))
	}

	tex := Texture{
		ID:     newTextureObject(levels),
		Width:  images[0].Rect.Dx(),
		Height: images[0].Rect.Dy(),
		Levels: levels,
	}
	for level, rgba := range images {
		uploadLevel(int32(level), rgba)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}

// TextureFromColor creates a 1x1 texture of a single colour.
func TextureFromColor(c color.Color) Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	return TextureFromImage(img, 1)
}

// SetPixelData replaces level 0 and regenerates mipmaps.
func (t *Texture) SetPixelData(img image.Image) {
	rgba := FlipImage(img)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	uploadLevel(0, rgba)
	if t.Levels > 1 {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	t.Width, t.Height = rgba.Rect.Dx(), rgba.Rect.Dy()
}

func (t Texture) BindToUnit(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// BindToProgram binds the texture to unit and points the sampler at loc to
// that unit.
func (t Texture) BindToProgram(unit uint32, prog *ShaderProgram, loc int32) {
	t.BindToUnit(unit)
	prog.SetTextureUnit(loc, int32(unit))
}

func (t *Texture) Delete() {
	if t.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
}

// BoundTexture is a texture attached to a named sampler uniform whose value
// is the texture unit.
type BoundTexture struct {
	Texture
	Unit Uniform[int32]
}

func NewBoundTexture(tex Texture, sampler string, unit int32) BoundTexture {
	return BoundTexture{Texture: tex, Unit: NewUniform(sampler, unit)}
}

func (b *BoundTexture) Loc(prog ProgramHandle) int32 { return b.Unit.Loc(prog) }

func (b *BoundTexture) BindToProgram(prog *ShaderProgram) {
	b.Texture.BindToUnit(uint32(b.Unit.Get()))
	ApplyUniform(prog, &b.Unit)
}
