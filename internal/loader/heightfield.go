package loader

import (
	"errors"

	"OrbitGL/internal/renderer"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// HeightfieldOptions configures a Perlin terrain grid centred on the origin
// in the XZ plane.
type HeightfieldOptions struct {
	GridSize    int     // vertices per side, at least 2
	GridSpacing float32 // distance between neighbouring vertices
	Amplitude   float32 // height of a noise value of 1
	Frequency   float64 // noise samples per grid cell
	Alpha, Beta float64 // perlin weight and harmonic scaling
	Octaves     int32
	Seed        int64
	Low, High   mgl32.Vec4 // vertex colours at the lowest and highest points
}

// DefaultHeightfieldOptions is a gentle 64x64 terrain.
func DefaultHeightfieldOptions() HeightfieldOptions {
	return HeightfieldOptions{
		GridSize:    64,
		GridSpacing: 0.25,
		Amplitude:   2,
		Frequency:   0.08,
		Alpha:       2,
		Beta:        2,
		Octaves:     3,
		Seed:        2705,
		Low:         mgl32.Vec4{0.15, 0.35, 0.15, 1},
		High:        mgl32.Vec4{0.9, 0.9, 0.85, 1},
	}
}

// Heightfield builds an indexed triangle grid whose heights come from 2D
// Perlin noise. Normals are taken from central differences of the heights.
func Heightfield(opts HeightfieldOptions) (renderer.Mesh, error) {
	n := opts.GridSize
	if n < 2 {
		return renderer.Mesh{}, errors.New("gridSize must be at least 2")
	}

	noise := perlin.NewPerlin(opts.Alpha, opts.Beta, opts.Octaves, opts.Seed)
	heights := make([]float32, n*n)
	minH, maxH := float32(0), float32(0)
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			h := float32(noise.Noise2D(float64(x)*opts.Frequency, float64(z)*opts.Frequency)) * opts.Amplitude
			heights[x*n+z] = h
			if x == 0 && z == 0 || h < minH {
				minH = h
			}
			if x == 0 && z == 0 || h > maxH {
				maxH = h
			}
		}
	}

	at := func(x, z int) float32 {
		x = clampInt(x, 0, n-1)
		z = clampInt(z, 0, n-1)
		return heights[x*n+z]
	}

	half := float32(n-1) * opts.GridSpacing / 2
	mesh := renderer.Mesh{
		Name:     "heightfield",
		Vertices: make([]renderer.VertexData, 0, n*n),
		Indices:  make([]uint32, 0, (n-1)*(n-1)*6),
	}

	// Generate vertices
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			h := at(x, z)
			normal := mgl32.Vec3{
				at(x-1, z) - at(x+1, z),
				2 * opts.GridSpacing,
				at(x, z-1) - at(x, z+1),
			}.Normalize()

			t := float32(0)
			if maxH > minH {
				t = (h - minH) / (maxH - minH)
			}
			mesh.Vertices = append(mesh.Vertices, renderer.VertexData{
				Position:  mgl32.Vec3{float32(x)*opts.GridSpacing - half, h, float32(z)*opts.GridSpacing - half},
				Normal:    normal,
				TexCoords: mgl32.Vec2{float32(x) / float32(n-1), float32(z) / float32(n-1)},
				Color:     opts.Low.Mul(1 - t).Add(opts.High.Mul(t)),
			})
		}
	}

	// Generate indices for triangles, counter-clockwise seen from above
	for x := 0; x < n-1; x++ {
		for z := 0; z < n-1; z++ {
			topLeft := uint32(x*n + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*n + z)
			bottomRight := bottomLeft + 1

			mesh.Indices = append(mesh.Indices, topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft)
		}
	}

	return mesh, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
