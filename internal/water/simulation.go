// Package water animates a flat grid with a sum of Gerstner waves. The
// displacement itself runs in the vertex shader; this package owns the wave
// parameters, advances time and uploads both as uniforms.
package water

import (
	"math"

	"OrbitGL/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxWaves is the size of the waves[] array declared by the water shader.
const MaxWaves = 4

// Wave is one Gerstner component travelling along Direction in the XZ plane.
type Wave struct {
	Direction mgl32.Vec2 // unit length
	Amplitude float32
	Frequency float32 // radians per unit of distance
	Speed     float32 // radians per second
	Phase     float32
	Steepness float32 // 0 gives a plain sine, higher values sharpen the crests
}

// Simulation holds the waves and the uniforms they are uploaded through.
type Simulation struct {
	Waves               []Wave
	WaveHeight          float32
	WaveSpeedMultiplier float32
	WaterColor          mgl32.Vec3

	CurrentTime float32

	time       renderer.Uniform[float32]
	waveCount  renderer.Uniform[int32]
	waveHeight renderer.Uniform[float32]
	color      renderer.Uniform[mgl32.Vec3]
	packed     []mgl32.Vec4
}

// NewSimulation builds MaxWaves waves, each shorter and smaller than the
// previous one and turned by 45 degrees.
func NewSimulation(baseAmplitude float32) *Simulation {
	ws := &Simulation{
		Waves:               make([]Wave, MaxWaves),
		WaveHeight:          1,
		WaveSpeedMultiplier: 1,
		WaterColor:          mgl32.Vec3{0.06, 0.22, 0.45},
		time:                renderer.NewUniform[float32]("time", 0),
		waveCount:           renderer.NewUniform[int32]("waveCount", MaxWaves),
		waveHeight:          renderer.NewUniform[float32]("waveHeight", 1),
		color:               renderer.NewUniform("waterColor", mgl32.Vec3{}),
	}

	amplitudes := [MaxWaves]float32{1.2, 0.8, 0.6, 0.4}
	wavelengths := [MaxWaves]float64{6, 3.5, 2, 1.2}
	for i := range ws.Waves {
		angle := float64(i) * 45 * math.Pi / 180
		k := 2 * math.Pi / wavelengths[i]
		ws.Waves[i] = Wave{
			Direction: mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))},
			Amplitude: baseAmplitude * amplitudes[i],
			Frequency: float32(k),
			// Deep water dispersion, omega = sqrt(g * k).
			Speed:     float32(math.Sqrt(9.81 * k)),
			Phase:     float32(i) * math.Pi / 3,
			Steepness: 0.2 + float32(i)*0.1,
		}
	}
	return ws
}

// Update advances the simulation clock.
func (ws *Simulation) Update(deltaTime float32) {
	ws.CurrentTime += deltaTime * ws.WaveSpeedMultiplier
}

// PackWaves lays the waves out as the shader's vec4 pairs:
// (dir.x, dir.y, amplitude, frequency) then (speed, phase, steepness, 0).
func (ws *Simulation) PackWaves() []mgl32.Vec4 {
	ws.packed = ws.packed[:0]
	for _, w := range ws.Waves {
		ws.packed = append(ws.packed,
			mgl32.Vec4{w.Direction.X(), w.Direction.Y(), w.Amplitude, w.Frequency},
			mgl32.Vec4{w.Speed, w.Phase, w.Steepness, 0})
	}
	return ws.packed
}

// Displace returns the displaced position of the grid point at (x, 0, z).
// It matches the vertex shader and is used to place objects on the surface.
func (ws *Simulation) Displace(x, z float32) mgl32.Vec3 {
	p := mgl32.Vec3{x, 0, z}
	for _, w := range ws.Waves {
		theta := float64(w.Frequency*(w.Direction.X()*x+w.Direction.Y()*z) + w.Speed*ws.CurrentTime + w.Phase)
		amp := w.Amplitude * ws.WaveHeight
		c, s := float32(math.Cos(theta)), float32(math.Sin(theta))
		p[0] += w.Steepness * amp * w.Direction.X() * c
		p[1] += amp * s
		p[2] += w.Steepness * amp * w.Direction.Y() * c
	}
	return p
}

// ApplyStatic uploads the wave table and colour. prog must be in use.
func (ws *Simulation) ApplyStatic(prog *renderer.ShaderProgram) {
	ws.waveCount.Set(int32(len(ws.Waves)))
	ws.color.Set(ws.WaterColor)
	renderer.ApplyUniform(prog, &ws.waveCount)
	renderer.ApplyUniform(prog, &ws.color)
	prog.SetVec4Array(prog.UniformLocation("waves"), ws.PackWaves())
}

// Apply uploads the values that change every frame. prog must be in use.
func (ws *Simulation) Apply(prog *renderer.ShaderProgram) {
	ws.time.Set(ws.CurrentTime)
	ws.waveHeight.Set(ws.WaveHeight)
	renderer.ApplyUniform(prog, &ws.time)
	renderer.ApplyUniform(prog, &ws.waveHeight)
}
