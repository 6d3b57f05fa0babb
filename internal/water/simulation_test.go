package water

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulation(t *testing.T) {
	ws := NewSimulation(0.5)
	require.Len(t, ws.Waves, MaxWaves)

	for i, w := range ws.Waves {
		assert.InDelta(t, 1, w.Direction.Len(), 1e-5)
		if i > 0 {
			prev := ws.Waves[i-1]
			assert.Less(t, w.Amplitude, prev.Amplitude)
			assert.Greater(t, w.Frequency, prev.Frequency)
		}
	}
	assert.InDelta(t, 0.6, ws.Waves[0].Amplitude, 1e-6)
}

func TestPackWaves(t *testing.T) {
	ws := NewSimulation(1)
	packed := ws.PackWaves()
	require.Len(t, packed, 2*MaxWaves)

	w := ws.Waves[2]
	assert.Equal(t, mgl32.Vec4{w.Direction.X(), w.Direction.Y(), w.Amplitude, w.Frequency}, packed[4])
	assert.Equal(t, mgl32.Vec4{w.Speed, w.Phase, w.Steepness, 0}, packed[5])

	// Packing again reuses the buffer instead of growing it.
	assert.Len(t, ws.PackWaves(), 2*MaxWaves)
}

func TestDisplaceFlatWhenStill(t *testing.T) {
	ws := NewSimulation(1)
	ws.WaveHeight = 0
	assert.Equal(t, mgl32.Vec3{1.5, 0, -2}, ws.Displace(1.5, -2))
}

func TestDisplaceSingleWave(t *testing.T) {
	ws := NewSimulation(1)
	ws.Waves = []Wave{{Direction: mgl32.Vec2{1, 0}, Amplitude: 2, Frequency: 1, Speed: 1, Steepness: 0.5}}

	// theta = pi/2 at the origin after pi/2 seconds: crest, no horizontal shift.
	ws.Update(mgl32.DegToRad(90))
	p := ws.Displace(0, 0)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestUpdateSpeedMultiplier(t *testing.T) {
	ws := NewSimulation(1)
	ws.WaveSpeedMultiplier = 2
	ws.Update(0.25)
	ws.Update(0.25)
	assert.InDelta(t, 1, ws.CurrentTime, 1e-6)
}
