package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTextureManager() (*TextureManager, *[]uint32) {
	freed := &[]uint32{}
	next := uint32(10)
	load := func(path string, levels int32) (Texture, error) {
		if path == "missing.png" {
			return Texture{}, errors.New("no such file")
		}
		next++
		return Texture{ID: next, Width: 8, Height: 8, Levels: levels}, nil
	}
	tm := NewTextureManager()
	tm.loadFile = load
	tm.loadMipmaps = load
	tm.free = func(tex *Texture) {
		*freed = append(*freed, tex.ID)
		tex.ID = 0
	}
	return tm, freed
}

func TestTextureManagerCaches(t *testing.T) {
	tm, _ := newTestTextureManager()

	a, err := tm.Load("rock.png", 5)
	require.NoError(t, err)
	b, err := tm.Load("rock.png", 5)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, int32(5), a.Levels)
	stats := tm.Stats()
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, 1, stats.CacheMisses)
	assert.Equal(t, 1, stats.ActiveTextures)
}

func TestTextureManagerReleaseFreesOnLastReference(t *testing.T) {
	tm, freed := newTestTextureManager()
	tex, err := tm.Load("rock.png", 1)
	require.NoError(t, err)
	tm.AddReference(tex.ID)

	tm.Release(tex.ID)
	assert.Empty(t, *freed)

	tm.Release(tex.ID)
	assert.Equal(t, []uint32{tex.ID}, *freed)
	assert.Zero(t, tm.Stats().ActiveTextures)

	tm.Release(tex.ID)
	assert.Len(t, *freed, 1, "unknown textures are ignored")

	again, err := tm.Load("rock.png", 1)
	require.NoError(t, err)
	assert.NotEqual(t, tex.ID, again.ID)
}

func TestTextureManagerLoadError(t *testing.T) {
	tm, _ := newTestTextureManager()
	_, err := tm.Load("missing.png", 1)
	assert.Error(t, err)
	assert.Zero(t, tm.Stats().ActiveTextures)

	_, err = tm.LoadMipmaps("rock%d.png", 0)
	assert.Error(t, err)
}

func TestTextureManagerClear(t *testing.T) {
	tm, freed := newTestTextureManager()
	_, err := tm.Load("a.png", 1)
	require.NoError(t, err)
	_, err = tm.LoadMipmaps("b%d.png", 3)
	require.NoError(t, err)

	tm.Clear()
	assert.Len(t, *freed, 2)
	assert.Zero(t, tm.Stats().ActiveTextures)
	tm.LogStats()
}
