package renderer

import (
	"testing"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(newFakeDriver(), 0)

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}

	if cache.locations == nil || cache.blocks == nil {
		t.Error("maps should be initialized")
	}
}

func TestUniformCacheGetLocation(t *testing.T) {
	d := newFakeDriver()
	d.setUniform(1, "angle", 3)
	cache := NewUniformCache(d, 1)

	for i := 0; i < 3; i++ {
		if loc := cache.GetLocation("angle"); loc != 3 {
			t.Errorf("Expected location 3, got %d", loc)
		}
	}
	if d.uniformQueries["angle"] != 1 {
		t.Errorf("Expected a single query, got %d", d.uniformQueries["angle"])
	}

	if loc := cache.GetLocation("nonexistent"); loc != -1 {
		t.Errorf("Missing uniform should resolve to -1, got %d", loc)
	}
}

func TestUniformCacheBlockIndex(t *testing.T) {
	d := newFakeDriver()
	d.setBlock(1, "Matrices", 0)
	cache := NewUniformCache(d, 1)

	if idx := cache.GetBlockIndex("Matrices"); idx != 0 {
		t.Errorf("Expected block index 0, got %d", idx)
	}
	if idx := cache.GetBlockIndex("Lights"); idx != -1 {
		t.Errorf("Missing block should resolve to -1, got %d", idx)
	}
	cache.GetBlockIndex("Lights")
	if d.blockQueries["Lights"] != 1 {
		t.Error("Missing blocks should be cached too")
	}
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(newFakeDriver(), 0)
	cache.locations["test"] = 5
	cache.blocks["block"] = 1

	cache.Clear()

	if len(cache.locations) != 0 || len(cache.blocks) != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestUniformCacheReset(t *testing.T) {
	d := newFakeDriver()
	d.setUniform(1, "model", 1)
	d.setUniform(2, "model", 2)
	cache := NewUniformCache(d, 1)
	cache.GetLocation("model")

	cache.Reset(2)

	if loc := cache.GetLocation("model"); loc != 2 {
		t.Errorf("Expected location from the new program, got %d", loc)
	}
}
