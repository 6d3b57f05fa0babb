package renderer

import (
	"fmt"
	"sync"

	"OrbitGL/internal/logger"

	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	ActiveTextures int
	CacheHits      int
	CacheMisses    int
}

type managedTexture struct {
	texture  Texture
	refCount int
	key      string
}

// TextureManager shares textures loaded from the same files and frees
// them when their last reference is released
type TextureManager struct {
	textureCache map[string]uint32          // key -> texture ID
	textures     map[uint32]*managedTexture // texture ID -> entry
	mu           sync.RWMutex
	stats        TextureStats

	loadFile    func(path string, levels int32) (Texture, error)
	loadMipmaps func(pattern string, levels int32) (Texture, error)
	free        func(*Texture)
}

// NewTextureManager creates a new texture manager instance
func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache: make(map[string]uint32),
		textures:     make(map[uint32]*managedTexture),
		loadFile:     LoadTexture,
		loadMipmaps:  LoadMipmapTextures,
		free:         (*Texture).Delete,
	}
}

func (tm *TextureManager) getOrLoad(key string, levels int32, load func(string, int32) (Texture, error)) (Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if textureID, exists := tm.textureCache[key]; exists {
		entry := tm.textures[textureID]
		entry.refCount++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("key", key),
			zap.Uint32("textureID", textureID),
			zap.Int("refCount", entry.refCount))

		return entry.texture, nil
	}

	tm.stats.CacheMisses++
	tex, err := load(key, levels)
	if err != nil {
		return Texture{}, err
	}

	tm.textureCache[key] = tex.ID
	tm.textures[tex.ID] = &managedTexture{texture: tex, refCount: 1, key: key}
	tm.stats.TotalTextures++

	logger.Log.Info("Texture loaded and cached",
		zap.String("key", key),
		zap.Uint32("textureID", tex.ID),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
		zap.Int32("levels", tex.Levels))

	return tex, nil
}

// Load returns the texture for path, loading it on first use. Every call
// takes a reference.
func (tm *TextureManager) Load(path string, levels int32) (Texture, error) {
	return tm.getOrLoad(path, levels, tm.loadFile)
}

// LoadMipmaps is Load for a per-level file pattern, see LoadMipmapTextures.
func (tm *TextureManager) LoadMipmaps(pattern string, levels int32) (Texture, error) {
	return tm.getOrLoad(pattern, levels, func(p string, n int32) (Texture, error) {
		if n < 1 {
			return Texture{}, fmt.Errorf("mipmap %s: need at least one level", p)
		}
		return tm.loadMipmaps(p, n)
	})
}

// AddReference increments the reference count for a texture
func (tm *TextureManager) AddReference(textureID uint32) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	entry, exists := tm.textures[textureID]
	if !exists {
		return
	}
	entry.refCount++

	logger.Log.Debug("Texture reference added",
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", entry.refCount))
}

// Release decrements the reference count and frees the texture when it
// reaches 0
func (tm *TextureManager) Release(textureID uint32) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	entry, exists := tm.textures[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	entry.refCount--
	if entry.refCount > 0 {
		return
	}

	tm.free(&entry.texture)
	delete(tm.textureCache, entry.key)
	delete(tm.textures, textureID)

	logger.Log.Info("Texture freed",
		zap.Uint32("textureID", textureID),
		zap.String("key", entry.key))
}

// Stats returns current texture manager statistics
func (tm *TextureManager) Stats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textures)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.Stats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear frees every texture regardless of its references
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, entry := range tm.textures {
		tm.free(&entry.texture)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textures = make(map[uint32]*managedTexture)

	logger.Log.Info("Texture manager cleared")
}
