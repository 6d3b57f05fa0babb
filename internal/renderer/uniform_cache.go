package renderer

// UniformCache caches uniform locations and block indices of a single
// program by name, avoiding repeated driver queries
type UniformCache struct {
	driver    Driver
	program   uint32
	locations map[string]int32
	blocks    map[string]int32
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(driver Driver, program uint32) *UniformCache {
	return &UniformCache{
		driver:    driver,
		program:   program,
		locations: make(map[string]int32),
		blocks:    make(map[string]int32),
	}
}

// GetLocation returns the cached uniform location or fetches and caches it
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.driver.GetUniformLocation(uc.program, name)
	uc.locations[name] = loc
	return loc
}

// GetBlockIndex returns the cached uniform block index, -1 when the program
// has no such block
func (uc *UniformCache) GetBlockIndex(name string) int32 {
	if idx, exists := uc.blocks[name]; exists {
		return idx
	}

	idx := int32(-1)
	if raw := uc.driver.GetUniformBlockIndex(uc.program, name); raw != invalidIndex {
		idx = int32(raw)
	}
	uc.blocks[name] = idx
	return idx
}

// Reset points the cache at another program and clears it (call after a
// relink or reload)
func (uc *UniformCache) Reset(program uint32) {
	uc.program = program
	uc.Clear()
}

// Clear clears the cache
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
	uc.blocks = make(map[string]int32)
}
