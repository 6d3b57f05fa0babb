package renderer

// ProgramHandle is what a named uniform needs from a linked program to
// resolve itself. Revision changes every time the program is (re)linked.
type ProgramHandle interface {
	Object() uint32
	Revision() uint32
	UniformLocation(name string) int32
	UniformBlockIndex(name string) int32
}

type cachedLocation struct {
	loc      int32
	revision uint32
}

// locationCache memoizes one name's location per program object. Entries
// recorded under an older link revision are treated as misses.
type locationCache struct {
	name    string
	entries map[uint32]cachedLocation
}

func newLocationCache(name string) locationCache {
	return locationCache{name: name, entries: make(map[uint32]cachedLocation)}
}

// setName drops every memoized location. A fresh map is allocated so that a
// struct copy holding the old map is left untouched.
func (c *locationCache) setName(name string) {
	c.name = name
	c.entries = make(map[uint32]cachedLocation)
}

func (c *locationCache) lookup(prog ProgramHandle, query func(ProgramHandle, string) int32) int32 {
	if c.entries == nil {
		c.entries = make(map[uint32]cachedLocation)
	}
	obj, rev := prog.Object(), prog.Revision()
	if e, ok := c.entries[obj]; ok && e.revision == rev {
		return e.loc
	}
	loc := query(prog, c.name)
	c.entries[obj] = cachedLocation{loc: loc, revision: rev}
	return loc
}

func (c *locationCache) uniformLoc(prog ProgramHandle) int32 {
	return c.lookup(prog, ProgramHandle.UniformLocation)
}

func (c *locationCache) blockIndex(prog ProgramHandle) int32 {
	return c.lookup(prog, ProgramHandle.UniformBlockIndex)
}

func (c *locationCache) clone() locationCache {
	out := locationCache{name: c.name, entries: make(map[uint32]cachedLocation, len(c.entries))}
	for k, v := range c.entries {
		out.entries[k] = v
	}
	return out
}
