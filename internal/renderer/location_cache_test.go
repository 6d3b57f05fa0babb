package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestLocationMemoizedPerProgram(t *testing.T) {
	a := &fakeProgram{object: 1, revision: 1, locs: map[string]int32{"model": 4}}
	b := &fakeProgram{object: 2, revision: 1, locs: map[string]int32{"model": 7}}
	s := NewTransformStack("model")

	assert.Equal(t, int32(4), s.Loc(a))
	assert.Equal(t, int32(4), s.Loc(a))
	assert.Equal(t, 1, a.queries)

	assert.Equal(t, int32(7), s.Loc(b))
	assert.Equal(t, int32(4), s.Loc(a))
	assert.Equal(t, 1, a.queries)
	assert.Equal(t, 1, b.queries)
}

func TestLocationMissingUniformIsCached(t *testing.T) {
	p := &fakeProgram{object: 1, revision: 1}
	u := NewUniform("angle", float32(0))

	assert.Equal(t, int32(-1), u.Loc(p))
	assert.Equal(t, int32(-1), u.Loc(p))
	assert.Equal(t, 1, p.queries)
}

func TestSetNameInvalidates(t *testing.T) {
	p := &fakeProgram{object: 1, revision: 1, locs: map[string]int32{"model": 1, "M": 2}}
	s := NewTransformStack("model")
	assert.Equal(t, int32(1), s.Loc(p))

	s.SetName("M")
	assert.Equal(t, "M", s.Name())
	assert.Equal(t, int32(2), s.Loc(p))
	assert.Equal(t, 2, p.queries)
}

func TestSetNameBeforeAnyProgram(t *testing.T) {
	u := NewUniform("a", int32(1))
	u.SetName("b")
	u.Reset("c", 5)
	assert.Equal(t, "c", u.Name())
	assert.Equal(t, int32(5), u.Get())

	p := &fakeProgram{object: 3, revision: 1, locs: map[string]int32{"c": 9}}
	assert.Equal(t, int32(9), u.Loc(p))
}

func TestRelinkInvalidates(t *testing.T) {
	p := &fakeProgram{object: 1, revision: 1, locs: map[string]int32{"view": 2}}
	s := NewTransformStack("view")
	assert.Equal(t, int32(2), s.Loc(p))

	p.revision = 2
	p.locs["view"] = 5
	assert.Equal(t, int32(5), s.Loc(p))
	assert.Equal(t, 2, p.queries)
}

func TestCopyDoesNotShareRename(t *testing.T) {
	p := &fakeProgram{object: 1, revision: 1, locs: map[string]int32{"a": 1, "b": 2}}
	u := NewUniform("a", mgl32.Vec3{})
	u.Loc(p)

	c := u
	c.SetName("b")
	assert.Equal(t, int32(2), c.Loc(p))
	assert.Equal(t, int32(1), u.Loc(p))
	assert.Equal(t, "a", u.Name())
}

func TestUniformValueAccessDoesNotQuery(t *testing.T) {
	u := NewUniform("color", mgl32.Vec4{1, 0, 0, 1})
	*u.Ptr() = mgl32.Vec4{0, 1, 0, 1}
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, u.Get())
	u.Set(mgl32.Vec4{})
	assert.Equal(t, mgl32.Vec4{}, u.Get())
	assert.Empty(t, u.cache.entries)
}

func TestBlockIndexUsesBlockQuery(t *testing.T) {
	d := newFakeDriver()
	p := &fakeProgram{object: 1, revision: 1, locs: map[string]int32{"Matrices": 8}, blocks: map[string]int32{"Matrices": 0}}
	b := NewUniformBlock(d, "Matrices", 2, [16]float32{})

	assert.Equal(t, int32(0), b.Loc(p))
	assert.Equal(t, int32(0), b.Loc(p))
	assert.Equal(t, 1, p.queries)

	b.SetName("Missing")
	assert.Equal(t, int32(-1), b.Loc(p))
}
