package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matApprox(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v\ngot  %v", want, got)
}

func TestNewTransformStack(t *testing.T) {
	s := NewTransformStack("model")
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, mgl32.Ident4(), s.Top())
	assert.Equal(t, "model", s.Name())
}

func TestTransformStackPushPop(t *testing.T) {
	s := NewTransformStack("model")
	s.Translate(mgl32.Vec3{1, 2, 3})
	before := s.Top()

	s.Push()
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, before, s.Top(), "push duplicates the top")

	s.Scale(mgl32.Vec3{2, 2, 2})
	s.Pop()
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, before, s.Top(), "pop restores the previous top")

	s.PushIdentity()
	assert.Equal(t, mgl32.Ident4(), s.Top())
	m := mgl32.Translate3D(4, 5, 6)
	s.PushMatrix(m)
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, m, s.Matrix())
}

func TestTransformStackPopLastPanics(t *testing.T) {
	s := NewTransformStack("view")
	assert.Panics(t, s.Pop)
}

func TestTransformStackRightMultiplies(t *testing.T) {
	s := NewTransformStack("model")
	s.Scale(mgl32.Vec3{0.5, 1, 1})
	s.Rotate(90, mgl32.Vec3{0, 0, 1})
	s.Translate(mgl32.Vec3{0, 1, 0})

	want := mgl32.Scale3D(0.5, 1, 1).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90))).
		Mul4(mgl32.Translate3D(0, 1, 0))
	matApprox(t, want, s.Top())

	// The translation is applied first: (0,0,0) -> (0,1,0) -> (-1,0,0) -> (-0.5,0,0)
	p := s.MulVec3(mgl32.Vec3{0, 0, 0})
	assert.InDelta(t, -0.5, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, 1, p.W(), 1e-5)
}

func TestTransformStackRotateNormalizesAxis(t *testing.T) {
	a := NewTransformStack("a")
	a.Rotate(30, mgl32.Vec3{0, 5, 0})
	b := NewTransformStack("b")
	b.Rotate(30, mgl32.Vec3{0, 1, 0})
	matApprox(t, b.Top(), a.Top())

	c := NewTransformStack("c")
	c.Rotate(45, mgl32.Vec3{})
	assert.Equal(t, mgl32.Ident4(), c.Top())
}

func TestTransformStackInvert(t *testing.T) {
	s := NewTransformStack("m")
	s.Translate(mgl32.Vec3{1, 2, 3})
	s.Rotate(40, mgl32.Vec3{1, 1, 0})
	m := s.Top()
	s.Invert()
	matApprox(t, mgl32.Ident4(), m.Mul4(s.Top()))
}

func TestTransformStackMulAssign(t *testing.T) {
	a := NewTransformStack("a")
	a.Translate(mgl32.Vec3{1, 0, 0})
	b := NewTransformStack("b")
	b.Scale(mgl32.Vec3{2, 2, 2})

	assert.Equal(t, a.Top().Mul4(b.Top()), a.MulMat(b.Top()))
	assert.Equal(t, a.Top().Mul4x1(mgl32.Vec4{1, 1, 1, 0}), a.MulVec4(mgl32.Vec4{1, 1, 1, 0}))

	want := a.Top().Mul4(b.Top())
	a.MulAssignStack(b)
	assert.Equal(t, want, a.Top())
}

func TestTransformStackBuilders(t *testing.T) {
	s := NewTransformStack("projection")
	s.Push()

	s.Perspective(50, 1.5, 0.1, 100)
	matApprox(t, mgl32.Perspective(mgl32.DegToRad(50), 1.5, 0.1, 100), s.Top())

	s.Ortho(ProjectionBox{Left: -1, Right: 1, Bottom: -2, Top: 2, Near: 0.5, Far: 10})
	assert.Equal(t, mgl32.Ortho(-1, 1, -2, 2, 0.5, 10), s.Top())

	s.Ortho2D(ProjectionBox{Left: 0, Right: 4, Bottom: 0, Top: 3, Near: 7, Far: 9})
	assert.Equal(t, mgl32.Ortho2D(0, 4, 0, 3), s.Top())

	s.Frustum(ProjectionBox{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 1, Far: 10})
	assert.Equal(t, mgl32.Frustum(-1, 1, -1, 1, 1, 10), s.Top())

	s.LookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	p := s.MulVec3(mgl32.Vec3{})
	assert.InDelta(t, -5, p.Z(), 1e-5)

	s.LoadIdentity()
	assert.Equal(t, mgl32.Ident4(), s.Top())
	assert.Equal(t, 2, s.Size())
}

func TestTransformStackPerspectiveShape(t *testing.T) {
	const near, far = float32(0.1), float32(100)
	s := NewTransformStack("projection")
	s.Perspective(90, 1, near, far)
	m := s.Top()

	assert.InDelta(t, -1, m.At(3, 2), 1e-6)
	assert.InDelta(t, 0, m.At(3, 3), 1e-6)
	assert.InDelta(t, -(far+near)/(far-near), m.At(2, 2), 1e-5)
	assert.InDelta(t, 1, m.At(0, 0), 1e-5, "cot(45 deg) / aspect")
}

func TestTransformStackClone(t *testing.T) {
	s := NewTransformStack("model")
	s.Push()
	s.Translate(mgl32.Vec3{1, 0, 0})

	c := s.Clone()
	c.Scale(mgl32.Vec3{3, 3, 3})
	c.Pop()

	require.Equal(t, 2, s.Size())
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), s.Top())
	assert.Equal(t, "model", c.Name())
}
