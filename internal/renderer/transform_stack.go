package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionBox holds the six clip planes of a frustum or orthographic box.
type ProjectionBox struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// TransformStack is a never-empty stack of 4x4 matrices whose top is the
// current transform. Affine operations right-multiply the top, so the last
// operation applied is the first one seen by a vertex.
//
// A stack carries the name of the shader uniform it feeds and memoizes that
// uniform's location per program. Plain assignment shares the underlying
// slice; use Clone for an independent copy.
type TransformStack struct {
	matrices []mgl32.Mat4
	cache    locationCache
}

// NewTransformStack returns a stack holding a single identity matrix.
func NewTransformStack(name string) *TransformStack {
	return &TransformStack{
		matrices: []mgl32.Mat4{mgl32.Ident4()},
		cache:    newLocationCache(name),
	}
}

// Clone returns a deep copy, including memoized locations.
func (s *TransformStack) Clone() *TransformStack {
	m := make([]mgl32.Mat4, len(s.matrices))
	copy(m, s.matrices)
	return &TransformStack{matrices: m, cache: s.cache.clone()}
}

func (s *TransformStack) Name() string { return s.cache.name }

// SetName changes the uniform name and forgets every memoized location.
func (s *TransformStack) SetName(name string) { s.cache.setName(name) }

// Loc returns the uniform location of the stack's name in prog, querying the
// program only on the first use per link.
func (s *TransformStack) Loc(prog ProgramHandle) int32 { return s.cache.uniformLoc(prog) }

func (s *TransformStack) Size() int { return len(s.matrices) }

func (s *TransformStack) Top() mgl32.Mat4 { return s.matrices[len(s.matrices)-1] }

// Matrix is the current transform. It is the value uploaded to shaders.
func (s *TransformStack) Matrix() mgl32.Mat4 { return s.Top() }

func (s *TransformStack) top() *mgl32.Mat4 { return &s.matrices[len(s.matrices)-1] }

// Set replaces the current matrix.
func (s *TransformStack) Set(m mgl32.Mat4) { *s.top() = m }

func (s *TransformStack) Push() { s.matrices = append(s.matrices, s.Top()) }

func (s *TransformStack) PushMatrix(m mgl32.Mat4) { s.matrices = append(s.matrices, m) }

func (s *TransformStack) PushIdentity() { s.PushMatrix(mgl32.Ident4()) }

// Pop removes the current matrix. Popping the last matrix is a programming
// error and panics.
func (s *TransformStack) Pop() {
	if len(s.matrices) <= 1 {
		panic("renderer: pop on transform stack " + s.cache.name + " with a single matrix")
	}
	s.matrices = s.matrices[:len(s.matrices)-1]
}

func (s *TransformStack) LoadIdentity() { s.Set(mgl32.Ident4()) }

func (s *TransformStack) Scale(v mgl32.Vec3) {
	s.MulAssign(mgl32.Scale3D(v.X(), v.Y(), v.Z()))
}

func (s *TransformStack) Translate(v mgl32.Vec3) {
	s.MulAssign(mgl32.Translate3D(v.X(), v.Y(), v.Z()))
}

// Rotate rotates by angle degrees around axis. The axis need not be unit
// length; a zero axis leaves the matrix unchanged.
func (s *TransformStack) Rotate(angle float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	s.MulAssign(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

func (s *TransformStack) Invert() { s.Set(s.Top().Inv()) }

// MulAssign right-multiplies the current matrix by m.
func (s *TransformStack) MulAssign(m mgl32.Mat4) { s.Set(s.Top().Mul4(m)) }

// MulAssignStack right-multiplies the current matrix by other's current
// matrix.
func (s *TransformStack) MulAssignStack(other *TransformStack) { s.MulAssign(other.Top()) }

func (s *TransformStack) MulMat(m mgl32.Mat4) mgl32.Mat4 { return s.Top().Mul4(m) }

func (s *TransformStack) MulVec4(v mgl32.Vec4) mgl32.Vec4 { return s.Top().Mul4x1(v) }

// MulVec3 transforms a point (w = 1).
func (s *TransformStack) MulVec3(v mgl32.Vec3) mgl32.Vec4 { return s.Top().Mul4x1(v.Vec4(1)) }

func (s *TransformStack) LookAt(eye, center, up mgl32.Vec3) {
	s.Set(mgl32.LookAtV(eye, center, up))
}

func (s *TransformStack) Frustum(box ProjectionBox) {
	s.FrustumPlanes(box.Left, box.Right, box.Bottom, box.Top, box.Near, box.Far)
}

func (s *TransformStack) FrustumPlanes(left, right, bottom, top, near, far float32) {
	s.Set(mgl32.Frustum(left, right, bottom, top, near, far))
}

// Perspective installs a perspective projection. fovy is in degrees.
func (s *TransformStack) Perspective(fovy, aspect, near, far float32) {
	s.Set(mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far))
}

func (s *TransformStack) Ortho(box ProjectionBox) {
	s.OrthoPlanes(box.Left, box.Right, box.Bottom, box.Top, box.Near, box.Far)
}

func (s *TransformStack) OrthoPlanes(left, right, bottom, top, near, far float32) {
	s.Set(mgl32.Ortho(left, right, bottom, top, near, far))
}

// Ortho2D ignores the box's near and far planes.
func (s *TransformStack) Ortho2D(box ProjectionBox) {
	s.Ortho2DPlanes(box.Left, box.Right, box.Bottom, box.Top)
}

func (s *TransformStack) Ortho2DPlanes(left, right, bottom, top float32) {
	s.Set(mgl32.Ortho2D(left, right, bottom, top))
}
