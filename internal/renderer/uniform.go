package renderer

import "github.com/go-gl/mathgl/mgl32"

// Integer vector types matching GLSL ivecN and uvecN.
type (
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32
	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32
)

// UniformValue lists the Go types that map onto a GLSL uniform type.
type UniformValue interface {
	bool | int32 | uint32 | float32 |
		mgl32.Vec2 | mgl32.Vec3 | mgl32.Vec4 |
		IVec2 | IVec3 | IVec4 |
		UVec2 | UVec3 | UVec4 |
		mgl32.Mat2 | mgl32.Mat3 | mgl32.Mat4
}

// Uniform pairs a value with the name of the shader uniform it is uploaded
// to. The location is memoized per program, see ApplyUniform.
type Uniform[T UniformValue] struct {
	value T
	cache locationCache
}

func NewUniform[T UniformValue](name string, value T) Uniform[T] {
	return Uniform[T]{value: value, cache: newLocationCache(name)}
}

func (u *Uniform[T]) Get() T       { return u.value }
func (u *Uniform[T]) Set(v T)      { u.value = v }
func (u *Uniform[T]) Ptr() *T      { return &u.value }
func (u *Uniform[T]) Name() string { return u.cache.name }

// SetName changes the uniform name and forgets every memoized location.
func (u *Uniform[T]) SetName(name string) { u.cache.setName(name) }

// Reset assigns both the name and the value.
func (u *Uniform[T]) Reset(name string, value T) {
	u.SetName(name)
	u.value = value
}

// Loc returns the location of the uniform in prog, -1 when the program has
// no active uniform by that name.
func (u *Uniform[T]) Loc(prog ProgramHandle) int32 { return u.cache.uniformLoc(prog) }
