package renderer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"OrbitGL/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// linkRevisions hands out link revisions. It is global so that a program
// object id recycled by the driver never pairs with a revision seen before.
var linkRevisions atomic.Uint32

type shaderSource struct {
	stage ShaderStage
	path  string
}

// =============================================================
//
//	Shader programs
//
// =============================================================

// ShaderProgram owns a GL program object and the shaders attached to it.
// The zero revision means the program has never been linked successfully.
type ShaderProgram struct {
	driver   Driver
	program  uint32
	revision uint32
	shaders  map[ShaderStage][]uint32
	sources  []shaderSource
	uniforms *UniformCache
}

var _ ProgramHandle = (*ShaderProgram)(nil)

func NewShaderProgram(driver Driver) *ShaderProgram {
	return &ShaderProgram{
		driver:   driver,
		shaders:  make(map[ShaderStage][]uint32),
		uniforms: NewUniformCache(driver, 0),
	}
}

// Create allocates the program object. Calling it again forgets the previous
// program, shaders and sources without deleting them.
func (p *ShaderProgram) Create() {
	p.program = p.driver.CreateProgram()
	p.revision = 0
	p.shaders = make(map[ShaderStage][]uint32)
	p.sources = nil
	p.uniforms.Reset(p.program)
}

func (p *ShaderProgram) Object() uint32   { return p.program }
func (p *ShaderProgram) Revision() uint32 { return p.revision }

// ShaderObjects returns the shaders attached for stage, in attach order.
func (p *ShaderProgram) ShaderObjects(stage ShaderStage) []uint32 {
	return append([]uint32(nil), p.shaders[stage]...)
}

// SourceFiles lists the files attached with AttachSourceFile.
func (p *ShaderProgram) SourceFiles() []string {
	files := make([]string, 0, len(p.sources))
	for _, src := range p.sources {
		files = append(files, src.path)
	}
	return files
}

func (p *ShaderProgram) ensureCreated() {
	if p.program == 0 {
		p.Create()
	}
}

func (p *ShaderProgram) compile(stage ShaderStage, label, source string) (uint32, error) {
	shader := p.driver.CreateShader(stage)
	ok, infoLog := p.driver.CompileShader(shader, source)
	if !ok {
		logger.Log.Error("Failed to compile shader",
			zap.String("source", label),
			zap.Stringer("stage", stage),
			zap.String("log", infoLog))
		p.driver.DeleteShader(shader)
		return 0, fmt.Errorf("compile %s shader %s: %s", stage, label, strings.TrimSpace(infoLog))
	}
	if infoLog != "" {
		logger.Log.Warn("Shader compiled with warnings",
			zap.String("source", label),
			zap.String("log", infoLog))
	}
	return shader, nil
}

// AttachSourceFile compiles the file at path and attaches it. On failure
// nothing is attached and the returned shader is 0. The file is remembered
// for Reload.
func (p *ShaderProgram) AttachSourceFile(stage ShaderStage, path string) (uint32, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Error("Failed to read shader source", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("read shader %s: %w", path, err)
	}
	shader, err := p.AttachSource(stage, path, string(source))
	if err != nil {
		return 0, err
	}
	p.sources = append(p.sources, shaderSource{stage: stage, path: path})
	return shader, nil
}

// AttachSource compiles source and attaches it. label only identifies the
// source in logs and errors.
func (p *ShaderProgram) AttachSource(stage ShaderStage, label, source string) (uint32, error) {
	p.ensureCreated()
	shader, err := p.compile(stage, label, source)
	if err != nil {
		return 0, err
	}
	p.AttachExistingShader(stage, shader)
	return shader, nil
}

// AttachExistingShader attaches an already compiled shader. The program
// takes over its deletion in DeleteShaders.
func (p *ShaderProgram) AttachExistingShader(stage ShaderStage, shader uint32) {
	p.ensureCreated()
	p.driver.AttachShader(p.program, shader)
	p.shaders[stage] = append(p.shaders[stage], shader)
}

// Link links the program. Attached shaders are kept; call DeleteShaders once
// they are no longer needed.
func (p *ShaderProgram) Link() error {
	p.ensureCreated()
	ok, infoLog := p.driver.LinkProgram(p.program)
	if !ok {
		logger.Log.Error("Failed to link program",
			zap.Uint32("program", p.program),
			zap.String("log", infoLog))
		return fmt.Errorf("link program %d: %s", p.program, strings.TrimSpace(infoLog))
	}
	p.revision = linkRevisions.Add(1)
	p.uniforms.Reset(p.program)
	logger.Log.Debug("Shader program linked",
		zap.Uint32("program", p.program),
		zap.Uint32("revision", p.revision))
	return nil
}

func (p *ShaderProgram) DeleteShaders() {
	for _, shaders := range p.shaders {
		for _, shader := range shaders {
			p.driver.DetachShader(p.program, shader)
			p.driver.DeleteShader(shader)
		}
	}
	p.shaders = make(map[ShaderStage][]uint32)
}

func (p *ShaderProgram) DeleteProgram() {
	if p.program == 0 {
		return
	}
	p.driver.DeleteProgram(p.program)
	p.program = 0
	p.revision = 0
	p.uniforms.Reset(0)
}

// Reload rebuilds the program from the files given to AttachSourceFile. The
// old program stays in use when anything fails.
func (p *ShaderProgram) Reload() error {
	if len(p.sources) == 0 {
		return errors.New("reload: program has no source files")
	}

	next := NewShaderProgram(p.driver)
	next.Create()
	for _, src := range p.sources {
		if _, err := next.AttachSourceFile(src.stage, src.path); err != nil {
			next.DeleteShaders()
			next.DeleteProgram()
			return fmt.Errorf("reload: %w", err)
		}
	}
	if err := next.Link(); err != nil {
		next.DeleteShaders()
		next.DeleteProgram()
		return fmt.Errorf("reload: %w", err)
	}
	next.DeleteShaders()

	p.DeleteShaders()
	p.DeleteProgram()
	p.program = next.program
	p.revision = next.revision
	p.sources = next.sources
	p.uniforms.Reset(p.program)

	logger.Log.Info("Shader program reloaded",
		zap.Uint32("program", p.program),
		zap.Strings("sources", p.SourceFiles()))
	return nil
}

func (p *ShaderProgram) Use()   { p.driver.UseProgram(p.program) }
func (p *ShaderProgram) Unuse() { p.driver.UseProgram(0) }

// UniformLocation returns the location of name, cached until the next link.
func (p *ShaderProgram) UniformLocation(name string) int32 {
	return p.uniforms.GetLocation(name)
}

// UniformBlockIndex returns the index of the named block, -1 when missing.
func (p *ShaderProgram) UniformBlockIndex(name string) int32 {
	return p.uniforms.GetBlockIndex(name)
}

// BindUniformBlock assigns the named block to a binding point. It returns
// false when the program has no such block.
func (p *ShaderProgram) BindUniformBlock(name string, binding uint32) bool {
	idx := p.UniformBlockIndex(name)
	if idx < 0 {
		return false
	}
	p.BindUniformBlockIndex(uint32(idx), binding)
	return true
}

func (p *ShaderProgram) BindUniformBlockIndex(index, binding uint32) {
	p.driver.UniformBlockBinding(p.program, index, binding)
}

func (p *ShaderProgram) AttribLocation(name string) int32 {
	return p.driver.GetAttribLocation(p.program, name)
}

// BindAttribLocation only takes effect at the next Link.
func (p *ShaderProgram) BindAttribLocation(index uint32, name string) {
	p.driver.BindAttribLocation(p.program, index, name)
}

// Setters by location. The program must be in use.

func (p *ShaderProgram) SetBool(loc int32, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.driver.Uniform1i(loc, i)
}

func (p *ShaderProgram) SetInt(loc int32, v int32)   { p.driver.Uniform1i(loc, v) }
func (p *ShaderProgram) SetUint(loc int32, v uint32) { p.driver.Uniform1ui(loc, v) }
func (p *ShaderProgram) SetFloat(loc int32, v float32) {
	p.driver.Uniform1f(loc, v)
}

// SetTextureUnit points a sampler uniform at a texture unit.
func (p *ShaderProgram) SetTextureUnit(loc int32, unit int32) { p.driver.Uniform1i(loc, unit) }

func (p *ShaderProgram) SetVec2(loc int32, v mgl32.Vec2) { p.driver.Uniformfv(loc, 2, v[:]) }
func (p *ShaderProgram) SetVec3(loc int32, v mgl32.Vec3) { p.driver.Uniformfv(loc, 3, v[:]) }
func (p *ShaderProgram) SetVec4(loc int32, v mgl32.Vec4) { p.driver.Uniformfv(loc, 4, v[:]) }

func (p *ShaderProgram) SetIVec2(loc int32, v IVec2) { p.driver.Uniformiv(loc, 2, v[:]) }
func (p *ShaderProgram) SetIVec3(loc int32, v IVec3) { p.driver.Uniformiv(loc, 3, v[:]) }
func (p *ShaderProgram) SetIVec4(loc int32, v IVec4) { p.driver.Uniformiv(loc, 4, v[:]) }

func (p *ShaderProgram) SetUVec2(loc int32, v UVec2) { p.driver.Uniformuiv(loc, 2, v[:]) }
func (p *ShaderProgram) SetUVec3(loc int32, v UVec3) { p.driver.Uniformuiv(loc, 3, v[:]) }
func (p *ShaderProgram) SetUVec4(loc int32, v UVec4) { p.driver.Uniformuiv(loc, 4, v[:]) }

func (p *ShaderProgram) SetMat2(loc int32, m mgl32.Mat2) { p.driver.UniformMatrixfv(loc, 2, m[:]) }
func (p *ShaderProgram) SetMat3(loc int32, m mgl32.Mat3) { p.driver.UniformMatrixfv(loc, 3, m[:]) }
func (p *ShaderProgram) SetMat4(loc int32, m mgl32.Mat4) { p.driver.UniformMatrixfv(loc, 4, m[:]) }

// SetVec4Array uploads a vec4[] uniform starting at loc.
func (p *ShaderProgram) SetVec4Array(loc int32, values []mgl32.Vec4) {
	flat := make([]float32, 0, 4*len(values))
	for _, v := range values {
		flat = append(flat, v[:]...)
	}
	p.driver.Uniformfv(loc, 4, flat)
}

// SetMatStack uploads the stack's current matrix to the uniform named after
// the stack.
func (p *ShaderProgram) SetMatStack(stack *TransformStack) {
	p.SetMat4(stack.Loc(p), stack.Matrix())
}

// SetUniform uploads v with the setter matching T.
func SetUniform[T UniformValue](p *ShaderProgram, loc int32, v T) {
	switch x := any(v).(type) {
	case bool:
		p.SetBool(loc, x)
	case int32:
		p.SetInt(loc, x)
	case uint32:
		p.SetUint(loc, x)
	case float32:
		p.SetFloat(loc, x)
	case mgl32.Vec2:
		p.SetVec2(loc, x)
	case mgl32.Vec3:
		p.SetVec3(loc, x)
	case mgl32.Vec4:
		p.SetVec4(loc, x)
	case IVec2:
		p.SetIVec2(loc, x)
	case IVec3:
		p.SetIVec3(loc, x)
	case IVec4:
		p.SetIVec4(loc, x)
	case UVec2:
		p.SetUVec2(loc, x)
	case UVec3:
		p.SetUVec3(loc, x)
	case UVec4:
		p.SetUVec4(loc, x)
	case mgl32.Mat2:
		p.SetMat2(loc, x)
	case mgl32.Mat3:
		p.SetMat3(loc, x)
	case mgl32.Mat4:
		p.SetMat4(loc, x)
	}
}

// SetNamedUniform looks name up in the program cache and uploads v. Missing
// uniforms are skipped.
func SetNamedUniform[T UniformValue](p *ShaderProgram, name string, v T) {
	loc := p.UniformLocation(name)
	if loc != -1 {
		SetUniform(p, loc, v)
	}
}

// ApplyUniform uploads u using its memoized location.
func ApplyUniform[T UniformValue](p *ShaderProgram, u *Uniform[T]) {
	SetUniform(p, u.Loc(p), u.Get())
}
