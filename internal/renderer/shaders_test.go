package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShader(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func linkedProgram(t *testing.T, d *fakeDriver) (*ShaderProgram, string, string) {
	t.Helper()
	dir := t.TempDir()
	vert := writeShader(t, dir, "basic.vert", "void main() {}")
	frag := writeShader(t, dir, "basic.frag", "out vec4 c; void main() {}")

	p := NewShaderProgram(d)
	p.Create()
	_, err := p.AttachSourceFile(VertexShader, vert)
	require.NoError(t, err)
	_, err = p.AttachSourceFile(FragmentShader, frag)
	require.NoError(t, err)
	require.NoError(t, p.Link())
	return p, vert, frag
}

func TestShaderProgramAttachAndLink(t *testing.T) {
	d := newFakeDriver()
	p, vert, frag := linkedProgram(t, d)

	assert.NotZero(t, p.Object())
	assert.NotZero(t, p.Revision())
	assert.Len(t, p.ShaderObjects(VertexShader), 1)
	assert.Len(t, p.ShaderObjects(FragmentShader), 1)
	assert.Empty(t, p.ShaderObjects(GeometryShader))
	assert.Equal(t, []string{vert, frag}, p.SourceFiles())
	assert.Len(t, d.attached[p.Object()], 2)

	p.DeleteShaders()
	assert.Empty(t, d.attached[p.Object()])
	assert.Empty(t, p.ShaderObjects(VertexShader))
}

func TestShaderProgramCompileFailure(t *testing.T) {
	d := newFakeDriver()
	dir := t.TempDir()
	bad := writeShader(t, dir, "bad.frag", "garbage")
	d.failCompile["garbage"] = true

	p := NewShaderProgram(d)
	shader, err := p.AttachSourceFile(FragmentShader, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Zero(t, shader)
	assert.Empty(t, p.ShaderObjects(FragmentShader))
	assert.Empty(t, d.attached[p.Object()])
	assert.Empty(t, p.SourceFiles())
}

func TestShaderProgramMissingFile(t *testing.T) {
	p := NewShaderProgram(newFakeDriver())
	shader, err := p.AttachSourceFile(VertexShader, filepath.Join(t.TempDir(), "nope.vert"))
	require.Error(t, err)
	assert.Zero(t, shader)
}

func TestShaderProgramLinkFailure(t *testing.T) {
	d := newFakeDriver()
	p := NewShaderProgram(d)
	_, err := p.AttachSource(VertexShader, "inline", "void main() {}")
	require.NoError(t, err)

	d.failLink = true
	err = p.Link()
	require.Error(t, err)
	assert.Zero(t, p.Revision())
}

func TestShaderProgramCreateResets(t *testing.T) {
	d := newFakeDriver()
	p, _, _ := linkedProgram(t, d)
	old := p.Object()

	p.Create()
	assert.NotEqual(t, old, p.Object())
	assert.Zero(t, p.Revision())
	assert.Empty(t, p.ShaderObjects(VertexShader))
	assert.Empty(t, p.SourceFiles())
	assert.False(t, d.deleted[old])
}

func TestShaderProgramRelinkInvalidatesStacks(t *testing.T) {
	d := newFakeDriver()
	p, _, _ := linkedProgram(t, d)
	d.setUniform(p.Object(), "model", 3)

	model := NewTransformStack("model")
	p.SetMatStack(model)
	p.SetMatStack(model)
	assert.Equal(t, 1, d.uniformQueries["model"])

	first := p.Revision()
	require.NoError(t, p.Link())
	assert.Greater(t, p.Revision(), first)

	d.setUniform(p.Object(), "model", 6)
	p.SetMatStack(model)
	assert.Equal(t, 2, d.uniformQueries["model"])
	last := d.calls[len(d.calls)-1]
	assert.Equal(t, int32(6), last.loc)
	assert.Equal(t, "mat4", last.kind)
}

func TestShaderProgramUniformLocationCached(t *testing.T) {
	d := newFakeDriver()
	p, _, _ := linkedProgram(t, d)
	d.setUniform(p.Object(), "angle", 2)

	SetNamedUniform(p, "angle", float32(0.5))
	SetNamedUniform(p, "angle", float32(0.75))
	SetNamedUniform(p, "missing", float32(1))

	assert.Equal(t, 1, d.uniformQueries["angle"])
	assert.Equal(t, 1, d.uniformQueries["missing"])
	require.Len(t, d.calls, 2)
	assert.Equal(t, []float32{0.75}, d.calls[1].values)
}

func TestSetUniformDispatch(t *testing.T) {
	d := newFakeDriver()
	p := NewShaderProgram(d)

	SetUniform(p, 1, true)
	SetUniform(p, 2, int32(-3))
	SetUniform(p, 3, uint32(4))
	SetUniform(p, 4, float32(1.5))
	SetUniform(p, 5, mgl32.Vec3{1, 2, 3})
	SetUniform(p, 6, IVec2{7, 8})
	SetUniform(p, 7, UVec4{1, 2, 3, 4})
	SetUniform(p, 8, mgl32.Ident3())
	SetUniform(p, 9, mgl32.Ident4())

	kinds := make([]string, 0, len(d.calls))
	for _, c := range d.calls {
		kinds = append(kinds, c.kind)
	}
	assert.Equal(t, []string{"1i", "1i", "1ui", "1f", "3fv", "2iv", "4uiv", "mat3", "mat4"}, kinds)
	assert.Equal(t, []float32{1}, d.calls[0].values)
	assert.Equal(t, []float32{7, 8}, d.calls[5].values)
}

func TestApplyUniform(t *testing.T) {
	d := newFakeDriver()
	p, _, _ := linkedProgram(t, d)
	d.setUniform(p.Object(), "lightPosition", 5)

	u := NewUniform("lightPosition", mgl32.Vec3{0, 2, 0})
	ApplyUniform(p, &u)
	u.Set(mgl32.Vec3{1, 2, 0})
	ApplyUniform(p, &u)

	assert.Equal(t, 1, d.uniformQueries["lightPosition"])
	assert.Equal(t, []float32{1, 2, 0}, d.calls[1].values)
	assert.Equal(t, int32(5), d.calls[1].loc)
}

func TestSetVec4Array(t *testing.T) {
	d := newFakeDriver()
	p := NewShaderProgram(d)
	p.SetVec4Array(0, []mgl32.Vec4{{1, 2, 3, 4}, {5, 6, 7, 8}})
	require.Len(t, d.calls, 1)
	assert.Equal(t, "4fv", d.calls[0].kind)
	assert.Len(t, d.calls[0].values, 8)
}

func TestShaderProgramReload(t *testing.T) {
	d := newFakeDriver()
	p, vert, _ := linkedProgram(t, d)
	old, oldRev := p.Object(), p.Revision()

	require.NoError(t, p.Reload())
	assert.NotEqual(t, old, p.Object())
	assert.Greater(t, p.Revision(), oldRev)
	assert.True(t, d.deleted[old])
	assert.Len(t, p.SourceFiles(), 2)

	// A broken edit keeps the running program.
	require.NoError(t, os.WriteFile(vert, []byte("broken"), 0o644))
	d.failCompile["broken"] = true
	current := p.Object()
	require.Error(t, p.Reload())
	assert.Equal(t, current, p.Object())
	assert.False(t, d.deleted[current])
}

func TestShaderProgramReloadWithoutSources(t *testing.T) {
	p := NewShaderProgram(newFakeDriver())
	p.Create()
	assert.Error(t, p.Reload())
}

func TestBindUniformBlock(t *testing.T) {
	d := newFakeDriver()
	p, _, _ := linkedProgram(t, d)
	d.setBlock(p.Object(), "Matrices", 1)

	assert.True(t, p.BindUniformBlock("Matrices", 3))
	assert.Equal(t, uint32(3), d.blockBinds[1])
	assert.False(t, p.BindUniformBlock("Lights", 0))
	assert.Equal(t, 1, d.blockQueries["Matrices"])
}
