package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReloadable struct {
	files   []string
	reloads int
	err     error
}

func (f *fakeReloadable) SourceFiles() []string { return f.files }

func (f *fakeReloadable) Reload() error {
	f.reloads++
	return f.err
}

func TestShaderWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "basic.vert")
	frag := filepath.Join(dir, "basic.frag")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{vert, frag, other} {
		require.NoError(t, os.WriteFile(p, []byte("// v1\n"), 0o644))
	}

	w, err := NewShaderWatcher()
	require.NoError(t, err)
	defer w.Close()

	prog := &fakeReloadable{files: []string{vert, frag}}
	require.NoError(t, w.Watch(prog))
	assert.False(t, w.Poll(), "nothing changed yet")

	require.NoError(t, os.WriteFile(other, []byte("// v2\n"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("// v2\n"), 0o644))

	require.Eventually(t, w.Poll, 2*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, prog.reloads, 1)
}

func TestShaderWatcherKeepsFailedReload(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "basic.vert")
	require.NoError(t, os.WriteFile(vert, []byte("// v1\n"), 0o644))

	w, err := NewShaderWatcher()
	require.NoError(t, err)
	defer w.Close()

	prog := &fakeReloadable{files: []string{vert}, err: errors.New("compile error")}
	require.NoError(t, w.Watch(prog))
	require.NoError(t, os.WriteFile(vert, []byte("broken"), 0o644))

	require.Eventually(t, func() bool {
		w.Poll()
		return prog.reloads > 0
	}, 2*time.Second, 20*time.Millisecond)
	assert.False(t, w.Poll())
}
