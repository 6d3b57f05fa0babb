package engine

import (
	"fmt"
	"path/filepath"

	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloadable is a program rebuilt from its source files.
type Reloadable interface {
	SourceFiles() []string
	Reload() error
}

var _ Reloadable = (*renderer.ShaderProgram)(nil)

// ShaderWatcher watches shader sources and reloads the programs built from
// them. Poll must be called from the thread owning the GL context.
type ShaderWatcher struct {
	watcher  *fsnotify.Watcher
	programs map[string][]Reloadable // cleaned path -> programs
	dirs     map[string]bool
}

func NewShaderWatcher() (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	return &ShaderWatcher{
		watcher:  w,
		programs: make(map[string][]Reloadable),
		dirs:     make(map[string]bool),
	}, nil
}

// Watch registers every source file of prog. Directories are watched rather
// than files so that editors replacing the file on save are noticed.
func (w *ShaderWatcher) Watch(prog Reloadable) error {
	for _, file := range prog.SourceFiles() {
		path := filepath.Clean(file)
		dir := filepath.Dir(path)
		if !w.dirs[dir] {
			if err := w.watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			w.dirs[dir] = true
		}
		w.programs[path] = append(w.programs[path], prog)
	}
	return nil
}

// Poll drains pending file events without blocking and reloads each affected
// program once. It reports whether any program was reloaded.
func (w *ShaderWatcher) Poll() bool {
	changed := make(map[Reloadable]bool)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return w.reload(changed)
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			for _, prog := range w.programs[filepath.Clean(ev.Name)] {
				changed[prog] = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.reload(changed)
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		default:
			return w.reload(changed)
		}
	}
}

func (w *ShaderWatcher) reload(changed map[Reloadable]bool) bool {
	reloaded := false
	for prog := range changed {
		if err := prog.Reload(); err != nil {
			logger.Log.Error("Shader reload failed, keeping previous program", zap.Error(err))
			continue
		}
		reloaded = true
	}
	return reloaded
}

func (w *ShaderWatcher) Close() error {
	return w.watcher.Close()
}
