package exercises

import (
	"sort"

	"OrbitGL/internal/engine"
)

// Constructor builds a fresh scene each time an exercise is run.
type Constructor func() engine.Scene

// Exercise is a registered scene with the window title it runs under.
type Exercise struct {
	Name  string
	Title string
	New   Constructor
}

var registry = make(map[string]Exercise)

// Register adds an exercise, replacing any previous one with the same name.
func Register(name, title string, constructor Constructor) {
	registry[name] = Exercise{Name: name, Title: title, New: constructor}
}

// Names lists the registered exercises in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Exercise, bool) {
	ex, ok := registry[name]
	return ex, ok
}

// Create returns a new scene for name, or nil if no such exercise exists.
func Create(name string) engine.Scene {
	if ex, ok := registry[name]; ok {
		return ex.New()
	}
	return nil
}
