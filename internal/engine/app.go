package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"OrbitGL/internal/input"
	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// App owns the window and the GL context and runs a Scene. Every method must
// be called from the goroutine running Run.
type App struct {
	settings Settings
	scene    Scene
	driver   renderer.Driver
	window   *glfw.Window

	frame     int
	deltaTime float32
	startTime time.Time
	lastFrame time.Time

	width, height    int
	mouse, lastMouse input.MouseState
	events           []any
	closing          bool

	keybinds   string
	executable string
	saver      *FrameSaver
	watcher    *ShaderWatcher

	viewport func(x, y, width, height int32)
}

func NewApp(settings Settings, scene Scene) *App {
	return &App{
		settings:   settings,
		scene:      scene,
		driver:     renderer.GLDriver{},
		width:      settings.Width,
		height:     settings.Height,
		deltaTime:  float32(settings.FrameDuration()),
		executable: os.Args[0],
		viewport:   gl.Viewport,
	}
}

// Run creates the window, initializes the scene and loops until the window
// is closed. It locks the calling goroutine to its OS thread.
func (a *App) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, a.settings.DepthBits)
	glfw.WindowHint(glfw.StencilBits, a.settings.StencilBits)
	glfw.WindowHint(glfw.Samples, a.settings.Samples)

	window, err := glfw.CreateWindow(a.settings.Width, a.settings.Height, a.settings.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	a.window = window

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		logger.Log.Error("Could not initialize OpenGL", zap.Error(err))
		return fmt.Errorf("init OpenGL: %w", err)
	}
	glfw.SwapInterval(1)
	a.logGLInfo()

	a.installCallbacks()
	a.width, a.height = window.GetFramebufferSize()
	a.viewport(0, 0, int32(a.width), int32(a.height))

	a.saver = NewFrameSaver(a.settings.SaveWorkers)
	defer a.saver.Close()

	if a.settings.HotReload {
		if a.watcher, err = NewShaderWatcher(); err != nil {
			logger.Log.Warn("Shader hot reload disabled", zap.Error(err))
		} else {
			defer a.watcher.Close()
		}
	}

	if err := a.scene.Init(a); err != nil {
		return fmt.Errorf("init scene: %w", err)
	}

	a.startTime = time.Now()
	a.lastFrame = a.startTime
	a.deltaTime = float32(a.settings.FrameDuration())
	a.mouse = a.sampleMouse()
	a.lastMouse = a.mouse
	a.frame = 0

	if k, ok := a.scene.(Keybinder); ok {
		a.SetKeybindMessage(k.Keybinds())
	}
	a.LogKeybinds()

	for !a.closing {
		a.scene.DrawFrame(a)
		window.SwapBuffers()
		a.limitFrameRate()

		glfw.PollEvents()
		if window.ShouldClose() {
			a.events = append(a.events, closeRequest{})
		}
		a.handleEvents(a.sampleMouse())
		a.pollShaders()

		a.updateDeltaTime()
		a.frame++
	}

	gl.Finish()
	if h, ok := a.scene.(CloseHandler); ok {
		h.OnClose(a)
	}
	gl.Finish()
	return nil
}

func (a *App) installCallbacks() {
	a.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		ev := input.KeyEvent{Key: key, Mods: mods}
		switch action {
		case glfw.Press, glfw.Repeat:
			a.events = append(a.events, keyPress(ev))
		case glfw.Release:
			a.events = append(a.events, keyRelease(ev))
		}
	})
	a.window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		a.events = append(a.events, input.MouseButtonEvent{Button: button, Pressed: action == glfw.Press, Mods: mods})
	})
	a.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		a.events = append(a.events, cursorPos{X: x, Y: y})
	})
	a.window.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		a.events = append(a.events, input.Scroll{DX: dx, DY: dy})
	})
	a.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.events = append(a.events, input.Resize{Width: width, Height: height})
	})
}

func (a *App) sampleMouse() input.MouseState {
	var m input.MouseState
	m.X, m.Y = a.window.GetCursorPos()
	for b := glfw.MouseButton1; b <= glfw.MouseButtonLast; b++ {
		m.Buttons[b] = a.window.GetMouseButton(b) == glfw.Press
	}
	m.InsideWindow = a.window.GetAttrib(glfw.Hovered) == glfw.True
	return m
}

// limitFrameRate sleeps for what is left of the frame budget.
func (a *App) limitFrameRate() {
	budget := time.Duration(a.settings.FrameDuration() * float64(time.Second))
	if left := budget - time.Since(a.lastFrame); left > 0 {
		time.Sleep(left)
	}
}

func (a *App) updateDeltaTime() {
	now := time.Now()
	a.deltaTime = float32(now.Sub(a.lastFrame).Seconds())
	a.lastFrame = now
}

func (a *App) pollShaders() {
	if a.watcher == nil || !a.watcher.Poll() {
		return
	}
	if h, ok := a.scene.(ShaderReloadHandler); ok {
		h.OnShadersReloaded(a)
	}
}

func (a *App) logGLInfo() {
	major := a.window.GetAttrib(glfw.ContextVersionMajor)
	minor := a.window.GetAttrib(glfw.ContextVersionMinor)

	var depthBits, stencilBits int32
	gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.DEPTH, gl.FRAMEBUFFER_ATTACHMENT_DEPTH_SIZE, &depthBits)
	gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.STENCIL, gl.FRAMEBUFFER_ATTACHMENT_STENCIL_SIZE, &stencilBits)

	logger.Log.Info("OpenGL context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("gpu", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
		zap.String("context", fmt.Sprintf("%d.%d", major, minor)),
		zap.Int32("depthBits", depthBits),
		zap.Int32("stencilBits", stencilBits))
}

// Close asks the loop to stop after the current frame.
func (a *App) Close() {
	if a.window != nil {
		a.window.SetShouldClose(true)
	}
}

func (a *App) Settings() Settings { return a.settings }

// Driver is the driver used for programs and uniform blocks.
func (a *App) Driver() renderer.Driver { return a.driver }

func (a *App) Window() *glfw.Window { return a.window }

// Mouse is the mouse state sampled at the start of event handling.
func (a *App) Mouse() input.MouseState { return a.mouse }

// FrameNumber counts completed frames, starting at 0.
func (a *App) FrameNumber() int { return a.frame }

// DeltaTime is the duration of the previous frame in seconds.
func (a *App) DeltaTime() float32 { return a.deltaTime }

func (a *App) StartTime() time.Time { return a.startTime }

// FormatStartTime formats the start time with a Go time layout.
func (a *App) FormatStartTime(layout string) string { return a.startTime.Format(layout) }

// FramebufferSize is the drawable size in pixels.
func (a *App) FramebufferSize() (int, int) { return a.width, a.height }

// WindowAspect is width / height, 1 for a degenerate size.
func (a *App) WindowAspect() float32 {
	if a.width <= 0 || a.height <= 0 {
		return 1
	}
	return float32(a.width) / float32(a.height)
}

// AssetPath joins parts under the configured asset directory.
func (a *App) AssetPath(parts ...string) string {
	return filepath.Join(append([]string{a.settings.AssetDir}, parts...)...)
}

// SetKeybindMessage sets the help text, indenting every line.
func (a *App) SetKeybindMessage(msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		a.keybinds = ""
		return
	}
	a.keybinds = "    " + strings.ReplaceAll(msg, "\n", "\n    ")
}

func (a *App) KeybindMessage() string { return a.keybinds }

func (a *App) LogKeybinds() {
	if a.keybinds != "" {
		logger.Log.Info("Keyboard shortcuts\n" + a.keybinds)
	}
}

// ShaderFile is one stage of a program, relative to the asset directory.
type ShaderFile struct {
	Stage renderer.ShaderStage
	Path  string
}

// BuildProgram compiles and links a program from asset files. With hot
// reload enabled the program is rebuilt whenever one of its files changes.
func (a *App) BuildProgram(files ...ShaderFile) (*renderer.ShaderProgram, error) {
	prog := renderer.NewShaderProgram(a.driver)
	prog.Create()
	for _, f := range files {
		if _, err := prog.AttachSourceFile(f.Stage, a.AssetPath(f.Path)); err != nil {
			prog.DeleteShaders()
			prog.DeleteProgram()
			return nil, err
		}
	}
	if err := prog.Link(); err != nil {
		prog.DeleteShaders()
		prog.DeleteProgram()
		return nil, err
	}
	prog.DeleteShaders()

	if a.watcher != nil {
		if err := a.watcher.Watch(prog); err != nil {
			logger.Log.Warn("Could not watch shader sources", zap.Error(err))
		}
	}
	return prog, nil
}
