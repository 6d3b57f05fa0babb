package engine

import "OrbitGL/internal/input"

// Scene is a program run by App. Init is called once the context exists,
// DrawFrame once per frame before the buffer swap.
//
// A scene receives input by implementing any of the handler interfaces
// below; App checks for them on every event.
type Scene interface {
	Init(app *App) error
	DrawFrame(app *App)
}

type KeyPressHandler interface {
	OnKeyPress(app *App, ev input.KeyEvent)
}

type KeyReleaseHandler interface {
	OnKeyRelease(app *App, ev input.KeyEvent)
}

type MouseButtonHandler interface {
	OnMouseButton(app *App, ev input.MouseButtonEvent)
}

type MouseMoveHandler interface {
	OnMouseMove(app *App, move input.MouseMove)
}

type ScrollHandler interface {
	OnScroll(app *App, scroll input.Scroll)
}

// ResizeHandler is called after the viewport has been updated.
type ResizeHandler interface {
	OnResize(app *App, size input.Resize)
}

// CloseHandler is called once, before the window is destroyed, with the
// context still current.
type CloseHandler interface {
	OnClose(app *App)
}

// ShaderReloadHandler is called after hot reload rebuilt at least one
// program, so that the scene can upload its uniforms again.
type ShaderReloadHandler interface {
	OnShadersReloaded(app *App)
}

// Keybinder supplies the help text logged when the loop starts.
type Keybinder interface {
	Keybinds() string
}

type keyPress input.KeyEvent
type keyRelease input.KeyEvent
type cursorPos struct{ X, Y float64 }
type closeRequest struct{}

// dispatch delivers one queued event to the scene.
func (a *App) dispatch(ev any) {
	switch e := ev.(type) {
	case closeRequest:
		a.closing = true
	case input.Resize:
		a.width, a.height = e.Width, e.Height
		a.viewport(0, 0, int32(e.Width), int32(e.Height))
		if h, ok := a.scene.(ResizeHandler); ok {
			h.OnResize(a, e)
		}
	case keyPress:
		if h, ok := a.scene.(KeyPressHandler); ok {
			h.OnKeyPress(a, input.KeyEvent(e))
		}
	case keyRelease:
		if h, ok := a.scene.(KeyReleaseHandler); ok {
			h.OnKeyRelease(a, input.KeyEvent(e))
		}
	case input.MouseButtonEvent:
		if h, ok := a.scene.(MouseButtonHandler); ok {
			h.OnMouseButton(a, e)
		}
	case cursorPos:
		// Deltas are relative to the state sampled at the previous frame.
		if h, ok := a.scene.(MouseMoveHandler); ok {
			h.OnMouseMove(a, input.MouseMove{DX: e.X - a.lastMouse.X, DY: e.Y - a.lastMouse.Y})
		}
	case input.Scroll:
		if h, ok := a.scene.(ScrollHandler); ok {
			h.OnScroll(a, e)
		}
	}
}

// handleEvents rotates the mouse state and delivers the events queued since
// the previous frame.
func (a *App) handleEvents(mouse input.MouseState) {
	a.lastMouse = a.mouse
	a.mouse = mouse

	events := a.events
	a.events = nil
	for _, ev := range events {
		a.dispatch(ev)
	}
}
