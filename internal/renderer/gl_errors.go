package renderer

import (
	"fmt"

	"OrbitGL/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Not exported by the core profile bindings.
const (
	glStackOverflow  = 0x0503
	glStackUnderflow = 0x0504
)

// maxDrainedErrors bounds DrainErrors when there is no context, in which
// case some drivers keep returning the same error forever.
const maxDrainedErrors = 64

// GLError is an error code reported by glGetError.
type GLError struct {
	Code   uint32
	Source string
}

func (e GLError) Error() string {
	return fmt.Sprintf("%s: GL error 0x%04X %s", e.Source, e.Code, glErrorName(e.Code))
}

func glErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case glStackOverflow:
		return "GL_STACK_OVERFLOW"
	case glStackUnderflow:
		return "GL_STACK_UNDERFLOW"
	}
	return "GL_UNKNOWN_ERROR"
}

// DrainErrors reads every pending GL error, logs it and returns them all
// combined. source tags the log lines (a file:line or a call name).
func DrainErrors(driver Driver, source string) error {
	var err error
	for i := 0; i < maxDrainedErrors; i++ {
		code := driver.GetError()
		if code == gl.NO_ERROR {
			break
		}
		glErr := GLError{Code: code, Source: source}
		logger.Log.Warn("OpenGL error",
			zap.String("source", source),
			zap.String("error", glErrorName(code)),
			zap.Uint32("code", code))
		err = multierr.Append(err, glErr)
	}
	return err
}
