package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"OrbitGL/internal/logger"
	"OrbitGL/internal/renderer"

	"github.com/alitto/pond/v2"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// screenshotTimeLayout is %Y%m%d_%H%M%S.
const screenshotTimeLayout = "20060102_150405"

// ScreenshotName builds <folder>/<exe stem>_<start time>_<frame>.png.
func ScreenshotName(folder, executable string, start time.Time, frame int) string {
	stem := strings.TrimSuffix(filepath.Base(executable), filepath.Ext(executable))
	name := fmt.Sprintf("%s_%s_%d.png", stem, start.Format(screenshotTimeLayout), frame)
	return filepath.Join(folder, name)
}

// FrameSaver encodes captured frames off the GL thread.
type FrameSaver struct {
	pool pond.Pool
}

func NewFrameSaver(workers int) *FrameSaver {
	if workers < 1 {
		workers = 1
	}
	return &FrameSaver{pool: pond.NewPool(workers)}
}

// Save queues img to be written as PNG at path. The task owns img; failures
// are only logged.
func (s *FrameSaver) Save(path string, img image.Image) {
	s.pool.Submit(func() {
		if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
			logger.Log.Error("Failed to save screenshot", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Log.Info("Screenshot saved", zap.String("path", path))
	})
}

// Close waits for queued saves.
func (s *FrameSaver) Close() {
	s.pool.StopAndWait()
}

// CaptureFrame reads the displayed (front) buffer. Rows are flipped so the
// image has its origin at the top left.
func CaptureFrame(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	var readBuffer int32
	gl.GetIntegerv(gl.READ_BUFFER, &readBuffer)
	gl.ReadBuffer(gl.FRONT)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.ReadBuffer(uint32(readBuffer))

	return renderer.FlipImage(img)
}

// SaveScreenshot captures the current frame and queues it for saving. An
// empty filename is replaced by ScreenshotName. The returned path is where
// the file will appear once the save completes.
func (a *App) SaveScreenshot(folder, filename string) (string, error) {
	folder = strings.TrimSpace(folder)
	filename = strings.TrimSpace(filename)

	img := CaptureFrame(a.FramebufferSize())

	if folder != "" {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return "", fmt.Errorf("screenshot folder %s: %w", folder, err)
		}
	}

	path := filepath.Join(folder, filename)
	if filename == "" {
		path = ScreenshotName(folder, a.executable, a.startTime, a.frame)
	}
	a.saver.Save(path, img)
	return path, nil
}
