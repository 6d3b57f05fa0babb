package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"OrbitGL/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings configures the window, the context and the runner.
type Settings struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	FPS           int    `yaml:"fps"`
	Samples       int    `yaml:"samples"`
	DepthBits     int    `yaml:"depth_bits"`
	StencilBits   int    `yaml:"stencil_bits"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	AssetDir      string `yaml:"asset_dir"`
	HotReload     bool   `yaml:"hot_reload"`
	SaveWorkers   int    `yaml:"save_workers"`
}

func DefaultSettings() Settings {
	return Settings{
		Title:         "OrbitGL",
		Width:         600,
		Height:        600,
		FPS:           30,
		Samples:       4,
		DepthBits:     24,
		StencilBits:   8,
		ScreenshotDir: "screenshots",
		AssetDir:      "assets",
		SaveWorkers:   1,
	}
}

// LoadSettings reads a YAML file over the defaults. A missing file is not an
// error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Info("No settings file, using defaults", zap.String("path", path))
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("settings %s: %w", path, err)
	}

	logger.Log.Debug("Settings loaded", zap.String("path", path), zap.Any("settings", settings))
	return settings, nil
}

func (s Settings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", s.Width, s.Height)
	case s.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", s.FPS)
	case s.Samples < 0 || s.DepthBits < 0 || s.StencilBits < 0:
		return errors.New("samples and buffer bits cannot be negative")
	case s.SaveWorkers <= 0:
		return fmt.Errorf("save_workers must be positive, got %d", s.SaveWorkers)
	}
	return nil
}

// FrameDuration is the target time between two frames.
func (s Settings) FrameDuration() float64 {
	return 1 / float64(s.FPS)
}
