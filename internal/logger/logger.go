package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init is called,
// so packages can log from tests without setting anything up.
var Log = zap.NewNop()

// Init installs a production logger writing to stderr.
func Init() {
	InitWithConfig(false)
}

// InitWithConfig installs a development logger (debug level, console encoding)
// when debug is true, and a production one otherwise.
func InitWithConfig(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		// Keep whatever logger we had rather than leaving Log nil.
		Log.Error("Could not build logger", zap.Error(err))
		return
	}
	Log = l
}

// Sync flushes buffered log entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
