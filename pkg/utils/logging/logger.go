package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option configures InitLogger
type Option func(*options)

type options struct {
	console zapcore.LevelEnabler
}

// silent is above every level zap emits
const silent = zapcore.FatalLevel + 1

// WithConsoleLevel makes the console output follow level, so a caller can
// raise or silence it after the logger is built. The file keeps Debug.
func WithConsoleLevel(level zap.AtomicLevel) Option {
	return func(o *options) {
		o.console = level
	}
}

// Silence turns level off and returns a func restoring the previous level.
// Full-screen commands use it while they own the terminal.
func Silence(level zap.AtomicLevel) (restore func()) {
	prev := level.Level()
	level.SetLevel(silent)
	return func() { level.SetLevel(prev) }
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name, which is created under dir
func InitLogger(env, dir string, opts ...Option) (*zap.Logger, error) {
	o := options{console: zapcore.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	core := newCore(os.Stderr, logFile, o.console)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// newCore tees a colored console encoder at consoleLevel with a JSON file
// encoder at Debug level. Console output goes to stderr so it does not mix
// with command output on stdout.
func newCore(console, file zapcore.WriteSyncer, consoleLevel zapcore.LevelEnabler) zapcore.Core {
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(console), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(file), zapcore.DebugLevel),
	)
}
