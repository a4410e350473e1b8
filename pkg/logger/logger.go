package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	base   = zap.NewNop()
	sugar  = base.Sugar()
	logDir = "logs"
)

// Options configures Setup.
type Options struct {
	Level       string // debug, info, warn, error (default info)
	Format      string // json or console (default json)
	ServiceName string
	// Dir receives a daily log file next to stdout. Empty disables file output.
	Dir string
}

// New builds a zap logger from options without touching the package logger.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		name := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		config.OutputPaths = append(config.OutputPaths, name)
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	if opts.ServiceName != "" {
		l = l.With(zap.String("service_name", opts.ServiceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		l = l.With(zap.String("hostname", hostname))
	}
	return l, nil
}

// Setup replaces the package logger used by Info, Warning and Error.
func Setup(opts Options) error {
	if opts.Dir == "" {
		opts.Dir = logDir
	}
	l, err := New(opts)
	if err != nil {
		return err
	}
	Use(l)
	return nil
}

// Use installs l as the package logger.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// L returns the package logger for injection into components.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = SyncLogger(L())
}

// SyncLogger flushes l and drops the errors terminals and pipes return for
// fsync on stdout and stderr. File sink errors are kept.
func SyncLogger(l *zap.Logger) error {
	err := l.Sync()
	if err == nil {
		return nil
	}
	errs := []error{err}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		errs = multi.Unwrap()
	}
	var kept []error
	for _, e := range errs {
		if errors.Is(e, syscall.EINVAL) || errors.Is(e, syscall.ENOTTY) {
			continue
		}
		kept = append(kept, e)
	}
	return errors.Join(kept...)
}

// Debug logs at debug level.
func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

// Info logs at info level.
func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

// Warning logs at warn level.
func Warning(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// Error logs at error level.
func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
