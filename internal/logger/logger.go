// Package logger provides a simple logging interface for waylon components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation. The production
// implementation is backed by zap; when the dashboard owns the terminal the
// output is redirected to a rotating log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// DebugEnv enables debug output for loggers built with NewEnvLogger.
const DebugEnv = "WAYLON_DEBUG"

// Options configures a zap-backed logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// File, when set, sends output to a rotating log file instead of Writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool

	// Writer receives console output when File is empty. Defaults to stderr.
	Writer io.Writer

	// Name is attached to every entry (e.g. "scheduler").
	Name string
}

// zapLogger adapts a zap SugaredLogger to the Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a zap-backed logger. The returned closer flushes buffered
// entries and closes the log file, if any.
func New(opts Options) (Logger, io.Closer) {
	var sink io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
		}
		sink = rotator
		closer = rotator
	} else if opts.Writer != nil {
		sink = opts.Writer
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(sink),
		ParseLevel(opts.Level),
	)

	base := zap.New(core)
	if opts.Name != "" {
		base = base.Named(opts.Name)
	}

	l := &zapLogger{sugar: base.Sugar()}
	return l, closerFunc(func() error {
		_ = l.sugar.Sync()
		return closer.Close()
	})
}

// NewEnvLogger creates a stderr logger that respects the WAYLON_DEBUG environment variable.
// The name is attached to all log entries (e.g., "scheduler" or "source").
func NewEnvLogger(name string) Logger {
	level := "info"
	if os.Getenv(DebugEnv) != "" {
		level = "debug"
	}
	l, _ := New(Options{Level: level, Name: name})
	return l
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.CallerKey = ""
	return cfg
}

// Named returns a child logger carrying the given name. Loggers that are not
// zap-backed are returned unchanged.
func Named(l Logger, name string) Logger {
	if zl, ok := l.(*zapLogger); ok {
		return &zapLogger{sugar: zl.sugar.Named(name)}
	}
	return l
}

func (l *zapLogger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Safe for use from the scheduler goroutine while a test inspects it.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) record(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.record("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.record("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.record("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.record("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains reports whether any captured message contains substr.
func (l *BufferLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewEnvLogger("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
// This is useful for testing or to configure logging globally.
func SetDefault(l Logger) {
	defaultLogger = l
}
