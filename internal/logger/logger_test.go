package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		expectDbg bool
		expectInf bool
	}{
		{name: "debug level logs debug", level: "debug", expectDbg: true, expectInf: true},
		{name: "empty level defaults to info", level: "", expectDbg: false, expectInf: true},
		{name: "warn level drops info", level: "warn", expectDbg: false, expectInf: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, closer := New(Options{Level: tt.level, Writer: &buf, Name: "test"})
			defer closer.Close()

			l.Debug("debug message %s", "arg")
			l.Info("info message %d", 42)

			assert.Equal(t, tt.expectDbg, strings.Contains(buf.String(), "debug message arg"))
			assert.Equal(t, tt.expectInf, strings.Contains(buf.String(), "info message 42"))
		})
	}
}

func TestNew_LevelAndName(t *testing.T) {
	var buf bytes.Buffer
	l, closer := New(Options{Writer: &buf, Name: "scheduler"})
	defer closer.Close()

	l.Warn("warning message")
	l.Error("error message")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "scheduler")
	assert.Contains(t, out, "warning message")
	assert.Contains(t, out, "error message")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waylon.log")
	l, closer := New(Options{File: path, MaxSizeMB: 1, MaxBackups: 1})

	l.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	base, closer := New(Options{Writer: &buf, Name: "waylon"})
	defer closer.Close()

	Named(base, "source").Info("hello")
	assert.Contains(t, buf.String(), "waylon.source")

	buffered := NewBufferLogger()
	assert.Same(t, buffered, Named(buffered, "anything"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("TRACE"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)

	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "debug msg", l.Messages[0].Message)

	assert.Equal(t, "info", l.Messages[1].Level)
	assert.Equal(t, "info msg", l.Messages[1].Message)

	assert.Equal(t, "warn", l.Messages[2].Level)
	assert.Equal(t, "warn msg", l.Messages[2].Message)

	assert.Equal(t, "error", l.Messages[3].Level)
	assert.Equal(t, "error msg", l.Messages[3].Message)
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages, 2)

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	// Default should return a logger
	d := Default()
	assert.NotNil(t, d)

	// SetDefault should change the default
	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	// Verify all implementations satisfy the interface
	_ = NewEnvLogger("")
	_ = Noop()
	_ = NewBufferLogger()
}

func TestBufferLogger_ContainsAndSnapshot(t *testing.T) {
	l := NewBufferLogger()
	l.Info("Entering idle mode")

	assert.True(t, l.Contains("idle mode"))
	assert.False(t, l.Contains("rebuild"))

	snap := l.Snapshot()
	l.Clear()
	assert.Len(t, snap, 1)
	assert.Empty(t, l.Snapshot())
}

func TestNew_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	l, closer := New(Options{Writer: &buf})
	defer closer.Close()

	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.True(t, strings.Contains(output, "int: 42"))
	assert.True(t, strings.Contains(output, "string: hello"))
	assert.True(t, strings.Contains(output, "float: 3.14"))
}
