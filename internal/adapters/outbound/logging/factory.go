package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a supported log level name.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a supported log output format.
type Format string

const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var encodings = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// Factory builds zap loggers that write to a single sink, stderr by default,
// so report output on stdout is never interleaved with log lines.
type Factory struct {
	out io.Writer
}

// New returns a Factory writing to stderr.
func New() *Factory {
	return &Factory{out: os.Stderr}
}

// NewWithWriter returns a Factory writing to w.
func NewWithWriter(w io.Writer) *Factory {
	return &Factory{out: w}
}

// Create builds a logger for the named level and format.
func (f *Factory) Create(level, format string) (*zap.Logger, error) {
	zapLevel, ok := levels[Level(strings.ToLower(strings.TrimSpace(level)))]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	encoding, ok := encodings[Format(strings.ToLower(strings.TrimSpace(format)))]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if encoding == "json" {
		encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(f.out), zap.NewAtomicLevelAt(zapLevel))
	return zap.New(core), nil
}
