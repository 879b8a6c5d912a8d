package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Options configure a ZerologLogger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is json (default) or console.
	Format Format
	// Output defaults to os.Stdout.
	Output io.Writer
	// Component is attached to every line as "component".
	Component string
}

// ZerologLogger implements Logger on top of zerolog. It prints one JSON object
// per line unless the console format is requested.
type ZerologLogger struct {
	zl zerolog.Logger
}

// ParseLevel maps a textual level to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewZerologLogger builds a logger from opts.
func NewZerologLogger(opts Options) (*ZerologLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	switch opts.Format {
	case "", FormatJSON:
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	zctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		zctx = zctx.Str("component", opts.Component)
	}
	return &ZerologLogger{zl: zctx.Logger()}, nil
}

// NewStdoutLogger returns an info-level JSON logger on stdout for component.
func NewStdoutLogger(component string) *ZerologLogger {
	zl := zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...Field) {
	emit(l.zl.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...Field) {
	emit(l.zl.Error(), msg, fields)
}

// With returns a child logger carrying fields on every line.
func (l *ZerologLogger) With(fields ...Field) Logger {
	zctx := l.zl.With()
	for _, f := range fields {
		zctx = zctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{zl: zctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []Field) {
	// nil when the level is disabled
	if ev == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case int64:
			ev = ev.Int64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case time.Duration:
			ev = ev.Dur(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}
