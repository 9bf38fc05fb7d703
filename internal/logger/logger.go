package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level is a log severity. The slog levels are extended with trace below
// debug and fatal/panic above error.
type Level = slog.Level

const (
	LevelTrace Level = slog.LevelDebug - 4
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
	LevelFatal Level = slog.LevelError + 4
	LevelPanic Level = slog.LevelError + 8
)

var (
	mu       sync.RWMutex
	level    = new(slog.LevelVar)
	std      = newLogger(os.Stderr)
	exitFunc = os.Exit
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelName(lvl))
				}
			}
			return a
		},
	}))
}

func levelName(l Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l >= LevelPanic:
		return "PANIC"
	case l >= LevelFatal:
		return "FATAL"
	}
	return l.String()
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "panic":
		return LevelPanic, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q", s)
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	level.Set(l)
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	return level.Level()
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std = newLogger(w)
}

// OpenFile appends log output to path in addition to stderr.
func OpenFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	lg := std
	mu.RUnlock()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

func Trace(format string, args ...any) { logf(LevelTrace, format, args...) }
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }
func Info(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Fatal logs and exits the process with status 1.
func Fatal(format string, args ...any) {
	logf(LevelFatal, format, args...)
	exitFunc(1)
}

// Panic logs and panics with the formatted message.
func Panic(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logf(LevelPanic, "%s", msg)
	panic(msg)
}
