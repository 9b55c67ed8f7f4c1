// Package runlog prints timestamped, colored progress lines and can copy
// them, uncolored, into a log file.
package runlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var levelColors = map[Level]*color.Color{
	LevelDebug: color.New(color.Faint),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	file     io.WriteCloser
	verbose  bool
	now      func() time.Time
	warnings int
	errors   int
}

func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose, now: time.Now}
}

// Default logs to the terminal through color's stdout wrapper.
func Default(verbose bool) *Logger {
	return New(color.Output, verbose)
}

// Discard drops every line but still counts warnings and errors.
func Discard() *Logger {
	return New(io.Discard, false)
}

// TeeFile appends every line, debug included, to path.
func (l *Logger) TeeFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.mu.Lock()
	l.file = f
	l.mu.Unlock()
	return nil
}

func (l *Logger) log(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	switch level {
	case LevelWarn:
		l.warnings++
	case LevelError:
		l.errors++
	}

	stamp := l.now().Format("15:04:05")
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] [%s] %s\n", stamp, level, msg)
	}
	if level == LevelDebug && !l.verbose {
		return
	}
	tag := levelColors[level].Sprintf("[%s]", level)
	fmt.Fprintf(l.out, "[%s] %s %s\n", stamp, tag, msg)
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *Logger) Warnings() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnings
}

func (l *Logger) Errors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errors
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
