package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// VerboseLevel represents the verbosity level for logging
type VerboseLevel int

const (
	// VerboseSilent means no verbose output
	VerboseSilent VerboseLevel = 0
	// VerboseNormal means standard verbose output (-v)
	VerboseNormal VerboseLevel = 1
	// VerboseVery means detailed debugging output (-vv)
	VerboseVery VerboseLevel = 2
)

// Logger handles verbose output at different levels.
// It is safe for concurrent use.
type Logger struct {
	level VerboseLevel
	out   io.Writer
	mu    sync.Mutex
}

// NewLogger creates a new stderr logger with the specified verbosity level
func NewLogger(level int) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(w io.Writer, level int) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{level: VerboseLevel(level), out: w}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, 0)
}

// Level returns the configured verbosity.
func (l *Logger) Level() VerboseLevel {
	return l.level
}

// IsVerbose returns true if verbose mode is enabled (-v or -vv)
func (l *Logger) IsVerbose() bool {
	return l.level >= VerboseNormal
}

// IsVeryVerbose returns true if very verbose mode is enabled (-vv)
func (l *Logger) IsVeryVerbose() bool {
	return l.level >= VerboseVery
}

func (l *Logger) printf(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, prefix+format+"\n", args...)
}

// V logs a message at verbose level (-v)
func (l *Logger) V(format string, args ...interface{}) {
	if l.IsVerbose() {
		l.printf("[*] ", format, args...)
	}
}

// VV logs a message at very verbose level (-vv)
func (l *Logger) VV(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.printf("[VV] ", format, args...)
	}
}

// Info logs an informational message (always shown)
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf("[+] ", format, args...)
}

// Warn logs a warning (always shown)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf("[-] ", format, args...)
}

// Error logs an error message (always shown)
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf("[!] ", format, args...)
}

// Progress logs scan progress at verbose level.
func (l *Logger) Progress(percent int) {
	l.V("Progress: %d%%", percent)
}

// Section logs a section header for very verbose mode
func (l *Logger) Section(title string) {
	if l.IsVeryVerbose() {
		l.printf("\n[VV] === ", "%s ===", title)
	}
}

// Detail logs a detail line for very verbose mode with indentation
func (l *Logger) Detail(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.printf("[VV] -> ", format, args...)
	}
}
