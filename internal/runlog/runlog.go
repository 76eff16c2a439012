// Package runlog writes the append-only migration log. One line per event,
// "timestamp | LEVEL | message", flushed as it is written so the log-tail view
// stays current. A Logger belongs to a single run and is closed with it.
package runlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the severity substring carried in each log line.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelSuccess Level = "SUCCESS"
)

// DefaultPath is the log file the front end tails.
const DefaultPath = "oracle_to_mssql.log"

// Logger appends timestamped lines to the log file and optionally mirrors
// them to a second writer (typically stdout).
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	mirror io.Writer
	now    func() time.Time
}

// New opens (or creates) the log file at path in append mode. mirror may be
// nil.
func New(path string, mirror io.Writer) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Logger{file: f, mirror: mirror, now: time.Now}, nil
}

// Close releases the underlying file.
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

// Path returns the log file path, or "" after Close.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s | %s | %s\n",
		l.now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
	if l.file != nil {
		l.file.WriteString(line)
		l.file.Sync()
	}
	if l.mirror != nil {
		io.WriteString(l.mirror, line)
	}
}

// Infof logs at INFO.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf logs at WARN.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf logs at ERROR.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Successf logs at SUCCESS.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.write(LevelSuccess, format, args...)
}
