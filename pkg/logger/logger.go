// Package logger provides the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger = newDiscardLogger()
	logFile      *os.File
	mu           sync.Mutex
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init initializes the global logger with the specified log file path.
// An empty path logs to stderr.
func Init(logPath string, level string) error {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if logPath == "" {
		l.SetOutput(os.Stderr)
	} else {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		logFile = f
		l.SetOutput(f)
	}

	globalLogger = l
	return nil
}

// SetOutput replaces the global logger with one writing to w. Used by tests.
func SetOutput(w io.Writer, level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	globalLogger = l
}

// Close closes the log file and silences the logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = newDiscardLogger()
}

// Get returns the global logger.
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return globalLogger
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	Get().Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	Get().Debugf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	Get().Errorf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	Get().Warnf(format, v...)
}

// GetWriter returns the underlying writer for use by drivers.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	return io.Discard
}
