package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality, one named instance per
// component.
type Logger struct {
	name  string
	entry *logrus.Entry
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. logLevel is one of DEBUG, INFO,
// WARNING, ERROR; unknown values fall back to INFO.
func NewLogger(logLevel string, name string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch logLevel {
	case "DEBUG":
		base.SetLevel(logrus.DebugLevel)
	case "WARNING":
		base.SetLevel(logrus.WarnLevel)
	case "ERROR":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return &Logger{
		name:  name,
		entry: base.WithField("component", name),
	}
}

// -----------------------------------------------------------------------------

// Named returns a child logger for a sub-component sharing the same output
// and level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:  name,
		entry: l.entry.Logger.WithField("component", name),
	}
}

// -----------------------------------------------------------------------------

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs warning messages
func (l *Logger) Warning(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
	os.Exit(1)
}
