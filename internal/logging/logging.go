package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Disable turns off all logging
func Disable() {
	logger.SetOutput(io.Discard)
}

// Enable turns logging back on
func Enable() {
	logger.SetOutput(os.Stdout)
}

// SetOutput redirects log output (tests capture it with a buffer).
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerbose switches between info and debug level.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
}

// SetLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func SetLevel(name string) {
	if lvl, err := logrus.ParseLevel(name); err == nil {
		logger.SetLevel(lvl)
	}
}

// Info logs an info message
func Info(v ...any) {
	logger.Info(v...)
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Error logs an error message
func Error(v ...any) {
	logger.Error(v...)
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	logger.Errorf(format, v...)
}

// Warn logs a warning message
func Warn(v ...any) {
	logger.Warn(v...)
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// Debug logs a debug message
func Debug(v ...any) {
	logger.Debug(v...)
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Logger carries structured fields for one unit of work (a request, a page).
type Logger struct {
	entry *logrus.Entry
}

// WithContext creates a Logger bound to ctx.
func WithContext(ctx context.Context) Logger {
	return Logger{entry: logrus.NewEntry(logger).WithContext(ctx)}
}

// WithField returns a copy of l with one more field.
func (l Logger) WithField(key string, value any) Logger {
	return Logger{entry: l.base().WithField(key, value)}
}

func (l Logger) base() *logrus.Entry {
	if l.entry == nil {
		return logrus.NewEntry(logger)
	}
	return l.entry
}

// Info logs an info message
func (l Logger) Info(v ...any) {
	l.base().Info(v...)
}

// Infof logs a formatted info message
func (l Logger) Infof(format string, v ...any) {
	l.base().Infof(format, v...)
}

// Error logs an error message
func (l Logger) Error(v ...any) {
	l.base().Error(v...)
}

// Errorf logs a formatted error message
func (l Logger) Errorf(format string, v ...any) {
	l.base().Errorf(format, v...)
}

// Debugf logs a formatted debug message
func (l Logger) Debugf(format string, v ...any) {
	l.base().Debugf(format, v...)
}
