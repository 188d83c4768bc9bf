package logging

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var (
	logger *slog.Logger

	programLevel = new(slog.LevelVar) // Info by default

	loggingDebug = flag.Bool("logging.debug", false, "Enable debug logging")
)

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}))
}

// Logger is the logging surface handed to components. Use With to attach
// component-scoped attributes.
type Logger interface {
	Info(a ...any)
	Infof(format string, v ...any)
	Error(a ...any)
	Errorf(format string, v ...any)
	Debug(a ...any)
	Debugf(format string, v ...any)
	Fatalf(format string, v ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// NewDefaultLogger returns a Logger writing text records to stderr. The level
// follows -logging.debug, so call it after flag.Parse.
func NewDefaultLogger() Logger {
	if *loggingDebug {
		programLevel.Set(slog.LevelDebug)
	}
	return &slogLogger{l: logger}
}

// NewLogger wraps an existing slog logger.
func NewLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func SetLevel(level slog.Level) {
	programLevel.Set(level)
}

func (s *slogLogger) Info(a ...any) {
	s.l.Info(fmt.Sprint(a...))
}

func (s *slogLogger) Infof(format string, v ...any) {
	s.l.Info(fmt.Sprintf(format, v...))
}

func (s *slogLogger) Error(a ...any) {
	s.l.Error(fmt.Sprint(a...))
}

func (s *slogLogger) Errorf(format string, v ...any) {
	s.l.Error(fmt.Sprintf(format, v...))
}

func (s *slogLogger) Debug(a ...any) {
	s.l.Debug(fmt.Sprint(a...))
}

func (s *slogLogger) Debugf(format string, v ...any) {
	s.l.Debug(fmt.Sprintf(format, v...))
}

func (s *slogLogger) Fatalf(format string, v ...any) {
	s.l.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// Package level helpers write through the default logger.

func Info(a ...any) {
	logger.Info(fmt.Sprint(a...))
}

func Infof(format string, v ...interface{}) {
	logger.Info(fmt.Sprintf(format, v...))
}

func Error(a ...any) {
	logger.Error(fmt.Sprint(a...))
}

func Errorf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf(format, v...))
}

func Debug(a ...any) {
	logger.Debug(fmt.Sprint(a...))
}

func Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...))
}
