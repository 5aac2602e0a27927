package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface handed to controllers, services and the
// sweep worker. WithFields attaches structured context (asset IDs, sweep run
// IDs, request metadata) that the JSON format emits as first-class fields.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
}

// LogrusLogger adapts logrus to the Logger interface. The embedded field is a
// logrus.FieldLogger so a WithFields chain can wrap either the root logger or
// an entry carrying accumulated context.
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogger builds a logger writing to stdout. Level accepts the logrus level
// names case-insensitively and falls back to info; format is "json" for
// machine-readable output or anything else for human-readable text.
func NewLogger(level, format string) Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.SetOutput(os.Stdout)

	return &LogrusLogger{logger: logger}
}

// WithFields returns a logger whose subsequent lines carry the given fields.
// Chained calls merge their field sets.
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{logger: l.logger.WithFields(logrus.Fields(fields))}
}

func (l *LogrusLogger) Debug(args ...interface{}) {
	l.logger.Debug(args...)
}

func (l *LogrusLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *LogrusLogger) Info(args ...interface{}) {
	l.logger.Info(args...)
}

func (l *LogrusLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *LogrusLogger) Warn(args ...interface{}) {
	l.logger.Warn(args...)
}

func (l *LogrusLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *LogrusLogger) Error(args ...interface{}) {
	l.logger.Error(args...)
}

func (l *LogrusLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *LogrusLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(args...)
}

func (l *LogrusLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}
