package vectordb

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	// LevelDebug is for detailed debugging information
	LevelDebug LogLevel = iota
	// LevelInfo is for general informational messages
	LevelInfo
	// LevelWarn is for warning messages
	LevelWarn
	// LevelError is for error messages
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps debug/info/warn/error to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return LevelInfo, err
	}
	switch {
	case lvl >= logrus.DebugLevel:
		return LevelDebug, nil
	case lvl == logrus.InfoLevel:
		return LevelInfo, nil
	case lvl == logrus.WarnLevel:
		return LevelWarn, nil
	default:
		return LevelError, nil
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger is the interface for logging operations
type Logger interface {
	// Debug logs a debug message
	Debug(msg string, keyvals ...any)
	// Info logs an informational message
	Info(msg string, keyvals ...any)
	// Warn logs a warning message
	Warn(msg string, keyvals ...any)
	// Error logs an error message
	Error(msg string, keyvals ...any)
	// With returns a new logger with additional key-value pairs
	With(keyvals ...any) Logger
}

// logrusLogger adapts a logrus entry to Logger
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a new logger that writes to the given writer
func NewLogger(writer io.Writer, minLevel LogLevel) Logger {
	l := logrus.New()
	l.SetOutput(writer)
	l.SetLevel(minLevel.logrus())
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// NewStdLogger creates a new logger that writes to stderr
func NewStdLogger(minLevel LogLevel) Logger {
	return NewLogger(os.Stderr, minLevel)
}

// FromLogrus wraps an existing logrus logger
func FromLogrus(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(msg string, keyvals ...any) {
	l.entry.WithFields(fields(keyvals)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, keyvals ...any) {
	l.entry.WithFields(fields(keyvals)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, keyvals ...any) {
	l.entry.WithFields(fields(keyvals)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, keyvals ...any) {
	l.entry.WithFields(fields(keyvals)).Error(msg)
}

func (l *logrusLogger) With(keyvals ...any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields(keyvals))}
}

// fields pairs up keyvals; a trailing odd key is dropped
func fields(keyvals []any) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		f[key] = keyvals[i+1]
	}
	return f
}

// nopLogger is a no-op logger that discards all log messages
type nopLogger struct{}

func (nopLogger) Debug(msg string, keyvals ...any) {}
func (nopLogger) Info(msg string, keyvals ...any)  {}
func (nopLogger) Warn(msg string, keyvals ...any)  {}
func (nopLogger) Error(msg string, keyvals ...any) {}

// With returns a new nopLogger
func (n nopLogger) With(keyvals ...any) Logger {
	return n
}

// NopLogger returns a logger that discards all messages
func NopLogger() Logger {
	return nopLogger{}
}
