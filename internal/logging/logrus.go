// file: internal/logging/logrus.go
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level names accepted by SetupDefaultLogger and the config file.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Format names accepted by the config file.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// base is the logrus instance behind every logger created by this package.
// It is guarded by defaultMu together with defaultLogger.
var base = newBase(os.Stderr, FormatJSON)

func currentBase() *logrus.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return base
}

func newBase(w io.Writer, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	setFormat(l, format)
	return l
}

func setFormat(l *logrus.Logger, format string) {
	if strings.EqualFold(format, FormatText) {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
		return
	}
	l.SetFormatter(&logrus.JSONFormatter{})
}

// ParseLevel reports whether name is a known level.
func ParseLevel(name string) (logrus.Level, error) {
	return logrus.ParseLevel(name)
}

// InitLogging installs a logrus-backed default logger writing JSON to w.
func InitLogging(level string, w io.Writer) {
	InitLoggingWithFormat(level, FormatJSON, w)
}

// InitLoggingWithFormat installs a logrus-backed default logger with the given format.
func InitLoggingWithFormat(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l := newBase(w, format)
	l.SetLevel(levelOrInfo(level))

	defaultMu.Lock()
	base = l
	defaultLogger = &logrusLogger{entry: logrus.NewEntry(l)}
	defaultMu.Unlock()
}

// SetupDefaultLogger configures the default logger on stderr at the given level.
func SetupDefaultLogger(level string) {
	InitLogging(level, os.Stderr)
}

// SetLevel changes the level of the shared logrus instance. Unknown names fall back to info.
func SetLevel(level string) {
	currentBase().SetLevel(levelOrInfo(level))
}

func levelOrInfo(level string) logrus.Level {
	lvl, err := ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// IsDebugEnabled reports whether debug messages are emitted.
func IsDebugEnabled() bool {
	return currentBase().IsLevelEnabled(logrus.DebugLevel)
}

// logrusLogger adapts a logrus entry to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps an existing logrus entry.
func NewLogrusLogger(entry *logrus.Entry) Logger {
	return &logrusLogger{entry: entry}
}

func (l *logrusLogger) Debug(msg string, args ...any) { l.with(args).Debug(msg) }
func (l *logrusLogger) Info(msg string, args ...any)  { l.with(args).Info(msg) }
func (l *logrusLogger) Warn(msg string, args ...any)  { l.with(args).Warn(msg) }
func (l *logrusLogger) Error(msg string, args ...any) { l.with(args).Error(msg) }

func (l *logrusLogger) WithContext(ctx context.Context) Logger {
	return &logrusLogger{entry: l.entry.WithContext(ctx)}
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// with converts alternating key/value args into logrus fields.
// A dangling key is logged under "!BADKEY".
func (l *logrusLogger) with(args []any) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		val := args[i+1]
		if err, isErr := val.(error); isErr {
			val = err.Error()
		}
		fields[key] = val
	}
	return l.entry.WithFields(fields)
}
