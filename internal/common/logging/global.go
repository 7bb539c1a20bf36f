package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// stdLogger backs the package level functions. Until MustConfigureApplicationLogging runs it writes colourful
// output at debug level to stdout, which is what tests see.
var stdLogger = createDefaultLogger()

// ReplaceStdLogger swaps the logger used by the package level functions. Call it once at startup.
func ReplaceStdLogger(l *Logger) {
	stdLogger = l
}

func StdLogger() *Logger {
	return stdLogger
}

func Debugf(format string, args ...any) {
	stdLogger.Debugf(format, args...)
}

func Info(args ...any) {
	stdLogger.Info(args...)
}

func Infof(format string, args ...any) {
	stdLogger.Infof(format, args...)
}

func Warn(args ...any) {
	stdLogger.Warn(args...)
}

func Warnf(format string, args ...any) {
	stdLogger.Warnf(format, args...)
}

func Error(args ...any) {
	stdLogger.Error(args...)
}

func Errorf(format string, args ...any) {
	stdLogger.Errorf(format, args...)
}

// WithField returns a child of the standard logger that adds key=value to every line.
func WithField(key string, value any) *Logger {
	return stdLogger.WithField(key, value)
}

// WithFields is WithField for several fields at once.
func WithFields(fields map[string]any) *Logger {
	return stdLogger.WithFields(fields)
}

func WithError(err error) *Logger {
	return stdLogger.WithError(err)
}

// WithStacktrace attaches err and, if it carries one, its stack trace.
func WithStacktrace(err error) *Logger {
	return stdLogger.WithStacktrace(err)
}

func createDefaultLogger() *Logger {
	writer := createConsoleWriter(os.Stdout, zerolog.DebugLevel, FormatColourful)
	return FromZerolog(zerolog.New(writer).With().Timestamp().Logger())
}
