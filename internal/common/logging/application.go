package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogConfigPath = "config/logging.yaml"
	logConfigPathEnvVar  = "SEARCHBENCH_LOG_CONFIG"
	RFC3339Milli         = "2006-01-02T15:04:05.000Z07:00"
)

// MustConfigureApplicationLogging sets up logging suitable for an application. Logging configuration is loaded from
// a filepath given by the SEARCHBENCH_LOG_CONFIG environmental variable or from config/logging.yaml if this var is unset.
// Note that this function will immediately shut down the application if it fails.
func MustConfigureApplicationLogging() {
	err := ConfigureApplicationLogging()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error initializing logging: "+err.Error())
		os.Exit(1)
	}
}

// ConfigureApplicationLogging sets up logging suitable for an application. Logging configuration is loaded from
// a filepath given by the SEARCHBENCH_LOG_CONFIG environmental variable or from config/logging.yaml if this var is unset.
func ConfigureApplicationLogging() error {
	// Set some global logging properties
	zerolog.TimeFieldFormat = RFC3339Milli // needs to be higher or greater precision than the writer format.
	zerolog.CallerMarshalFunc = shortCallerEncoder

	// Load config file
	configPath := getEnv(logConfigPathEnvVar, defaultLogConfigPath)
	logConfig, err := readConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newApplicationLogger(logConfig, os.Stdout)
	if err != nil {
		return err
	}

	// Set our new logger to be the default
	ReplaceStdLogger(FromZerolog(logger.Hook(NewPrometheusHook())))
	return nil
}

func newApplicationLogger(logConfig Config, console io.Writer) (zerolog.Logger, error) {
	// Console logging
	var writers []io.Writer
	consoleLogger, err := createConsoleLogger(logConfig, console)
	if err != nil {
		return zerolog.Logger{}, err
	}
	writers = append(writers, consoleLogger)

	// File logging
	if logConfig.File.Enabled {
		fileLogger, err := createFileLogger(logConfig)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileLogger)
	}

	// Combine loggers
	multiWriter := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(multiWriter).With().Timestamp().Logger(), nil
}

func createFileLogger(logConfig Config) (*FilteredLevelWriter, error) {
	level, err := parseLogLevel(logConfig.File.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	if logConfig.File.Rotation.Enabled {
		out = &lumberjack.Logger{
			Filename:   logConfig.File.LogFile,
			MaxSize:    logConfig.File.Rotation.MaxSizeMb,
			MaxBackups: logConfig.File.Rotation.MaxBackups,
			MaxAge:     logConfig.File.Rotation.MaxAgeDays,
			Compress:   logConfig.File.Rotation.Compress,
		}
	} else {
		f, err := os.OpenFile(logConfig.File.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}

	if logConfig.File.Format == FormatText || logConfig.File.Format == FormatColourful {
		return createConsoleWriter(out, level, FormatText), nil
	} else {
		return createJsonWriter(out, level), nil
	}
}

func createConsoleLogger(logConfig Config, out io.Writer) (*FilteredLevelWriter, error) {
	level, err := parseLogLevel(logConfig.Console.Level)
	if err != nil {
		return nil, err
	}
	if logConfig.Console.Format == FormatText || logConfig.Console.Format == FormatColourful {
		return createConsoleWriter(out, level, logConfig.Console.Format), nil
	} else {
		return createJsonWriter(out, level), nil
	}
}

func createJsonWriter(out io.Writer, level zerolog.Level) *FilteredLevelWriter {
	return &FilteredLevelWriter{
		level:  level,
		writer: out,
	}
}

func createConsoleWriter(out io.Writer, level zerolog.Level, format LogFormat) *FilteredLevelWriter {
	return &FilteredLevelWriter{
		level: level,
		writer: zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: RFC3339Milli,
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("%s", i))
			},
			FormatCaller: func(i interface{}) string {
				if i == nil {
					return ""
				}
				return filepath.Base(fmt.Sprintf("%s", i))
			},
			NoColor: format == FormatText,
		},
	}
}

// FilteredLevelWriter drops every event below its level before handing it to the wrapped writer.
type FilteredLevelWriter struct {
	writer io.Writer
	level  zerolog.Level
}

func (w *FilteredLevelWriter) Write(p []byte) (int, error) {
	return w.writer.Write(p)
}

func (w *FilteredLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= w.level {
		return w.writer.Write(p)
	}
	return len(p), nil
}

func shortCallerEncoder(_ uintptr, file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	file = short
	return file + ":" + strconv.Itoa(line)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
