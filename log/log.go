// Package log provides a leveled, structured logger for the whole node,
// backed by zerolog. The cryptographic core never logs; only the service,
// API and state layers do.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// The possible values of the log level argument to Init.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const logTestWriterName = "log_test_writer"

// logTestWriter is only used in tests, to swap out the writer used by
// Init(level, logTestWriterName, nil).
var logTestWriter io.Writer = io.Discard

// panicOnInvalidChars triggers a panic when a log line carries invalid UTF-8,
// to catch unprintable output (e.g. raw bytes logged without %x) in tests.
var panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"

type invalidCharChecker struct{}

func (invalidCharChecker) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == 0xff {
			panic(fmt.Sprintf("log line with invalid char: %q", string(p)))
		}
	}
	return len(p), nil
}

// Init initializes the logger with the given level and output. The output can
// be "stdout", "stderr", the test writer name, or a file path. An optional
// errorOutput duplicates error-and-above lines to a second writer.
func Init(level, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	case "stderr":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	if errorOutput != nil {
		out = zerolog.MultiLevelWriter(out, errorLevelWriter{errorOutput})
	}
	if panicOnInvalidChars {
		out = zerolog.MultiLevelWriter(out, invalidCharChecker{})
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(level))
}

type errorLevelWriter struct{ w io.Writer }

func (w errorLevelWriter) Write(p []byte) (int, error) { return len(p), nil }

func (w errorLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < zerolog.ErrorLevel {
		return len(p), nil
	}
	return w.w.Write(p)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Level returns the current log level as one of the LogLevel strings.
func Level() string {
	switch log.GetLevel() {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.InfoLevel:
		return LogLevelInfo
	case zerolog.WarnLevel:
		return LogLevelWarn
	default:
		return LogLevelError
	}
}

// Logger returns the underlying zerolog logger, e.g. to feed gnark's logger.
func Logger() zerolog.Logger { return log }

func fields(ev *zerolog.Event, keysAndValues ...any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}

// Debug logs the arguments at debug level.
func Debug(args ...any) { log.Debug().Msg(fmt.Sprint(args...)) }

// Debugf logs the formatted message at debug level.
func Debugf(format string, args ...any) { log.Debug().Msgf(format, args...) }

// Debugw logs a message with key-value fields at debug level.
func Debugw(msg string, keysAndValues ...any) {
	fields(log.Debug(), keysAndValues...).Msg(msg)
}

// Info logs the arguments at info level.
func Info(args ...any) { log.Info().Msg(fmt.Sprint(args...)) }

// Infof logs the formatted message at info level.
func Infof(format string, args ...any) { log.Info().Msgf(format, args...) }

// Infow logs a message with key-value fields at info level.
func Infow(msg string, keysAndValues ...any) {
	fields(log.Info(), keysAndValues...).Msg(msg)
}

// Warn logs the arguments at warn level.
func Warn(args ...any) { log.Warn().Msg(fmt.Sprint(args...)) }

// Warnf logs the formatted message at warn level.
func Warnf(format string, args ...any) { log.Warn().Msgf(format, args...) }

// Warnw logs a message with key-value fields at warn level.
func Warnw(msg string, keysAndValues ...any) {
	fields(log.Warn(), keysAndValues...).Msg(msg)
}

// Error logs the arguments at error level.
func Error(args ...any) { log.Error().Msg(fmt.Sprint(args...)) }

// Errorf logs the formatted message at error level.
func Errorf(format string, args ...any) { log.Error().Msgf(format, args...) }

// Errorw logs an error with a message at error level.
func Errorw(err error, msg string) { log.Error().Err(err).Msg(msg) }

// Fatal logs the arguments and exits.
func Fatal(args ...any) { log.Fatal().Msg(fmt.Sprint(args...)) }

// Fatalf logs the formatted message and exits.
func Fatalf(format string, args ...any) {
	log.Fatal().Msgf(format, args...)
}
