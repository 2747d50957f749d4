// Package logger provides structured logging for pds.
//
// The logger wraps a zap.Logger with an atomic level and a subsystem-gated
// TRACE tier on top of zap's own level set (zap has no TRACE level, so it
// is modeled as zap's Debug level plus a subsystem allow-list checked
// before the call reaches zap at all). This keeps the call sites — Trace,
// Debug, Info, Warn, Error, Fatal — stable while the backend does the
// actual formatting, sampling and output routing.
//
// Log output format is whatever the installed zap encoder produces; the
// package installs a console encoder with ISO8601 millisecond timestamps at
// init, which tests can replace via SetLogger. Configure() only applies the
// level and trace settings from the environment.
package logger

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors the severity hierarchy the rest of the package keys off.
type LogLevel int32

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	TRACE: "TRACE",
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var (
	currentLevel atomic.Int32

	traceSubsystems = make(map[string]bool)
	traceMutex      sync.RWMutex

	loggerMu sync.RWMutex
	base     *zap.Logger
	sugar    *zap.SugaredLogger
)

func init() {
	currentLevel.Store(int32(INFO))
	base = newDefaultZapLogger()
	sugar = base.Sugar()
}

func newDefaultZapLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stdout), zapcore.DebugLevel)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
}

// SetLogger installs a caller-supplied zap.Logger, e.g. a no-op logger for
// tests. Safe for concurrent use.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	base = l
	sugar = l.Sugar()
}

func current() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return sugar
}

// SetLogLevel sets the minimum level that reaches the backend.
func SetLogLevel(level string) error {
	switch strings.ToUpper(level) {
	case "TRACE":
		currentLevel.Store(int32(TRACE))
	case "DEBUG":
		currentLevel.Store(int32(DEBUG))
	case "INFO":
		currentLevel.Store(int32(INFO))
	case "WARN":
		currentLevel.Store(int32(WARN))
	case "ERROR":
		currentLevel.Store(int32(ERROR))
	default:
		return &unknownLevelError{level: level}
	}
	return nil
}

type unknownLevelError struct{ level string }

func (e *unknownLevelError) Error() string { return "logger: unknown log level " + e.level }

// GetLogLevel returns the current minimum log level.
func GetLogLevel() string {
	return levelNames[LogLevel(currentLevel.Load())]
}

// EnableTrace turns on TRACE-level output for the named subsystems (e.g.
// "wire", "entitymgr", "cache"). Trace calls for subsystems not in this
// allow-list are dropped before formatting, keeping the hot path cheap.
func EnableTrace(subsystems ...string) {
	traceMutex.Lock()
	defer traceMutex.Unlock()
	for _, s := range subsystems {
		traceSubsystems[s] = true
	}
}

// DisableTrace turns off TRACE-level output for the named subsystems.
func DisableTrace(subsystems ...string) {
	traceMutex.Lock()
	defer traceMutex.Unlock()
	for _, s := range subsystems {
		delete(traceSubsystems, s)
	}
}

// ClearTrace disables all trace subsystems.
func ClearTrace() {
	traceMutex.Lock()
	defer traceMutex.Unlock()
	traceSubsystems = make(map[string]bool)
}

func isTraceEnabled(subsystem string) bool {
	traceMutex.RLock()
	defer traceMutex.RUnlock()
	return traceSubsystems[subsystem]
}

// TraceIf logs a trace message only if the subsystem is enabled and the
// global level allows TRACE.
func TraceIf(subsystem string, format string, args ...interface{}) {
	if LogLevel(currentLevel.Load()) > TRACE || !isTraceEnabled(subsystem) {
		return
	}
	current().Debugf("["+subsystem+"] "+format, args...)
}

// Trace logs a trace-level message (mapped onto zap's Debug level).
func Trace(format string, args ...interface{}) {
	if LogLevel(currentLevel.Load()) > TRACE {
		return
	}
	current().Debugf(format, args...)
}

// Debug logs a debug-level message.
func Debug(format string, args ...interface{}) {
	if LogLevel(currentLevel.Load()) > DEBUG {
		return
	}
	current().Debugf(format, args...)
}

// Info logs an info-level message.
func Info(format string, args ...interface{}) {
	if LogLevel(currentLevel.Load()) > INFO {
		return
	}
	current().Infof(format, args...)
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	if LogLevel(currentLevel.Load()) > WARN {
		return
	}
	current().Warnf(format, args...)
}

// Error logs an error-level message.
func Error(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatal logs an error-level message and exits the process.
func Fatal(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}

// Configure sets up logging from environment variables: PDS_LOG_LEVEL and
// PDS_TRACE_SUBSYSTEMS (comma separated).
func Configure() {
	if level := os.Getenv("PDS_LOG_LEVEL"); level != "" {
		_ = SetLogLevel(level)
	}
	if trace := os.Getenv("PDS_TRACE_SUBSYSTEMS"); trace != "" {
		subsystems := strings.Split(trace, ",")
		for i, s := range subsystems {
			subsystems[i] = strings.TrimSpace(s)
		}
		EnableTrace(subsystems...)
	}
}
