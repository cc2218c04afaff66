// Package logger provides structured logging for weave.
//
// The logger supports five levels (TRACE, DEBUG, INFO, WARN, ERROR),
// attaches caller file/function/line information, and checks the
// active level with a single atomic load so that disabled levels cost
// almost nothing.
//
// Log output format:
//   YYYY/MM/DD HH:MM:SS.ssssss [PID:GID] [LEVEL] function.file:line: message
package logger

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the severity of a log message. Higher values are more severe;
// only messages at or above the active level are emitted.
type Level int32

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var (
	currentLevel atomic.Int32

	levelNames = map[Level]string{
		TRACE: "TRACE",
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}

	// traceSubsystems tracks which subsystems have TraceIf enabled, e.g.
	// "reader", "writer", "buffer".
	traceSubsystems = make(map[string]bool)
	traceMutex      sync.RWMutex

	processID = os.Getpid()
	std       = log.New(os.Stdout, "", 0)
)

func init() {
	currentLevel.Store(int32(INFO))
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level string) error {
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
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// GetLevel returns the active level's name.
func GetLevel() string {
	return levelNames[Level(currentLevel.Load())]
}

// EnableTrace turns on TraceIf output for the named subsystems.
func EnableTrace(subsystems ...string) {
	traceMutex.Lock()
	defer traceMutex.Unlock()
	for _, s := range subsystems {
		traceSubsystems[s] = true
	}
}

// DisableTrace turns off TraceIf output for the named subsystems.
func DisableTrace(subsystems ...string) {
	traceMutex.Lock()
	defer traceMutex.Unlock()
	for _, s := range subsystems {
		delete(traceSubsystems, s)
	}
}

// ClearTrace disables every subsystem enabled via EnableTrace.
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

func formatMessage(level Level, skip int, format string, args ...interface{}) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "unknown"
		line = 0
	}
	if idx := strings.LastIndex(file, "/"); idx != -1 {
		file = file[idx+1:]
	}
	if idx := strings.LastIndex(file, ".go"); idx != -1 {
		file = file[:idx]
	}

	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		full := fn.Name()
		if idx := strings.LastIndex(full, "."); idx != -1 {
			funcName = full[idx+1:]
		}
	}

	msg := fmt.Sprintf(format, args...)
	gid := goroutineID()
	timestamp := time.Now().Format("2006/01/02 15:04:05.000000")
	return fmt.Sprintf("%s [%d:%d] [%s] %s.%s:%d: %s",
		timestamp, processID, gid, levelNames[level], funcName, file, line, msg)
}

func goroutineID() int {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id := 0
	fmt.Sscanf(fields[1], "%d", &id)
	return id
}

func logMessage(level Level, skip int, format string, args ...interface{}) {
	if level < Level(currentLevel.Load()) {
		return
	}
	std.Println(formatMessage(level, skip, format, args...))
}

// TraceIf logs a trace message when subsystem has been enabled via
// EnableTrace, regardless of the active level's filtering of Trace.
func TraceIf(subsystem string, format string, args ...interface{}) {
	if !isTraceEnabled(subsystem) {
		return
	}
	std.Println(formatMessage(TRACE, 2, "[%s] %s", subsystem, fmt.Sprintf(format, args...)))
}

func Trace(format string, args ...interface{}) { logMessage(TRACE, 3, format, args...) }
func Debug(format string, args ...interface{}) { logMessage(DEBUG, 3, format, args...) }
func Info(format string, args ...interface{})  { logMessage(INFO, 3, format, args...) }
func Warn(format string, args ...interface{})  { logMessage(WARN, 3, format, args...) }
func Error(format string, args ...interface{}) { logMessage(ERROR, 3, format, args...) }

// Fatal logs an error-level message and terminates the process.
func Fatal(format string, args ...interface{}) {
	std.Println(formatMessage(ERROR, 2, format, args...))
	os.Exit(1)
}

// Configure applies the given minimum level (empty leaves the current
// level in place) and enables any trace subsystems named in
// WEAVE_TRACE_SUBSYSTEMS.
func Configure(level string) {
	if level != "" {
		SetLevel(level)
	}
	if trace := os.Getenv("WEAVE_TRACE_SUBSYSTEMS"); trace != "" {
		parts := strings.Split(trace, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		EnableTrace(parts...)
	}
}
