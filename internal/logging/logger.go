package logging

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// LogLevel is a logging verbosity level.
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String returns the level's name.
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes to both a console and a file sink.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	file          *os.File
}

// globalLogger is the process-wide logger instance.
var globalLogger *Logger

// InitLogger sets up the global logger: a timestamped file under logs/,
// plus stdout for INFO and above.
func InitLogger() error {
	if err := os.MkdirAll("logs", 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join("logs", fmt.Sprintf("server_%s.log", timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}

	consoleLogger := log.New(os.Stdout, "", log.LstdFlags)
	fileLogger := log.New(file, "", log.LstdFlags)

	globalLogger = &Logger{
		consoleLogger: consoleLogger,
		fileLogger:    fileLogger,
		file:          file,
	}

	return nil
}

// CloseLogger flushes and closes the log file.
func CloseLogger() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
	}
}

// LogTrace logs a TRACE-level message.
func LogTrace(format string, args ...interface{}) {
	logMessage(TRACE, format, args...)
}

// LogDebug logs a DEBUG-level message.
func LogDebug(format string, args ...interface{}) {
	logMessage(DEBUG, format, args...)
}

// LogInfo logs an INFO-level message.
func LogInfo(format string, args ...interface{}) {
	logMessage(INFO, format, args...)
}

// LogWarn logs a WARN-level message.
func LogWarn(format string, args ...interface{}) {
	logMessage(WARN, format, args...)
}

// LogError logs an ERROR-level message.
func LogError(format string, args ...interface{}) {
	logMessage(ERROR, format, args...)
}

// logMessage writes to the file sink always, and to console at INFO+.
func logMessage(level LogLevel, format string, args ...interface{}) {
	if globalLogger == nil {
		return
	}

	message := fmt.Sprintf("[%s] %s", level.String(), fmt.Sprintf(format, args...))

	globalLogger.fileLogger.Println(message)

	if level >= INFO {
		globalLogger.consoleLogger.Println(message)
	}
}

// HexDump renders up to 256 bytes of data as a hex dump, for diagnosing
// snapshot/message payloads.
func HexDump(data []byte) string {
	if len(data) == 0 {
		return "No data"
	}

	size := len(data)
	if size > 256 {
		size = 256
	}

	return hex.Dump(data[:size])
}

// LogActionExecuted traces one pipeline execution's outcome.
func LogActionExecuted(actionID, kind string, permitted, applied bool, nested int) {
	LogTrace("action %s (%s): permitted=%v applied=%v nested=%d", actionID, kind, permitted, applied, nested)
}

// LogListenerPanic logs a recovered panic from a component handler, so one
// broken listener doesn't abort the tick.
func LogListenerPanic(componentID string, recovered any) {
	LogError("component %s panicked during dispatch: %v", componentID, recovered)
}

// LogEntityMovement traces an entity's position change.
func LogEntityMovement(entityID string, fromX, fromY, toX, toY int) {
	LogTrace("entity %s movement: (%d,%d) -> (%d,%d)", entityID, fromX, fromY, toX, toY)
}

// LogTick summarizes one simulation tick.
func LogTick(tick int, actionsRun int, durationMillis float64) {
	LogDebug("tick %d: %d actions in %.2fms", tick, actionsRun, durationMillis)
}

// LogChunkActivity traces a chunk's active/inactive transition.
func LogChunkActivity(worldID string, chunkX, chunkY int, active bool) {
	LogDebug("world %s chunk(%d,%d) active=%v", worldID, chunkX, chunkY, active)
}
