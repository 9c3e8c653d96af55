package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger = zap.NewNop()
	logFile      *os.File
	writer       io.Writer = io.Discard
	mu           sync.RWMutex
)

// Init initializes the global logger with the specified log file path.
func Init(logPath string) error {
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		_ = globalLogger.Sync()
		logFile.Close()
	}
	logFile = f
	setWriterLocked(f)
	return nil
}

// InitWriter routes log output to w instead of a file.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	setWriterLocked(w)
}

func setWriterLocked(w io.Writer) {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	writer = w
	globalLogger = zap.New(core)
}

// Close flushes and closes the log file. Logging becomes a no-op.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	_ = globalLogger.Sync()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = zap.NewNop()
	writer = io.Discard
}

// L returns the structured logger. It never returns nil.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	L().Sugar().Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	L().Sugar().Debugf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	L().Sugar().Errorf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	L().Sugar().Warnf(format, v...)
}

// GetWriter returns the underlying writer, e.g. for a driver's output sink.
func GetWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}
