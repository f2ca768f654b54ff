package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel defines the level of logging.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Default rotation values for file output.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30

	flushInterval = time.Second
)

// Options configures a logger. Zero values fall back to the defaults above.
type Options struct {
	FilePath    string
	Level       LogLevel
	Development bool
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Compress    bool
}

// AsyncLogger provides buffered, leveled logging. Writes are collected by a
// BufferedWriteSyncer and flushed in the background, so callers never block
// on the log file.
type AsyncLogger struct {
	sugar  *zap.SugaredLogger
	buffer *zapcore.BufferedWriteSyncer
	root   *AsyncLogger

	mu     sync.Mutex
	closed bool
}

var (
	// Log is the global logger instance. It is initialized in main and
	// closed on shutdown.
	Log *AsyncLogger
)

// NewAsyncLogger creates a new AsyncLogger instance.
// It logs messages to the specified file path.
// If filePath is empty, it logs to stderr.
func NewAsyncLogger(filePath string, level LogLevel) (*AsyncLogger, error) {
	return New(Options{FilePath: filePath, Level: level, Compress: true})
}

// New builds an AsyncLogger from opts.
func New(opts Options) (*AsyncLogger, error) {
	var sink zapcore.WriteSyncer
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   opts.Compress,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	buffer := &zapcore.BufferedWriteSyncer{WS: sink, FlushInterval: flushInterval}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if opts.Development {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, buffer, toZapLevel(opts.Level))
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	l := &AsyncLogger{sugar: zl.Sugar(), buffer: buffer}
	l.root = l
	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *AsyncLogger {
	l := &AsyncLogger{sugar: zap.NewNop().Sugar()}
	l.root = l
	return l
}

// Or returns l, or a no-op logger when l is nil.
func Or(l *AsyncLogger) *AsyncLogger {
	if l == nil {
		return NewNop()
	}
	return l
}

// With returns a child logger carrying the given key/value pairs. Children
// share the parent's output; closing a child closes the parent.
func (l *AsyncLogger) With(keysAndValues ...interface{}) *AsyncLogger {
	return &AsyncLogger{sugar: l.sugar.With(keysAndValues...), buffer: l.buffer, root: l.root}
}

// Debugf logs a debug message.
func (l *AsyncLogger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Infof logs an info message.
func (l *AsyncLogger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warnf logs a warning message.
func (l *AsyncLogger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Errorf logs an error message.
func (l *AsyncLogger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Sync flushes buffered entries without closing the logger.
func (l *AsyncLogger) Sync() error {
	return l.sugar.Sync()
}

// Close flushes pending entries and stops the background flusher.
func (l *AsyncLogger) Close() {
	root := l.root
	root.mu.Lock()
	if root.closed {
		root.mu.Unlock()
		return
	}
	root.closed = true
	root.mu.Unlock()

	_ = root.sugar.Sync()
	if root.buffer != nil {
		_ = root.buffer.Stop()
	}
}

// ParseLevel converts a level name to a LogLevel. Unknown names map to info.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
