package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// OutputType selects where log entries are written
type OutputType string

const (
	OutputConsole OutputType = "console"
	// OutputFile writes to a size-rotated file
	OutputFile OutputType = "file"
	// OutputOTEL is resolved by the caller, which tees a local core with
	// an OTLP exporter through NewWithCore. New treats it as console.
	OutputOTEL OutputType = "otel"
)

// Config holds the logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Output OutputType
	Format string // json, console

	// FilePath and the rotation limits apply to OutputFile
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
	FileCompress   bool

	// Development switches to the colored console encoder and adds stacktraces from warn up
	Development bool
}

func DefaultConfig() *Config {
	return &Config{
		Level:          "info",
		Output:         OutputConsole,
		Format:         "json",
		FilePath:       "./logs/gitapi.log",
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
		FileCompress:   true,
	}
}

// Logger wraps zap.Logger and owns the writers its core was built on
type Logger struct {
	*zap.Logger
	core    zapcore.Core
	closers []io.Closer
	once    *sync.Once
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// New builds a logger writing to the console or a rotated file
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Output != OutputFile {
		return NewWithCore(cfg, ConsoleCore(cfg)), nil
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.FileMaxSizeMB,
		MaxBackups: cfg.FileMaxBackups,
		MaxAge:     cfg.FileMaxAgeDays,
		Compress:   cfg.FileCompress,
	}
	core := zapcore.NewCore(encoder(cfg), zapcore.AddSync(writer), ParseLevel(cfg.Level))
	return NewWithCore(cfg, core, writer), nil
}

// ConsoleCore builds the stdout core for cfg
func ConsoleCore(cfg *Config) zapcore.Core {
	return zapcore.NewCore(encoder(cfg), zapcore.Lock(os.Stdout), ParseLevel(cfg.Level))
}

// NewWithCore wraps core. closers are closed, in order, by Close.
func NewWithCore(cfg *Config, core zapcore.Core, closers ...io.Closer) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{
		Logger:  zap.New(core, opts...),
		core:    core,
		closers: closers,
		once:    &sync.Once{},
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), core: zapcore.NewNopCore(), once: &sync.Once{}}
}

// SetGlobal replaces the process-wide logger returned by Get
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Get returns the process-wide logger, creating a console logger on first use
func Get() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger, _ = New(DefaultConfig())
	}
	return globalLogger
}

func (l *Logger) Core() zapcore.Core {
	return l.core
}

// WithContext adds trace_id and span_id when ctx carries a sampled span
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}

	return l.WithFields(TraceID(sc.TraceID().String()), SpanID(sc.SpanID().String()))
}

// WithFields returns a child logger sharing the parent's writers
func (l *Logger) WithFields(fields ...zap.Field) *Logger {
	return &Logger{
		Logger:  l.With(fields...),
		core:    l.core,
		closers: l.closers,
		once:    l.once,
	}
}

// Close flushes buffered entries and closes the owned writers once.
// Children created by WithFields share the same writers.
func (l *Logger) Close() error {
	var lastErr error
	l.once.Do(func() {
		_ = l.Sync()
		for _, closer := range l.closers {
			if err := closer.Close(); err != nil {
				lastErr = err
			}
		}
	})
	return lastErr
}

// ParseLevel converts a level name, defaulting to info
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func encoder(cfg *Config) zapcore.Encoder {
	if cfg.Development {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(ec)
	}

	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	if cfg.Format == "console" {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}
