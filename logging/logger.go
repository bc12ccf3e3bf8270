package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents different logging levels.
// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for artifactup.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// UploadLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. It should be cheap to copy via With* methods.
// The Debug/Info/Warn/Error methods take slog-style alternating key/value
// args, so the type satisfies the Logger interface without losing structure.
type UploadLogger struct {
	logger       *slog.Logger
	level        LogLevel
	context      map[string]interface{}
	taskID       string
	runID        string
	artifactName string
}

// LoggerConfig configures construction of an UploadLogger.
type LoggerConfig struct {
	Level        LogLevel
	Format       string // json or text
	Output       io.Writer
	AddSource    bool
	TaskID       string
	RunID        string
	ArtifactName string
	CustomAttrs  map[string]interface{}
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, AddSource: true, CustomAttrs: map[string]interface{}{}}
}

// NewLogger builds an UploadLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *UploadLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &UploadLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]interface{}{}, taskID: cfg.TaskID, runID: cfg.RunID, artifactName: cfg.ArtifactName}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *UploadLogger) clone() *UploadLogger {
	nl := *l
	nl.context = map[string]interface{}{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *UploadLogger) WithContext(key string, value interface{}) *UploadLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithTask attaches task and run identifiers.
func (l *UploadLogger) WithTask(taskID, runID string) *UploadLogger {
	nl := l.clone()
	nl.taskID = taskID
	nl.runID = runID
	return nl
}

// WithArtifact sets the artifact name attached to every log entry.
func (l *UploadLogger) WithArtifact(name string) *UploadLogger {
	nl := l.clone()
	nl.artifactName = name
	return nl
}

func (l *UploadLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+5)
	if l.taskID != "" {
		attrs = append(attrs, slog.String("task_id", l.taskID))
	}
	if l.runID != "" {
		attrs = append(attrs, slog.String("run_id", l.runID))
	}
	if l.artifactName != "" {
		attrs = append(attrs, slog.String("artifact_name", l.artifactName))
	}
	attrs = append(attrs, slog.Time("timestamp", time.Now()))
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *UploadLogger) log(level slog.Level, allowed bool, msg string, args ...interface{}) {
	if !allowed {
		return
	}
	attrs := l.buildAttrs()
	attrs = append(attrs, argsToAttrs(args)...)
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// argsToAttrs converts slog-style alternating key/value args into attrs, the
// same convention the Logger interface callers use. A dangling value without
// a string key is recorded under "arg".
func argsToAttrs(args []interface{}) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			attrs = append(attrs, slog.Any(key, args[i+1]))
			i += 2
			continue
		}
		attrs = append(attrs, slog.Any("arg", args[i]))
		i++
	}
	return attrs
}

// Debug logs at debug level.
func (l *UploadLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *UploadLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *UploadLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *UploadLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogUploadStart records the beginning of an upload invocation.
func (l *UploadLogger) LogUploadStart(putURL string, size int64, compressed bool) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("put_url", putURL), slog.Int64("size", size), slog.Bool("compressed", compressed))
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Artifact upload started", attrs...)
}

// LogAttempt records one PUT attempt. The attempt number is included only on
// retries (attempt > 1).
func (l *UploadLogger) LogAttempt(attempt int, putURL string, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("put_url", putURL))
	if attempt > 1 {
		attrs = append(attrs, slog.Int("attempt", attempt))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Uploading artifact"
	if attempt > 1 {
		level = slog.LevelWarn
		msg = "Retrying artifact upload"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogUploadDone records the terminal outcome of an upload invocation.
func (l *UploadLogger) LogUploadDone(digest string, size int64, dur time.Duration, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.Duration("duration", dur))
	level := slog.LevelInfo
	msg := "Artifact upload completed"
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
		msg = "Artifact upload failed"
	} else {
		attrs = append(attrs, slog.String("digest", digest), slog.Int64("size", size))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogCleanupFailure records a spool deletion failure. Cleanup failures are
// logged but never replace the primary error being propagated.
func (l *UploadLogger) LogCleanupFailure(path string, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("path", path), slog.String("error", err.Error()))
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, "Spool cleanup failed", attrs...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger creates a new UploadLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *UploadLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}
