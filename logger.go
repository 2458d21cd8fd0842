package hive

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging sets up the global default logger with a TextHandler
// and configures the log level based on the HIVE_LOG_LEVEL environment
// variable. It defaults to Info level if not specified.
//
// This function should be called by the application at startup if it wants
// to use the default hive logging configuration.
func ConfigureLogging() {
	// Default to Info
	logLevel.Set(slog.LevelInfo)

	// Check environment variable for log level
	lvl := os.Getenv("HIVE_LOG_LEVEL")
	switch lvl {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel sets the logging level for the logger configured by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// Log categories the client reports under. Each category is emitted at most
// once per cooldown window regardless of how many failures occur.
const (
	LogPayloadSize   = "payload_size"
	LogSaveError     = "save_error"
	LogLoadError     = "load_error"
	LogTransferError = "transfer_error"
	LogClaimError    = "claim_error"
	LogCacheError    = "cache_error"
)

// LogLimiter suppresses repeated emissions of the same log category. A
// category is emitted when it has never been seen or when the cooldown has
// elapsed since its last emission; everything in between is dropped silently.
type LogLimiter struct {
	cooldown time.Duration
	mu       sync.Mutex
	last     map[string]time.Time
	now      func() time.Time
}

// NewLogLimiter returns a limiter enforcing the given cooldown per category.
func NewLogLimiter(cooldown time.Duration) *LogLimiter {
	return &LogLimiter{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// LogOnce emits msg and args at Warn level if category is eligible, tagging
// the record with the category. It reports whether the record was emitted.
func (l *LogLimiter) LogOnce(category, msg string, args ...any) bool {
	l.mu.Lock()
	t := l.now()
	if last, ok := l.last[category]; ok && t.Sub(last) < l.cooldown {
		l.mu.Unlock()
		return false
	}
	l.last[category] = t
	l.mu.Unlock()

	slog.Warn(msg, append([]any{"category", category}, args...)...)
	return true
}
