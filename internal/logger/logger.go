package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey struct{}

var (
	//nolint:gochecknoglobals // The atomic level is shared by every logger created by New.
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	//nolint:gochecknoglobals // Global logger is initialized once and replaced only through SetLogger.
	globalLogger *zap.SugaredLogger

	//nolint:gochecknoglobals // Protects globalLogger.
	globalMutex sync.RWMutex
)

//nolint:gochecknoinits // The global logger must be usable before configuration is loaded.
func init() {
	globalLogger = New(atomicLevel)
}

// New creates a console logger writing to stderr.
// A nil level falls back to the shared atomic level, so SetLevel affects it.
func New(level zapcore.LevelEnabler) *zap.SugaredLogger {
	if level == nil {
		level = atomicLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).Sugar()
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = l
}

// Level returns the current global log level.
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// SetLevel changes the global log level.
func SetLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug messages are written.
func IsDebugLevel() bool {
	return atomicLevel.Enabled(zapcore.DebugLevel)
}

// ParseLogLevel converts a textual level into a zap level.
// It returns InfoLevel and false when the text is not recognized.
func ParseLogLevel(text string) (zapcore.Level, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	// UnmarshalText treats an empty string as info, we don't.
	if normalized == "" {
		return zapcore.InfoLevel, false
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(normalized)); err != nil {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// ToContext stores a logger in the context.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in the context or the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}

	return Logger()
}

// WithName returns a context carrying a named child of the current logger.
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// WithKV returns a context carrying a logger with extra key-value pairs.
func WithKV(ctx context.Context, keysAndValues ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(keysAndValues...))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Debugw(message, keysAndValues...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Infow(message, keysAndValues...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Warnw(message, keysAndValues...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Errorw(message, keysAndValues...)
}

// Fatal logs a message at fatal level and exits.
func Fatal(ctx context.Context, args ...any) {
	FromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}
