package logger

import (
	"sort"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the field-map logging interface shared by the stages, the
// controller and the web front end.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	With(fields map[string]interface{}) Logger
}

// New builds a zap logger writing to stderr. format "json" selects the
// production encoder; anything else gets console output.
func New(level, format string) *zap.Logger {
	return NewWithOutput(level, format, "")
}

// NewWithOutput is New writing to output ("stdout", "stderr" or a file
// path). Empty output keeps zap's default of stderr.
func NewWithOutput(level, format, output string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if output != "" {
		cfg.OutputPaths = []string{output}
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil || name == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

type zapLogger struct {
	l *zap.Logger
}

// NewZapAdapter exposes l through the Logger interface.
func NewZapAdapter(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

// NewTestLogger routes output through t.Log.
func NewTestLogger(t testing.TB) Logger {
	return &zapLogger{l: zaptest.NewLogger(t)}
}

func NewNoOpLogger() Logger {
	return &zapLogger{l: zap.NewNop()}
}

func (z *zapLogger) Debug(msg string, fields map[string]interface{}) {
	z.log(zapcore.DebugLevel, msg, fields)
}

func (z *zapLogger) Info(msg string, fields map[string]interface{}) {
	z.log(zapcore.InfoLevel, msg, fields)
}

func (z *zapLogger) Warn(msg string, fields map[string]interface{}) {
	z.log(zapcore.WarnLevel, msg, fields)
}

func (z *zapLogger) Error(msg string, fields map[string]interface{}) {
	z.log(zapcore.ErrorLevel, msg, fields)
}

func (z *zapLogger) log(lvl zapcore.Level, msg string, fields map[string]interface{}) {
	if ce := z.l.Check(lvl, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (z *zapLogger) WithFields(fields map[string]interface{}) Logger {
	return &zapLogger{l: z.l.With(toZap(fields)...)}
}

func (z *zapLogger) With(fields map[string]interface{}) Logger {
	return z.WithFields(fields)
}

func (z *zapLogger) WithError(err error) Logger {
	return &zapLogger{l: z.l.With(zap.Error(err))}
}

// toZap converts fields in key order so console lines read the same
// from run to run.
func toZap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
