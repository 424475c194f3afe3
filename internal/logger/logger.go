package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"json"`
	Service string `env:"LOG_SERVICE"`
	Env     string `env:"LOG_ENV"`
	Output  string `env:"LOG_OUTPUT" envDefault:"stdout"`
	Version string `env:"VERSION"`
}

type ctxKey int

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyRequestID
)

var (
	levelVar      slog.LevelVar
	defaultLogger *slog.Logger
)

func Default() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.Default()
}

// Init builds the process logger. Only time, level and msg sit at the root;
// every attribute lands under the top-level `data` group.
func Init(cfg Config) *slog.Logger {
	levelVar.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{Level: &levelVar}
	w := resolveWriter(cfg.Output)

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = defaultServiceName()
	}

	base := slog.New(h).WithGroup("data").With("service", service)
	if cfg.Env != "" {
		base = base.With("env", cfg.Env)
	}
	if cfg.Version != "" {
		base = base.With("version", cfg.Version)
	}

	defaultLogger = base
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyLogger, l)
}

// FromContext returns the logger stored in ctx, or the default one, tagged
// with the request id when ctx carries it.
func FromContext(ctx context.Context) *slog.Logger {
	l := Default()
	if ctx == nil {
		return l
	}
	if lg, ok := ctx.Value(ctxKeyLogger).(*slog.Logger); ok && lg != nil {
		l = lg
	}
	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok && id != "" {
		l = l.With("request_id", id)
	}
	return l
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

func resolveWriter(output string) io.Writer {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return os.Stdout
		}
		return f
	}
}

func defaultServiceName() string {
	if len(os.Args) > 0 && os.Args[0] != "" {
		return filepath.Base(os.Args[0])
	}
	return "app"
}
