package logger

import (
	"log/slog"

	"github.com/caarlos0/env"
)

// InitFromEnv reads LOG_* variables and initialises the default logger. A
// malformed variable falls back to defaults rather than aborting start-up.
func InitFromEnv() *slog.Logger {
	cfg := Config{Level: "info", Format: "json", Output: "stdout"}
	if err := env.Parse(&cfg); err != nil {
		l := Init(Config{Level: "info", Format: "json", Output: "stdout"})
		l.Warn("invalid logger env, using defaults", "err", err)
		return l
	}
	return Init(cfg)
}
