package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/pkg/constants"
)

// New builds a logger from config. Stdout, a rotating file and Loki can be
// enabled together; records fan out to every enabled sink.
func New(cfg *config.Config) *slog.Logger {
	return newWithStdout(cfg, os.Stdout)
}

func newWithStdout(cfg *config.Config, stdout io.Writer) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)
	out := cfg.Logging.Output

	var writers []io.Writer

	// Stdout is the fallback when nothing else is configured.
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		writers = append(writers, stdout)
	}

	if out.File.Enabled {
		writers = append(writers, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}

	var handlers []slog.Handler
	if len(writers) > 0 {
		handlers = append(handlers, newHandler(io.MultiWriter(writers...), cfg.Logging.Format, &slog.HandlerOptions{
			Level:     level,
			AddSource: isDevelopment(cfg),
		}))
	}

	if out.Loki.Enabled {
		handlers = append(handlers, newLokiHandler(cfg, level))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = &multiHandler{handlers: handlers}
	}

	return slog.New(contextHandler{h}).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
}

// Default is used before config is loaded, e.g. by CLI commands that fail early.
func Default() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(contextHandler{h}).With(slog.String("service", constants.ServiceName))
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func isDevelopment(cfg *config.Config) bool {
	return strings.EqualFold(cfg.Server.Environment, "development")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
