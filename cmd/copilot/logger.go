package main

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"copilot-ops/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// dualHandler writes every record to core and copies errors to errs.
type dualHandler struct {
	core slog.Handler
	errs slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.core.Enabled(ctx, lvl) || h.errs.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.core.Enabled(ctx, r.Level) {
		if err := h.core.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errs.Enabled(ctx, r.Level) {
		// file errors are dropped
		_ = h.errs.Handle(ctx, r.Clone())
	}
	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{core: h.core.WithAttrs(attrs), errs: h.errs.WithAttrs(attrs)}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{core: h.core.WithGroup(name), errs: h.errs.WithGroup(name)}
}

// setupLogger logs to out at a level chosen by env. When cfg names an error
// file, errors are also written there through a rotating writer.
func setupLogger(env string, cfg config.Log, out io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var core slog.Handler
	switch env {
	case envDev:
		core = slog.NewJSONHandler(out, opts)
	default:
		core = slog.NewTextHandler(out, opts)
	}

	if cfg.ErrorFile == "" {
		return slog.New(core)
	}

	errs := slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   cfg.ErrorFile,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{core: core, errs: errs})
}
