package logging

import (
	"context"
	"log/slog"
)

// runIDHandler adds the context's run id to records logged through the
// *Context methods. Records that already carry one, because the logger was
// built with WithContext, are left alone.
type runIDHandler struct {
	base   slog.Handler
	hasRun bool
}

func newRunIDHandler(base slog.Handler) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &runIDHandler{base: base}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.hasRun {
		if id, ok := RunIDFromContext(ctx); ok {
			record.AddAttrs(slog.String(FieldRunID, id))
		}
	}
	return h.base.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{
		base:   h.base.WithAttrs(attrs),
		hasRun: h.hasRun || hasAttrKey(attrs, FieldRunID),
	}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{base: h.base.WithGroup(name), hasRun: h.hasRun}
}
