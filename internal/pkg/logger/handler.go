package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// TeeHandler 同一条日志写入多个下游，任一下游启用该级别即记录
type TeeHandler struct {
	handlers []log.Handler
}

func (t *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return t.each(func(h log.Handler) log.Handler { return h.WithAttrs(attrs) })
}

func (t *TeeHandler) WithGroup(name string) log.Handler {
	return t.each(func(h log.Handler) log.Handler { return h.WithGroup(name) })
}

func (t *TeeHandler) each(fn func(log.Handler) log.Handler) *TeeHandler {
	next := make([]log.Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		next = append(next, fn(h))
	}
	return &TeeHandler{handlers: next}
}

// RemoteFilterHandler 只把带 trace_id 的请求/任务日志以及 Warn 以上的日志推到 Logstash
type RemoteFilterHandler struct {
	next log.Handler
}

func (f *RemoteFilterHandler) Enabled(ctx context.Context, level log.Level) bool {
	return f.next.Enabled(ctx, level)
}

func (f *RemoteFilterHandler) Handle(ctx context.Context, r log.Record) error {
	if r.Level < log.LevelWarn && !hasTraceID(r) {
		return nil
	}
	return f.next.Handle(ctx, r)
}

func (f *RemoteFilterHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &RemoteFilterHandler{next: f.next.WithAttrs(attrs)}
}

func (f *RemoteFilterHandler) WithGroup(name string) log.Handler {
	return &RemoteFilterHandler{next: f.next.WithGroup(name)}
}

func hasTraceID(r log.Record) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			found = true
		}
		return !found
	})
	return found
}
