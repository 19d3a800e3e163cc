package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/vocabulous/vocabulous/internal/model"
)

// LoggingNamespace is a decorator that logs every remote call with its
// latency. Failures are logged at warn level.
type LoggingNamespace struct {
	inner  Namespace
	logger *slog.Logger
}

// WithLogging wraps a Namespace with call logging.
func WithLogging(ns Namespace, logger *slog.Logger) Namespace {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNamespace{inner: ns, logger: logger}
}

func (l *LoggingNamespace) observe(ctx context.Context, op string, kind model.Kind, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("op", op),
		slog.String("user_id", l.inner.UserID()),
		slog.String("kind", kind.String()),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()))
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "remote call failed", attrs...)
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, "remote call", attrs...)
}

func (l *LoggingNamespace) UserID() string { return l.inner.UserID() }

func (l *LoggingNamespace) List(ctx context.Context, kind model.Kind) ([]Document, error) {
	start := time.Now()
	docs, err := l.inner.List(ctx, kind)
	l.observe(ctx, "list", kind, start, err, slog.Int("docs", len(docs)))
	return docs, err
}

func (l *LoggingNamespace) Probe(ctx context.Context, kind model.Kind) (bool, error) {
	start := time.Now()
	ok, err := l.inner.Probe(ctx, kind)
	l.observe(ctx, "probe", kind, start, err, slog.Bool("non_empty", ok))
	return ok, err
}

func (l *LoggingNamespace) Get(ctx context.Context, kind model.Kind, id string) (Document, error) {
	start := time.Now()
	doc, err := l.inner.Get(ctx, kind, id)
	l.observe(ctx, "get", kind, start, err, slog.String("id", id))
	return doc, err
}

func (l *LoggingNamespace) Set(ctx context.Context, kind model.Kind, doc Document) error {
	start := time.Now()
	err := l.inner.Set(ctx, kind, doc)
	l.observe(ctx, "set", kind, start, err, slog.String("id", doc.ID))
	return err
}

func (l *LoggingNamespace) SetAll(ctx context.Context, kind model.Kind, docs []Document) error {
	start := time.Now()
	err := l.inner.SetAll(ctx, kind, docs)
	l.observe(ctx, "set_all", kind, start, err, slog.Int("docs", len(docs)))
	return err
}

func (l *LoggingNamespace) Delete(ctx context.Context, kind model.Kind, id string) error {
	start := time.Now()
	err := l.inner.Delete(ctx, kind, id)
	l.observe(ctx, "delete", kind, start, err, slog.String("id", id))
	return err
}

func (l *LoggingNamespace) DeleteAll(ctx context.Context, kind model.Kind) error {
	start := time.Now()
	err := l.inner.DeleteAll(ctx, kind)
	l.observe(ctx, "delete_all", kind, start, err)
	return err
}

func (l *LoggingNamespace) Close() error { return l.inner.Close() }
