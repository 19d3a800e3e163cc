package remote

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/vocabulous/vocabulous/internal/model"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry settings used for Firestore.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryNamespace is a decorator that retries ErrUnavailable failures with
// exponential backoff and jitter. Every other error is returned at once.
type RetryNamespace struct {
	inner  Namespace
	config RetryConfig
}

// WithRetry wraps a Namespace with retry logic.
func WithRetry(ns Namespace, cfg RetryConfig) Namespace {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryNamespace{inner: ns, config: cfg}
}

func (r *RetryNamespace) UserID() string { return r.inner.UserID() }

func (r *RetryNamespace) List(ctx context.Context, kind model.Kind) ([]Document, error) {
	return retry(ctx, r, func() ([]Document, error) { return r.inner.List(ctx, kind) })
}

func (r *RetryNamespace) Probe(ctx context.Context, kind model.Kind) (bool, error) {
	return retry(ctx, r, func() (bool, error) { return r.inner.Probe(ctx, kind) })
}

func (r *RetryNamespace) Get(ctx context.Context, kind model.Kind, id string) (Document, error) {
	return retry(ctx, r, func() (Document, error) { return r.inner.Get(ctx, kind, id) })
}

func (r *RetryNamespace) Set(ctx context.Context, kind model.Kind, doc Document) error {
	_, err := retry(ctx, r, func() (struct{}, error) { return struct{}{}, r.inner.Set(ctx, kind, doc) })
	return err
}

// SetAll retries the whole batch. Chunks that already committed are
// rewritten with the same values.
func (r *RetryNamespace) SetAll(ctx context.Context, kind model.Kind, docs []Document) error {
	_, err := retry(ctx, r, func() (struct{}, error) { return struct{}{}, r.inner.SetAll(ctx, kind, docs) })
	return err
}

func (r *RetryNamespace) Delete(ctx context.Context, kind model.Kind, id string) error {
	_, err := retry(ctx, r, func() (struct{}, error) { return struct{}{}, r.inner.Delete(ctx, kind, id) })
	return err
}

func (r *RetryNamespace) DeleteAll(ctx context.Context, kind model.Kind) error {
	_, err := retry(ctx, r, func() (struct{}, error) { return struct{}{}, r.inner.DeleteAll(ctx, kind) })
	return err
}

func (r *RetryNamespace) Close() error { return r.inner.Close() }

func retry[T any](ctx context.Context, r *RetryNamespace, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := range r.config.MaxAttempts {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return zero, lastErr
}

// shouldRetry reports whether err is transient.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryNamespace) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
