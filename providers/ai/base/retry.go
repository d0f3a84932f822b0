package base

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/leofalp/uigen/providers/ai"
)

// retryKeywords mark errors without an HTTP status that are worth retrying.
var retryKeywords = []string{"network", "timeout", "fetch"}

// IsRetryable reports whether err should trigger another attempt under cfg.
// A *ai.ClientError carrying a status is retried only when the status is in
// the retryable set. Any other error, including a status-less ClientError,
// is retried when its message mentions a network, timeout or fetch problem.
func IsRetryable(err error, cfg ai.RetryConfig) bool {
	if err == nil {
		return false
	}

	// Cancellation by the caller is final.
	if errors.Is(err, context.Canceled) {
		return false
	}

	statusCodes := cfg.RetryableStatusCodes
	if statusCodes == nil {
		statusCodes = ai.DefaultRetryableStatusCodes
	}

	var clientErr *ai.ClientError
	if errors.As(err, &clientErr) && clientErr.StatusCode != 0 {
		return slices.Contains(statusCodes, clientErr.StatusCode)
	}

	message := strings.ToLower(err.Error())
	for _, keyword := range retryKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}

	return false
}

// Backoff returns the delay before retry number attempt (0-based):
// RetryDelay * 2^attempt, without jitter.
func Backoff(cfg ai.RetryConfig, attempt int) time.Duration {
	return cfg.RetryDelay * time.Duration(1<<attempt)
}

// WithRetry calls fn up to cfg.MaxRetries+1 times, sleeping [Backoff] between
// attempts while [IsRetryable] holds. A non-retryable error is returned at
// once; on exhaustion the last error is returned unchanged. Context
// cancellation during a backoff wait returns the context error.
func WithRetry[T any](ctx context.Context, cfg ai.RetryConfig, logger *slog.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := Backoff(cfg, attempt-1)
			if logger != nil {
				logger.WarnContext(ctx, "retrying request",
					slog.Int("attempt", attempt),
					slog.Int("max_retries", cfg.MaxRetries),
					slog.Duration("backoff", backoff),
					slog.String("error", lastErr.Error()),
				)
			}

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err, cfg) {
			return zero, err
		}
	}

	return zero, lastErr
}
