package classifier

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	JitterFraction float64 // 0.0 to 1.0, share of the delay that is randomized
}

// DefaultRetryConfig is tuned for Gemini and Groq 5xx/timeout blips. A
// classification call sits behind an RPC, so three attempts is the ceiling.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialDelay:   1 * time.Second,
	MaxDelay:       5 * time.Second,
	BackoffFactor:  1.5,
	JitterFraction: 0.2,
}

// WithRetry executes fn with exponential backoff + jitter.
//
// It gives up early when:
//   - the error is a ClassifierError with Retryable=false (rate limit, open
//     breaker, undecodable reply)
//   - fn itself reports context cancellation
//   - the caller's deadline would pass before the next attempt starts
//
// In the last case the returned error wraps both the model error and
// context.DeadlineExceeded.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		// Don't retry what a second call cannot fix
		var ce *ClassifierError
		if errors.As(err, &ce) && !ce.Retryable {
			return zero, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}

		if attempt >= cfg.MaxRetries {
			return zero, err
		}

		delay := backoff(cfg, attempt, rand.Float64())

		// No point sleeping into a deadline we cannot meet
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			return zero, errors.Join(err, context.DeadlineExceeded)
		}

		log.Printf("[Classifier] attempt %d failed, retrying in %s: %v", attempt+1, delay.Round(time.Millisecond), err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the wait before retry number attempt+1. r is a uniform
// sample in [0, 1) that drives the jitter.
func backoff(cfg RetryConfig, attempt int, r float64) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.JitterFraction > 0 {
		delay += delay * cfg.JitterFraction * (r*2 - 1) // +/- jitter
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
