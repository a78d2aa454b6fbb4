package classifier

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

var fastRetry = RetryConfig{
	MaxRetries:    2,
	InitialDelay:  5 * time.Millisecond,
	MaxDelay:      20 * time.Millisecond,
	BackoffFactor: 2.0,
}

func TestWithRetry_TransientThenSuccess(t *testing.T) {
	attempts := 0
	result, err := WithRetry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "transient", Retryable: true}
		}
		return "recovered", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "recovered" {
		t.Fatalf("expected 'recovered', got %q", result)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		return "", fmt.Errorf("guard: %w", &ClassifierError{Code: ErrCircuitOpen, Message: "open"})
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if CodeOf(err) != ErrCircuitOpen {
		t.Fatalf("expected CIRCUIT_OPEN, got %v", err)
	}
}

func TestWithRetry_GenericErrorIsRetried(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("connection reset")
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// initial attempt + 2 retries
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 5, InitialDelay: 500 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	attempts := 0
	_, err := WithRetry(ctx, cfg, func(ctx context.Context) (int, error) {
		attempts++
		return 0, &ClassifierError{Code: ErrLLMUnavailable, Retryable: true}
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestWithRetry_GivesUpWhenDeadlineTooClose(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: time.Second, BackoffFactor: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	attempts := 0
	start := time.Now()
	_, err := WithRetry(ctx, cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "503", Retryable: true}
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected an immediate return, waited %s", elapsed)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if CodeOf(err) != ErrLLMUnavailable {
		t.Fatalf("expected the model error to be kept, got %v", err)
	}
}

func TestWithRetry_CancelledCallIsNotRetried(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), fastRetry, func(ctx context.Context) (string, error) {
		attempts++
		return "", fmt.Errorf("groq: %w", context.Canceled)
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2, JitterFraction: 0.5}

	tests := []struct {
		name    string
		attempt int
		r       float64
		want    time.Duration
	}{
		{name: "first retry, no jitter", attempt: 0, r: 0.5, want: time.Second},
		{name: "grows by the factor", attempt: 2, r: 0.5, want: 4 * time.Second},
		{name: "capped", attempt: 5, r: 0.5, want: 5 * time.Second},
		{name: "jitter down", attempt: 0, r: 0, want: 500 * time.Millisecond},
		{name: "jitter up", attempt: 1, r: 1, want: 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backoff(cfg, tt.attempt, tt.r); got != tt.want {
				t.Fatalf("backoff(%d, %v) = %s, want %s", tt.attempt, tt.r, got, tt.want)
			}
		})
	}
}
