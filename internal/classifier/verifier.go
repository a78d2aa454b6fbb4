// Package classifier verifies and categorizes transactions for tax
// deductibility using a language model, guarded by a rate limiter and a
// circuit breaker, with a deterministic keyword fallback.
package classifier

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/naijatax/backend/internal/model"
)

// Source records where a classification came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Verification is the classifier's judgement on one transaction.
type Verification struct {
	IsVerified             bool                `json:"isVerified"`
	Confidence             float64             `json:"confidence"`
	Reasoning              string              `json:"reasoning"`
	SuggestedCategory      string              `json:"suggestedCategory,omitempty"`
	SuggestedDeductionType model.DeductionType `json:"suggestedDeductionType"`
	Source                 Source              `json:"source"`
	FallbackReason         ErrorCode           `json:"fallbackReason,omitempty"`
}

// Categorization is a suggested category for a free-text description.
type Categorization struct {
	Category      string              `json:"category"`
	DeductionType model.DeductionType `json:"deductionType"`
	IsDeductible  bool                `json:"isDeductible"`
	Confidence    float64             `json:"confidence"`
	Reasoning     string              `json:"reasoning,omitempty"`
	Source        Source              `json:"source"`
}

// Config tunes batching and retries.
type Config struct {
	BatchSize  int
	BatchDelay time.Duration
	// Above this many expenses VerifyAll skips the model entirely.
	MaxModelTransactions int
	Retry                RetryConfig
}

// DefaultConfig processes five transactions at a time, two seconds apart.
var DefaultConfig = Config{
	BatchSize:            5,
	BatchDelay:           2 * time.Second,
	MaxModelTransactions: 50,
	Retry:                DefaultRetryConfig,
}

// Verifier classifies transactions. A nil model makes it fallback-only.
type Verifier struct {
	model Model
	guard *Guard
	cfg   Config
	now   func() time.Time
}

// NewVerifier creates a Verifier. A nil guard gets DefaultGuardConfig.
func NewVerifier(m Model, guard *Guard, cfg Config) *Verifier {
	if guard == nil {
		guard = NewGuard(DefaultGuardConfig)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig.BatchSize
	}
	if cfg.MaxModelTransactions <= 0 {
		cfg.MaxModelTransactions = DefaultConfig.MaxModelTransactions
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	return &Verifier{model: m, guard: guard, cfg: cfg, now: time.Now}
}

// SetClock replaces the clock used to stamp verifications.
func (v *Verifier) SetClock(now func() time.Time) { v.now = now }

// ModelName returns the configured model, or "" when fallback-only.
func (v *Verifier) ModelName() string {
	if v.model == nil {
		return ""
	}
	return v.model.Name()
}

// Guard exposes the verifier's guard.
func (v *Verifier) Guard() *Guard { return v.guard }

// call runs one guarded, retried model request.
func (v *Verifier) call(ctx context.Context, prompt string) (string, error) {
	if v.model == nil {
		return "", &ClassifierError{Code: ErrNotConfigured, Message: "no model configured"}
	}
	return WithRetry(ctx, v.cfg.Retry, func(ctx context.Context) (string, error) {
		if err := v.guard.Acquire(); err != nil {
			return "", err
		}
		raw, err := v.model.Generate(ctx, prompt)
		if err != nil {
			if countsAsFailure(err) {
				v.guard.RecordFailure()
			}
			return "", err
		}
		return raw, nil
	})
}

// Verify asks the model whether tx is a tax-deductible expense. Any failure
// (missing model, open circuit, exhausted quota, provider error or a reply
// that fails schema validation) yields the keyword fallback instead.
func (v *Verifier) Verify(ctx context.Context, tx model.Transaction) Verification {
	raw, err := v.call(ctx, verificationPrompt(tx))
	if err != nil {
		return v.fallback(tx, err)
	}

	result, err := DecodeVerification(raw)
	if err != nil {
		v.guard.RecordFailure()
		log.Printf("[Classifier] rejected reply for %s: %v (%.200s)", tx.ID, err, compactJSON(raw))
		return v.fallback(tx, err)
	}
	v.guard.RecordSuccess()

	if result.SuggestedCategory == "" {
		result.SuggestedCategory = tx.Category
	}
	return result
}

func (v *Verifier) fallback(tx model.Transaction, cause error) Verification {
	code := CodeOf(cause)
	if code == "" {
		code = ErrLLMUnavailable
	}
	if code != ErrNotConfigured {
		log.Printf("[Classifier] using keyword fallback for %s: %v", tx.ID, cause)
	}
	fb := Fallback(tx)
	fb.FallbackReason = code
	return fb
}

// VerifyAll verifies every expense in txs and returns updated copies in the
// same order. Income passes through untouched. Expenses are sent in
// batches with a delay between them; above MaxModelTransactions, or once
// ctx is done, the keyword fallback is used.
func (v *Verifier) VerifyAll(ctx context.Context, txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	copy(out, txs)

	var expenses []int
	for i := range out {
		if out[i].IsExpense() {
			expenses = append(expenses, i)
		}
	}

	if len(expenses) > v.cfg.MaxModelTransactions || v.model == nil {
		if v.model != nil {
			log.Printf("[Classifier] %d expenses exceeds %d, using keyword fallback only", len(expenses), v.cfg.MaxModelTransactions)
		}
		now := v.now()
		for _, i := range expenses {
			fb := Fallback(out[i])
			if v.model == nil {
				fb.FallbackReason = ErrNotConfigured
			}
			out[i] = Apply(out[i], fb, now)
		}
		return out
	}

	for start := 0; start < len(expenses); start += v.cfg.BatchSize {
		end := min(start+v.cfg.BatchSize, len(expenses))
		batch := expenses[start:end]

		if start > 0 && v.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(v.cfg.BatchDelay):
			}
		}
		if ctx.Err() != nil {
			now := v.now()
			for _, i := range expenses[start:] {
				out[i] = Apply(out[i], v.fallback(out[i], ctx.Err()), now)
			}
			return out
		}

		results := make([]Verification, len(batch))
		var wg sync.WaitGroup
		for j, i := range batch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[j] = v.Verify(ctx, out[i])
			}()
		}
		wg.Wait()

		now := v.now()
		for j, i := range batch {
			out[i] = Apply(out[i], results[j], now)
		}
	}
	return out
}

// Categorize suggests a category and deduction type for a description.
func (v *Verifier) Categorize(ctx context.Context, description string, amount model.Kobo) Categorization {
	raw, err := v.call(ctx, categorizationPrompt(description, amount))
	if err != nil {
		if CodeOf(err) != ErrNotConfigured {
			log.Printf("[Classifier] categorize fallback: %v", err)
		}
		return FallbackCategorization(description)
	}

	result, err := DecodeCategorization(raw)
	if err != nil {
		v.guard.RecordFailure()
		log.Printf("[Classifier] rejected categorization reply: %v", err)
		return FallbackCategorization(description)
	}
	v.guard.RecordSuccess()
	return result
}

// Apply records v on tx and returns the updated copy. A verified
// suggestion is adopted only when the user has not already tagged the
// transaction; rent suggestions mark the expense rent-relief eligible
// rather than deductible.
func Apply(tx model.Transaction, v Verification, now time.Time) model.Transaction {
	out := tx
	category := v.SuggestedCategory
	if category == "" {
		category = tx.Category
	}
	out.AIVerification = &model.AIVerification{
		IsVerified:             v.IsVerified,
		Confidence:             v.Confidence,
		Reasoning:              v.Reasoning,
		SuggestedCategory:      category,
		SuggestedDeductionType: v.SuggestedDeductionType,
		LastVerified:           now,
		Source:                 string(v.Source),
	}

	if tx.DeductionType != "" || !v.IsVerified {
		return out
	}
	out.DeductionType = v.SuggestedDeductionType
	switch {
	case v.SuggestedDeductionType == model.DeductionRentRelief:
		out.RentReliefEligible = true
		out.IsDeductible = false
	case v.SuggestedDeductionType.IsDeduction():
		out.IsDeductible = true
	default:
		out.IsDeductible = false
	}
	return out
}
