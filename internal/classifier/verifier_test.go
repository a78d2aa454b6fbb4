package classifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naijatax/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel answers every prompt with reply, or fails with err.
type stubModel struct {
	reply string
	err   error
	calls atomic.Int32

	mu      sync.Mutex
	prompts []string
}

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

var testConfig = Config{BatchSize: 5, MaxModelTransactions: 50}

func expenseTx(id, desc string, amount model.Kobo) model.Transaction {
	return model.Transaction{ID: id, Type: model.TransactionTypeExpense, Description: desc, Amount: amount, Category: "General"}
}

func TestVerify_ModelReply(t *testing.T) {
	m := &stubModel{reply: `{"isVerified": true, "confidence": 0.95, "reasoning": "PenCom", "suggestedDeductionType": "PENSION"}`}
	v := NewVerifier(m, nil, testConfig)

	res := v.Verify(context.Background(), expenseTx("t1", "Monthly remittance", model.Naira(50_000)))
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, model.DeductionPension, res.SuggestedDeductionType)
	assert.Equal(t, "General", res.SuggestedCategory)
	assert.Contains(t, m.prompts[0], `Analyze: "Monthly remittance" - ₦50,000`)
}

func TestVerify_SchemaFailureFallsBackAndCountsFailure(t *testing.T) {
	m := &stubModel{reply: `{"isVerified": true, "confidence": 0.95}`}
	g := NewGuard(GuardConfig{FailureThreshold: 2})
	v := NewVerifier(m, g, testConfig)

	res := v.Verify(context.Background(), expenseTx("t1", "NHF contribution", model.Naira(10_000)))
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, ErrSchemaInvalid, res.FallbackReason)
	assert.Equal(t, model.DeductionNHF, res.SuggestedDeductionType)

	v.Verify(context.Background(), expenseTx("t2", "NHF contribution", model.Naira(10_000)))
	assert.Equal(t, BreakerOpen, g.State())

	// with the circuit open the model is not called at all
	before := m.calls.Load()
	res = v.Verify(context.Background(), expenseTx("t3", "Rent", model.Naira(10_000)))
	assert.Equal(t, before, m.calls.Load())
	assert.Equal(t, ErrCircuitOpen, res.FallbackReason)
}

func TestVerify_ProviderErrorFallsBack(t *testing.T) {
	m := &stubModel{err: &ClassifierError{Code: ErrLLMUnavailable, Message: "quota", Retryable: false}}
	v := NewVerifier(m, nil, testConfig)

	res := v.Verify(context.Background(), expenseTx("t1", "House rent", model.Naira(100_000)))
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, ErrLLMUnavailable, res.FallbackReason)
	assert.Equal(t, model.DeductionRentRelief, res.SuggestedDeductionType)
	assert.Equal(t, int32(1), m.calls.Load())
}

func TestVerify_RateLimitedFallsBack(t *testing.T) {
	m := &stubModel{reply: `{"isVerified": false, "confidence": 0.2, "reasoning": "food", "suggestedDeductionType": "NON_DEDUCTIBLE"}`}
	v := NewVerifier(m, NewGuard(GuardConfig{PerMinute: 1}), testConfig)

	first := v.Verify(context.Background(), expenseTx("a", "Lunch", 1))
	second := v.Verify(context.Background(), expenseTx("b", "Lunch", 1))
	assert.Equal(t, SourceModel, first.Source)
	assert.Equal(t, ErrRateLimited, second.FallbackReason)
	assert.Equal(t, int32(1), m.calls.Load())
}

func TestVerifyAll_NoModelUsesFallback(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	v := NewVerifier(nil, nil, testConfig)
	v.SetClock(func() time.Time { return now })

	txs := []model.Transaction{
		{ID: "i", Type: model.TransactionTypeIncome, Description: "Salary", Amount: model.Naira(1)},
		expenseTx("r", "Apartment rent", model.Naira(1_000_000)),
	}
	out := v.VerifyAll(context.Background(), txs)

	require.Len(t, out, 2)
	assert.Nil(t, out[0].AIVerification, "income is not verified")
	require.NotNil(t, out[1].AIVerification)
	assert.Equal(t, "fallback", out[1].AIVerification.Source)
	assert.True(t, out[1].AIVerification.LastVerified.Equal(now))
	assert.True(t, out[1].RentReliefEligible)
	assert.False(t, out[1].IsDeductible)
	assert.Equal(t, model.DeductionRentRelief, out[1].DeductionType)
	assert.Nil(t, txs[1].AIVerification, "input must not be mutated")
}

func TestVerifyAll_LargeSetSkipsModel(t *testing.T) {
	m := &stubModel{reply: `{}`}
	v := NewVerifier(m, nil, Config{BatchSize: 5, MaxModelTransactions: 3})

	txs := make([]model.Transaction, 4)
	for i := range txs {
		txs[i] = expenseTx("t", "Pension", 1)
	}
	out := v.VerifyAll(context.Background(), txs)
	assert.Zero(t, m.calls.Load())
	for _, tx := range out {
		assert.Equal(t, model.DeductionPension, tx.DeductionType)
		assert.True(t, tx.IsDeductible)
	}
}

func TestVerifyAll_BatchesEveryExpense(t *testing.T) {
	m := &stubModel{reply: `{"isVerified": true, "confidence": 0.8, "reasoning": "ok", "suggestedDeductionType": "OTHER_BUSINESS"}`}
	v := NewVerifier(m, NewGuard(GuardConfig{PerMinute: 100}), Config{BatchSize: 2, BatchDelay: time.Millisecond, MaxModelTransactions: 50})

	txs := make([]model.Transaction, 7)
	for i := range txs {
		txs[i] = expenseTx(string(rune('a'+i)), "Supplies", 1)
	}
	out := v.VerifyAll(context.Background(), txs)

	assert.Equal(t, int32(7), m.calls.Load())
	for i, tx := range out {
		assert.Equal(t, txs[i].ID, tx.ID, "order preserved")
		assert.Equal(t, model.DeductionOtherBusiness, tx.DeductionType)
		assert.Equal(t, "model", tx.AIVerification.Source)
	}
}

func TestVerifyAll_CancelledContext(t *testing.T) {
	m := &stubModel{reply: `{"isVerified": true, "confidence": 0.8, "reasoning": "ok", "suggestedDeductionType": "NHF"}`}
	v := NewVerifier(m, NewGuard(GuardConfig{PerMinute: 100}), Config{BatchSize: 1, BatchDelay: time.Hour, MaxModelTransactions: 50})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := v.VerifyAll(ctx, []model.Transaction{expenseTx("a", "Groceries", 1), expenseTx("b", "Groceries", 1)})

	assert.Zero(t, m.calls.Load())
	for _, tx := range out {
		require.NotNil(t, tx.AIVerification)
		assert.Equal(t, "fallback", tx.AIVerification.Source)
	}
}

func TestApply_RespectsUserTag(t *testing.T) {
	tx := expenseTx("x", "Transfer", 1)
	tx.DeductionType = model.DeductionNonDeductible

	out := Apply(tx, Verification{IsVerified: true, Confidence: 0.9, SuggestedDeductionType: model.DeductionPension}, time.Now())
	assert.Equal(t, model.DeductionNonDeductible, out.DeductionType)
	assert.False(t, out.IsDeductible)
	assert.Equal(t, model.DeductionPension, out.AIVerification.SuggestedDeductionType)
}

func TestApply_UnverifiedSuggestionNotAdopted(t *testing.T) {
	out := Apply(expenseTx("x", "Gym", 1), Verification{Confidence: 0.4, SuggestedDeductionType: model.DeductionNHIS}, time.Now())
	assert.Empty(t, out.DeductionType)
	assert.False(t, out.IsDeductible)
	require.NotNil(t, out.AIVerification)
}

func TestCategorize(t *testing.T) {
	m := &stubModel{reply: `{"category": "Health", "deductionType": "NHIS", "isDeductible": true, "confidence": 0.85, "reasoning": "HMO premium"}`}
	v := NewVerifier(m, nil, testConfig)

	c := v.Categorize(context.Background(), "Hygeia HMO", model.Naira(20_000))
	assert.Equal(t, "Health", c.Category)
	assert.Equal(t, SourceModel, c.Source)

	failing := NewVerifier(&stubModel{err: errors.New("boom")}, nil, Config{})
	c = failing.Categorize(context.Background(), "Pension top-up", 1)
	assert.Equal(t, SourceFallback, c.Source)
	assert.Equal(t, model.DeductionPension, c.DeductionType)
}
