package taxengine

import (
	"errors"
	"testing"
	"time"

	"github.com/naijatax/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filedSummary(t *testing.T) *model.TaxSummary {
	t.Helper()
	s, err := GenerateSummary("user-9", "2026", []model.Transaction{
		income("i", n(5_000_000), "Salary"),
	})
	require.NoError(t, err)
	s.ID = "sum-1"
	return s
}

func TestGenerateRefund_Deductions(t *testing.T) {
	summary := filedSummary(t)
	require.Equal(t, n(690_000), summary.EstimatedTax)

	pension := expense("p", n(1_000_000), "Pension arrears", "Pension")
	pension.IsDeductible = true
	pension.DeductionType = model.DeductionPension

	adj, err := GenerateRefund(summary, []model.Transaction{pension}, []string{"gs://bucket/slip.pdf"})
	require.NoError(t, err)

	// 5,000,000 -> 4,000,000 taxable: 690,000 -> 510,000
	assert.Equal(t, model.AdjustmentRefund, adj.AdjustmentType)
	assert.Equal(t, n(180_000), adj.Amount)
	assert.Equal(t, model.AdjustmentPending, adj.Status)
	assert.Equal(t, "sum-1", adj.OriginalTaxSummaryID)
	assert.Equal(t, "user-9", adj.UserID)
	assert.Equal(t, []string{"gs://bucket/slip.pdf"}, adj.SupportingDocuments)
	assert.Contains(t, adj.Reason, "₦1,000,000")
	assert.Empty(t, adj.ID)
}

func TestGenerateRefund_RentReliefHeadroom(t *testing.T) {
	summary := filedSummary(t)
	summary.RentRelief = n(450_000)

	rent := expense("r", n(2_000_000), "House rent", "Housing")
	d, err := ComputeAdjustmentDelta(summary, []model.Transaction{rent})
	require.NoError(t, err)
	assert.Equal(t, n(50_000), d.AdditionalRentRelief)
}

func TestGenerateRefund_AdditionalIncome(t *testing.T) {
	summary := filedSummary(t)

	adj, err := GenerateRefund(summary, []model.Transaction{income("late", n(1_000_000), "Bonus")}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.AdjustmentAdditionalTax, adj.AdjustmentType)
	assert.Equal(t, n(180_000), adj.Amount)
}

func TestGenerateRefund_DocumentsOnly(t *testing.T) {
	adj, err := GenerateRefund(filedSummary(t), nil, []string{"receipt.jpg"})
	require.NoError(t, err)
	assert.Equal(t, model.AdjustmentDeductionUpdate, adj.AdjustmentType)
	assert.Zero(t, adj.Amount)
}

func TestGenerateRefund_RejectsInvalid(t *testing.T) {
	_, err := GenerateRefund(filedSummary(t), []model.Transaction{{Type: model.TransactionTypeExpense, Amount: -1}}, nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = GenerateRefund(nil, nil, nil)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	pending := &model.TaxAdjustment{ID: "adj-1", Status: model.AdjustmentPending, SupportingDocuments: []string{"a"}}

	approved, err := Resolve(pending, model.AdjustmentApproved, "looks good", now)
	require.NoError(t, err)
	assert.Equal(t, model.AdjustmentApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.True(t, approved.ProcessedAt.Equal(now))
	assert.Equal(t, model.AdjustmentPending, pending.Status, "input must not be mutated")

	_, err = Resolve(approved, model.AdjustmentRejected, "", now)
	assert.True(t, errors.Is(err, ErrAdjustmentResolved))

	_, err = Resolve(pending, model.AdjustmentPending, "", now)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestProcessRefund(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	_, err := ProcessRefund(filedSummary(t), nil, nil, now)
	assert.ErrorIs(t, err, ErrNothingToAdjust)

	adj, err := ProcessRefund(filedSummary(t), nil, []string{"slip.pdf"}, now)
	require.NoError(t, err)
	assert.True(t, adj.CreatedAt.Equal(now))
	assert.Equal(t, model.AdjustmentPending, adj.Status)
}
