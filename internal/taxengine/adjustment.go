package taxengine

import (
	"errors"
	"fmt"
	"time"

	"github.com/naijatax/backend/internal/model"
)

var (
	// ErrAdjustmentResolved is returned when resolving a non-pending adjustment.
	ErrAdjustmentResolved = errors.New("tax adjustment already resolved")
	// ErrInvalidResolution is returned for a target status other than
	// APPROVED or REJECTED.
	ErrInvalidResolution = errors.New("adjustment can only be approved or rejected")
	// ErrNothingToAdjust is returned when neither transactions nor documents
	// accompany an adjustment request.
	ErrNothingToAdjust = errors.New("no new transactions or supporting documents")
)

// AdjustmentDelta is the working behind an adjustment.
type AdjustmentDelta struct {
	AdditionalIncome     model.Kobo `json:"additionalIncome"`
	AdditionalDeductions model.Kobo `json:"additionalDeductions"`
	AdditionalRentRelief model.Kobo `json:"additionalRentRelief"`
	OriginalTaxable      model.Kobo `json:"originalTaxable"`
	RevisedTaxable       model.Kobo `json:"revisedTaxable"`
	OriginalTax          model.Kobo `json:"originalTax"`
	RevisedTax           model.Kobo `json:"revisedTax"`
}

// ComputeAdjustmentDelta re-runs the calculator for a stored summary plus a
// set of newly supplied transactions.
func ComputeAdjustmentDelta(summary *model.TaxSummary, newTxs []model.Transaction) (AdjustmentDelta, error) {
	if summary == nil {
		return AdjustmentDelta{}, fmt.Errorf("original summary is required")
	}
	if err := Validate(newTxs); err != nil {
		return AdjustmentDelta{}, err
	}

	// Rent relief is capped over the whole period, so only the headroom left
	// under the cap can be added.
	newRent := rentReliefDetail(newTxs, RentPolicyKeyword).TwentyPercent
	headroom := floorZero(RentReliefCap - summary.RentRelief)
	extraRelief := newRent
	if extraRelief > headroom {
		extraRelief = headroom
	}

	d := AdjustmentDelta{
		AdditionalIncome:     TotalIncome(newTxs),
		AdditionalDeductions: deductibleExpenses(newTxs, RentPolicyKeyword),
		AdditionalRentRelief: extraRelief,
		OriginalTaxable:      summary.TaxableIncome,
		OriginalTax:          summary.EstimatedTax,
	}
	gross := summary.TotalIncome + d.AdditionalIncome
	d.RevisedTaxable = floorZero(gross - summary.DeductibleExpenses - d.AdditionalDeductions - summary.RentRelief - extraRelief)
	d.RevisedTax = CalculateTax(d.RevisedTaxable)
	return d, nil
}

// GenerateRefund builds a PENDING adjustment for transactions supplied after
// the original summary was filed. A positive tax delta is a REFUND, a
// negative one ADDITIONAL_TAX. With no transactions but supporting
// documents, a zero-amount DEDUCTION_UPDATE is emitted. The record is not
// persisted; ID and CreatedAt are left to the caller.
func GenerateRefund(summary *model.TaxSummary, newTxs []model.Transaction, supportingDocs []string) (*model.TaxAdjustment, error) {
	d, err := ComputeAdjustmentDelta(summary, newTxs)
	if err != nil {
		return nil, err
	}

	adj := &model.TaxAdjustment{
		UserID:               summary.UserID,
		OriginalTaxSummaryID: summary.ID,
		SupportingDocuments:  append([]string(nil), supportingDocs...),
		Status:               model.AdjustmentPending,
	}

	delta := d.OriginalTax - d.RevisedTax
	switch {
	case len(newTxs) == 0:
		adj.AdjustmentType = model.AdjustmentDeductionUpdate
		adj.Reason = fmt.Sprintf("Supporting documentation added (%d document(s))", len(supportingDocs))
	case delta < 0:
		adj.AdjustmentType = model.AdjustmentAdditionalTax
		adj.Amount = -delta
		adj.Reason = fmt.Sprintf("Additional income of %s from %d new transaction(s)",
			model.FormatNaira(d.AdditionalIncome), len(newTxs))
	default:
		adj.AdjustmentType = model.AdjustmentRefund
		adj.Amount = delta
		adj.Reason = fmt.Sprintf("Additional deductions of %s and rent relief of %s from %d new transaction(s)",
			model.FormatNaira(d.AdditionalDeductions), model.FormatNaira(d.AdditionalRentRelief), len(newTxs))
	}
	return adj, nil
}

// ProcessRefund generates an adjustment for a filed summary and stamps its
// creation time. At least one transaction or document must be supplied.
func ProcessRefund(summary *model.TaxSummary, newTxs []model.Transaction, supportingDocs []string, now time.Time) (*model.TaxAdjustment, error) {
	if len(newTxs) == 0 && len(supportingDocs) == 0 {
		return nil, ErrNothingToAdjust
	}
	adj, err := GenerateRefund(summary, newTxs, supportingDocs)
	if err != nil {
		return nil, err
	}
	adj.CreatedAt = now
	return adj, nil
}

// Resolve moves a PENDING adjustment to APPROVED or REJECTED and returns the
// updated copy. Resolved adjustments are terminal.
func Resolve(adj *model.TaxAdjustment, status model.AdjustmentStatus, note string, now time.Time) (*model.TaxAdjustment, error) {
	if !status.Terminal() {
		return nil, ErrInvalidResolution
	}
	if adj.Status != model.AdjustmentPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAdjustmentResolved, adj.ID, adj.Status)
	}
	out := *adj
	out.SupportingDocuments = append([]string(nil), adj.SupportingDocuments...)
	out.Status = status
	out.ReviewerNote = note
	processed := now
	out.ProcessedAt = &processed
	return &out, nil
}
