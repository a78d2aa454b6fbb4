package taxengine

import "github.com/naijatax/backend/internal/model"

// Options tune summary generation.
type Options struct {
	RentPolicy RentPolicy
}

// GenerateSummary validates txs and computes a fresh summary. The caller
// assigns ID and CreatedAt before persisting.
func GenerateSummary(userID, period string, txs []model.Transaction) (*model.TaxSummary, error) {
	return GenerateSummaryWith(userID, period, txs, Options{})
}

// GenerateClassifierSummary uses classifier-driven rent eligibility.
func GenerateClassifierSummary(userID, period string, txs []model.Transaction) (*model.TaxSummary, error) {
	return GenerateSummaryWith(userID, period, txs, Options{RentPolicy: RentPolicyClassifier})
}

// GenerateSummaryWith is GenerateSummary with explicit options.
func GenerateSummaryWith(userID, period string, txs []model.Transaction, opts Options) (*model.TaxSummary, error) {
	if err := Validate(txs); err != nil {
		return nil, err
	}

	rent := rentReliefDetail(txs, opts.RentPolicy)
	income := TotalIncome(txs)
	deductible := deductibleExpenses(txs, opts.RentPolicy)
	taxable := floorZero(income - deductible - rent.FinalRelief)
	rec := ReconcileDeductions(txs)

	return &model.TaxSummary{
		UserID:                          userID,
		Period:                          period,
		TotalIncome:                     income,
		TotalExpenses:                   TotalExpenses(txs),
		DeductibleExpenses:              deductible,
		RentRelief:                      rent.FinalRelief,
		RentReliefDetail:                rent,
		TaxableIncome:                   taxable,
		EstimatedTax:                    CalculateTax(taxable),
		AIVerifiedDeductions:            rec.AIVerifiedDeductions,
		DocumentationVerifiedDeductions: rec.DocumentationVerifiedDeductions,
		PendingVerificationDeductions:   rec.PendingVerificationDeductions(),
		DeductionBreakdown:              rec.DeductionBreakdown,
		Brackets:                        BracketBreakdown(taxable),
		TransactionCount:                len(txs),
	}, nil
}

// Dashboard returns the headline figures for a transaction set.
func Dashboard(txs []model.Transaction) (model.DashboardSummary, error) {
	if err := Validate(txs); err != nil {
		return model.DashboardSummary{}, err
	}
	income := TotalIncome(txs)
	expenses := TotalExpenses(txs)
	return model.DashboardSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		EstimatedTax:  CalculateTax(TaxableIncome(txs)),
		NetIncome:     income - expenses,
	}, nil
}
