package taxengine

import (
	"sort"

	"github.com/naijatax/backend/internal/model"
)

// RecommendedDeduction is an expense the classifier thinks is deductible but
// which is not yet claimed.
type RecommendedDeduction struct {
	TransactionID string              `json:"transactionId"`
	Description   string              `json:"description"`
	Amount        model.Kobo          `json:"amount"`
	DeductionType model.DeductionType `json:"deductionType"`
	Confidence    float64             `json:"confidence"`
}

// MissingDocument is a claimed deduction without verified paperwork.
type MissingDocument struct {
	TransactionID    string              `json:"transactionId"`
	Description      string              `json:"description"`
	DeductionType    model.DeductionType `json:"deductionType"`
	RequiredDocument string              `json:"requiredDocument"`
}

// Recommendations is the advisory report for a transaction set.
type Recommendations struct {
	RecommendedDeductions []RecommendedDeduction `json:"recommendedDeductions"`
	PotentialSavings      model.Kobo             `json:"potentialSavings"`
	MissingDocumentation  []MissingDocument      `json:"missingDocumentation"`
}

// MinRecommendConfidence is the classifier confidence needed before an
// unclaimed expense is recommended.
const MinRecommendConfidence = 0.6

// Recommend finds unclaimed deductions and undocumented claims, and prices
// the tax saving from claiming every recommendation.
func Recommend(txs []model.Transaction) (Recommendations, error) {
	if err := Validate(txs); err != nil {
		return Recommendations{}, err
	}

	rec := Recommendations{
		RecommendedDeductions: []RecommendedDeduction{},
		MissingDocumentation:  []MissingDocument{},
	}
	claimed := make([]model.Transaction, len(txs))
	copy(claimed, txs)

	for i := range txs {
		tx := &txs[i]
		if !tx.IsExpense() {
			continue
		}
		if tx.DeductionType.IsDeduction() && !HasValidDocumentation(tx) {
			rec.MissingDocumentation = append(rec.MissingDocumentation, MissingDocument{
				TransactionID:    tx.ID,
				Description:      tx.Description,
				DeductionType:    tx.DeductionType,
				RequiredDocument: RequiredDocument(tx.DeductionType),
			})
		}

		ai := tx.AIVerification
		if ai == nil || !ai.SuggestedDeductionType.IsDeduction() || ai.Confidence < MinRecommendConfidence {
			continue
		}
		if classify(tx, RentPolicyKeyword) != classNone {
			continue
		}
		rec.RecommendedDeductions = append(rec.RecommendedDeductions, RecommendedDeduction{
			TransactionID: tx.ID,
			Description:   tx.Description,
			Amount:        tx.Amount,
			DeductionType: ai.SuggestedDeductionType,
			Confidence:    ai.Confidence,
		})
		claimed[i].DeductionType = ai.SuggestedDeductionType
		claimed[i].IsDeductible = true
	}

	sort.SliceStable(rec.RecommendedDeductions, func(a, b int) bool {
		return rec.RecommendedDeductions[a].Amount > rec.RecommendedDeductions[b].Amount
	})

	before := CalculateTax(TaxableIncome(txs))
	after := CalculateTax(TaxableIncome(claimed))
	rec.PotentialSavings = floorZero(before - after)
	return rec, nil
}
