package taxengine

import "github.com/naijatax/backend/internal/model"

// Reconciliation groups the deduction pool three ways. AI verification is
// independent of documentation; pending is always the complement of
// documented.
type Reconciliation struct {
	TotalDeductions                 model.Kobo                         `json:"totalDeductions"`
	AIVerifiedDeductions            model.Kobo                         `json:"aiVerifiedDeductions"`
	DocumentationVerifiedDeductions model.Kobo                         `json:"documentationVerifiedDeductions"`
	DeductionBreakdown              map[model.DeductionType]model.Kobo `json:"deductionBreakdown"`
}

// PendingVerificationDeductions is the part of the pool without verified
// documentation.
func (r Reconciliation) PendingVerificationDeductions() model.Kobo {
	return r.TotalDeductions - r.DocumentationVerifiedDeductions
}

// ReconcileDeductions walks every expense tagged with a deduction type other
// than NON_DEDUCTIBLE.
func ReconcileDeductions(txs []model.Transaction) Reconciliation {
	r := Reconciliation{DeductionBreakdown: make(map[model.DeductionType]model.Kobo)}
	for i := range txs {
		tx := &txs[i]
		if !tx.IsExpense() || !tx.DeductionType.IsDeduction() {
			continue
		}
		r.DeductionBreakdown[tx.DeductionType] += tx.Amount
		r.TotalDeductions += tx.Amount
		if tx.AIVerification != nil && tx.AIVerification.IsVerified {
			r.AIVerifiedDeductions += tx.Amount
		}
		if tx.DocumentationStatus != nil && tx.DocumentationStatus.IsVerified {
			r.DocumentationVerifiedDeductions += tx.Amount
		}
	}
	return r
}
