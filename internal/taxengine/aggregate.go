package taxengine

import (
	"strings"

	"github.com/naijatax/backend/internal/model"
)

// RentPolicy selects how rent-relief eligibility is decided for expenses not
// explicitly tagged with a deduction type.
type RentPolicy int

const (
	// RentPolicyKeyword matches "rent" or "accommodation" in the description
	// or category.
	RentPolicyKeyword RentPolicy = iota
	// RentPolicyClassifier requires the classifier's rentReliefEligible flag
	// plus a housing keyword.
	RentPolicyClassifier
)

var (
	rentKeywords           = []string{"rent", "accommodation"}
	classifierRentKeywords = []string{"rent", "accommodation", "housing", "lease"}
)

// deductionClass is the one bucket an expense falls into. An expense is
// either rent-relief eligible or a generic deduction or neither, never two.
type deductionClass int

const (
	classNone deductionClass = iota
	classRentRelief
	classGeneric
)

func containsAny(tx *model.Transaction, keywords []string) bool {
	desc := strings.ToLower(tx.Description)
	cat := strings.ToLower(tx.Category)
	for _, kw := range keywords {
		if strings.Contains(desc, kw) || strings.Contains(cat, kw) {
			return true
		}
	}
	return false
}

// classify assigns an expense to exactly one bucket. An explicit deduction
// type always wins over keyword heuristics.
func classify(tx *model.Transaction, policy RentPolicy) deductionClass {
	if !tx.IsExpense() {
		return classNone
	}
	switch tx.DeductionType {
	case model.DeductionRentRelief:
		return classRentRelief
	case "":
		// untagged: fall through to the heuristics
	case model.DeductionNonDeductible:
		return classNone
	default:
		if tx.IsDeductible {
			return classGeneric
		}
		return classNone
	}

	var rentEligible bool
	switch policy {
	case RentPolicyClassifier:
		rentEligible = tx.RentReliefEligible && containsAny(tx, classifierRentKeywords)
	default:
		rentEligible = tx.RentReliefEligible || containsAny(tx, rentKeywords)
	}
	if rentEligible {
		return classRentRelief
	}
	if tx.IsDeductible {
		return classGeneric
	}
	return classNone
}

// TotalIncome sums income transactions.
func TotalIncome(txs []model.Transaction) model.Kobo {
	var total model.Kobo
	for i := range txs {
		if txs[i].IsIncome() {
			total += txs[i].Amount
		}
	}
	return total
}

// TotalExpenses sums expense transactions.
func TotalExpenses(txs []model.Transaction) model.Kobo {
	var total model.Kobo
	for i := range txs {
		if txs[i].IsExpense() {
			total += txs[i].Amount
		}
	}
	return total
}

// DeductibleExpenses sums deductible expenses, excluding anything that
// counts towards rent relief.
func DeductibleExpenses(txs []model.Transaction) model.Kobo {
	return deductibleExpenses(txs, RentPolicyKeyword)
}

func deductibleExpenses(txs []model.Transaction, policy RentPolicy) model.Kobo {
	var total model.Kobo
	for i := range txs {
		if classify(&txs[i], policy) == classGeneric {
			total += txs[i].Amount
		}
	}
	return total
}

// TaxableIncome is max(0, income - deductible expenses - rent relief).
func TaxableIncome(txs []model.Transaction) model.Kobo {
	return taxableIncome(txs, RentPolicyKeyword)
}

func taxableIncome(txs []model.Transaction, policy RentPolicy) model.Kobo {
	return floorZero(TotalIncome(txs) - deductibleExpenses(txs, policy) - rentReliefDetail(txs, policy).FinalRelief)
}

func floorZero(k model.Kobo) model.Kobo {
	if k < 0 {
		return 0
	}
	return k
}
