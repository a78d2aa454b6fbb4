package classifier

import (
	"strings"

	"github.com/naijatax/backend/internal/model"
)

// keywordRule maps description keywords onto a deduction. Rules are tried
// in order and the first match wins.
type keywordRule struct {
	any        []string // at least one must match
	all        []string // every one must match
	none       []string // none may match
	deduction  model.DeductionType
	category   string
	confidence float64
	reasoning  string
}

func (r keywordRule) matches(desc string) bool {
	for _, kw := range r.none {
		if strings.Contains(desc, kw) {
			return false
		}
	}
	for _, kw := range r.all {
		if !strings.Contains(desc, kw) {
			return false
		}
	}
	if len(r.any) == 0 {
		return len(r.all) > 0
	}
	for _, kw := range r.any {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

var keywordRules = []keywordRule{
	{
		any:        []string{"pension", "pencom", "retirement", "pfa"},
		deduction:  model.DeductionPension,
		category:   "Pension",
		confidence: 0.9,
		reasoning:  "Pension contribution detected; deductible under the Nigeria Tax Act 2025",
	},
	{
		any:        []string{"nhf", "housing fund", "national housing"},
		deduction:  model.DeductionNHF,
		category:   "National Housing Fund",
		confidence: 0.9,
		reasoning:  "National Housing Fund contribution; fully deductible",
	},
	{
		any:        []string{"nhis", "health insurance", "national health"},
		deduction:  model.DeductionNHIS,
		category:   "Health Insurance",
		confidence: 0.9,
		reasoning:  "National Health Insurance Scheme contribution; fully deductible",
	},
	{
		any:        []string{"life insurance", "insurance premium", "annuity"},
		deduction:  model.DeductionLifeInsurance,
		category:   "Life Insurance",
		confidence: 0.8,
		reasoning:  "Life insurance premium; deductible for self or spouse",
	},
	{
		all:        []string{"loan", "interest", "house"},
		deduction:  model.DeductionHouseLoanInterest,
		category:   "Mortgage Interest",
		confidence: 0.8,
		reasoning:  "Home loan interest; deductible for an owner-occupied house",
	},
	{
		any:        []string{"business", "office"},
		all:        []string{"rent"},
		deduction:  model.DeductionBusinessRent,
		category:   "Business Rent",
		confidence: 0.8,
		reasoning:  "Business rent expense; fully deductible",
	},
	{
		all:        []string{"rent"},
		none:       []string{"car rent", "rental car", "current", "parent"},
		deduction:  model.DeductionRentRelief,
		category:   "Rent",
		confidence: 0.7,
		reasoning:  "Personal rent payment; may qualify for rent relief (20% up to ₦500,000)",
	},
	{
		any:        []string{"salary", "salaries", "wage", "employee"},
		deduction:  model.DeductionEmployeeSalaries,
		category:   "Employee Compensation",
		confidence: 0.8,
		reasoning:  "Employee compensation; deductible business expense",
	},
	{
		any:        []string{"repair", "maintenance"},
		deduction:  model.DeductionBusinessMaintenance,
		category:   "Maintenance",
		confidence: 0.7,
		reasoning:  "Repair or maintenance expense; likely deductible",
	},
	{
		any:        []string{"research", "r&d"},
		deduction:  model.DeductionRND,
		category:   "Research and Development",
		confidence: 0.8,
		reasoning:  "Research and development; deductible business expense",
	},
	{
		any:        []string{"disability", "assistive", "accessibility"},
		deduction:  model.DeductionDisabilityExpense,
		category:   "Disability",
		confidence: 0.8,
		reasoning:  "Disability-related expense; deductible",
	},
	{
		any:        []string{"bad debt", "doubtful debt"},
		deduction:  model.DeductionBadDebt,
		category:   "Bad Debt",
		confidence: 0.7,
		reasoning:  "Bad debt expense; deductible if business-related",
	},
}

const (
	fallbackConfidence = 0.5
	fallbackReasoning  = "Keyword analysis found no allowance; manual review recommended"
	uncategorized      = "Uncategorized"
)

func matchRule(description string) (keywordRule, bool) {
	desc := strings.ToLower(description)
	for _, r := range keywordRules {
		if r.matches(desc) {
			return r, true
		}
	}
	return keywordRule{}, false
}

// Fallback classifies a transaction from its description alone. It is
// deterministic and never fails.
func Fallback(tx model.Transaction) Verification {
	v := Verification{
		Confidence:             fallbackConfidence,
		Reasoning:              fallbackReasoning,
		SuggestedCategory:      tx.Category,
		SuggestedDeductionType: model.DeductionNonDeductible,
		Source:                 SourceFallback,
	}
	if r, ok := matchRule(tx.Description); ok {
		v.IsVerified = true
		v.Confidence = r.confidence
		v.Reasoning = r.reasoning
		v.SuggestedDeductionType = r.deduction
	}
	return v
}

// FallbackCategorization categorizes a description from keywords alone.
func FallbackCategorization(description string) Categorization {
	r, ok := matchRule(description)
	if !ok {
		return Categorization{
			Category:      uncategorized,
			DeductionType: model.DeductionNonDeductible,
			Confidence:    0.3,
			Reasoning:     fallbackReasoning,
			Source:        SourceFallback,
		}
	}
	return Categorization{
		Category:      r.category,
		DeductionType: r.deduction,
		IsDeductible:  true,
		Confidence:    r.confidence,
		Reasoning:     r.reasoning,
		Source:        SourceFallback,
	}
}
