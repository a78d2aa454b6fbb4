// Package model holds the domain types shared by the tax engine, the
// ingestion collaborators, the stores and the RPC layer.
package model

import (
	"strings"
	"time"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType accepts any casing and surrounding whitespace.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeIncome:
		return TransactionTypeIncome, true
	case TransactionTypeExpense:
		return TransactionTypeExpense, true
	default:
		return "", false
	}
}

// DeductionType is the statutory allowance class an expense belongs to.
type DeductionType string

const (
	DeductionPension             DeductionType = "PENSION"
	DeductionNHF                 DeductionType = "NHF"
	DeductionNHIS                DeductionType = "NHIS"
	DeductionLifeInsurance       DeductionType = "LIFE_INSURANCE"
	DeductionHouseLoanInterest   DeductionType = "HOUSE_LOAN_INTEREST"
	DeductionRentRelief          DeductionType = "RENT_RELIEF"
	DeductionBusinessRent        DeductionType = "BUSINESS_RENT"
	DeductionEmployeeSalaries    DeductionType = "EMPLOYEE_SALARIES"
	DeductionBusinessMaintenance DeductionType = "BUSINESS_MAINTENANCE"
	DeductionRND                 DeductionType = "RND"
	DeductionBadDebt             DeductionType = "BAD_DEBT"
	DeductionDisabilityExpense   DeductionType = "DISABILITY_EXPENSE"
	DeductionOtherBusiness       DeductionType = "OTHER_BUSINESS"
	DeductionNonDeductible       DeductionType = "NON_DEDUCTIBLE"
)

// DeductionTypes lists every known deduction type in display order.
var DeductionTypes = []DeductionType{
	DeductionPension,
	DeductionNHF,
	DeductionNHIS,
	DeductionLifeInsurance,
	DeductionHouseLoanInterest,
	DeductionRentRelief,
	DeductionBusinessRent,
	DeductionEmployeeSalaries,
	DeductionBusinessMaintenance,
	DeductionRND,
	DeductionBadDebt,
	DeductionDisabilityExpense,
	DeductionOtherBusiness,
	DeductionNonDeductible,
}

// ParseDeductionType maps a wire value onto a known DeductionType.
func ParseDeductionType(s string) (DeductionType, bool) {
	v := DeductionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, dt := range DeductionTypes {
		if dt == v {
			return dt, true
		}
	}
	return "", false
}

// IsDeduction reports whether the type names an allowance, as opposed to
// being unset or explicitly NON_DEDUCTIBLE.
func (d DeductionType) IsDeduction() bool {
	return d != "" && d != DeductionNonDeductible
}

// AIVerification records the judgement of the external classifier.
type AIVerification struct {
	IsVerified             bool          `json:"isVerified" firestore:"isVerified"`
	Confidence             float64       `json:"confidence" firestore:"confidence" validate:"gte=0,lte=1"`
	Reasoning              string        `json:"reasoning" firestore:"reasoning"`
	SuggestedCategory      string        `json:"suggestedCategory,omitempty" firestore:"suggestedCategory"`
	SuggestedDeductionType DeductionType `json:"suggestedDeductionType,omitempty" firestore:"suggestedDeductionType" validate:"omitempty,deductiontype"`
	LastVerified           time.Time     `json:"lastVerified" firestore:"lastVerified"`
	Source                 string        `json:"source,omitempty" firestore:"source"` // "model" or "fallback"
}

// DocumentationStatus records which supporting documents exist.
type DocumentationStatus struct {
	HasReceipt         bool       `json:"hasReceipt" firestore:"hasReceipt"`
	HasPensionSlip     bool       `json:"hasPensionSlip" firestore:"hasPensionSlip"`
	HasRentAgreement   bool       `json:"hasRentAgreement" firestore:"hasRentAgreement"`
	HasInsurancePolicy bool       `json:"hasInsurancePolicy" firestore:"hasInsurancePolicy"`
	HasLoanDocument    bool       `json:"hasLoanDocument" firestore:"hasLoanDocument"`
	IsVerified         bool       `json:"isVerified" firestore:"isVerified"`
	VerificationDate   *time.Time `json:"verificationDate,omitempty" firestore:"verificationDate"`
}

// HasAnyDocument reports whether at least one document flag is set.
func (d *DocumentationStatus) HasAnyDocument() bool {
	if d == nil {
		return false
	}
	return d.HasReceipt || d.HasPensionSlip || d.HasRentAgreement || d.HasInsurancePolicy || d.HasLoanDocument
}

// Transaction is a single classified bank movement.
type Transaction struct {
	ID                  string               `json:"id" firestore:"id"`
	UserID              string               `json:"userId" firestore:"userId"`
	Date                time.Time            `json:"date" firestore:"date"`
	Description         string               `json:"description" firestore:"description"`
	Amount              Kobo                 `json:"amount" firestore:"amount" validate:"gte=0,lte=100000000000000"`
	Type                TransactionType      `json:"type" firestore:"type" validate:"oneof=income expense"`
	Category            string               `json:"category" firestore:"category"`
	Source              string               `json:"source" firestore:"source"`
	IsDeductible        bool                 `json:"isDeductible" firestore:"isDeductible"`
	DeductionType       DeductionType        `json:"deductionType,omitempty" firestore:"deductionType" validate:"omitempty,deductiontype"`
	RentReliefEligible  bool                 `json:"rentReliefEligible,omitempty" firestore:"rentReliefEligible"`
	AIVerification      *AIVerification      `json:"aiVerification,omitempty" firestore:"aiVerification"`
	DocumentationStatus *DocumentationStatus `json:"documentationStatus,omitempty" firestore:"documentationStatus"`
	CreatedAt           time.Time            `json:"createdAt" firestore:"createdAt"`
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool { return t.Type == TransactionTypeExpense }

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool { return t.Type == TransactionTypeIncome }
