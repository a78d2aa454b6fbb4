package taxengine

import (
	"time"

	"github.com/naijatax/backend/internal/model"
)

// DocumentationPatch carries the flags to change; nil fields are left alone.
type DocumentationPatch struct {
	HasReceipt         *bool `json:"hasReceipt,omitempty"`
	HasPensionSlip     *bool `json:"hasPensionSlip,omitempty"`
	HasRentAgreement   *bool `json:"hasRentAgreement,omitempty"`
	HasInsurancePolicy *bool `json:"hasInsurancePolicy,omitempty"`
	HasLoanDocument    *bool `json:"hasLoanDocument,omitempty"`
	IsVerified         *bool `json:"isVerified,omitempty"`
}

// UpdateDocumentationStatus returns a copy of tx with the patch applied.
// VerificationDate is stamped when the status becomes verified and cleared
// when it is withdrawn.
func UpdateDocumentationStatus(tx model.Transaction, patch DocumentationPatch, now time.Time) model.Transaction {
	var status model.DocumentationStatus
	if tx.DocumentationStatus != nil {
		status = *tx.DocumentationStatus
	}
	wasVerified := status.IsVerified

	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&status.HasReceipt, patch.HasReceipt)
	set(&status.HasPensionSlip, patch.HasPensionSlip)
	set(&status.HasRentAgreement, patch.HasRentAgreement)
	set(&status.HasInsurancePolicy, patch.HasInsurancePolicy)
	set(&status.HasLoanDocument, patch.HasLoanDocument)
	set(&status.IsVerified, patch.IsVerified)

	switch {
	case status.IsVerified && !wasVerified:
		at := now
		status.VerificationDate = &at
	case !status.IsVerified:
		status.VerificationDate = nil
	}

	tx.DocumentationStatus = &status
	return tx
}

// HasValidDocumentation reports whether at least one document exists and the
// paperwork has been verified.
func HasValidDocumentation(tx *model.Transaction) bool {
	return tx.DocumentationStatus.HasAnyDocument() && tx.DocumentationStatus.IsVerified
}

// RequiredDocument names the paperwork expected for a deduction type.
func RequiredDocument(dt model.DeductionType) string {
	switch dt {
	case model.DeductionPension, model.DeductionNHF:
		return "pension or NHF contribution slip"
	case model.DeductionRentRelief, model.DeductionBusinessRent:
		return "tenancy agreement"
	case model.DeductionNHIS, model.DeductionLifeInsurance:
		return "insurance policy"
	case model.DeductionHouseLoanInterest:
		return "mortgage loan statement"
	default:
		return "receipt"
	}
}
