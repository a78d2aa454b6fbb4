package taxengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/naijatax/backend/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Only the canonical spelling passes. Classification compares deduction
	// types exactly, so "rent_relief" must never reach it.
	err := v.RegisterValidation("deductiontype", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		dt, ok := model.ParseDeductionType(raw)
		return ok && string(dt) == raw
	})
	if err != nil {
		panic(fmt.Sprintf("taxengine: register deductiontype validation: %v", err))
	}
	return v
}

// CanonicalizeDeductionTypes rewrites recognised deduction types, including
// the classifier's suggestion, to their canonical spelling in place.
// Unrecognised values are left alone for Validate to reject.
func CanonicalizeDeductionTypes(txs []model.Transaction) {
	for i := range txs {
		if dt, ok := model.ParseDeductionType(string(txs[i].DeductionType)); ok {
			txs[i].DeductionType = dt
		}
		if v := txs[i].AIVerification; v != nil {
			if dt, ok := model.ParseDeductionType(string(v.SuggestedDeductionType)); ok {
				v.SuggestedDeductionType = dt
			}
		}
	}
}

// Violation describes one rejected transaction field.
type Violation struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transactionId,omitempty"`
	Field         string `json:"field"`
	Reason        string `json:"reason"`
}

// ValidationError rejects a whole transaction set. No result is computed
// when any transaction is invalid.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("transaction %d: %s", v.Index, v.Reason))
	}
	return "invalid transactions: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks every transaction and returns a ValidationError listing
// all violations, or nil.
func Validate(txs []model.Transaction) error {
	var violations []Violation
	for i := range txs {
		err := validate.Struct(&txs[i])
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			violations = append(violations, Violation{Index: i, TransactionID: txs[i].ID, Reason: err.Error()})
			continue
		}
		for _, fe := range fieldErrs {
			violations = append(violations, Violation{
				Index:         i,
				TransactionID: txs[i].ID,
				Field:         fe.StructNamespace(),
				Reason:        describe(fe),
			})
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Amount" && fe.Tag() == "gte":
		return fmt.Sprintf("amount must not be negative, got %v", fe.Value())
	case fe.Field() == "Amount" && fe.Tag() == "lte":
		return fmt.Sprintf("amount %v exceeds the supported maximum", fe.Value())
	case fe.Field() == "Type":
		return fmt.Sprintf("unknown transaction type %q", fe.Value())
	case fe.Tag() == "deductiontype":
		return fmt.Sprintf("unknown deduction type %q", fe.Value())
	case fe.Field() == "Confidence":
		return fmt.Sprintf("confidence must be between 0 and 1, got %v", fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", fe.StructNamespace(), fe.Tag())
	}
}
