package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/naijatax/backend/internal/model"
)

// SchemaError reports model output that does not match the expected shape.
type SchemaError struct {
	Field  string
	Reason string
	Raw    string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid model output: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid model output: %s", e.Reason)
}

// IsSchemaError reports whether err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// CleanJSON strips Markdown fences and any prose around the first JSON
// object or array in a model reply.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// DecodeStrict decodes a model reply into dst. Unknown fields and trailing
// data are rejected.
func DecodeStrict[T any](raw string, dst *T) error {
	clean := CleanJSON(raw)
	if clean == "" {
		return &SchemaError{Reason: "empty response", Raw: raw}
	}

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &SchemaError{Reason: err.Error(), Raw: raw}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &SchemaError{Reason: "trailing data after JSON value", Raw: raw}
	}
	return nil
}

func missing(field, raw string) error {
	return &SchemaError{Field: field, Reason: "required field missing", Raw: raw}
}

func checkConfidence(c float64, raw string) error {
	if c < 0 || c > 1 {
		return &SchemaError{Field: "confidence", Reason: fmt.Sprintf("%v is outside [0, 1]", c), Raw: raw}
	}
	return nil
}

func parseDeduction(field, value, raw string) (model.DeductionType, error) {
	dt, ok := model.ParseDeductionType(value)
	if !ok {
		return "", &SchemaError{Field: field, Reason: fmt.Sprintf("unknown deduction type %q", value), Raw: raw}
	}
	return dt, nil
}

type verificationWire struct {
	IsVerified             *bool    `json:"isVerified"`
	Confidence             *float64 `json:"confidence"`
	Reasoning              *string  `json:"reasoning"`
	SuggestedDeductionType *string  `json:"suggestedDeductionType"`
	SuggestedCategory      *string  `json:"suggestedCategory"`
}

// DecodeVerification parses a verification reply. isVerified, confidence,
// reasoning and suggestedDeductionType are required.
func DecodeVerification(raw string) (Verification, error) {
	var w verificationWire
	if err := DecodeStrict(raw, &w); err != nil {
		return Verification{}, err
	}
	switch {
	case w.IsVerified == nil:
		return Verification{}, missing("isVerified", raw)
	case w.Confidence == nil:
		return Verification{}, missing("confidence", raw)
	case w.Reasoning == nil:
		return Verification{}, missing("reasoning", raw)
	case w.SuggestedDeductionType == nil:
		return Verification{}, missing("suggestedDeductionType", raw)
	}
	if err := checkConfidence(*w.Confidence, raw); err != nil {
		return Verification{}, err
	}
	dt, err := parseDeduction("suggestedDeductionType", *w.SuggestedDeductionType, raw)
	if err != nil {
		return Verification{}, err
	}

	v := Verification{
		IsVerified:             *w.IsVerified,
		Confidence:             *w.Confidence,
		Reasoning:              *w.Reasoning,
		SuggestedDeductionType: dt,
		Source:                 SourceModel,
	}
	if w.SuggestedCategory != nil {
		v.SuggestedCategory = *w.SuggestedCategory
	}
	return v, nil
}

type categorizationWire struct {
	Category      *string  `json:"category"`
	DeductionType *string  `json:"deductionType"`
	IsDeductible  *bool    `json:"isDeductible"`
	Confidence    *float64 `json:"confidence"`
	Reasoning     *string  `json:"reasoning"`
}

// DecodeCategorization parses a categorization reply. category,
// deductionType, isDeductible and confidence are required.
func DecodeCategorization(raw string) (Categorization, error) {
	var w categorizationWire
	if err := DecodeStrict(raw, &w); err != nil {
		return Categorization{}, err
	}
	switch {
	case w.Category == nil || strings.TrimSpace(*w.Category) == "":
		return Categorization{}, missing("category", raw)
	case w.DeductionType == nil:
		return Categorization{}, missing("deductionType", raw)
	case w.IsDeductible == nil:
		return Categorization{}, missing("isDeductible", raw)
	case w.Confidence == nil:
		return Categorization{}, missing("confidence", raw)
	}
	if err := checkConfidence(*w.Confidence, raw); err != nil {
		return Categorization{}, err
	}
	dt, err := parseDeduction("deductionType", *w.DeductionType, raw)
	if err != nil {
		return Categorization{}, err
	}

	c := Categorization{
		Category:      strings.TrimSpace(*w.Category),
		DeductionType: dt,
		IsDeductible:  *w.IsDeductible && dt.IsDeduction(),
		Confidence:    *w.Confidence,
		Source:        SourceModel,
	}
	if w.Reasoning != nil {
		c.Reasoning = *w.Reasoning
	}
	return c, nil
}

// compactJSON is used to keep log lines short.
func compactJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(CleanJSON(raw))); err != nil {
		return raw
	}
	return buf.String()
}
