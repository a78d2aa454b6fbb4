package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kobo is an amount of Naira in its smallest unit. All tax arithmetic is
// carried out in Kobo.
type Kobo int64

// KoboPerNaira is the number of kobo in one Naira.
const KoboPerNaira Kobo = 100

var hundred = decimal.NewFromInt(100)

// Naira converts a whole-Naira amount to Kobo.
func Naira(n int64) Kobo { return Kobo(n) * KoboPerNaira }

// Decimal returns the amount in Naira.
func (k Kobo) Decimal() decimal.Decimal { return decimal.New(int64(k), -2) }

// Float returns the amount in Naira as a float, for prompts and display only.
func (k Kobo) Float() float64 { return k.Decimal().InexactFloat64() }

// Abs returns the absolute amount.
func (k Kobo) Abs() Kobo {
	if k < 0 {
		return -k
	}
	return k
}

// String renders the amount as a plain Naira decimal, e.g. "1234.50".
func (k Kobo) String() string { return k.Decimal().StringFixed(2) }

// KoboFromDecimal rounds a Naira decimal to the nearest kobo.
func KoboFromDecimal(d decimal.Decimal) Kobo {
	return Kobo(d.Mul(hundred).Round(0).IntPart())
}

// NairaFromFloat converts a Naira float (from LLM JSON) to Kobo.
func NairaFromFloat(f float64) Kobo { return KoboFromDecimal(decimal.NewFromFloat(f)) }

var amountReplacer = strings.NewReplacer(",", "", " ", "", "₦", "", "NGN", "", "ngn", "", "N", "")

// ParseNaira parses a human-entered Naira amount such as "₦1,250,000.50" or
// "NGN 300". The sign is preserved; parentheses denote a negative amount.
func ParseNaira(s string) (Kobo, error) {
	raw := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	}
	cleaned := amountReplacer.Replace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return KoboFromDecimal(d), nil
}

var nairaPrinter = message.NewPrinter(language.English)

// FormatNaira renders whole Naira with thousands separators and no
// decimals, e.g. "₦1,250,000".
func FormatNaira(k Kobo) string {
	whole := k.Decimal().Round(0).IntPart()
	if whole < 0 {
		return nairaPrinter.Sprintf("-₦%d", -whole)
	}
	return nairaPrinter.Sprintf("₦%d", whole)
}
