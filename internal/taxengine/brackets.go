// Package taxengine computes Nigerian personal income tax from a set of
// classified transactions. Every function is pure: it reads an immutable
// transaction slice and returns a value, so callers may use it concurrently.
//
// Amounts are model.Kobo. Rates are basis points.
package taxengine

import "github.com/naijatax/backend/internal/model"

const bpsDenominator = 10000

// Brackets2026 is the Nigeria Tax Act 2026 table. A boundary value belongs
// to the lower band, so ₦800,000 exactly is exempt.
var Brackets2026 = []model.TaxBracket{
	{Min: 0, Max: model.Naira(800_000), RateBps: 0, Description: "₦0 - ₦800,000 (Full exemption)"},
	{Min: model.Naira(800_000), Max: model.Naira(3_000_000), RateBps: 1500, Description: "₦800,001 - ₦3,000,000 (15%)"},
	{Min: model.Naira(3_000_000), Max: model.Naira(12_000_000), RateBps: 1800, Description: "₦3,000,001 - ₦12,000,000 (18%)"},
	{Min: model.Naira(12_000_000), Max: model.Naira(25_000_000), RateBps: 2100, Description: "₦12,000,001 - ₦25,000,000 (21%)"},
	{Min: model.Naira(25_000_000), Max: model.Naira(50_000_000), RateBps: 2300, Description: "₦25,000,001 - ₦50,000,000 (23%)"},
	{Min: model.Naira(50_000_000), Max: 0, RateBps: 2500, Description: "Above ₦50,000,000 (25%)"},
}

// applyRate returns amount*rate rounded half-up to the kobo. amount must be
// non-negative.
func applyRate(amount model.Kobo, rateBps int64) model.Kobo {
	return model.Kobo((int64(amount)*rateBps + bpsDenominator/2) / bpsDenominator)
}

// breakdown is the single authoritative bracket walk. Both the scalar tax and
// the per-band report are derived from it.
func breakdown(taxable model.Kobo, brackets []model.TaxBracket) []model.BracketInfo {
	out := make([]model.BracketInfo, len(brackets))
	for i, b := range brackets {
		amount := taxable - b.Min
		if amount < 0 {
			amount = 0
		}
		if w := b.Width(); w >= 0 && amount > w {
			amount = w
		}
		out[i] = model.BracketInfo{
			TaxBracket:      b,
			AmountInBracket: amount,
			TaxInBracket:    applyRate(amount, b.RateBps),
			Applicable:      amount > 0,
		}
	}
	return out
}

// BracketBreakdown reports how a taxable income spreads across the 2026 bands.
func BracketBreakdown(taxable model.Kobo) []model.BracketInfo {
	return breakdown(taxable, Brackets2026)
}

// CalculateTax returns the progressive tax on a taxable income. It is the sum
// of the per-band taxes reported by BracketBreakdown.
func CalculateTax(taxable model.Kobo) model.Kobo {
	return calculate(taxable, Brackets2026)
}

func calculate(taxable model.Kobo, brackets []model.TaxBracket) model.Kobo {
	if taxable <= 0 {
		return 0
	}
	var total model.Kobo
	for _, info := range breakdown(taxable, brackets) {
		total += info.TaxInBracket
	}
	return total
}

// MarginalRate returns the rate, in basis points, applied to the last kobo of
// the given taxable income.
func MarginalRate(taxable model.Kobo) int64 {
	var rate int64
	for _, info := range BracketBreakdown(taxable) {
		if info.Applicable {
			rate = info.RateBps
		}
	}
	return rate
}
