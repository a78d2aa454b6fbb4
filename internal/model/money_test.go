package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNaira(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kobo
		wantErr bool
	}{
		{name: "plain integer", input: "500000", want: Naira(500000)},
		{name: "thousands separators", input: "1,250,000", want: Naira(1250000)},
		{name: "naira sign and kobo", input: "₦1,250,000.50", want: Naira(1250000) + 50},
		{name: "NGN prefix", input: "NGN 300", want: Naira(300)},
		{name: "N prefix", input: "N2,000", want: Naira(2000)},
		{name: "negative", input: "-45.10", want: -(Naira(45) + 10)},
		{name: "parentheses negative", input: "(1,000)", want: -Naira(1000)},
		{name: "rounds to nearest kobo", input: "10.005", want: Naira(10) + 1},
		{name: "empty", input: "  ", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNaira(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNairaFromFloat(t *testing.T) {
	assert.Equal(t, Naira(150000), NairaFromFloat(150000))
	assert.Equal(t, Naira(19)+99, NairaFromFloat(19.99))
	assert.Equal(t, Kobo(30), NairaFromFloat(0.1+0.2))
}

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "₦0", FormatNaira(0))
	assert.Equal(t, "₦800,000", FormatNaira(Naira(800000)))
	assert.Equal(t, "₦1,250,001", FormatNaira(Naira(1250000)+50))
	assert.Equal(t, "-₦2,500", FormatNaira(-Naira(2500)))
}

func TestKoboString(t *testing.T) {
	assert.Equal(t, "1234.50", (Naira(1234) + 50).String())
	assert.Equal(t, "0.00", Kobo(0).String())
}

func TestParseDeductionType(t *testing.T) {
	dt, ok := ParseDeductionType(" pension ")
	assert.True(t, ok)
	assert.Equal(t, DeductionPension, dt)

	_, ok = ParseDeductionType("CAR_WASH")
	assert.False(t, ok)

	assert.True(t, DeductionRentRelief.IsDeduction())
	assert.False(t, DeductionNonDeductible.IsDeduction())
	assert.False(t, DeductionType("").IsDeduction())
}

func TestParseTransactionType(t *testing.T) {
	tt, ok := ParseTransactionType("INCOME")
	assert.True(t, ok)
	assert.Equal(t, TransactionTypeIncome, tt)

	_, ok = ParseTransactionType("transfer")
	assert.False(t, ok)
}
