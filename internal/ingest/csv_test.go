package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/naijatax/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_Template(t *testing.T) {
	txs, err := ParseCSV(strings.NewReader(CSVTemplate()))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	assert.Equal(t, model.TransactionTypeIncome, txs[0].Type)
	assert.Equal(t, model.Naira(500_000), txs[0].Amount)
	assert.True(t, txs[0].Date.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Employer", txs[0].Source)

	assert.Equal(t, "Housing", txs[2].Category)
	assert.True(t, txs[3].IsDeductible)
	assert.Equal(t, model.DeductionPension, txs[3].DeductionType)
	assert.Empty(t, txs[2].DeductionType)
}

func TestParseCSV_FlexibleInput(t *testing.T) {
	input := "\ufeffDate, Description ,Amount,TYPE,deductionType\n" +
		"15/03/2026,\"Rent, Yaba flat\",\"₦1,200,000.50\",Expense,rent_relief\n" +
		",,,,\n" +
		"2026-03-20,POS PURCHASE SHOPRITE 12345678,-5000,expense,\n"

	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "Rent, Yaba flat", txs[0].Description)
	assert.Equal(t, model.Naira(1_200_000)+50, txs[0].Amount)
	assert.Equal(t, model.DeductionRentRelief, txs[0].DeductionType)
	assert.Equal(t, "Manual Entry", txs[0].Source)

	assert.Equal(t, model.Naira(5_000), txs[1].Amount, "amounts are stored as absolute values")
	assert.Equal(t, "Food", txs[1].Category, "category guessed from the counterparty")
}

func TestParseCSV_ReportsEveryBadRow(t *testing.T) {
	input := "date,description,amount,type\n" +
		"2026-01-01,Salary,100000,income\n" +
		"not a date,Fuel,5000,expense\n" +
		"2026-01-03,Lunch,abc,expense\n" +
		"2026-01-04,Transfer,100,transfer\n"

	txs, err := ParseCSV(strings.NewReader(input))
	assert.Nil(t, txs)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidDocument, CodeOf(err))

	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	require.Len(t, ie.Details, 3)
	assert.Contains(t, ie.Details[0], "row 3")
	assert.Contains(t, ie.Details[1], "invalid amount")
	assert.Contains(t, ie.Details[2], "income or expense")
}

func TestParseCSV_MissingHeaders(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("date,amount\n2026-01-01,5\n"))
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{"description", "type"}, ie.Details)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Equal(t, ErrNoTransactionsFound, CodeOf(err))

	_, err = ParseCSV(strings.NewReader("date,description,amount,type\n"))
	assert.Equal(t, ErrNoTransactionsFound, CodeOf(err))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	in := []model.Transaction{
		{
			Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Description: `Transfer "rent"`,
			Amount:      model.Naira(300_000),
			Type:        model.TransactionTypeExpense,
			Category:    "Housing",
			Source:      "Bank Statement",
		},
		{
			Date:          time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			Description:   "Annual rent",
			Amount:        model.Naira(2_400_000),
			Type:          model.TransactionTypeExpense,
			Category:      "Housing",
			Source:        "Manual Entry",
			IsDeductible:  true,
			DeductionType: model.DeductionRentRelief,
		},
		{
			Date:          time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
			Description:   "Club dues",
			Amount:        model.Naira(50_000),
			Type:          model.TransactionTypeExpense,
			Category:      "Leisure",
			Source:        "Manual Entry",
			DeductionType: model.DeductionNonDeductible,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "date,description,amount,type,category,source,isDeductible,deductionType\n"))

	out, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Description, out[i].Description)
		assert.Equal(t, in[i].Amount, out[i].Amount)
		assert.Equal(t, in[i].IsDeductible, out[i].IsDeductible)
		assert.Equal(t, in[i].DeductionType, out[i].DeductionType, "deduction type of %q", in[i].Description)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2026-01-05", "05/01/2026", "5/1/2026", "05-Jan-2026", "05-JAN-26", "Jan 5, 2026", "2026-01-05T10:00:00+01:00"} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2026, d.Year(), s)
		assert.Equal(t, time.January, d.Month(), s)
		assert.Equal(t, 5, d.Day(), s)
	}
	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}
