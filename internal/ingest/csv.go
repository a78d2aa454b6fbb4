package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/naijatax/backend/internal/model"
)

// RequiredHeaders must all appear in an uploaded CSV.
var RequiredHeaders = []string{"date", "description", "amount", "type"}

var csvHeaders = []string{"date", "description", "amount", "type", "category", "source", "isDeductible", "deductionType"}

const (
	defaultCategory = "Uncategorized"
	defaultSource   = "Manual Entry"
	maxRowErrors    = 20
)

// CSVTemplate returns a sample file users can fill in.
func CSVTemplate() string {
	return "date,description,amount,type,category,source,isDeductible,deductionType\n" +
		"2026-01-15,Salary Payment,500000,income,Salary,Employer,false,\n" +
		"2026-01-16,Grocery Shopping,25000,expense,Food,Supermarket,false,\n" +
		"2026-01-17,House Rent,1200000,expense,Housing,Landlord,false,\n" +
		"2026-01-18,PenCom Contribution,40000,expense,Pension,PFA,true,PENSION\n"
}

// ParseCSV reads transactions from a CSV with a header row. Header names are
// matched case-insensitively; date, description, amount and type are
// required. Amounts are stored as absolute values. Every bad row is
// reported, and no transactions are returned unless all rows are valid.
func ParseCSV(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &IngestError{Code: ErrNoTransactionsFound, Message: "empty CSV file"}
	}
	if err != nil {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "read CSV header", Cause: err}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missingCols []string
	for _, h := range RequiredHeaders {
		if _, ok := cols[h]; !ok {
			missingCols = append(missingCols, h)
		}
	}
	if len(missingCols) > 0 {
		return nil, &IngestError{
			Code:    ErrInvalidDocument,
			Message: "missing required CSV columns",
			Details: missingCols,
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		txs     []model.Transaction
		details []string
		rowNum  = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, &IngestError{Code: ErrInvalidDocument, Message: fmt.Sprintf("read CSV row %d", rowNum), Cause: err}
		}
		if isBlank(record) {
			continue
		}

		tx, err := parseRow(field, record)
		if err != nil {
			if len(details) < maxRowErrors {
				details = append(details, fmt.Sprintf("row %d: %v", rowNum, err))
			}
			continue
		}
		txs = append(txs, tx)
	}

	if len(details) > 0 {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "invalid CSV rows", Details: details}
	}
	if len(txs) == 0 {
		return nil, &IngestError{Code: ErrNoTransactionsFound, Message: "CSV has no transactions"}
	}
	return txs, nil
}

func parseRow(field func([]string, string) string, record []string) (model.Transaction, error) {
	description := field(record, "description")
	if description == "" {
		return model.Transaction{}, fmt.Errorf("description is required")
	}

	date, err := ParseDate(field(record, "date"))
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := model.ParseNaira(field(record, "amount"))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q", field(record, "amount"))
	}

	txType, ok := model.ParseTransactionType(field(record, "type"))
	if !ok {
		return model.Transaction{}, fmt.Errorf("type must be income or expense, got %q", field(record, "type"))
	}

	tx := model.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount.Abs(),
		Type:        txType,
		Category:    field(record, "category"),
		Source:      field(record, "source"),
	}
	if tx.Category == "" {
		tx.Category = defaultCategory
		if cp := NormalizeCounterparty(description); cp.Category != "Other" {
			tx.Category = cp.Category
		}
	}
	if tx.Source == "" {
		tx.Source = defaultSource
	}

	switch strings.ToLower(field(record, "isDeductible")) {
	case "true", "yes", "y", "1":
		tx.IsDeductible = true
	}

	if raw := field(record, "deductionType"); raw != "" {
		dt, ok := model.ParseDeductionType(raw)
		if !ok {
			return model.Transaction{}, fmt.Errorf("unknown deduction type %q", raw)
		}
		tx.DeductionType = dt
	}
	return tx, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes transactions in the upload template layout.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Amount.String(),
			string(tx.Type),
			tx.Category,
			tx.Source,
			fmt.Sprintf("%t", tx.IsDeductible),
			string(tx.DeductionType),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
