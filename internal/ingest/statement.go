package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/model"
)

const (
	SourcePDFUpload        = "pdf_upload"
	SourceMultimodalUpload = "multimodal_upload"

	statementCategory = "Bank Transaction"
	statementSource   = "Bank Statement"
	// statement text beyond this is truncated before prompting
	maxPromptText = 60 * 1024
)

// StatementRow is one transaction as read off a bank statement.
type StatementRow struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        string           `json:"type"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// AccountInfo is the account header of a statement.
type AccountInfo struct {
	AccountNumber   string `json:"accountNumber,omitempty"`
	AccountName     string `json:"accountName,omitempty"`
	BankName        string `json:"bankName,omitempty"`
	StatementPeriod string `json:"statementPeriod,omitempty"`
}

// StatementTotals is the summary block of a statement.
type StatementTotals struct {
	TotalDebits    decimal.Decimal `json:"totalDebits"`
	TotalCredits   decimal.Decimal `json:"totalCredits"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// BankStatement is a parsed statement.
type BankStatement struct {
	Transactions []StatementRow   `json:"transactions"`
	AccountInfo  *AccountInfo     `json:"accountInfo,omitempty"`
	Summary      *StatementTotals `json:"summary,omitempty"`
}

// StatementParser turns statement text into rows using a language model.
type StatementParser struct {
	model classifier.Model
	retry classifier.RetryConfig
}

// NewStatementParser creates a parser over m.
func NewStatementParser(m classifier.Model, retry classifier.RetryConfig) *StatementParser {
	return &StatementParser{model: m, retry: retry}
}

func statementPrompt(text string) string {
	return `You are a financial data extraction expert. Parse this Nigerian bank statement text and extract transaction data.

Instructions:
1. Find the transaction table and its Date, Description/Narration, Debit, Credit and Balance columns.
2. Debit is money out ("expense"), Credit is money in ("income").
3. Extract ALL transactions. Skip the opening and closing balance lines.
4. Handle Access Bank, GTBank, First Bank, Zenith, UBA and other layouts.
5. Amounts are plain numbers without currency symbols or thousands separators.

Return ONLY this JSON:
{
  "transactions": [
    {"date": "YYYY-MM-DD", "description": string, "amount": number, "type": "income" | "expense", "balance": number, "reference": string}
  ],
  "accountInfo": {"accountNumber": string, "accountName": string, "bankName": string, "statementPeriod": string},
  "summary": {"totalDebits": number, "totalCredits": number, "openingBalance": number, "closingBalance": number}
}

Bank Statement Text:
` + text
}

// Parse sends statement text to the model and strictly decodes the reply.
// Rows without a description, with a zero amount or an unreadable date are
// dropped.
func (p *StatementParser) Parse(ctx context.Context, text string) (*BankStatement, error) {
	if p.model == nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "statement parser is not configured"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "statement has no text"}
	}
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}

	raw, err := classifier.WithRetry(ctx, p.retry, func(ctx context.Context) (string, error) {
		return p.model.Generate(ctx, statementPrompt(text))
	})
	if err != nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "statement model call failed", Cause: err}
	}

	var stmt BankStatement
	if err := classifier.DecodeStrict(raw, &stmt); err != nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "statement model returned invalid JSON", Cause: err}
	}

	kept := stmt.Transactions[:0]
	for _, row := range stmt.Transactions {
		row.Description = strings.TrimSpace(row.Description)
		row.Reference = strings.TrimSpace(row.Reference)
		row.Amount = row.Amount.Abs()
		if row.Description == "" || row.Amount.IsZero() {
			continue
		}
		if _, err := ParseDate(row.Date); err != nil {
			continue
		}
		if !strings.EqualFold(row.Type, string(model.TransactionTypeIncome)) {
			row.Type = string(model.TransactionTypeExpense)
		} else {
			row.Type = string(model.TransactionTypeIncome)
		}
		kept = append(kept, row)
	}
	if dropped := len(stmt.Transactions) - len(kept); dropped > 0 {
		log.Printf("[Ingest] dropped %d unusable statement row(s)", dropped)
	}
	stmt.Transactions = kept

	if len(stmt.Transactions) == 0 {
		return nil, &IngestError{Code: ErrNoTransactionsFound, Message: "no transactions found in statement"}
	}
	return &stmt, nil
}

// ToTransactions converts statement rows to transactions tagged with source.
func (s *BankStatement) ToTransactions(source string) []model.Transaction {
	txs := make([]model.Transaction, 0, len(s.Transactions))
	for _, row := range s.Transactions {
		date, err := ParseDate(row.Date)
		if err != nil {
			continue
		}
		category := statementCategory
		if cp := NormalizeCounterparty(row.Description); cp.Category != "Other" {
			category = cp.Category
		}
		txs = append(txs, model.Transaction{
			Date:        date,
			Description: row.Description,
			Amount:      model.KoboFromDecimal(row.Amount),
			Type:        model.TransactionType(row.Type),
			Category:    category,
			Source:      source,
		})
	}
	return txs
}

// ConvertToCSV renders statement rows in the CSV upload layout.
func ConvertToCSV(s *BankStatement) (string, error) {
	var buf bytes.Buffer
	txs := make([]model.Transaction, 0, len(s.Transactions))
	for _, row := range s.Transactions {
		date, err := ParseDate(row.Date)
		if err != nil {
			return "", fmt.Errorf("row %q: %w", row.Description, err)
		}
		txs = append(txs, model.Transaction{
			Date:        date,
			Description: row.Description,
			Amount:      model.KoboFromDecimal(row.Amount),
			Type:        model.TransactionType(row.Type),
			Category:    statementCategory,
			Source:      statementSource,
		})
	}
	if err := WriteCSV(&buf, txs); err != nil {
		return "", err
	}
	return buf.String(), nil
}
