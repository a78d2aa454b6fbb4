package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	reply      string
	err        error
	lastPrompt string
	lastMIME   string
}

func (m *fakeModel) Name() string { return "fake" }

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.reply, m.err
}

func (m *fakeModel) GenerateFromDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	m.lastPrompt = prompt
	m.lastMIME = mimeType
	return m.reply, m.err
}

const accessStatementReply = "```json\n" + `{
  "transactions": [
    {"date": "2026-01-02", "description": "SALARY CREDIT", "amount": 250000, "type": "income", "balance": 750000},
    {"date": "2026-01-03", "description": "ATM WITHDRAWAL", "amount": "5000.00", "type": "expense", "balance": 745000, "reference": "ATM/123"},
    {"date": "2026-01-10", "description": "RENT PAYMENT", "amount": -200000, "type": "EXPENSE"},
    {"date": "2026-01-11", "description": "", "amount": 100, "type": "expense"},
    {"date": "someday", "description": "BANK CHARGES", "amount": 100, "type": "expense"},
    {"date": "2026-01-12", "description": "ZERO", "amount": 0, "type": "expense"}
  ],
  "accountInfo": {"accountNumber": "1234567890", "accountName": "JOHN DOE", "bankName": "Access Bank", "statementPeriod": "January 2026"},
  "summary": {"totalDebits": 205000, "totalCredits": 250000, "openingBalance": 500000, "closingBalance": 545000}
}` + "\n```"

func TestStatementParser_Parse(t *testing.T) {
	m := &fakeModel{reply: accessStatementReply}
	p := NewStatementParser(m, classifier.RetryConfig{})

	stmt, err := p.Parse(context.Background(), "ACCESS BANK PLC\n02/01/2026 SALARY CREDIT 250,000.00")
	require.NoError(t, err)
	assert.Contains(t, m.lastPrompt, "ACCESS BANK PLC")

	require.Len(t, stmt.Transactions, 3)
	assert.Equal(t, "income", stmt.Transactions[0].Type)
	assert.Equal(t, "ATM/123", stmt.Transactions[1].Reference)
	assert.True(t, stmt.Transactions[2].Amount.IsPositive())
	assert.Equal(t, "expense", stmt.Transactions[2].Type)
	require.NotNil(t, stmt.AccountInfo)
	assert.Equal(t, "Access Bank", stmt.AccountInfo.BankName)

	txs := stmt.ToTransactions(SourcePDFUpload)
	require.Len(t, txs, 3)
	assert.Equal(t, model.Naira(250_000), txs[0].Amount)
	assert.Equal(t, model.Naira(5_000), txs[1].Amount)
	assert.Equal(t, "Salary", txs[0].Category)
	assert.Equal(t, "Housing", txs[2].Category)
	assert.Equal(t, SourcePDFUpload, txs[2].Source)
	assert.True(t, txs[2].Date.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))

	csvData, err := ConvertToCSV(stmt)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csvData), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2026-01-10,RENT PAYMENT,200000.00,expense,Bank Transaction,Bank Statement,false,", lines[3])
}

func TestStatementParser_RejectsUnknownFields(t *testing.T) {
	m := &fakeModel{reply: `{"transactions": [{"date": "2026-01-02", "description": "x", "amount": 1, "type": "income", "merchant": "y"}]}`}
	_, err := NewStatementParser(m, classifier.RetryConfig{}).Parse(context.Background(), "text")
	assert.Equal(t, ErrLLMFailed, CodeOf(err))
	assert.True(t, classifier.IsSchemaError(err))
}

func TestStatementParser_Errors(t *testing.T) {
	_, err := NewStatementParser(&fakeModel{}, classifier.RetryConfig{}).Parse(context.Background(), "   ")
	assert.Equal(t, ErrInvalidDocument, CodeOf(err))

	_, err = NewStatementParser(&fakeModel{err: errors.New("groq down")}, classifier.RetryConfig{}).Parse(context.Background(), "text")
	assert.Equal(t, ErrLLMFailed, CodeOf(err))

	_, err = NewStatementParser(&fakeModel{reply: `{"transactions": []}`}, classifier.RetryConfig{}).Parse(context.Background(), "text")
	assert.Equal(t, ErrNoTransactionsFound, CodeOf(err))

	_, err = NewStatementParser(nil, classifier.RetryConfig{}).Parse(context.Background(), "text")
	assert.Equal(t, ErrLLMFailed, CodeOf(err))
}

func TestDocumentAnalyzer_Analyze(t *testing.T) {
	m := &fakeModel{reply: `[
		{"date": "2026-02-01", "description": "SALARY CREDIT", "amount": 150000, "type": "income"},
		{"date": "", "description": "POS PURCHASE", "amount": 5000, "type": "expense"}
	]`}
	a := NewDocumentAnalyzer(m, classifier.RetryConfig{})
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	txs, err := a.Analyze(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png; charset=binary", "March receipts")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "image/png", m.lastMIME)
	assert.Contains(t, m.lastPrompt, "March receipts")

	assert.Equal(t, model.TransactionTypeIncome, txs[0].Type)
	assert.Equal(t, "AI Extracted", txs[0].Category)
	assert.Equal(t, SourceMultimodalUpload, txs[0].Source)
	assert.True(t, txs[1].Date.Equal(now))
}

func TestDocumentAnalyzer_Rejects(t *testing.T) {
	a := NewDocumentAnalyzer(&fakeModel{reply: `{}`}, classifier.RetryConfig{})

	_, err := a.Analyze(context.Background(), []byte("x"), "application/zip", "")
	assert.Equal(t, ErrInvalidDocument, CodeOf(err))

	_, err = a.Analyze(context.Background(), []byte("x"), "image/png", "")
	assert.Equal(t, ErrLLMFailed, CodeOf(err), "an object where an array is expected is a schema failure")

	var nilAnalyzer *DocumentAnalyzer
	_, err = nilAnalyzer.Analyze(context.Background(), []byte("x"), "image/png", "")
	assert.Equal(t, ErrLLMFailed, CodeOf(err))
}

func TestProcessor_ProcessPDF(t *testing.T) {
	p := NewProcessor(nil, nil, 16)

	_, err := p.ProcessPDF(context.Background(), []byte(strings.Repeat("x", 17)))
	assert.Equal(t, ErrFileTooLarge, CodeOf(err))

	_, err = p.ProcessPDF(context.Background(), []byte("not a pdf"))
	assert.Equal(t, ErrInvalidDocument, CodeOf(err))

	// unreadable PDF falls through to the multimodal analyzer
	m := &fakeModel{reply: `[{"date": "2026-02-01", "description": "RENT", "amount": 100000, "type": "expense"}]`}
	p = NewProcessor(nil, NewDocumentAnalyzer(m, classifier.RetryConfig{}), 0)
	res, err := p.ProcessPDF(context.Background(), []byte("%PDF-1.4 broken"))
	require.NoError(t, err)
	assert.Equal(t, "multimodal", res.Method)
	assert.Equal(t, "application/pdf", m.lastMIME)
	require.Len(t, res.Statement.Transactions, 1)
	assert.Contains(t, res.CSV, "2026-02-01,RENT,100000.00,expense")
}
