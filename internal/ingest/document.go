package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/model"
)

const documentCategory = "AI Extracted"

// SupportedDocumentTypes lists the MIME types the document analyzer accepts.
var SupportedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"text/plain":      true,
	"text/csv":        true,
}

const documentPrompt = `You are an expert financial analyst specialising in Nigerian tax law and bank statement analysis. Extract every transaction from the attached document, which may be a bank statement, a receipt or a screenshot.

Rules:
1. Return a single JSON array and nothing else.
2. Each element has exactly the keys "date", "description", "amount", "type".
3. "type" is "income" for credits, deposits and salary, "expense" for debits, payments and purchases.
4. "date" is YYYY-MM-DD where possible.
5. "amount" is a positive number without currency symbols.
6. Recognise Nigerian patterns: salary, transfers, ATM withdrawals, POS purchases, bank charges, rent, utilities, subscriptions.`

type documentRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// DocumentAnalyzer extracts transactions from PDFs and images with a
// multimodal model.
type DocumentAnalyzer struct {
	model classifier.DocumentModel
	retry classifier.RetryConfig
	now   func() time.Time
}

// NewDocumentAnalyzer creates an analyzer over m.
func NewDocumentAnalyzer(m classifier.DocumentModel, retry classifier.RetryConfig) *DocumentAnalyzer {
	return &DocumentAnalyzer{model: m, retry: retry, now: time.Now}
}

// Analyze extracts transactions from data. An optional note from the user
// is appended to the prompt. Rows with an unreadable date are dated now.
func (a *DocumentAnalyzer) Analyze(ctx context.Context, data []byte, mimeType, note string) ([]model.Transaction, error) {
	if a == nil || a.model == nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "document analyzer is not configured"}
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	if !SupportedDocumentTypes[mimeType] {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: fmt.Sprintf("unsupported content type %q", mimeType)}
	}
	if len(data) == 0 {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "document is empty"}
	}

	prompt := documentPrompt
	if note = strings.TrimSpace(note); note != "" {
		prompt += "\n\nAdditional context from the user:\n" + note
	}

	raw, err := classifier.WithRetry(ctx, a.retry, func(ctx context.Context) (string, error) {
		return a.model.GenerateFromDocument(ctx, prompt, data, mimeType)
	})
	if err != nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "document model call failed", Cause: err}
	}

	var rows []documentRow
	if err := classifier.DecodeStrict(raw, &rows); err != nil {
		return nil, &IngestError{Code: ErrLLMFailed, Message: "document model returned invalid JSON", Cause: err}
	}

	now := a.now().UTC()
	var txs []model.Transaction
	for _, row := range rows {
		desc := strings.TrimSpace(row.Description)
		if desc == "" {
			desc = "Unknown transaction"
		}
		date, err := ParseDate(row.Date)
		if err != nil {
			date = now
		}
		txType := model.TransactionTypeExpense
		if strings.EqualFold(row.Type, string(model.TransactionTypeIncome)) {
			txType = model.TransactionTypeIncome
		}
		txs = append(txs, model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      model.KoboFromDecimal(row.Amount.Abs()),
			Type:        txType,
			Category:    documentCategory,
			Source:      SourceMultimodalUpload,
		})
	}
	if len(txs) == 0 {
		return nil, &IngestError{Code: ErrNoTransactionsFound, Message: "no transactions found in document"}
	}
	return txs, nil
}
