// Package ingest turns uploaded bank statements (CSV, PDF and images) into
// transactions.
package ingest

import (
	"context"
	"fmt"
	"log"
)

// DefaultMaxPDFBytes is the largest statement accepted.
const DefaultMaxPDFBytes = 10 << 20

// StatementResult is the outcome of processing a PDF statement.
type StatementResult struct {
	Statement *BankStatement
	CSV       string
	Method    string // "text" or "multimodal"
	Pages     int
}

// Processor routes a PDF to text parsing or, for scanned statements, to the
// multimodal analyzer.
type Processor struct {
	parser   *StatementParser
	analyzer *DocumentAnalyzer
	maxBytes int
}

// NewProcessor creates a Processor. Either parser or analyzer may be nil.
func NewProcessor(parser *StatementParser, analyzer *DocumentAnalyzer, maxBytes int) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPDFBytes
	}
	return &Processor{parser: parser, analyzer: analyzer, maxBytes: maxBytes}
}

// MaxBytes returns the upload size limit.
func (p *Processor) MaxBytes() int { return p.maxBytes }

// CheckSize rejects documents over the size limit.
func (p *Processor) CheckSize(n int) error {
	if n > p.maxBytes {
		return &IngestError{
			Code:    ErrFileTooLarge,
			Message: fmt.Sprintf("file is %d bytes, limit is %d", n, p.maxBytes),
		}
	}
	return nil
}

// ProcessPDF extracts transactions from a PDF bank statement.
func (p *Processor) ProcessPDF(ctx context.Context, data []byte) (*StatementResult, error) {
	if err := p.CheckSize(len(data)); err != nil {
		return nil, err
	}
	if !IsPDF(data) {
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "file is not a PDF"}
	}

	analysis := AnalyzePDF(data)
	if analysis.Error != nil {
		log.Printf("[Ingest] PDF text extraction failed: %v", analysis.Error)
	}
	log.Printf("[Ingest] PDF pages=%d scanned=%v estimated_rows=%d", analysis.PageCount, analysis.IsScanned, analysis.EstimatedTxCount)

	useText := !analysis.IsScanned && p.parser != nil
	if !useText && p.analyzer == nil {
		if p.parser == nil {
			return nil, &IngestError{Code: ErrLLMFailed, Message: "no statement model configured"}
		}
		return nil, &IngestError{Code: ErrInvalidDocument, Message: "PDF has no readable text layer", Cause: analysis.Error}
	}

	result := &StatementResult{Pages: analysis.PageCount}
	if useText {
		stmt, err := p.parser.Parse(ctx, analysis.ExtractedText)
		if err != nil {
			return nil, err
		}
		result.Statement = stmt
		result.Method = "text"
	} else {
		txs, err := p.analyzer.Analyze(ctx, data, "application/pdf", "")
		if err != nil {
			return nil, err
		}
		stmt := &BankStatement{}
		for _, tx := range txs {
			stmt.Transactions = append(stmt.Transactions, StatementRow{
				Date:        tx.Date.Format("2006-01-02"),
				Description: tx.Description,
				Amount:      tx.Amount.Decimal(),
				Type:        string(tx.Type),
			})
		}
		result.Statement = stmt
		result.Method = "multimodal"
	}

	csvData, err := ConvertToCSV(result.Statement)
	if err != nil {
		return nil, fmt.Errorf("convert statement to CSV: %w", err)
	}
	result.CSV = csvData
	return result, nil
}
