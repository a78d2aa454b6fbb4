package ingest

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxTextBytes     = 100 * 1024 // cap for extracted text
	scannedThreshold = 50         // chars per page below which a PDF is treated as scanned
)

// PDFAnalysis is the result of reading the text layer of a PDF.
type PDFAnalysis struct {
	PageCount        int
	ExtractedText    string
	TextLines        []string
	EstimatedTxCount int
	IsScanned        bool
	Error            error
}

// datePattern matches statement dates: DD/MM/YYYY variants, YYYY-MM-DD,
// "15 Jan", "Jan 15" and "15-JAN-24".
var datePattern = regexp.MustCompile(
	`(?i)` +
		`(?:\d{1,2}[/\-\.]\d{1,2}[/\-\.]\d{2,4})` +
		`|(?:\d{4}[/\-]\d{2}[/\-]\d{2})` +
		`|(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2})` +
		`|(?:\d{1,2}[\s\-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?)`,
)

var amountPattern = regexp.MustCompile(
	`[₦N]?\-?\d{1,3}(?:,\d{3})*\.\d{2}` +
		`|\d+\.\d{2}`,
)

// AnalyzePDF extracts the text layer of a PDF. It recovers from panics in
// the PDF library and never fails; problems are reported in Error.
func AnalyzePDF(data []byte) (result *PDFAnalysis) {
	result = &PDFAnalysis{
		PageCount: 1,
		IsScanned: true,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[pdf-text] recovered from panic: %v", r)
			result.Error = fmt.Errorf("panic during PDF analysis: %v", r)
			result.IsScanned = true
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Error = fmt.Errorf("open PDF reader: %w", err)
		return result
	}

	result.PageCount = reader.NumPage()
	if result.PageCount < 1 {
		result.PageCount = 1
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		result.Error = fmt.Errorf("extract plain text: %w", err)
		return result
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, int64(maxTextBytes)))
	if err != nil {
		result.Error = fmt.Errorf("read plain text: %w", err)
		return result
	}

	result.ExtractedText = string(textBytes)
	result.IsScanned = isLikelyScanned(result.ExtractedText, result.PageCount)

	for _, line := range strings.Split(result.ExtractedText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result.TextLines = append(result.TextLines, trimmed)
		}
	}
	result.EstimatedTxCount = countTransactionLines(result.TextLines)

	return result
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// countTransactionLines counts lines holding both a date and an amount.
func countTransactionLines(lines []string) int {
	count := 0
	for _, line := range lines {
		if datePattern.MatchString(line) && amountPattern.MatchString(line) {
			count++
		}
	}
	return count
}

// isLikelyScanned reports whether the PDF has too little text per page to
// be anything but images.
func isLikelyScanned(text string, pages int) bool {
	if pages <= 0 {
		pages = 1
	}
	return len(text)/pages < scannedThreshold
}
