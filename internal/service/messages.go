package service

import (
	"time"

	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/taxengine"
)

// Request and response messages for naijatax.v1.TaxService. They travel as
// JSON; byte slices are base64 encoded.

type CalculateTaxRequest struct {
	UserID string `json:"userId,omitempty"`
	// Period is YYYY, YYYY-MM or YYYY-Qn. Empty means the current month.
	Period string `json:"period,omitempty"`
	// RentPolicy is "keyword" (default) or "classifier".
	RentPolicy string `json:"rentPolicy,omitempty"`
}

type CalculateTaxResponse struct {
	Summary *model.TaxSummary `json:"summary"`
}

type GetTaxSummaryRequest struct {
	SummaryID string `json:"summaryId,omitempty"`
	Period    string `json:"period,omitempty"`
}

type GetTaxSummaryResponse struct {
	Summary *model.TaxSummary `json:"summary"`
}

type ListTaxSummariesRequest struct {
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type ListTaxSummariesResponse struct {
	Summaries     []*model.TaxSummary `json:"summaries"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}

type GetBracketInfoRequest struct {
	// TaxableIncome, when set, is split across the bands.
	TaxableIncome model.Kobo `json:"taxableIncome,omitempty"`
}

type GetBracketInfoResponse struct {
	Brackets        []model.TaxBracket  `json:"brackets"`
	Breakdown       []model.BracketInfo `json:"breakdown,omitempty"`
	EstimatedTax    model.Kobo          `json:"estimatedTax"`
	MarginalRateBps int64               `json:"marginalRateBps"`
	RentReliefCap   model.Kobo          `json:"rentReliefCap"`
}

type GetDashboardRequest struct {
	Period string `json:"period,omitempty"`
}

type GetDashboardResponse struct {
	Period    string                 `json:"period"`
	Dashboard model.DashboardSummary `json:"dashboard"`
}

type ListTransactionsRequest struct {
	Period    string     `json:"period,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	PageSize  int32      `json:"pageSize,omitempty"`
	PageToken string     `json:"pageToken,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions  []*model.Transaction `json:"transactions"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

type CreateTransactionsRequest struct {
	Transactions []model.Transaction `json:"transactions"`
	// Verify runs the classifier before storing.
	Verify bool `json:"verify,omitempty"`
}

type CreateTransactionsResponse struct {
	Transactions []*model.Transaction `json:"transactions"`
}

type UploadStatementCSVRequest struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
	Verify   bool   `json:"verify,omitempty"`
}

type UploadStatementCSVResponse struct {
	Upload       *model.Upload        `json:"upload"`
	Transactions []*model.Transaction `json:"transactions"`
}

type ProcessStatementPDFRequest struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
	// Import stores the extracted transactions; otherwise only the CSV
	// preview is returned.
	Import bool `json:"import,omitempty"`
}

type ProcessStatementPDFResponse struct {
	CSV          string                  `json:"csv"`
	Method       string                  `json:"method"`
	Pages        int                     `json:"pages"`
	AccountInfo  *ingest.AccountInfo     `json:"accountInfo,omitempty"`
	Totals       *ingest.StatementTotals `json:"totals,omitempty"`
	Transactions []*model.Transaction    `json:"transactions"`
	Upload       *model.Upload           `json:"upload,omitempty"`
}

type AnalyzeDocumentRequest struct {
	Content  []byte `json:"content"`
	MimeType string `json:"mimeType"`
	Note     string `json:"note,omitempty"`
	Import   bool   `json:"import,omitempty"`
}

type AnalyzeDocumentResponse struct {
	Transactions []*model.Transaction `json:"transactions"`
	Imported     bool                 `json:"imported"`
}

type VerifyTransactionsRequest struct {
	TransactionIDs []string `json:"transactionIds,omitempty"`
	// Period selects the transactions when no IDs are given.
	Period string `json:"period,omitempty"`
}

type ClassifierStatus struct {
	Model      string                  `json:"model,omitempty"`
	State      classifier.BreakerState `json:"state"`
	CallsToday int                     `json:"callsToday"`
}

type VerifyTransactionsResponse struct {
	Transactions []*model.Transaction `json:"transactions"`
	Classifier   ClassifierStatus     `json:"classifier"`
}

type CategorizeTransactionRequest struct {
	Description string     `json:"description"`
	Amount      model.Kobo `json:"amount,omitempty"`
}

type CategorizeTransactionResponse struct {
	Categorization classifier.Categorization `json:"categorization"`
}

type UpdateDocumentationStatusRequest struct {
	TransactionID string                       `json:"transactionId"`
	Patch         taxengine.DocumentationPatch `json:"patch"`
}

type UpdateDocumentationStatusResponse struct {
	Transaction      *model.Transaction `json:"transaction"`
	HasValidDocument bool               `json:"hasValidDocument"`
}

type CreateTaxAdjustmentRequest struct {
	SummaryID           string              `json:"summaryId"`
	Transactions        []model.Transaction `json:"transactions,omitempty"`
	SupportingDocuments []string            `json:"supportingDocuments,omitempty"`
}

type CreateTaxAdjustmentResponse struct {
	Adjustment *model.TaxAdjustment      `json:"adjustment"`
	Delta      taxengine.AdjustmentDelta `json:"delta"`
}

type ResolveTaxAdjustmentRequest struct {
	AdjustmentID string                 `json:"adjustmentId"`
	Status       model.AdjustmentStatus `json:"status"`
	Note         string                 `json:"note,omitempty"`
}

type ResolveTaxAdjustmentResponse struct {
	Adjustment *model.TaxAdjustment `json:"adjustment"`
}

type ListTaxAdjustmentsRequest struct {
	SummaryID string `json:"summaryId,omitempty"`
}

type ListTaxAdjustmentsResponse struct {
	Adjustments []*model.TaxAdjustment `json:"adjustments"`
}

type GetDeductionRecommendationsRequest struct {
	Period string `json:"period,omitempty"`
}

type GetDeductionRecommendationsResponse struct {
	Period          string                    `json:"period"`
	Recommendations taxengine.Recommendations `json:"recommendations"`
}

type ExportTaxSummaryRequest struct {
	SummaryID string `json:"summaryId,omitempty"`
	Period    string `json:"period,omitempty"`
	// Format is "csv" (default) or "json".
	Format string `json:"format,omitempty"`
}

type ExportTaxSummaryResponse struct {
	Data        []byte `json:"data"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}
