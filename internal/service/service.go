// Package service exposes the tax engine and its collaborators as the
// naijatax.v1.TaxService Connect API.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/blob"
	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/store"
	"github.com/naijatax/backend/internal/taxengine"
)

// TaxServiceName is the fully-qualified name of the service.
const TaxServiceName = "naijatax.v1.TaxService"

// Procedure paths.
const (
	CalculateTaxProcedure                = "/naijatax.v1.TaxService/CalculateTax"
	GetTaxSummaryProcedure               = "/naijatax.v1.TaxService/GetTaxSummary"
	ListTaxSummariesProcedure            = "/naijatax.v1.TaxService/ListTaxSummaries"
	GetBracketInfoProcedure              = "/naijatax.v1.TaxService/GetBracketInfo"
	GetDashboardProcedure                = "/naijatax.v1.TaxService/GetDashboard"
	ListTransactionsProcedure            = "/naijatax.v1.TaxService/ListTransactions"
	CreateTransactionsProcedure          = "/naijatax.v1.TaxService/CreateTransactions"
	UploadStatementCSVProcedure          = "/naijatax.v1.TaxService/UploadStatementCSV"
	ProcessStatementPDFProcedure         = "/naijatax.v1.TaxService/ProcessStatementPDF"
	AnalyzeDocumentProcedure             = "/naijatax.v1.TaxService/AnalyzeDocument"
	VerifyTransactionsProcedure          = "/naijatax.v1.TaxService/VerifyTransactions"
	CategorizeTransactionProcedure       = "/naijatax.v1.TaxService/CategorizeTransaction"
	UpdateDocumentationStatusProcedure   = "/naijatax.v1.TaxService/UpdateDocumentationStatus"
	CreateTaxAdjustmentProcedure         = "/naijatax.v1.TaxService/CreateTaxAdjustment"
	ResolveTaxAdjustmentProcedure        = "/naijatax.v1.TaxService/ResolveTaxAdjustment"
	ListTaxAdjustmentsProcedure          = "/naijatax.v1.TaxService/ListTaxAdjustments"
	GetDeductionRecommendationsProcedure = "/naijatax.v1.TaxService/GetDeductionRecommendations"
	ExportTaxSummaryProcedure            = "/naijatax.v1.TaxService/ExportTaxSummary"
)

// listPageSize is the page size used when a handler needs every
// transaction in a period.
const listPageSize = 500

type TaxService struct {
	store     store.Store
	blobs     blob.Store
	verifier  *classifier.Verifier
	processor *ingest.Processor
	analyzer  *ingest.DocumentAnalyzer
	now       func() time.Time
}

// NewTaxService creates the service. A nil verifier classifies with the
// keyword fallback only.
func NewTaxService(store store.Store, verifier *classifier.Verifier) *TaxService {
	if verifier == nil {
		verifier = classifier.NewVerifier(nil, nil, classifier.DefaultConfig)
	}
	return &TaxService{
		store:     store,
		blobs:     blob.NewMemoryStore(),
		verifier:  verifier,
		processor: ingest.NewProcessor(nil, nil, 0),
		now:       time.Now,
	}
}

// SetBlobStore sets where uploaded statement files are kept.
func (s *TaxService) SetBlobStore(b blob.Store) { s.blobs = b }

// SetStatementProcessor sets the PDF statement pipeline.
func (s *TaxService) SetStatementProcessor(p *ingest.Processor) { s.processor = p }

// SetDocumentAnalyzer sets the multimodal analyzer used by AnalyzeDocument.
func (s *TaxService) SetDocumentAnalyzer(a *ingest.DocumentAnalyzer) { s.analyzer = a }

// SetClock replaces the service clock.
func (s *TaxService) SetClock(now func() time.Time) { s.now = now }

// jsonCodec carries the plain Go messages as JSON on the wire.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewTaxServiceHandler builds an HTTP handler serving every TaxService
// procedure. It returns the path to mount the handler on.
func NewTaxServiceHandler(svc *TaxService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CalculateTaxProcedure, connect.NewUnaryHandler(CalculateTaxProcedure, svc.CalculateTax, opts...))
	mux.Handle(GetTaxSummaryProcedure, connect.NewUnaryHandler(GetTaxSummaryProcedure, svc.GetTaxSummary, opts...))
	mux.Handle(ListTaxSummariesProcedure, connect.NewUnaryHandler(ListTaxSummariesProcedure, svc.ListTaxSummaries, opts...))
	mux.Handle(GetBracketInfoProcedure, connect.NewUnaryHandler(GetBracketInfoProcedure, svc.GetBracketInfo, opts...))
	mux.Handle(GetDashboardProcedure, connect.NewUnaryHandler(GetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(ListTransactionsProcedure, connect.NewUnaryHandler(ListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(CreateTransactionsProcedure, connect.NewUnaryHandler(CreateTransactionsProcedure, svc.CreateTransactions, opts...))
	mux.Handle(UploadStatementCSVProcedure, connect.NewUnaryHandler(UploadStatementCSVProcedure, svc.UploadStatementCSV, opts...))
	mux.Handle(ProcessStatementPDFProcedure, connect.NewUnaryHandler(ProcessStatementPDFProcedure, svc.ProcessStatementPDF, opts...))
	mux.Handle(AnalyzeDocumentProcedure, connect.NewUnaryHandler(AnalyzeDocumentProcedure, svc.AnalyzeDocument, opts...))
	mux.Handle(VerifyTransactionsProcedure, connect.NewUnaryHandler(VerifyTransactionsProcedure, svc.VerifyTransactions, opts...))
	mux.Handle(CategorizeTransactionProcedure, connect.NewUnaryHandler(CategorizeTransactionProcedure, svc.CategorizeTransaction, opts...))
	mux.Handle(UpdateDocumentationStatusProcedure, connect.NewUnaryHandler(UpdateDocumentationStatusProcedure, svc.UpdateDocumentationStatus, opts...))
	mux.Handle(CreateTaxAdjustmentProcedure, connect.NewUnaryHandler(CreateTaxAdjustmentProcedure, svc.CreateTaxAdjustment, opts...))
	mux.Handle(ResolveTaxAdjustmentProcedure, connect.NewUnaryHandler(ResolveTaxAdjustmentProcedure, svc.ResolveTaxAdjustment, opts...))
	mux.Handle(ListTaxAdjustmentsProcedure, connect.NewUnaryHandler(ListTaxAdjustmentsProcedure, svc.ListTaxAdjustments, opts...))
	mux.Handle(GetDeductionRecommendationsProcedure, connect.NewUnaryHandler(GetDeductionRecommendationsProcedure, svc.GetDeductionRecommendations, opts...))
	mux.Handle(ExportTaxSummaryProcedure, connect.NewUnaryHandler(ExportTaxSummaryProcedure, svc.ExportTaxSummary, opts...))

	return "/" + TaxServiceName + "/", mux
}

// resolvePeriod defaults an empty period to the current month and returns
// its date range.
func (s *TaxService) resolvePeriod(period string) (string, time.Time, time.Time, error) {
	if period == "" {
		period = taxengine.CurrentPeriod(s.now().UTC())
	}
	start, end, err := taxengine.ParsePeriod(period)
	if err != nil {
		return "", start, end, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return period, start, end, nil
}

// loadTransactions fetches every transaction a user has in [start, end].
func (s *TaxService) loadTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	var all []model.Transaction
	var pageToken string
	for {
		page, next, err := s.store.ListTransactions(ctx, userID, &start, &end, listPageSize, pageToken)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("list transactions: %w", err))
		}
		for _, tx := range page {
			all = append(all, *tx)
		}
		if next == "" {
			return all, nil
		}
		pageToken = next
	}
}

func pointers(txs []model.Transaction) []*model.Transaction {
	out := make([]*model.Transaction, len(txs))
	for i := range txs {
		out[i] = &txs[i]
	}
	return out
}
