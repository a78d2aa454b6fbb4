package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/blob"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/model"
)

// beginUpload keeps the raw file and records an upload in processing state.
func (s *TaxService) beginUpload(ctx context.Context, userID, fileName, contentType string, content []byte) (*model.Upload, error) {
	now := s.now().UTC()
	objectPath := blob.UploadPath(userID, fileName, now)
	if err := s.blobs.Put(ctx, objectPath, contentType, content); err != nil {
		return nil, toConnectError("store upload", err)
	}

	upload := &model.Upload{
		UserID:      userID,
		FileName:    fileName,
		ObjectPath:  objectPath,
		ContentType: contentType,
		Status:      model.UploadProcessing,
		UploadedAt:  now,
	}
	if err := s.store.CreateUpload(ctx, upload); err != nil {
		return nil, toConnectError("create upload", err)
	}
	return upload, nil
}

// finishUpload records the outcome of an upload. A failure to record is
// logged; the caller's result stands.
func (s *TaxService) finishUpload(ctx context.Context, upload *model.Upload, count int, cause error) {
	status, msg := model.UploadCompleted, ""
	if cause != nil {
		status, msg = model.UploadFailed, cause.Error()
	}
	if err := s.store.UpdateUploadStatus(ctx, upload.ID, status, count, msg); err != nil {
		log.Printf("[TaxService] failed to update upload %s: %v", upload.ID, err)
	}
	now := s.now().UTC()
	upload.Status = status
	upload.TransactionCount = count
	upload.Error = msg
	upload.CompletedAt = &now
}

// importTransactions stamps ownership on txs and stores them against an
// upload.
func (s *TaxService) importTransactions(ctx context.Context, upload *model.Upload, txs []model.Transaction, verify bool) ([]*model.Transaction, error) {
	now := s.now().UTC()
	for i := range txs {
		txs[i].UserID = upload.UserID
		txs[i].CreatedAt = now
	}
	stored, err := s.storeTransactions(ctx, txs, verify)
	s.finishUpload(ctx, upload, len(stored), err)
	if err != nil {
		return nil, err
	}
	log.Printf("[TaxService] upload %s imported %d transaction(s)", upload.ID, len(stored))
	return stored, nil
}

// UploadStatementCSV imports a CSV statement. Any bad row rejects the file.
func (s *TaxService) UploadStatementCSV(ctx context.Context, req *connect.Request[UploadStatementCSVRequest]) (*connect.Response[UploadStatementCSVResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Content) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("file content is required"))
	}
	if err := s.processor.CheckSize(len(req.Msg.Content)); err != nil {
		return nil, toConnectError("upload csv", err)
	}

	upload, err := s.beginUpload(ctx, claims.UID, req.Msg.FileName, "text/csv", req.Msg.Content)
	if err != nil {
		return nil, err
	}

	txs, err := ingest.ParseCSV(bytes.NewReader(req.Msg.Content))
	if err != nil {
		s.finishUpload(ctx, upload, 0, err)
		return nil, toConnectError("parse csv", err)
	}

	stored, err := s.importTransactions(ctx, upload, txs, req.Msg.Verify)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&UploadStatementCSVResponse{
		Upload:       upload,
		Transactions: stored,
	}), nil
}

// ProcessStatementPDF extracts transactions from a PDF statement and
// returns them as CSV, importing them when asked.
func (s *TaxService) ProcessStatementPDF(ctx context.Context, req *connect.Request[ProcessStatementPDFRequest]) (*connect.Response[ProcessStatementPDFResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Content) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("file content is required"))
	}

	result, err := s.processor.ProcessPDF(ctx, req.Msg.Content)
	if err != nil {
		return nil, toConnectError("process pdf", err)
	}

	source := ingest.SourcePDFUpload
	if result.Method == "multimodal" {
		source = ingest.SourceMultimodalUpload
	}
	txs := result.Statement.ToTransactions(source)

	resp := &ProcessStatementPDFResponse{
		CSV:         result.CSV,
		Method:      result.Method,
		Pages:       result.Pages,
		AccountInfo: result.Statement.AccountInfo,
		Totals:      result.Statement.Summary,
	}

	if !req.Msg.Import {
		for i := range txs {
			txs[i].UserID = claims.UID
		}
		resp.Transactions = pointers(txs)
		return connect.NewResponse(resp), nil
	}

	upload, err := s.beginUpload(ctx, claims.UID, req.Msg.FileName, "application/pdf", req.Msg.Content)
	if err != nil {
		return nil, err
	}
	stored, err := s.importTransactions(ctx, upload, txs, false)
	if err != nil {
		return nil, err
	}
	resp.Transactions = stored
	resp.Upload = upload
	return connect.NewResponse(resp), nil
}

// AnalyzeDocument extracts transactions from a receipt, screenshot or
// scanned statement with the multimodal model.
func (s *TaxService) AnalyzeDocument(ctx context.Context, req *connect.Request[AnalyzeDocumentRequest]) (*connect.Response[AnalyzeDocumentResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("document analysis is not configured"))
	}
	if err := s.processor.CheckSize(len(req.Msg.Content)); err != nil {
		return nil, toConnectError("analyze document", err)
	}

	txs, err := s.analyzer.Analyze(ctx, req.Msg.Content, req.Msg.MimeType, req.Msg.Note)
	if err != nil {
		return nil, toConnectError("analyze document", err)
	}
	now := s.now().UTC()
	for i := range txs {
		txs[i].UserID = claims.UID
		txs[i].CreatedAt = now
	}

	if !req.Msg.Import {
		return connect.NewResponse(&AnalyzeDocumentResponse{Transactions: pointers(txs)}), nil
	}
	stored, err := s.storeTransactions(ctx, txs, false)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&AnalyzeDocumentResponse{Transactions: stored, Imported: true}), nil
}
