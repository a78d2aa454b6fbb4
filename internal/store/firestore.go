package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/naijatax/backend/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	transactionsCollection = "transactions"
	uploadsCollection      = "uploads"
	summariesCollection    = "taxSummaries"
	adjustmentsCollection  = "taxAdjustments"

	// Firestore caps a write batch at 500 operations.
	maxBatchWrites = 500
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// getDoc loads a document into dst, translating a missing document into
// ErrNotFound.
func (s *FirestoreStore) getDoc(ctx context.Context, collection, id, kind string, dst interface{}) error {
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	if err := doc.DataTo(dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return nil
}

// applyOrderedPagination orders by field descending then document ID, and
// resumes after the cursor document when a page token is present.
// It fetches pageSize+1 docs so the caller can detect whether a next page exists.
func (s *FirestoreStore) applyOrderedPagination(ctx context.Context, query firestore.Query, collection, field string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(field, firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		query = query.StartAfter(cursorDoc.Data()[field], docID)
	}

	query = query.Limit(int(normalizePageSize(pageSize)) + 1)
	return query, nil
}

// pageDocs trims the extra probe document and returns the next page token.
func pageDocs(docs []*firestore.DocumentSnapshot, pageSize int32) ([]*firestore.DocumentSnapshot, string) {
	pageSize = normalizePageSize(pageSize)
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		return docs, EncodePageToken(docs[pageSize-1].Ref.ID)
	}
	return docs, ""
}

// CreateTransactions writes the transactions in batches.
func (s *FirestoreStore) CreateTransactions(ctx context.Context, txs []*model.Transaction) error {
	now := time.Now().UTC()
	for i := 0; i < len(txs); i += maxBatchWrites {
		end := i + maxBatchWrites
		if end > len(txs) {
			end = len(txs)
		}
		batch := s.client.Batch()
		for _, tx := range txs[i:end] {
			if tx.ID == "" {
				tx.ID = uuid.New().String()
			}
			if tx.CreatedAt.IsZero() {
				tx.CreatedAt = now
			}
			batch.Set(s.client.Collection(transactionsCollection).Doc(tx.ID), tx)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("failed to batch create transactions: %w", err)
		}
	}
	return nil
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	var tx model.Transaction
	if err := s.getDoc(ctx, transactionsCollection, txID, "transaction", &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	_, err := s.client.Collection(transactionsCollection).Doc(tx.ID).Set(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection(transactionsCollection).Where("userId", "==", userID)
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<=", *endDate)
	}

	query, err := s.applyOrderedPagination(ctx, query, transactionsCollection, "date", pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions: %w", err)
	}
	docs, nextPageToken := pageDocs(docs, pageSize)

	txs := make([]*model.Transaction, 0, len(docs))
	for _, doc := range docs {
		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, "", fmt.Errorf("failed to parse transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	return txs, nextPageToken, nil
}

func (s *FirestoreStore) CreateUpload(ctx context.Context, upload *model.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	_, err := s.client.Collection(uploadsCollection).Doc(upload.ID).Set(ctx, upload)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	var u model.Upload
	if err := s.getDoc(ctx, uploadsCollection, uploadID, "upload", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *FirestoreStore) UpdateUploadStatus(ctx context.Context, uploadID string, st model.UploadStatus, transactionCount int, errMsg string) error {
	updates := []firestore.Update{
		{Path: "status", Value: st},
		{Path: "transactionCount", Value: transactionCount},
		{Path: "error", Value: errMsg},
	}
	if st != model.UploadProcessing {
		updates = append(updates, firestore.Update{Path: "completedAt", Value: time.Now().UTC()})
	}
	_, err := s.client.Collection(uploadsCollection).Doc(uploadID).Update(ctx, updates)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("upload %s: %w", uploadID, ErrNotFound)
		}
		return fmt.Errorf("failed to update upload: %w", err)
	}
	return nil
}

func (s *FirestoreStore) PutTaxSummary(ctx context.Context, summary *model.TaxSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	_, err := s.client.Collection(summariesCollection).Doc(summary.ID).Set(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to save tax summary: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTaxSummary(ctx context.Context, summaryID string) (*model.TaxSummary, error) {
	var summary model.TaxSummary
	if err := s.getDoc(ctx, summariesCollection, summaryID, "tax summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *FirestoreStore) GetLatestTaxSummary(ctx context.Context, userID, period string) (*model.TaxSummary, error) {
	docs, err := s.client.Collection(summariesCollection).
		Where("userId", "==", userID).
		Where("period", "==", period).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query tax summaries: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("tax summary for %s: %w", period, ErrNotFound)
	}

	var summary model.TaxSummary
	if err := docs[0].DataTo(&summary); err != nil {
		return nil, fmt.Errorf("failed to parse tax summary: %w", err)
	}
	return &summary, nil
}

func (s *FirestoreStore) ListTaxSummaries(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*model.TaxSummary, string, error) {
	query := s.client.Collection(summariesCollection).Where("userId", "==", userID)
	query, err := s.applyOrderedPagination(ctx, query, summariesCollection, "createdAt", pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list tax summaries: %w", err)
	}
	docs, nextPageToken := pageDocs(docs, pageSize)

	summaries := make([]*model.TaxSummary, 0, len(docs))
	for _, doc := range docs {
		var summary model.TaxSummary
		if err := doc.DataTo(&summary); err != nil {
			return nil, "", fmt.Errorf("failed to parse tax summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nextPageToken, nil
}

func (s *FirestoreStore) CreateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now().UTC()
	}
	_, err := s.client.Collection(adjustmentsCollection).Doc(adj.ID).Set(ctx, adj)
	if err != nil {
		return fmt.Errorf("failed to create tax adjustment: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTaxAdjustment(ctx context.Context, adjustmentID string) (*model.TaxAdjustment, error) {
	var adj model.TaxAdjustment
	if err := s.getDoc(ctx, adjustmentsCollection, adjustmentID, "tax adjustment", &adj); err != nil {
		return nil, err
	}
	return &adj, nil
}

func (s *FirestoreStore) UpdateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error {
	_, err := s.client.Collection(adjustmentsCollection).Doc(adj.ID).Set(ctx, adj)
	if err != nil {
		return fmt.Errorf("failed to update tax adjustment: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTaxAdjustments(ctx context.Context, userID, summaryID string) ([]*model.TaxAdjustment, error) {
	query := s.client.Collection(adjustmentsCollection).Where("userId", "==", userID)
	if summaryID != "" {
		query = query.Where("originalTaxSummaryId", "==", summaryID)
	}

	docs, err := query.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tax adjustments: %w", err)
	}

	adjustments := make([]*model.TaxAdjustment, 0, len(docs))
	for _, doc := range docs {
		var adj model.TaxAdjustment
		if err := doc.DataTo(&adj); err != nil {
			return nil, fmt.Errorf("failed to parse tax adjustment: %w", err)
		}
		adjustments = append(adjustments, &adj)
	}
	return adjustments, nil
}
