package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/naijatax/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned (wrapped) when a document does not exist.
var ErrNotFound = errors.New("not found")

// DefaultPageSize is used when a list call passes a non-positive page size.
const DefaultPageSize = 100

// Store defines the interface for all database operations used by the service
type Store interface {
	// Transaction operations
	CreateTransactions(ctx context.Context, txs []*model.Transaction) error
	GetTransaction(ctx context.Context, txID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	// ListTransactions returns a user's transactions newest first. Nil dates
	// leave that side of the range open.
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// Upload operations
	CreateUpload(ctx context.Context, upload *model.Upload) error
	GetUpload(ctx context.Context, uploadID string) (*model.Upload, error)
	UpdateUploadStatus(ctx context.Context, uploadID string, status model.UploadStatus, transactionCount int, errMsg string) error

	// Tax summary operations
	PutTaxSummary(ctx context.Context, summary *model.TaxSummary) error
	GetTaxSummary(ctx context.Context, summaryID string) (*model.TaxSummary, error)
	GetLatestTaxSummary(ctx context.Context, userID, period string) (*model.TaxSummary, error)
	ListTaxSummaries(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*model.TaxSummary, string, error)

	// Tax adjustment operations
	CreateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error
	GetTaxAdjustment(ctx context.Context, adjustmentID string) (*model.TaxAdjustment, error)
	UpdateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error
	ListTaxAdjustments(ctx context.Context, userID, summaryID string) ([]*model.TaxAdjustment, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}
