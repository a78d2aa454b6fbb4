package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/naijatax/backend/internal/model"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	uploads      map[string]*model.Upload
	summaries    map[string]*model.TaxSummary
	adjustments  map[string]*model.TaxAdjustment
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		uploads:      make(map[string]*model.Upload),
		summaries:    make(map[string]*model.TaxSummary),
		adjustments:  make(map[string]*model.TaxAdjustment),
	}
}

// paginateIDs applies cursor-based pagination to an already ordered slice of
// IDs. The page token carries the last ID of the previous page.
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	pageSize = normalizePageSize(pageSize)

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			for i, id := range ids {
				if id == cursorID {
					startIdx = i + 1
					break
				}
			}
		}
	}
	if startIdx >= len(ids) {
		return nil, ""
	}
	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}
	return ids, nextToken
}

func cloneTransaction(tx *model.Transaction) *model.Transaction {
	c := *tx
	if tx.AIVerification != nil {
		ai := *tx.AIVerification
		c.AIVerification = &ai
	}
	if tx.DocumentationStatus != nil {
		ds := *tx.DocumentationStatus
		c.DocumentationStatus = &ds
	}
	return &c
}

// Transaction operations

func (m *MemoryStore) CreateTransactions(ctx context.Context, txs []*model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		m.transactions[tx.ID] = cloneTransaction(tx)
	}
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	return cloneTransaction(tx), nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[tx.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	m.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*model.Transaction
	for _, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		if startDate != nil && tx.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && tx.Date.After(*endDate) {
			continue
		}
		matched = append(matched, tx)
	}

	// Newest first, ties broken by ID descending like the Firestore query.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	ids := make([]string, len(matched))
	for i, tx := range matched {
		ids[i] = tx.ID
	}
	page, nextToken := paginateIDs(ids, pageSize, pageToken)

	result := make([]*model.Transaction, 0, len(page))
	for _, id := range page {
		result = append(result, cloneTransaction(m.transactions[id]))
	}
	return result, nextToken, nil
}

// Upload operations

func (m *MemoryStore) CreateUpload(ctx context.Context, upload *model.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	u := *upload
	m.uploads[upload.ID] = &u
	return nil
}

func (m *MemoryStore) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.uploads[uploadID]
	if !ok {
		return nil, fmt.Errorf("upload %s: %w", uploadID, ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (m *MemoryStore) UpdateUploadStatus(ctx context.Context, uploadID string, status model.UploadStatus, transactionCount int, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.uploads[uploadID]
	if !ok {
		return fmt.Errorf("upload %s: %w", uploadID, ErrNotFound)
	}
	u.Status = status
	u.TransactionCount = transactionCount
	u.Error = errMsg
	if status != model.UploadProcessing {
		now := time.Now().UTC()
		u.CompletedAt = &now
	}
	return nil
}

// Tax summary operations

func (m *MemoryStore) PutTaxSummary(ctx context.Context, summary *model.TaxSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	s := *summary
	m.summaries[summary.ID] = &s
	return nil
}

func (m *MemoryStore) GetTaxSummary(ctx context.Context, summaryID string) (*model.TaxSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.summaries[summaryID]
	if !ok {
		return nil, fmt.Errorf("tax summary %s: %w", summaryID, ErrNotFound)
	}
	c := *s
	return &c, nil
}

func (m *MemoryStore) GetLatestTaxSummary(ctx context.Context, userID, period string) (*model.TaxSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.TaxSummary
	for _, s := range m.summaries {
		if s.UserID != userID || s.Period != period {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("tax summary for %s: %w", period, ErrNotFound)
	}
	c := *latest
	return &c, nil
}

func (m *MemoryStore) ListTaxSummaries(ctx context.Context, userID string, pageSize int32, pageToken string) ([]*model.TaxSummary, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*model.TaxSummary
	for _, s := range m.summaries {
		if s.UserID == userID {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	ids := make([]string, len(matched))
	for i, s := range matched {
		ids[i] = s.ID
	}
	page, nextToken := paginateIDs(ids, pageSize, pageToken)

	result := make([]*model.TaxSummary, 0, len(page))
	for _, id := range page {
		c := *m.summaries[id]
		result = append(result, &c)
	}
	return result, nextToken, nil
}

// Tax adjustment operations

func (m *MemoryStore) CreateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now().UTC()
	}
	a := *adj
	m.adjustments[adj.ID] = &a
	return nil
}

func (m *MemoryStore) GetTaxAdjustment(ctx context.Context, adjustmentID string) (*model.TaxAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.adjustments[adjustmentID]
	if !ok {
		return nil, fmt.Errorf("tax adjustment %s: %w", adjustmentID, ErrNotFound)
	}
	c := *a
	return &c, nil
}

func (m *MemoryStore) UpdateTaxAdjustment(ctx context.Context, adj *model.TaxAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.adjustments[adj.ID]; !ok {
		return fmt.Errorf("tax adjustment %s: %w", adj.ID, ErrNotFound)
	}
	a := *adj
	m.adjustments[adj.ID] = &a
	return nil
}

func (m *MemoryStore) ListTaxAdjustments(ctx context.Context, userID, summaryID string) ([]*model.TaxAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.TaxAdjustment
	for _, a := range m.adjustments {
		if a.UserID != userID {
			continue
		}
		if summaryID != "" && a.OriginalTaxSummaryID != summaryID {
			continue
		}
		c := *a
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
