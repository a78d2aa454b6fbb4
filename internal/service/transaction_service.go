package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/taxengine"
)

// maxVerifyIDs bounds a VerifyTransactions call by ID.
const maxVerifyIDs = 200

// ListTransactions lists the caller's transactions, newest first.
func (s *TaxService) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	start, end := req.Msg.StartDate, req.Msg.EndDate
	if req.Msg.Period != "" {
		_, ps, pe, err := s.resolvePeriod(req.Msg.Period)
		if err != nil {
			return nil, err
		}
		start, end = &ps, &pe
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("end date is before start date"))
	}

	txs, next, err := s.store.ListTransactions(ctx, claims.UID, start, end, auth.NormalizePageSize(req.Msg.PageSize), req.Msg.PageToken)
	if err != nil {
		return nil, toConnectError("list transactions", err)
	}
	return connect.NewResponse(&ListTransactionsResponse{
		Transactions:  txs,
		NextPageToken: next,
	}), nil
}

// CreateTransactions validates and stores a batch of transactions. The
// whole batch is rejected if any transaction is invalid.
func (s *TaxService) CreateTransactions(ctx context.Context, req *connect.Request[CreateTransactionsRequest]) (*connect.Response[CreateTransactionsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Transactions) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at least one transaction is required"))
	}

	txs := make([]model.Transaction, len(req.Msg.Transactions))
	copy(txs, req.Msg.Transactions)
	for i := range txs {
		txs[i].ID = ""
		txs[i].UserID = claims.UID
		txs[i].CreatedAt = s.now().UTC()
		if txs[i].Source == "" {
			txs[i].Source = "Manual Entry"
		}
	}

	stored, err := s.storeTransactions(ctx, txs, req.Msg.Verify)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&CreateTransactionsResponse{Transactions: stored}), nil
}

// storeTransactions validates, optionally classifies and persists txs.
func (s *TaxService) storeTransactions(ctx context.Context, txs []model.Transaction, verify bool) ([]*model.Transaction, error) {
	taxengine.CanonicalizeDeductionTypes(txs)
	if err := taxengine.Validate(txs); err != nil {
		return nil, toConnectError("validate transactions", err)
	}
	if verify {
		txs = s.verifier.VerifyAll(ctx, txs)
	}
	out := pointers(txs)
	if err := s.store.CreateTransactions(ctx, out); err != nil {
		return nil, toConnectError("create transactions", err)
	}
	return out, nil
}

// VerifyTransactions runs the classifier over the caller's transactions
// and stores the verdicts.
func (s *TaxService) VerifyTransactions(ctx context.Context, req *connect.Request[VerifyTransactionsRequest]) (*connect.Response[VerifyTransactionsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var txs []model.Transaction
	if len(req.Msg.TransactionIDs) > 0 {
		if len(req.Msg.TransactionIDs) > maxVerifyIDs {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at most %d transactions per call", maxVerifyIDs))
		}
		for _, id := range req.Msg.TransactionIDs {
			tx, err := s.store.GetTransaction(ctx, id)
			if err != nil {
				return nil, toConnectError("get transaction", err)
			}
			if err := auth.RequireOwner(claims, tx.UserID, "transaction"); err != nil {
				return nil, err
			}
			txs = append(txs, *tx)
		}
	} else {
		_, start, end, err := s.resolvePeriod(req.Msg.Period)
		if err != nil {
			return nil, err
		}
		txs, err = s.loadTransactions(ctx, claims.UID, start, end)
		if err != nil {
			return nil, err
		}
	}

	verified := s.verifier.VerifyAll(ctx, txs)
	for i := range verified {
		if !verified[i].IsExpense() {
			continue
		}
		if err := s.store.UpdateTransaction(ctx, &verified[i]); err != nil {
			return nil, toConnectError("update transaction", err)
		}
	}

	guard := s.verifier.Guard()
	log.Printf("[TaxService] verified %d transaction(s) for user %s (breaker %s)", len(verified), claims.UID, guard.State())
	return connect.NewResponse(&VerifyTransactionsResponse{
		Transactions: pointers(verified),
		Classifier: ClassifierStatus{
			Model:      s.verifier.ModelName(),
			State:      guard.State(),
			CallsToday: guard.CallsToday(),
		},
	}), nil
}

// CategorizeTransaction suggests a category for a description.
func (s *TaxService) CategorizeTransaction(ctx context.Context, req *connect.Request[CategorizeTransactionRequest]) (*connect.Response[CategorizeTransactionResponse], error) {
	if _, err := auth.RequireAuth(ctx); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(req.Msg.Description)
	if desc == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("description is required"))
	}
	if req.Msg.Amount < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount must not be negative"))
	}
	result := s.verifier.Categorize(ctx, desc, req.Msg.Amount)
	return connect.NewResponse(&CategorizeTransactionResponse{Categorization: result}), nil
}

// UpdateDocumentationStatus merges document flags into a transaction.
func (s *TaxService) UpdateDocumentationStatus(ctx context.Context, req *connect.Request[UpdateDocumentationStatusRequest]) (*connect.Response[UpdateDocumentationStatusResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TransactionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("transactionId is required"))
	}

	tx, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError("get transaction", err)
	}
	if err := auth.RequireOwner(claims, tx.UserID, "transaction"); err != nil {
		return nil, err
	}

	updated := taxengine.UpdateDocumentationStatus(*tx, req.Msg.Patch, s.now().UTC())
	if err := s.store.UpdateTransaction(ctx, &updated); err != nil {
		return nil, toConnectError("update transaction", err)
	}
	return connect.NewResponse(&UpdateDocumentationStatusResponse{
		Transaction:      &updated,
		HasValidDocument: taxengine.HasValidDocumentation(&updated),
	}), nil
}
