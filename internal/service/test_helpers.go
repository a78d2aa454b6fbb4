package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/model"
)

// testNow is the fixed clock used by service tests.
var testNow = time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

// testContextWithReviewer is testContextWithUser with the reviewer claim.
func testContextWithReviewer(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:      userID,
		Email:    userID + "@test.local",
		Reviewer: true,
	})
}

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 0, 0, 0, 0, time.UTC)
}

// marchTransactions is a month with salary, rent, a pension contribution
// and a non-deductible purchase.
func marchTransactions(userID string) []*model.Transaction {
	return []*model.Transaction{
		{ID: "tx-salary", UserID: userID, Date: day(time.March, 1), Description: "Salary March", Amount: model.Naira(5_000_000), Type: model.TransactionTypeIncome, Category: "Salary"},
		{ID: "tx-rent", UserID: userID, Date: day(time.March, 2), Description: "House rent Yaba", Amount: model.Naira(1_000_000), Type: model.TransactionTypeExpense, Category: "Housing"},
		{ID: "tx-pension", UserID: userID, Date: day(time.March, 3), Description: "PenCom contribution", Amount: model.Naira(400_000), Type: model.TransactionTypeExpense, Category: "Pension", IsDeductible: true, DeductionType: model.DeductionPension},
		{ID: "tx-shoprite", UserID: userID, Date: day(time.March, 4), Description: "Shoprite groceries", Amount: model.Naira(50_000), Type: model.TransactionTypeExpense, Category: "Food"},
	}
}

func connectCode(t *testing.T, err error) connect.Code {
	t.Helper()
	var ce *connect.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *connect.Error, got %T (%v)", err, err)
	}
	return ce.Code()
}
