package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/blob"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUploadStatementCSV(t *testing.T) {
	st := store.NewMemoryStore()
	blobs := blob.NewMemoryStore()
	svc := NewTaxService(st, nil)
	svc.SetBlobStore(blobs)
	svc.SetClock(func() time.Time { return testNow })
	ctx := testContextWithUser("user-123")

	resp, err := svc.UploadStatementCSV(ctx, connect.NewRequest(&UploadStatementCSVRequest{
		FileName: "january.csv",
		Content:  []byte(ingest.CSVTemplate()),
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Transactions, 4)
	for _, tx := range resp.Msg.Transactions {
		assert.Equal(t, "user-123", tx.UserID)
		assert.NotEmpty(t, tx.ID)
	}

	upload := resp.Msg.Upload
	assert.Equal(t, model.UploadCompleted, upload.Status)
	assert.Equal(t, 4, upload.TransactionCount)

	stored, err := st.GetUpload(context.Background(), upload.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UploadCompleted, stored.Status)
	assert.Equal(t, 4, stored.TransactionCount)

	raw, err := blobs.Get(context.Background(), upload.ObjectPath)
	require.NoError(t, err)
	assert.Equal(t, ingest.CSVTemplate(), string(raw))
	assert.True(t, strings.HasPrefix(upload.ObjectPath, "csv-uploads/user-123/"))

	// The imported January figures feed a summary.
	calc, err := svc.CalculateTax(ctx, connect.NewRequest(&CalculateTaxRequest{Period: "2026-01"}))
	require.NoError(t, err)
	assert.Equal(t, model.Naira(500_000), calc.Msg.Summary.TotalIncome)
	assert.Equal(t, model.Naira(240_000), calc.Msg.Summary.RentRelief)
	assert.Equal(t, model.Naira(40_000), calc.Msg.Summary.DeductibleExpenses)
	assert.Zero(t, calc.Msg.Summary.EstimatedTax)
}

func TestUploadStatementCSV_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewTaxService(mockStore, nil)
	ctx := testContextWithUser("user-123")

	t.Run("bad row fails the whole file", func(t *testing.T) {
		content := "date,description,amount,type\n" +
			"2026-01-15,Salary,500000,income\n" +
			"not-a-date,Groceries,abc,expense\n"

		mockStore.EXPECT().
			CreateUpload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *model.Upload) error {
				assert.Equal(t, model.UploadProcessing, u.Status)
				u.ID = "upload-1"
				return nil
			})
		mockStore.EXPECT().
			UpdateUploadStatus(gomock.Any(), "upload-1", model.UploadFailed, 0, gomock.Any()).
			Return(nil)

		_, err := svc.UploadStatementCSV(ctx, connect.NewRequest(&UploadStatementCSVRequest{
			FileName: "bad.csv",
			Content:  []byte(content),
		}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connectCode(t, err))
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.UploadStatementCSV(ctx, connect.NewRequest(&UploadStatementCSVRequest{FileName: "empty.csv"}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connectCode(t, err))
	})

	t.Run("too large", func(t *testing.T) {
		small := NewTaxService(mockStore, nil)
		small.SetStatementProcessor(ingest.NewProcessor(nil, nil, 16))
		_, err := small.UploadStatementCSV(ctx, connect.NewRequest(&UploadStatementCSVRequest{
			FileName: "big.csv",
			Content:  []byte(ingest.CSVTemplate()),
		}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connectCode(t, err))
	})
}

func TestProcessStatementPDF_NotAPDF(t *testing.T) {
	svc := NewTaxService(store.NewMemoryStore(), nil)
	_, err := svc.ProcessStatementPDF(testContextWithUser("user-123"), connect.NewRequest(&ProcessStatementPDFRequest{
		FileName: "statement.pdf",
		Content:  []byte("date,description\n"),
	}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connectCode(t, err))
}

func TestAnalyzeDocument_NotConfigured(t *testing.T) {
	svc := NewTaxService(store.NewMemoryStore(), nil)
	_, err := svc.AnalyzeDocument(testContextWithUser("user-123"), connect.NewRequest(&AnalyzeDocumentRequest{
		Content:  []byte{0xff, 0xd8, 0xff},
		MimeType: "image/jpeg",
	}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnavailable, connectCode(t, err))
}
