package blob

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPath(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	assert.Equal(t, "csv-uploads/u1/1767225600000-march.csv", UploadPath("u1", "march.csv", now))
	assert.Equal(t, "csv-uploads/u1/1767225600000-evil.csv", UploadPath("u1", "../../evil.csv", now))
	assert.Equal(t, "csv-uploads/u1/1767225600000-stmt.pdf", UploadPath("u1", `C:\docs\stmt.pdf`, now))
	assert.Equal(t, "csv-uploads/u1/1767225600000-statement", UploadPath("u1", "", now))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("date,description,amount,type\n")
	require.NoError(t, s.Put(ctx, "a/b.csv", "text/csv", data))
	data[0] = 'X'

	got, err := s.Get(ctx, "a/b.csv")
	require.NoError(t, err)
	assert.Equal(t, byte('d'), got[0], "stored bytes are copied")

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
