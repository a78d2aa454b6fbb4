package auth

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		claims, err := RequireAuth(context.Background())
		assert.Nil(t, claims)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unauthenticated")
	})

	t.Run("returns claims when present in context", func(t *testing.T) {
		expectedClaims := &UserClaims{UID: "user-123", Email: "test@example.com"}
		ctx := withUserClaims(context.Background(), expectedClaims)

		claims, err := RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, expectedClaims.UID, claims.UID)
		assert.Equal(t, expectedClaims.Email, claims.Email)
	})
}

func TestRequireUserAccess(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		claims, err := RequireUserAccess(context.Background(), "user-123")
		assert.Nil(t, claims)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unauthenticated")
	})

	t.Run("returns error when user ID does not match", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123"})

		claims, err := RequireUserAccess(ctx, "user-456")
		assert.Nil(t, claims)
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
		assert.Contains(t, err.Error(), "cannot access another user's resources")
	})

	t.Run("empty requested ID means the caller", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123"})

		claims, err := RequireUserAccess(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})
}

func TestRequireOwner(t *testing.T) {
	claims := &UserClaims{UID: "user-1"}
	assert.NoError(t, RequireOwner(claims, "user-1", "tax summary"))

	err := RequireOwner(claims, "user-2", "tax summary")
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	assert.Contains(t, err.Error(), "tax summary not found")
}

func TestRequireReviewer(t *testing.T) {
	tests := []struct {
		name    string
		claims  *UserClaims
		wantErr bool
	}{
		{name: "reviewer", claims: &UserClaims{UID: "reviewer-1", Reviewer: true}},
		{name: "ordinary user", claims: &UserClaims{UID: "user-1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireReviewer(tt.claims)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		input    int32
		expected int32
	}{
		{0, 100},
		{-5, 100},
		{50, 50},
		{1000, 1000},
		{5000, 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizePageSize(tt.input))
	}
}
