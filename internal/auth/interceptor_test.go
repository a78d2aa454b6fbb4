package auth

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		expectedErr bool
		errContains string
		wantToken   string
	}{
		{
			name:        "empty header",
			authHeader:  "",
			expectedErr: true,
			errContains: "authorization header is required",
		},
		{
			name:        "no bearer prefix",
			authHeader:  "token123",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "wrong prefix",
			authHeader:  "Basic token123",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "bearer only no token",
			authHeader:  "Bearer",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "valid bearer token",
			authHeader:  "Bearer mytoken123",
			expectedErr: false,
			wantToken:   "mytoken123",
		},
		{
			name:        "bearer lowercase",
			authHeader:  "bearer mytoken456",
			expectedErr: false,
			wantToken:   "mytoken456",
		},
		{
			name:        "bearer mixed case",
			authHeader:  "BEARER mytoken789",
			expectedErr: false,
			wantToken:   "mytoken789",
		},
		{
			name:        "token with spaces",
			authHeader:  "Bearer token with spaces",
			expectedErr: false,
			wantToken:   "token with spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractTokenFromHeader(tt.authHeader)

			if tt.expectedErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

type fakeVerifier struct {
	tokens map[string]string
}

func (f fakeVerifier) VerifyToken(ctx context.Context, idToken string) (*UserClaims, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &UserClaims{UID: uid}, nil
}

// callThrough runs an interceptor around a handler that reports the caller.
func callThrough(t *testing.T, interceptor connect.UnaryInterceptorFunc, header map[string]string) (string, error) {
	t.Helper()
	var seen string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = GetUserID(ctx)
		return connect.NewResponse(&struct{}{}), nil
	}
	req := connect.NewRequest(&struct{}{})
	for k, v := range header {
		req.Header().Set(k, v)
	}
	_, err := interceptor(next)(context.Background(), req)
	return seen, err
}

func TestAuthInterceptor(t *testing.T) {
	interceptor := AuthInterceptor(fakeVerifier{tokens: map[string]string{"good": "user-42"}})

	tests := []struct {
		name     string
		header   map[string]string
		wantUID  string
		wantCode connect.Code
	}{
		{name: "valid token", header: map[string]string{"Authorization": "Bearer good"}, wantUID: "user-42"},
		{name: "missing header", wantCode: connect.CodeUnauthenticated},
		{name: "malformed header", header: map[string]string{"Authorization": "good"}, wantCode: connect.CodeUnauthenticated},
		{name: "rejected token", header: map[string]string{"Authorization": "Bearer stale"}, wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := callThrough(t, interceptor, tt.header)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				assert.Empty(t, uid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, uid)
		})
	}
}

func TestLocalDevInterceptor(t *testing.T) {
	uid, err := callThrough(t, LocalDevInterceptor(), nil)
	require.NoError(t, err)
	assert.Equal(t, LocalDevUserID, uid)

	uid, err = callThrough(t, LocalDevInterceptor(), map[string]string{ImpersonateHeader: "tester-7"})
	require.NoError(t, err)
	assert.Equal(t, "tester-7", uid)
}

func TestClaimsFromToken(t *testing.T) {
	claims := claimsFromToken("uid-1", map[string]interface{}{
		"email":          "ada@example.ng",
		"email_verified": true,
		"name":           "Ada Obi",
	})
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "ada@example.ng", claims.Email)
	assert.Equal(t, "Ada Obi", claims.DisplayName)
	assert.True(t, claims.Verified)
	assert.False(t, claims.Reviewer)

	reviewer := claimsFromToken("uid-3", map[string]interface{}{ReviewerClaim: true})
	assert.True(t, reviewer.Reviewer)

	bare := claimsFromToken("uid-2", map[string]interface{}{"email_verified": "yes", ReviewerClaim: "true"})
	assert.False(t, bare.Verified)
	assert.False(t, bare.Reviewer)
	assert.Empty(t, bare.Email)
}

func TestContextUserClaims(t *testing.T) {
	t.Run("WithUserClaims adds claims to context", func(t *testing.T) {
		ctx := context.Background()
		claims := &UserClaims{
			UID:         "test-uid",
			Email:       "test@example.com",
			DisplayName: "Test User",
			Verified:    true,
		}

		newCtx := WithUserClaims(ctx, claims)

		retrievedClaims, ok := GetUserClaims(newCtx)
		require.True(t, ok)
		assert.Equal(t, claims.UID, retrievedClaims.UID)
		assert.Equal(t, claims.Email, retrievedClaims.Email)
		assert.Equal(t, claims.DisplayName, retrievedClaims.DisplayName)
		assert.Equal(t, claims.Verified, retrievedClaims.Verified)
	})

	t.Run("GetUserClaims returns false for empty context", func(t *testing.T) {
		claims, ok := GetUserClaims(context.Background())
		assert.False(t, ok)
		assert.Nil(t, claims)
	})

	t.Run("GetUserID returns empty for empty context", func(t *testing.T) {
		uid, ok := GetUserID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, uid)
	})
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		procedure string
		expected  bool
	}{
		{"health endpoint", "/health", true},
		{"bracket table", "/naijatax.v1.TaxService/GetBracketInfo", true},
		{"tax service endpoint", "/naijatax.v1.TaxService/CalculateTax", false},
		{"empty endpoint", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPublicEndpoint(tt.procedure))
		})
	}
}
