package auth

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
)

// RequireAuth extracts user claims from context or returns an unauthenticated error
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireUserAccess verifies the authenticated user matches the requested user ID
func RequireUserAccess(ctx context.Context, requestedUserID string) (*UserClaims, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if requestedUserID != "" && requestedUserID != claims.UID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("cannot access another user's resources"))
	}

	return claims, nil
}

// RequireOwner checks that a stored resource belongs to the caller.
// Other users' resources are reported as not found.
func RequireOwner(claims *UserClaims, ownerID, kind string) error {
	if ownerID != claims.UID {
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("%s not found", kind))
	}
	return nil
}

// RequireReviewer allows only callers holding the reviewer claim.
func RequireReviewer(claims *UserClaims) error {
	if !claims.Reviewer {
		return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("reviewer claim required"))
	}
	return nil
}

// NormalizePageSize returns a valid page size (default 100, max 1000)
func NormalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 100
	}
	if pageSize > 1000 {
		return 1000
	}
	return pageSize
}
