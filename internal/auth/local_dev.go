package auth

import (
	"context"

	"connectrpc.com/connect"
)

// LocalDevUserID is the identity attached when auth is skipped.
const LocalDevUserID = "local-dev-user"

// ImpersonateHeader lets a local caller act as another user.
const ImpersonateHeader = "X-Debug-Impersonate-User"

// LocalDevInterceptor provides a mock user context for local development.
// ONLY use this in development - never in production!
func LocalDevInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if isPublicEndpoint(req.Spec().Procedure) {
				return next(ctx, req)
			}

			userClaims := &UserClaims{
				UID:         LocalDevUserID,
				Email:       "dev@localhost",
				DisplayName: "Local Dev User",
				Verified:    true,
			}
			if uid := req.Header().Get(ImpersonateHeader); uid != "" {
				userClaims = &UserClaims{UID: uid, Email: uid + "@debug.local"}
			}

			return next(withUserClaims(ctx, userClaims), req)
		}
	}
}
