package middleware

import (
	"context"
	"net/http"

	"snapgram_server/pkg/apperrors"
	"snapgram_server/utils"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
)

// RequireAuth verifies the bearer session token and rejects requests
// without a valid session before they reach the handlers.
func RequireAuth() func(http.Handler) http.Handler {
	verify := clerkhttp.WithHeaderAuthorization()
	return func(next http.Handler) http.Handler {
		guard := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := clerk.SessionClaimsFromContext(r.Context()); !ok {
				utils.Error(w, apperrors.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
		return verify(guard)
	}
}

// ClerkID returns the authenticated subject id, or "" when the request
// carried no valid session.
func ClerkID(ctx context.Context) string {
	claims, ok := clerk.SessionClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.Subject
}
