package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type userIDKey struct{}
type externalUIDKey struct{}

// Middleware extracts the caller's identity from either a session token
// (Authorization: Bearer) or the legacy X-Firebase-UID header and stores it in
// the request context. Requests without identity pass through as guests.
func Middleware(tokenMgr *TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && parts[0] == "Bearer" {
					claims, err := tokenMgr.Parse(parts[1])
					if err != nil {
						logger.Warn().Err(err).Msg("session token rejected")
					} else {
						ctx = context.WithValue(ctx, userIDKey{}, claims.UserID)
						if claims.ExternalUID != "" {
							ctx = context.WithValue(ctx, externalUIDKey{}, claims.ExternalUID)
						}
					}
				}
			}

			if uid := r.Header.Get("X-Firebase-UID"); uid != "" {
				ctx = context.WithValue(ctx, externalUIDKey{}, uid)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated internal user id, or empty.
func UserIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ExternalUIDFrom returns the caller's external auth uid, or empty.
func ExternalUIDFrom(ctx context.Context) string {
	if uid, ok := ctx.Value(externalUIDKey{}).(string); ok {
		return uid
	}
	return ""
}
