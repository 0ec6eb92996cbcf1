package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"libraryapi/internal/logging"
	"libraryapi/internal/platform/crypto"
)

// BlacklistRepository reports revoked token ids.
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// UserRevocations is implemented by blacklists that can also revoke every token
// issued to a user before some moment, such as a role change.
type UserRevocations interface {
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

func revoked(ctx context.Context, repo BlacklistRepository, claims *crypto.Claims) (bool, error) {
	if repo == nil {
		return false, nil
	}
	if hit, err := repo.IsBlacklisted(ctx, claims.ID); err != nil || hit {
		return hit, err
	}
	users, ok := repo.(UserRevocations)
	if !ok || claims.IssuedAt == nil {
		return false, nil
	}
	return users.IsUserRevoked(ctx, claims.Sub, claims.IssuedAt.Time)
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func AuthMiddleware(secret string, blacklistRepo BlacklistRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				Unauthorized(w, r)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				Unauthorized(w, r)
				return
			}

			isRevoked, err := revoked(r.Context(), blacklistRepo, claims)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("blacklist lookup failed")
			}
			if err != nil || isRevoked {
				Unauthorized(w, r)
				return
			}

			ctx := ContextWithIdentity(r.Context(), Identity{
				UserID:   claims.Sub,
				Username: claims.Username,
				Role:     claims.Role,
				MemberID: claims.MemberID,
				TokenID:  claims.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not listed. Use inside AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r)
			if !ok {
				Unauthorized(w, r)
				return
			}
			if !allowed[id.Role] {
				Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
