// Package session tracks revoked access tokens until they would have expired anyway.
package session

//go:generate mockgen -source=ports.go -destination=mock_blacklist.go -package=session

import (
	"context"
	"time"
)

type BlacklistRepository interface {
	AddToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// RevokeUser rejects every token of userID issued at or before revokedAt.
	// The entry is kept until expiresAt.
	RevokeUser(ctx context.Context, userID string, revokedAt, expiresAt time.Time) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
	// CleanupExpired returns how many entries were purged.
	CleanupExpired(ctx context.Context) (int64, error)
}
