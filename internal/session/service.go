package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("token has no id")

type Service struct {
	blacklist BlacklistRepository
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService needs the access token lifetime to know how long a user-wide revocation must last.
func NewService(blacklist BlacklistRepository, tokenTTL time.Duration) *Service {
	return &Service{blacklist: blacklist, tokenTTL: tokenTTL, now: time.Now}
}

// Revoke blacklists jti until expiresAt. Tokens that are already expired need no entry.
func (s *Service) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidToken
	}
	if !expiresAt.After(s.now()) {
		return nil
	}
	return s.blacklist.AddToken(ctx, jti, expiresAt)
}

// RevokeUser invalidates every token already issued to userID. Token issue times
// have whole-second precision, so a token signed later in the same second is rejected too.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	now := s.now()
	return s.blacklist.RevokeUser(ctx, userID, now.Truncate(time.Second), now.Add(s.tokenTTL))
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.IsBlacklisted(ctx, jti)
}

func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	return s.blacklist.CleanupExpired(ctx)
}
