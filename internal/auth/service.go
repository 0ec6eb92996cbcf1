package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/member"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrSetupClosed  = fmt.Errorf("%w: an administrator already exists", ErrUnauthorized)
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	MemberID  int64  `json:"memberId,omitempty"`
}

// Profile is the caller's own account, with the member profile when one exists.
type Profile struct {
	User   user.User      `json:"user"`
	Member *member.Member `json:"member,omitempty"`
}

type Service struct {
	secret   string
	ttl      time.Duration
	accounts Accounts
	members  Members
	revoker  Revoker
}

func NewService(secret string, ttl time.Duration, accounts Accounts, members Members, revoker Revoker) *Service {
	return &Service{
		secret:   secret,
		ttl:      ttl,
		accounts: accounts,
		members:  members,
		revoker:  revoker,
	}
}

func (s *Service) issue(u user.User, memberID int64) (Session, error) {
	token, _, err := crypto.GenerateToken(s.secret, crypto.TokenSubject{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		MemberID: memberID,
	}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.ttl.Seconds()),
		Username:  u.Username,
		Role:      u.Role,
		MemberID:  memberID,
	}, nil
}

// SignUp registers a USER account with its member profile and signs it in.
func (s *Service) SignUp(ctx context.Context, reg member.Registration) (Session, error) {
	m, u, err := s.members.Register(ctx, reg)
	if err != nil {
		return Session{}, err
	}
	return s.issue(u, m.ID)
}

func (s *Service) SignIn(ctx context.Context, username, password string) (Session, error) {
	u, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, user.ErrNotFound) {
		return Session{}, ErrUnauthorized
	}
	if err != nil {
		return Session{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrUnauthorized
	}

	var memberID int64
	m, err := s.members.GetByUserID(ctx, u.ID)
	switch {
	case err == nil:
		memberID = m.ID
	case !errors.Is(err, member.ErrNotFound):
		return Session{}, err
	}
	return s.issue(u, memberID)
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoker.Revoke(ctx, claims.ID, expiresAt)
}

func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	u, err := s.accounts.GetByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return Profile{}, ErrUnauthorized
	}
	if err != nil {
		return Profile{}, err
	}

	p := Profile{User: u}
	m, err := s.members.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		p.Member = &m
	case !errors.Is(err, member.ErrNotFound):
		return Profile{}, err
	}
	return p, nil
}

// SetupAdmin creates the first administrator. Once one exists it fails with ErrSetupClosed.
func (s *Service) SetupAdmin(ctx context.Context, username, password string) (user.User, error) {
	exists, err := s.accounts.HasAdmin(ctx)
	if err != nil {
		return user.User{}, err
	}
	if exists {
		return user.User{}, ErrSetupClosed
	}
	return s.accounts.CreateAdmin(ctx, username, password)
}
