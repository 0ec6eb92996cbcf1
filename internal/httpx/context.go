package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// Identity is the authenticated caller, as asserted by its access token.
type Identity struct {
	UserID   string
	Username string
	Role     string
	MemberID int64
	TokenID  string
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == "ADMIN" }

// IdentityFrom returns the caller identity and whether the request was authenticated.
func IdentityFrom(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	id, _ := IdentityFrom(r)
	return id.UserID
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	id, _ := IdentityFrom(r)
	return id.Role
}

// ContextWithIdentity returns a new context carrying id.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
