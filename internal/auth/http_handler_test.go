package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/httpx"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

func TestHTTPHandler_SignIn(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.svc)
	ann := user.User{ID: "u-1", Username: "ann", Role: crypto.RoleUser, PasswordHash: hashed(t, "Str0ng!Pass")}

	call := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.SignIn(w, httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body)))
		return w
	}

	f.accounts.EXPECT().GetByUsername(gomock.Any(), "ann").Return(ann, nil)
	f.members.EXPECT().GetByUserID(gomock.Any(), "u-1").Return(member.Member{ID: 7}, nil)
	w := call(`{"username":"ann","password":"Str0ng!Pass"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"memberId":7`)
	assert.Contains(t, w.Body.String(), `"tokenType":"Bearer"`)

	f.accounts.EXPECT().GetByUsername(gomock.Any(), "ann").Return(ann, nil)
	w = call(`{"username":"ann","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusBadRequest, call(`{"username":"ann"}`).Code)
}

func TestHTTPHandler_SignUp(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.svc)
	body := `{"username":"ann","password":"Str0ng!Pass","fullName":"Ann","email":"ann@example.com"}`

	f.members.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(member.Member{ID: 3}, user.User{ID: "u-3", Username: "ann", Role: crypto.RoleUser}, nil)
	w := httptest.NewRecorder()
	handler.SignUp(w, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, w.Code)

	f.members.EXPECT().Register(gomock.Any(), gomock.Any()).Return(member.Member{}, user.User{}, user.ErrDuplicateEntry)
	w = httptest.NewRecorder()
	handler.SignUp(w, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHTTPHandler_SetupAdmin(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.svc)
	body := `{"username":"root","password":"Str0ng!Pass"}`

	f.accounts.EXPECT().HasAdmin(gomock.Any()).Return(true, nil)
	w := httptest.NewRecorder()
	handler.SetupAdmin(w, httptest.NewRequest(http.MethodPost, "/api/auth/setup-admin", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SETUP_CLOSED")
}

func TestHTTPHandler_Logout(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.svc)

	token, jti, err := crypto.GenerateToken(secret, crypto.TokenSubject{UserID: "u-1", Role: crypto.RoleUser}, time.Hour)
	require.NoError(t, err)
	f.revoker.EXPECT().Revoke(gomock.Any(), jti, gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.Logout(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHTTPHandler_Me(t *testing.T) {
	f := newFixture(t)
	handler := NewHTTPHandler(f.svc)

	f.accounts.EXPECT().GetByID(gomock.Any(), "a-1").Return(user.User{ID: "a-1", Username: "root", Role: crypto.RoleAdmin}, nil)
	f.members.EXPECT().GetByUserID(gomock.Any(), "a-1").Return(member.Member{}, member.ErrNotFound)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r = r.WithContext(httpx.ContextWithIdentity(r.Context(), httpx.Identity{UserID: "a-1", Role: crypto.RoleAdmin}))
	w := httptest.NewRecorder()
	handler.Me(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"root"`)
	assert.NotContains(t, w.Body.String(), `"member"`)
}
