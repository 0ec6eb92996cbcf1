package user

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_CreateAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo))

	tests := []struct {
		name     string
		body     string
		setup    func()
		wantCode int
	}{
		{
			name:     "created",
			body:     `{"username":"root","password":"Str0ng!Pass"}`,
			setup:    func() { repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil) },
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate",
			body:     `{"username":"root","password":"Str0ng!Pass"}`,
			setup:    func() { repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrDuplicateEntry) },
			wantCode: http.StatusConflict,
		},
		{
			name:     "weak password",
			body:     `{"username":"root","password":"short"}`,
			setup:    func() {},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			w := httptest.NewRecorder()
			handler.CreateAdmin(w, httptest.NewRequest(http.MethodPost, "/api/admin/users/admin", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestHTTPHandler_ChangeRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo))

	call := func(id, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+id+"/role", strings.NewReader(body))
		r.SetPathValue("id", id)
		handler.ChangeRole(w, r)
		return w
	}

	repo.EXPECT().UpdateRole(gomock.Any(), "u1", "ADMIN").Return(User{ID: "u1", Username: "ann", Role: "ADMIN"}, nil)
	w := call("u1", `{"role":"admin"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	assert.NotContains(t, w.Body.String(), "password")

	assert.Equal(t, http.StatusUnprocessableEntity, call("u1", `{"role":"owner"}`).Code)

	repo.EXPECT().UpdateRole(gomock.Any(), "nope", "USER").Return(User{}, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, call("nope", `{"role":"USER"}`).Code)
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo))

	repo.EXPECT().List(gomock.Any()).Return([]User{{ID: "u1", Username: "ann", PasswordHash: "secret-hash"}}, nil)
	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.Contains(t, w.Body.String(), `"total":1`)

	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("down"))
	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
