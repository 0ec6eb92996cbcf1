package wishlist

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
)

func withMember(r *http.Request, memberID int64) *http.Request {
	return r.WithContext(httpx.ContextWithIdentity(r.Context(), httpx.Identity{UserID: "u", Role: "USER", MemberID: memberID}))
}

func TestHTTPHandler_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"added", nil, http.StatusCreated},
		{"unknown book", book.ErrNotFound, http.StatusNotFound},
		{"duplicate", ErrDuplicateEntry, http.StatusConflict},
		{"storage", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().Add(gomock.Any(), int64(2), int64(8)).Return(Entry{ID: 1, MemberID: 2, Book: book.Book{ID: 8}}, tt.err)

			r := httptest.NewRequest(http.MethodPost, "/api/wishlist/8", nil)
			r.SetPathValue("bookId", "8")
			w := httptest.NewRecorder()
			handler.Add(w, withMember(r, 2))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHTTPHandler_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().Remove(gomock.Any(), int64(2), int64(8)).Return(ErrNotFound)

	r := httptest.NewRequest(http.MethodDelete, "/api/wishlist/8", nil)
	r.SetPathValue("bookId", "8")
	w := httptest.NewRecorder()
	handler.Remove(w, withMember(r, 2))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.Remove(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().List(gomock.Any(), int64(2)).Return([]Entry{
		{ID: 2, Book: book.Book{ID: 9, Title: "Newer"}},
		{ID: 1, Book: book.Book{ID: 8, Title: "Older"}},
	}, nil)

	w := httptest.NewRecorder()
	handler.List(w, withMember(httptest.NewRequest(http.MethodGet, "/api/wishlist", nil), 2))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Regexp(t, `Newer.*Older`, w.Body.String())
}
