package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
)

func TestHTTPHandler_DegradesToEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := NewMockCatalog(ctrl)
	handler := NewHTTPHandler(NewService(catalog, fakeHistory{}))

	catalog.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, context.DeadlineExceeded)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/books/recommendations/genre/History", nil)
	r.SetPathValue("genre", "History")
	handler.ByGenre(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestHTTPHandler_Similar_BadID(t *testing.T) {
	handler := NewHTTPHandler(NewService(&fakeCatalog{}, fakeHistory{}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/books/x/similar", nil)
	r.SetPathValue("id", "x")
	handler.Similar(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_Personalized(t *testing.T) {
	c := shelf("Fantasy", 2)
	c.borrows[2] = 1
	handler := NewHTTPHandler(NewService(c, fakeHistory{
		7: {Genres: []string{"Fantasy"}, BookIDs: []int64{1}},
	}))

	call := func(id *httpx.Identity) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/books/recommendations", nil)
		if id != nil {
			r = r.WithContext(httpx.ContextWithIdentity(r.Context(), *id))
		}
		w := httptest.NewRecorder()
		handler.Personalized(w, r)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call(nil).Code)

	w := call(&httpx.Identity{UserID: "u-7", Role: "USER", MemberID: 7})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"id":1,`)
	assert.Contains(t, w.Body.String(), `"id":2,`)

	w = call(&httpx.Identity{UserID: "a-1", Role: "ADMIN"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestHTTPHandler_Moods(t *testing.T) {
	handler := NewHTTPHandler(NewService(&fakeCatalog{}, fakeHistory{}))

	w := httptest.NewRecorder()
	handler.Moods(w, httptest.NewRequest(http.MethodGet, "/api/books/moods", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"educational"`)
}

var _ Catalog = (book.Repository)(nil)
