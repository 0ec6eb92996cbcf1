package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRequestID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(ContextWithRequestID(r.Context(), id))
}

func TestJSONSuccess_IncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccess(w, withRequestID("req-1"), map[string]string{"k": "v"}, map[string]any{"total": 3})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "v", body.Data["k"])
	assert.Equal(t, "req-1", body.Meta["request_id"])
	assert.Equal(t, float64(3), body.Meta["total"])
}

func TestJSONError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, withRequestID("req-2"), http.StatusConflict, "ALREADY_BORROWED", "Book already borrowed",
		[]ErrorDetail{{Field: "bookId", Message: "active borrowing exists"}})

	require.Equal(t, http.StatusConflict, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "ALREADY_BORROWED", body.Error.Code)
	assert.Len(t, body.Error.Details, 1)
}

func TestJSONSuccess_NoMetaWithoutRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccess(w, httptest.NewRequest(http.MethodGet, "/", nil), []int{1}, nil)
	assert.NotContains(t, w.Body.String(), "meta")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, withRequestID("req-3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "req-3")
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "client-id")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "client-id", seen)
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetPathValue("id", "12")
	id, ok := PathInt64(httptest.NewRecorder(), r, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	r.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	_, ok = PathInt64(w, r, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
