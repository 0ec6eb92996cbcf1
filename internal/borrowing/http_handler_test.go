package borrowing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
	"libraryapi/internal/httpx"
)

func asMember(r *http.Request, memberID int64) *http.Request {
	return r.WithContext(httpx.ContextWithIdentity(r.Context(), httpx.Identity{
		UserID: "u-1", Username: "reader", Role: "USER", MemberID: memberID,
	}))
}

func TestHTTPHandler_Borrow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo, DefaultRules, func() time.Time { return march2 }))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"created", nil, http.StatusCreated, ""},
		{"missing book", book.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", ErrAlreadyBorrowed, http.StatusConflict, "ALREADY_BORROWED"},
		{"limit", ErrLimitExceeded, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
		{"no copies", ErrNotAvailable, http.StatusUnprocessableEntity, "NOT_AVAILABLE"},
		{"invariant", ErrInvariantViolation, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().Borrow(gomock.Any(), int64(5), int64(3), gomock.Any()).Return(Borrowing{ID: 1, MemberID: 5, BookID: 3}, tt.err)

			r := httptest.NewRequest(http.MethodPost, "/api/borrowings/borrow/3", nil)
			r.SetPathValue("bookId", "3")
			w := httptest.NewRecorder()
			handler.Borrow(w, asMember(r, 5))

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/borrowings/borrow/3", nil)
		r.SetPathValue("bookId", "3")
		w := httptest.NewRecorder()
		handler.Borrow(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("account without member profile", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/borrowings/borrow/3", nil)
		r.SetPathValue("bookId", "3")
		w := httptest.NewRecorder()
		handler.Borrow(w, asMember(r, 0))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHTTPHandler_Return(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo, DefaultRules, func() time.Time { return march2 }))

	t.Run("other member's loan", func(t *testing.T) {
		mockRepo.EXPECT().Return(gomock.Any(), int64(8), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int64, settle func(Borrowing, book.Book) (Borrowing, book.Book, error)) (Borrowing, error) {
				_, _, err := settle(Borrowing{ID: 8, MemberID: 99}, book.Book{ID: 1, TotalCopies: 1})
				return Borrowing{}, err
			})

		r := httptest.NewRequest(http.MethodPut, "/api/borrowings/return/8", nil)
		r.SetPathValue("id", "8")
		w := httptest.NewRecorder()
		handler.Return(w, asMember(r, 5))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("already returned", func(t *testing.T) {
		mockRepo.EXPECT().Return(gomock.Any(), int64(8), gomock.Any()).Return(Borrowing{}, ErrAlreadyReturned)

		r := httptest.NewRequest(http.MethodPut, "/api/borrowings/return/8", nil)
		r.SetPathValue("id", "8")
		w := httptest.NewRecorder()
		handler.Return(w, asMember(r, 5))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("fine serialized as decimal string", func(t *testing.T) {
		returned := march2
		mockRepo.EXPECT().Return(gomock.Any(), int64(8), gomock.Any()).Return(Borrowing{ID: 8, MemberID: 5, ReturnDate: &returned, Fine: 300}, nil)

		r := httptest.NewRequest(http.MethodPut, "/api/borrowings/return/8", nil)
		r.SetPathValue("id", "8")
		w := httptest.NewRecorder()
		handler.Return(w, asMember(r, 5))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"fine":"3.00"`)
	})
}

func TestHTTPHandler_TotalFines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo, DefaultRules, nil))

	mockRepo.EXPECT().TotalFines(gomock.Any(), int64(4)).Return(fine.Amount(1250), nil)

	r := httptest.NewRequest(http.MethodGet, "/api/borrowings/member/4/total-fines", nil)
	r.SetPathValue("memberId", "4")
	w := httptest.NewRecorder()
	handler.TotalFines(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalFines":"12.50"`)
}

func TestHTTPHandler_Current_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo, DefaultRules, nil))

	mockRepo.EXPECT().ListByMember(gomock.Any(), int64(5), FilterActive).Return(nil, context.DeadlineExceeded)

	w := httptest.NewRecorder()
	handler.Current(w, asMember(httptest.NewRequest(http.MethodGet, "/api/borrowings/current", nil), 5))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
