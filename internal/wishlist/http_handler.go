package wishlist

import (
	"errors"
	"net/http"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func memberID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return 0, false
	}
	if id.MemberID == 0 {
		httpx.JSONError(w, r, http.StatusForbidden, "NO_MEMBER_PROFILE", "Account has no member profile", nil)
		return 0, false
	}
	return id.MemberID, true
}

// Add handles POST /api/wishlist/{bookId}
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	member, ok := memberID(w, r)
	if !ok {
		return
	}
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}

	e, err := h.service.Add(r.Context(), member, bookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, e)
}

// Remove handles DELETE /api/wishlist/{bookId}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	member, ok := memberID(w, r)
	if !ok {
		return
	}
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), member, bookID); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// List handles GET /api/wishlist
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	member, ok := memberID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.List(r.Context(), member)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, entries, map[string]any{"total": len(entries)})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book is not on the wishlist", nil)
	case errors.Is(err, ErrDuplicateEntry):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ENTRY", "Book is already on the wishlist", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("wishlist request failed")
		httpx.InternalError(w, r)
	}
}
