package borrowing

import (
	"errors"
	"net/http"
	"strconv"

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

func actorFrom(r *http.Request) (Actor, bool) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		return Actor{}, false
	}
	return Actor{MemberID: id.MemberID, Admin: id.IsAdmin()}, true
}

// memberActor returns the caller, replying 403 when the account has no member profile.
func memberActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	a, ok := actorFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return Actor{}, false
	}
	if a.MemberID == 0 {
		httpx.JSONError(w, r, http.StatusForbidden, "NO_MEMBER_PROFILE", "Account has no member profile", nil)
		return Actor{}, false
	}
	return a, true
}

// Borrow handles POST /api/borrowings/borrow/{bookId}
// @Summary Borrow a book
// @Tags borrowings
// @Produce json
// @Security Bearer
// @Param bookId path int true "Book ID"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /api/borrowings/borrow/{bookId} [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	actor, ok := memberActor(w, r)
	if !ok {
		return
	}
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}

	b, err := h.service.Borrow(r.Context(), actor.MemberID, bookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Return handles PUT /api/borrowings/return/{id}
// @Summary Return a borrowed book
// @Description Sets the return date to today and charges 1.00 per day past the due date.
// @Tags borrowings
// @Produce json
// @Security Bearer
// @Param id path int true "Borrowing ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/borrowings/return/{id} [put]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return
	}
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}

	b, err := h.service.Return(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Current handles GET /api/borrowings/current
func (h *HTTPHandler) Current(w http.ResponseWriter, r *http.Request) {
	actor, ok := memberActor(w, r)
	if !ok {
		return
	}
	list, err := h.service.Current(r.Context(), actor.MemberID)
	writeList(w, r, list, err)
}

// History handles GET /api/borrowings/history
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := memberActor(w, r)
	if !ok {
		return
	}
	list, err := h.service.History(r.Context(), actor.MemberID)
	writeList(w, r, list, err)
}

// Get handles GET /api/borrowings/{id}. Members see only their own loans.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return
	}
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// MemberAll handles GET /api/borrowings/member/{memberId}
func (h *HTTPHandler) MemberAll(w http.ResponseWriter, r *http.Request) {
	memberID, ok := httpx.PathInt64(w, r, "memberId")
	if !ok {
		return
	}
	list, err := h.service.ByMember(r.Context(), memberID)
	writeList(w, r, list, err)
}

// MemberCurrent handles GET /api/borrowings/member/{memberId}/current
func (h *HTTPHandler) MemberCurrent(w http.ResponseWriter, r *http.Request) {
	memberID, ok := httpx.PathInt64(w, r, "memberId")
	if !ok {
		return
	}
	list, err := h.service.Current(r.Context(), memberID)
	writeList(w, r, list, err)
}

// MemberHistory handles GET /api/borrowings/member/{memberId}/history
func (h *HTTPHandler) MemberHistory(w http.ResponseWriter, r *http.Request) {
	memberID, ok := httpx.PathInt64(w, r, "memberId")
	if !ok {
		return
	}
	list, err := h.service.History(r.Context(), memberID)
	writeList(w, r, list, err)
}

// TotalFines handles GET /api/borrowings/member/{memberId}/total-fines
// @Summary Total fines charged to a member
// @Tags admin
// @Produce json
// @Security Bearer
// @Param memberId path int true "Member ID"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/borrowings/member/{memberId}/total-fines [get]
func (h *HTTPHandler) TotalFines(w http.ResponseWriter, r *http.Request) {
	memberID, ok := httpx.PathInt64(w, r, "memberId")
	if !ok {
		return
	}
	total, err := h.service.TotalFines(r.Context(), memberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"memberId": memberID, "totalFines": total}, nil)
}

// Overdue handles GET /api/borrowings/overdue
func (h *HTTPHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Overdue(r.Context())
	writeList(w, r, list, err)
}

// ByBook handles GET /api/borrowings/book/{bookId}
func (h *HTTPHandler) ByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}
	list, err := h.service.ByBook(r.Context(), bookID)
	writeList(w, r, list, err)
}

// CalculateFines handles POST /api/borrowings/calculate-fines
// @Summary Recalculate fines of overdue loans
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/borrowings/calculate-fines [post]
func (h *HTTPHandler) CalculateFines(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.RecalculateFines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"updated": updated}, nil)
}

// All handles GET /api/admin/borrowings
func (h *HTTPHandler) All(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > book.MaxPageSize {
		pageSize = book.DefaultPageSize
	}

	list, total, err := h.service.All(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, list, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

func writeList(w http.ResponseWriter, r *http.Request, list []Borrowing, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, list, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrMemberNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Borrowing not found", nil)
	case errors.Is(err, ErrAlreadyBorrowed):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_BORROWED", "You have already borrowed this book", nil)
	case errors.Is(err, ErrAlreadyReturned):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_RETURNED", "Book has already been returned", nil)
	case errors.Is(err, ErrLimitExceeded):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED", err.Error(), nil)
	case errors.Is(err, ErrNotAvailable):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "NOT_AVAILABLE", "Book is not available for borrowing", nil)
	case errors.Is(err, ErrNotOwner):
		httpx.Forbidden(w, r)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("borrowing request failed")
		httpx.InternalError(w, r)
	}
}
