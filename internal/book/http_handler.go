package book

import (
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func pageParams(r *http.Request) (page, pageSize int) {
	query := r.URL.Query()
	page, _ = strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// writePage replies with a page of books. Listing failures degrade to an empty page.
func writePage(w http.ResponseWriter, r *http.Request, books []Book, total, page, pageSize int, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("book listing failed")
		books, total = []Book{}, 0
	}
	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// List handles GET /api/books
// @Summary List books
// @Tags books
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Param sort query string false "title | available | newest"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	books, total, err := h.service.List(r.Context(), Query{
		Sort:   r.URL.Query().Get("sort"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	writePage(w, r, books, total, page, pageSize, err)
}

// Search handles GET /api/books/search
// @Summary Search books
// @Description Match a keyword against title, author and genre, or combine title/author/genre filters.
// @Tags books
// @Produce json
// @Param keyword query string false "Keyword"
// @Param title query string false "Title contains"
// @Param author query string false "Author contains"
// @Param genre query string false "Exact genre"
// @Param availableOnly query bool false "Only books with a free copy"
// @Param digitalOnly query bool false "Only books with a digital copy"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, pageSize := pageParams(r)
	books, total, err := h.service.List(r.Context(), Query{
		Keyword:       query.Get("keyword"),
		Title:         query.Get("title"),
		Author:        query.Get("author"),
		Genre:         query.Get("genre"),
		AvailableOnly: httpx.QueryBool(r, "availableOnly"),
		DigitalOnly:   httpx.QueryBool(r, "digitalOnly"),
		Sort:          query.Get("sort"),
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	})
	writePage(w, r, books, total, page, pageSize, err)
}

// Available handles GET /api/books/available
func (h *HTTPHandler) Available(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	books, total, err := h.service.Available(r.Context(), pageSize, (page-1)*pageSize)
	writePage(w, r, books, total, page, pageSize, err)
}

// Digital handles GET /api/books/digital
func (h *HTTPHandler) Digital(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	books, total, err := h.service.Digital(r.Context(), pageSize, (page-1)*pageSize)
	writePage(w, r, books, total, page, pageSize, err)
}

// Genres handles GET /api/books/genres
func (h *HTTPHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.Genres(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("genre listing failed")
		genres = []string{}
	}
	httpx.JSONSuccess(w, r, genres, nil)
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /api/admin/books
// @Summary Add a book
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /api/admin/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Input
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /api/admin/books/{id}
// @Summary Update a book
// @Description Changing totalCopies moves availableCopies by the same amount; it cannot drop below the copies on loan.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /api/admin/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	var req Input
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

type copiesReq struct {
	TotalCopies int `json:"totalCopies"`
}

// AdjustCopies handles PUT /api/admin/books/{id}/copies
func (h *HTTPHandler) AdjustCopies(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	var req copiesReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.AdjustTotalCopies(r.Context(), id, req.TotalCopies)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /api/admin/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInvalidCopies):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_COPIES", err.Error(), nil)
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_IN_USE", "Book has active borrowings", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("book request failed")
		httpx.InternalError(w, r)
	}
}
