package recommend

import (
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

// writeBooks replies with a recommendation list. Failures degrade to an empty list.
func writeBooks(w http.ResponseWriter, r *http.Request, books []book.Book, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("recommendation failed")
		books = []book.Book{}
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Popular handles GET /api/books/popular
// @Summary Most borrowed books
// @Tags recommendations
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/popular [get]
func (h *HTTPHandler) Popular(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Popular(r.Context())
	writeBooks(w, r, books, err)
}

// Trending handles GET /api/books/trending
// @Summary Most borrowed books of the last month
// @Tags recommendations
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/trending [get]
func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Trending(r.Context())
	writeBooks(w, r, books, err)
}

// Moods handles GET /api/books/moods
// @Summary Supported mood keywords
// @Tags recommendations
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/moods [get]
func (h *HTTPHandler) Moods(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.Moods(), nil)
}

// ByMood handles GET /api/books/recommendations/mood/{mood}
// @Summary Books for a mood
// @Tags recommendations
// @Produce json
// @Param mood path string true "Mood keyword"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/recommendations/mood/{mood} [get]
func (h *HTTPHandler) ByMood(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ByMood(r.Context(), r.PathValue("mood"))
	writeBooks(w, r, books, err)
}

// ByGenre handles GET /api/books/recommendations/genre/{genre}
// @Summary Books of a genre, available first
// @Tags recommendations
// @Produce json
// @Param genre path string true "Genre"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/recommendations/genre/{genre} [get]
func (h *HTTPHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ByGenre(r.Context(), r.PathValue("genre"))
	writeBooks(w, r, books, err)
}

// Similar handles GET /api/books/{id}/similar
// @Summary Books similar to a book
// @Tags recommendations
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books/{id}/similar [get]
func (h *HTTPHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	books, err := h.service.Similar(r.Context(), id)
	writeBooks(w, r, books, err)
}

// Personalized handles GET /api/books/recommendations
// @Summary Recommendations from the caller's borrowing history
// @Description Accounts without a member profile get popular books
// @Tags recommendations
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /books/recommendations [get]
func (h *HTTPHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return
	}
	if id.MemberID == 0 {
		books, err := h.service.Popular(r.Context())
		writeBooks(w, r, books, err)
		return
	}
	books, err := h.service.Personalized(r.Context(), id.MemberID)
	writeBooks(w, r, books, err)
}
