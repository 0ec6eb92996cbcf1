package ingest

import (
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// ImportCSV handles POST /api/admin/books/import
// @Summary Bulk import books from CSV
// @Description Body is CSV with columns title,author,genre[,copies]. Existing title and author pairs are skipped.
// @Tags admin
// @Accept text/csv
// @Produce json
// @Security Bearer
// @Param copies query int false "Copies for rows without a copies column (default 1)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /admin/books/import [post]
func (h *HTTPHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	copies := 1
	if v := r.URL.Query().Get("copies"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpx.BadRequest(w, r, "copies must be a positive number")
			return
		}
		copies = n
	}

	records, rejected, err := ParseCSV(r.Body, copies)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CSV", err.Error(), nil)
		return
	}

	run, err := h.svc.Import(r.Context(), "upload", records, rejected)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("run_id", run.ID).Msg("book import failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "IMPORT_FAILED", "Import stopped before completion", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}
