// Package dashboard reports library-wide counters for administrators.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/fine"
	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
)

type Stats struct {
	TotalBooks        int `json:"totalBooks"`
	TotalMembers      int `json:"totalMembers"`
	ActiveBorrowings  int `json:"activeBorrowings"`
	OverdueBorrowings int `json:"overdueBooks"`
}

type Repository interface {
	Stats(ctx context.Context, today time.Time) (Stats, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Stats counts loans as overdue when their due date is before today.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx, fine.Date(s.now()))
}

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Stats handles GET /api/admin/stats/dashboard
// @Summary Library counters
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /admin/stats/dashboard [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("dashboard stats failed")
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}
