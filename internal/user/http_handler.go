package user

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/admin/users
// @Summary List user accounts
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /admin/users [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, users, map[string]any{"total": len(users)})
}

type CreateAdminReq struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
}

// CreateAdmin handles POST /api/admin/users/admin
// @Summary Create an administrator account
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateAdminReq true "Admin credentials"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/users/admin [post]
func (h *HTTPHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.CreateAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, u)
}

type ChangeRoleReq struct {
	Role string `json:"role" validate:"required"`
}

// ChangeRole handles PUT /api/admin/users/{id}/role
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body ChangeRoleReq true "New role"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *HTTPHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.ChangeRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	case errors.Is(err, ErrDuplicateEntry):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ENTRY", "Username already taken", nil)
	case errors.Is(err, ErrInvalidRole):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_ROLE", "Role must be USER or ADMIN", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("user request failed")
		httpx.InternalError(w, r)
	}
}
