package member

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/admin/members
// @Summary List members
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /admin/members [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, members, map[string]any{"total": len(members)})
}

// Get handles GET /api/admin/members/{id}
// @Summary Get a member
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Member ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /admin/members/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// CreateReq is shared by admin member creation and self sign-up.
type CreateReq struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
	FullName string `json:"fullName" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

func (c CreateReq) Registration() Registration {
	return Registration{Username: c.Username, Password: c.Password, FullName: c.FullName, Email: c.Email}
}

// Create handles POST /api/admin/members
// @Summary Create a member with its account
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateReq true "Member"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/members [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	m, _, err := h.service.Register(r.Context(), req.Registration())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, m)
}

type UpdateReq struct {
	FullName string `json:"fullName" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// Update handles PUT /api/admin/members/{id}
// @Summary Update a member
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Member ID"
// @Param request body UpdateReq true "Fields to change"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/members/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	var req UpdateReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.service.Update(r.Context(), id, Update{FullName: req.FullName, Email: req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Delete handles DELETE /api/admin/members/{id}
// @Summary Delete a member and its account
// @Tags admin
// @Security Bearer
// @Param id path int true "Member ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/members/{id} [delete]
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
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
	case errors.Is(err, ErrHasActiveBorrowings):
		httpx.JSONError(w, r, http.StatusConflict, "HAS_ACTIVE_BORROWINGS", "Member still has books on loan", nil)
	default:
		WriteError(w, r, err)
	}
}

// WriteError maps registration failures. Sign-up reuses it.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrDuplicateEntry):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ENTRY", "Username already taken", nil)
	case errors.Is(err, ErrDuplicateEntry):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ENTRY", "Email already registered", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("member request failed")
		httpx.InternalError(w, r)
	}
}
