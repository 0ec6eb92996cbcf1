package auth

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
	"libraryapi/internal/member"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// SignUp handles POST /api/auth/signup
// @Summary Register as a library member
// @Tags auth
// @Accept json
// @Produce json
// @Param request body member.CreateReq true "Sign-up request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /auth/signup [post]
func (h *HTTPHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req member.CreateReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	sess, err := h.service.SignUp(r.Context(), req.Registration())
	if err != nil {
		member.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, sess)
}

type SignInReq struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// SignIn handles POST /api/auth/signin
// @Summary Sign in
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInReq true "Credentials"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/signin [post]
func (h *HTTPHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	sess, err := h.service.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
			return
		}
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, sess, nil)
}

// Logout handles POST /api/auth/logout
// @Summary Sign out
// @Description Revoke the current bearer token
// @Tags auth
// @Security Bearer
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.Unauthorized(w, r)
		return
	}
	p, err := h.service.Me(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

type SetupAdminReq struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
}

// SetupAdmin handles POST /api/auth/setup-admin
// @Summary Create the first administrator
// @Description Only allowed while no administrator exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SetupAdminReq true "Admin credentials"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /auth/setup-admin [post]
func (h *HTTPHandler) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	var req SetupAdminReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.SetupAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrSetupClosed) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "SETUP_CLOSED", "An administrator already exists", nil)
			return
		}
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, u)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		httpx.Unauthorized(w, r)
	case errors.Is(err, user.ErrDuplicateEntry):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ENTRY", "Username already taken", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("auth request failed")
		httpx.InternalError(w, r)
	}
}
