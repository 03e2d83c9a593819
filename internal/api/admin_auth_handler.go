package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"parispub/internal/auth"
	apperrors "parispub/internal/errors"
	"parispub/internal/service"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
}

func NewAdminAuthHandler(svc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, apperrors.ErrUnauthorized("Bad credentials"))
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Me echoes the identity carried by the bearer token.
func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthorized("Invalid or expired token"))
		return
	}
	user := ""
	if v, found := claims["user"]; found {
		user = fmt.Sprint(v)
	}
	writeJSON(w, http.StatusOK, MeResponse{OK: true, User: user})
}
