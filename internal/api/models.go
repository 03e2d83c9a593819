package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "parispub/internal/errors"
)

// ErrorResponse is the body of every non-2xx reply. Reason is set for
// booking rejections only.
type ErrorResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MeResponse struct {
	OK   bool   `json:"ok"`
	User string `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and body. Anything that is not a typed
// error becomes a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var bookingErr *apperrors.BookingError
	if errors.As(err, &bookingErr) {
		writeJSON(w, bookingErr.Status(), ErrorResponse{Message: bookingErr.Message, Reason: string(bookingErr.Kind)})
		return
	}
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, ErrorResponse{Message: httpErr.Message})
		return
	}
	internal := apperrors.ErrInternal()
	writeJSON(w, internal.Code, ErrorResponse{Message: internal.Message})
}
