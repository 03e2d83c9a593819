package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"parispub/internal/db"
)

// ReservationAdmin lists and removes stored reservation rows.
type ReservationAdmin interface {
	ListReservations(ctx context.Context, date string) ([]db.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type AdminHandler struct {
	Service ReservationAdmin
	logger  *zerolog.Logger
}

func NewAdminHandler(svc ReservationAdmin, logger *zerolog.Logger) *AdminHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AdminHandler{Service: svc, logger: logger}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	reservations, err := h.Service.ListReservations(r.Context(), date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("list reservations failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// AdminDeleteReservation answers ok for unknown or malformed ids; only a
// storage failure is an error.
func (h *AdminHandler) AdminDeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusOK, OKResponse{OK: true})
		return
	}
	if err := h.Service.DeleteReservation(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("delete reservation failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
