package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"parispub/internal/entities"
	apperrors "parispub/internal/errors"
)

// Booker is the public booking surface of the reservation service.
type Booker interface {
	Availability(ctx context.Context, q entities.AvailabilityQuery) []string
	CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResult, error)
}

type UserReservationHandler struct {
	Service Booker
	logger  *zerolog.Logger
}

func NewUserReservationHandler(svc Booker, logger *zerolog.Logger) *UserReservationHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserReservationHandler{Service: svc, logger: logger}
}

// CheckAvailability serves GET /api/availability. partySize defaults to 1
// and an unparsable durationSlots to one slot.
func (h *UserReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := entities.AvailabilityQuery{
		Date:          query.Get("date"),
		PartySize:     1,
		DurationSlots: 1,
	}
	if raw := query.Get("partySize"); raw != "" {
		// Unparsable counts as zero and yields no slots.
		q.PartySize, _ = strconv.Atoi(raw)
	}
	if n, err := strconv.Atoi(query.Get("durationSlots")); err == nil {
		q.DurationSlots = n
	}

	slots := h.Service.Availability(r.Context(), q)
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{Slots: slots})
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}

	res, err := h.Service.CreateReservation(r.Context(), &req)
	if err != nil {
		if apperrors.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("date", req.Date).Msg("create reservation failed")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
