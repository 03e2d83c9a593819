package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parispub/internal/config"
	"parispub/internal/db"
	"parispub/internal/entities"
	apperrors "parispub/internal/errors"
	"parispub/internal/metrics"
	"parispub/internal/utils"
)

// ReservationStore is the storage the allocator reads usage from and
// commits window rows to.
type ReservationStore interface {
	UsageByDate(ctx context.Context, date string) (map[string]int, error)
	UsageForTimes(ctx context.Context, date string, times []string) (map[string]int, error)
	CreateReservations(ctx context.Context, rows []*db.Reservation) error
}

// ConfirmationQueue accepts confirmations for delivery outside the booking
// path. Enqueue must not block.
type ConfirmationQueue interface {
	Enqueue(entities.ConfirmationData) bool
}

type ReservationService struct {
	Repo       ReservationStore
	policy     *DayPolicy
	booking    config.Booking
	restaurant string
	queue      ConfirmationQueue
	logger     *zerolog.Logger
}

func NewReservationService(repo ReservationStore, policy *DayPolicy, cfg *config.Config, queue ConfirmationQueue, logger *zerolog.Logger) *ReservationService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ReservationService{
		Repo:       repo,
		policy:     policy,
		booking:    cfg.Booking,
		restaurant: cfg.RestaurantName,
		queue:      queue,
		logger:     logger,
	}
}

// ClampDuration bounds a requested slot count to [1, MaxDurationSlots].
func (s *ReservationService) ClampDuration(n int) int {
	if n < 1 {
		return 1
	}
	if n > s.booking.MaxDurationSlots {
		return s.booking.MaxDurationSlots
	}
	return n
}

// Availability lists the start times that can anchor a window of the
// requested length for the party. Invalid input or storage failures yield an
// empty list; this call never fails.
func (s *ReservationService) Availability(ctx context.Context, q entities.AvailabilityQuery) []string {
	empty := []string{}
	duration := s.ClampDuration(q.DurationSlots)

	if s.policy.IsPastDate(q.Date) || s.policy.IsTooSoon(q.Date) {
		return empty
	}
	if q.PartySize < 1 || q.PartySize > s.booking.MaxParty {
		return empty
	}

	rule := s.policy.Rule(q.Date)
	if rule.Closed {
		return empty
	}

	grid, err := utils.BuildSlots(rule.Open, rule.Close, s.booking.SlotMinutes)
	if err != nil {
		s.logger.Error().Err(err).Str("date", q.Date).Msg("cannot build slot grid")
		return empty
	}

	usage, err := s.Repo.UsageByDate(ctx, q.Date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", q.Date).Msg("cannot read usage for availability")
		return empty
	}

	need := UnitsNeeded(q.PartySize, s.booking)
	ledger := NewLedger(grid, usage, s.booking.TablesTotal)
	return ledger.Available(duration, need)
}

// CreateReservation validates the request, re-checks capacity against the
// current rows and commits one row per slot of the window. Rejections are
// *apperrors.BookingError and happen before any write.
//
// The re-check and the insert are not isolated from concurrent bookings:
// two requests can both pass the re-check and over-allocate a slot.
func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || email == "" || phone == "" {
		return nil, s.reject(apperrors.KindMissingFields, req)
	}

	start, ok := utils.NormalizeTime(req.Time)
	if !ok || s.policy.IsPastDate(req.Date) {
		return nil, s.reject(apperrors.KindBadDateTime, req)
	}
	if s.policy.IsTooSoon(req.Date) {
		return nil, s.reject(apperrors.KindTooSoon, req)
	}

	partySize := 0
	if req.PartySize != nil {
		partySize = *req.PartySize
	}
	if partySize < 1 || partySize > s.booking.MaxParty {
		return nil, s.reject(apperrors.KindBadPartySize, req)
	}

	rule := s.policy.Rule(req.Date)
	if rule.Closed {
		return nil, s.reject(apperrors.KindClosed, req)
	}

	grid, err := utils.BuildSlots(rule.Open, rule.Close, s.booking.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("build slot grid for %s: %w", req.Date, err)
	}

	duration := 1
	if req.DurationSlots != nil {
		duration = *req.DurationSlots
	}
	duration = s.ClampDuration(duration)

	window, ok := NewLedger(grid, nil, s.booking.TablesTotal).Window(start, duration)
	if !ok {
		return nil, s.reject(apperrors.KindOutsideHours, req)
	}

	need := UnitsNeeded(partySize, s.booking)

	usage, err := s.Repo.UsageForTimes(ctx, req.Date, window)
	if err != nil {
		return nil, fmt.Errorf("re-check capacity for %s: %w", req.Date, err)
	}
	current := NewLedger(grid, usage, s.booking.TablesTotal)
	for _, slot := range window {
		if !current.SlotFits(slot, need) {
			return nil, s.reject(apperrors.KindSlotFull, req)
		}
	}

	expiresAt, err := utils.ExpiresAtFromISO(req.Date, s.booking.RetentionDays, s.booking.Location)
	if err != nil {
		return nil, fmt.Errorf("compute expiry for %s: %w", req.Date, err)
	}

	ref := uuid.New()
	rows := make([]*db.Reservation, 0, len(window))
	for _, slot := range window {
		rows = append(rows, &db.Reservation{
			BookingRef:   ref,
			Name:         name,
			Email:        email,
			Phone:        phone,
			PartySize:    partySize,
			Date:         req.Date,
			Time:         slot,
			TablesNeeded: need,
			ExpiresAt:    expiresAt,
		})
	}

	if err := s.Repo.CreateReservations(ctx, rows); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Str("booking_ref", ref.String()).
		Str("date", req.Date).
		Str("time", start).
		Int("slots", len(rows)).
		Int("units", need).
		Msg("reservation committed")

	s.confirm(ref.String(), name, email, phone, req.Date, start, duration, partySize)

	return &entities.ReservationResult{OK: true, Count: len(rows), BookingRef: ref.String()}, nil
}

func (s *ReservationService) confirm(ref, name, email, phone, date, start string, duration, partySize int) {
	if s.queue == nil {
		return
	}
	end := utils.ToTime(mustMinutes(start) + s.booking.SlotMinutes*duration)
	data := entities.ConfirmationData{
		BookingRef:     ref,
		RestaurantName: s.restaurant,
		UserName:       name,
		UserEmail:      email,
		UserPhone:      phone,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		PartySize:      partySize,
	}
	if !s.queue.Enqueue(data) {
		s.logger.Warn().Str("booking_ref", ref).Msg("confirmation queue full, notification dropped")
	}
}

func (s *ReservationService) reject(kind apperrors.Kind, req *entities.ReservationRequest) error {
	metrics.IncBookingRejected(string(kind))
	s.logger.Debug().
		Str("reason", string(kind)).
		Str("date", req.Date).
		Str("time", req.Time).
		Msg("reservation rejected")
	return apperrors.NewBookingError(kind)
}

// mustMinutes is only called with times already normalized to "HH:MM".
func mustMinutes(hhmm string) int {
	m, _ := utils.ToMinutes(hhmm)
	return m
}
