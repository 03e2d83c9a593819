package service

import (
	"context"

	"github.com/rs/zerolog"

	"parispub/internal/db"
)

// AdminStore is the storage used by the administrative endpoints.
type AdminStore interface {
	ListReservations(ctx context.Context, date string) ([]db.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type AdminService struct {
	adminRepo AdminStore
	logger    *zerolog.Logger
}

func NewAdminService(adminRepo AdminStore, logger *zerolog.Logger) *AdminService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AdminService{adminRepo: adminRepo, logger: logger}
}

// ListReservations returns rows ordered by (date, time), optionally for a
// single date.
func (s *AdminService) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	rows, err := s.adminRepo.ListReservations(ctx, date)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []db.Reservation{}
	}
	return rows, nil
}

// DeleteReservation removes one row. Deleting an unknown id succeeds.
func (s *AdminService) DeleteReservation(ctx context.Context, id int64) error {
	if err := s.adminRepo.DeleteReservation(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Msg("reservation row deleted")
	return nil
}
