package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"parispub/internal/metrics"
)

// ExpiredPurger removes rows whose expiry instant has passed.
type ExpiredPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type JobService struct {
	Repo   ExpiredPurger
	clock  Clock
	logger *zerolog.Logger
}

func NewJobService(repo ExpiredPurger, clock Clock, logger *zerolog.Logger) *JobService {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &JobService{Repo: repo, clock: clock, logger: logger}
}

// PurgeExpiredReservations deletes every row past its expiresAt. It stands
// in for a storage-level TTL and never touches booking logic.
func (s *JobService) PurgeExpiredReservations(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to purge expired reservations: %w", err)
	}
	metrics.AddReservationsPurged(n)
	if n > 0 {
		s.logger.Info().Int64("rows", n).Msg("cron job: purged expired reservations")
	} else {
		s.logger.Debug().Msg("cron job: no expired reservations")
	}
	return n, nil
}
