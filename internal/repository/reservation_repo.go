package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"parispub/internal/db"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// UsageByDate sums tables_needed per slot time for the live rows of a date.
func (r *ReservationRepository) UsageByDate(ctx context.Context, date string) (map[string]int, error) {
	query := `
		SELECT time, COALESCE(SUM(tables_needed), 0)
		FROM reservations
		WHERE date = $1 AND expires_at > NOW()
		GROUP BY time`
	rows, err := r.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying usage for %s: %w", date, err)
	}
	return scanUsage(rows)
}

// UsageForTimes is UsageByDate restricted to the given slot times.
func (r *ReservationRepository) UsageForTimes(ctx context.Context, date string, times []string) (map[string]int, error) {
	query := `
		SELECT time, COALESCE(SUM(tables_needed), 0)
		FROM reservations
		WHERE date = $1 AND time = ANY($2) AND expires_at > NOW()
		GROUP BY time`
	rows, err := r.DB.QueryContext(ctx, query, date, pq.Array(times))
	if err != nil {
		return nil, fmt.Errorf("error querying usage for %s %v: %w", date, times, err)
	}
	return scanUsage(rows)
}

func scanUsage(rows *sql.Rows) (map[string]int, error) {
	defer rows.Close()

	usage := map[string]int{}
	for rows.Next() {
		var (
			slot  string
			units int
		)
		if err := rows.Scan(&slot, &units); err != nil {
			return nil, fmt.Errorf("error scanning usage row: %w", err)
		}
		usage[slot] += units
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating usage rows: %w", err)
	}
	return usage, nil
}

// CreateReservations inserts all rows of one booking in a single
// transaction and fills in their ids and timestamps.
func (r *ReservationRepository) CreateReservations(ctx context.Context, rows []*db.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reservations
		(booking_ref, name, email, phone, party_size, date, time, tables_needed, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	for _, res := range rows {
		err := tx.QueryRowContext(ctx, query,
			res.BookingRef,
			res.Name,
			res.Email,
			res.Phone,
			res.PartySize,
			res.Date,
			res.Time,
			res.TablesNeeded,
			res.ExpiresAt,
		).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error inserting reservation %s %s: %w", res.Date, res.Time, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing reservation: %w", err)
	}
	return nil
}
