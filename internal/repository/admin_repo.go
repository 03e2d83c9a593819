package repository

import (
	"context"
	"database/sql"
	"fmt"

	"parispub/internal/db"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

const reservationColumns = `id, booking_ref, name, email, phone, party_size, date, time, tables_needed, expires_at, created_at, updated_at`

// ListReservations returns rows ordered by date then time, for one date
// when date is non-empty.
func (r *AdminRepository) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	var args []interface{}
	if date != "" {
		query += ` WHERE date = $1`
		args = append(args, date)
	}
	query += ` ORDER BY date, time, id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	reservations := []db.Reservation{}
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(
			&res.ID, &res.BookingRef, &res.Name, &res.Email, &res.Phone, &res.PartySize,
			&res.Date, &res.Time, &res.TablesNeeded, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

// DeleteReservation removes one row by id. A missing id is not an error.
func (r *AdminRepository) DeleteReservation(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}
	return nil
}
