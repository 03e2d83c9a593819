package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// DeleteExpired removes rows whose expires_at is at or before now.
func (r *JobRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired reservations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get rows affected: %w", err)
	}
	return n, nil
}
