package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listColumns = []string{"id", "booking_ref", "name", "email", "phone", "party_size", "date", "time", "tables_needed", "expires_at", "created_at", "updated_at"}

func TestListReservationsWithDate(t *testing.T) {
	conn, mock, done := newMock(t)
	defer done()

	now := time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)
	ref := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reservations WHERE date = $1 ORDER BY date, time, id`)).
		WithArgs("2025-09-17").
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow(1, ref.String(), "Ana", "ana@example.com", "+100", 5, "2025-09-17", "18:00", 2, now, now, now).
			AddRow(2, ref.String(), "Ana", "ana@example.com", "+100", 5, "2025-09-17", "18:30", 2, now, now, now))

	list, err := NewAdminRepository(conn).ListReservations(context.Background(), "2025-09-17")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ref, list[0].BookingRef)
	assert.Equal(t, "18:30", list[1].Time)
}

func TestListReservationsWithoutDate(t *testing.T) {
	conn, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM reservations ORDER BY date, time, id`)).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(listColumns))

	list, err := NewAdminRepository(conn).ListReservations(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDeleteReservationIsIdempotent(t *testing.T) {
	conn, mock, done := newMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, NewAdminRepository(conn).DeleteReservation(context.Background(), 404))
}

func TestDeleteExpired(t *testing.T) {
	conn, mock, done := newMock(t)
	defer done()

	now := time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE expires_at <= $1`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := NewJobRepository(conn).DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestEnsureSchema(t *testing.T) {
	conn, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS reservations").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, EnsureSchema(context.Background(), conn))
}
