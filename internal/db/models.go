package db

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is one persisted row: a booking occupies one row per slot of
// its window, all sharing the same BookingRef.
type Reservation struct {
	ID           int64     `json:"id"`
	BookingRef   uuid.UUID `json:"bookingRef"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PartySize    int       `json:"partySize"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	TablesNeeded int       `json:"tablesNeeded"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
