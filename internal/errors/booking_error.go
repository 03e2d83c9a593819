package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind identifies which booking step rejected a request.
type Kind string

const (
	KindMissingFields Kind = "missing_fields"
	KindBadDateTime   Kind = "bad_date_time"
	KindTooSoon       Kind = "too_soon"
	KindBadPartySize  Kind = "bad_party_size"
	KindClosed        Kind = "closed"
	KindOutsideHours  Kind = "outside_hours"
	KindSlotFull      Kind = "slot_full"
)

// Class groups kinds by how the caller should treat them.
type Class int

const (
	ClassValidation Class = iota
	ClassPolicy
	ClassCapacity
)

var messages = map[Kind]string{
	KindMissingFields: "Missing fields",
	KindBadDateTime:   "Bad date or time",
	KindTooSoon:       "Bookings must be made at least one day in advance",
	KindBadPartySize:  "Bad party size",
	KindClosed:        "Closed on this day",
	KindOutsideHours:  "Time outside opening hours",
	KindSlotFull:      "Slot full",
}

// BookingError is a rejection produced before anything is written.
type BookingError struct {
	Kind    Kind
	Message string
}

// NewBookingError builds a rejection with the default caller-facing message.
func NewBookingError(kind Kind) *BookingError {
	return &BookingError{Kind: kind, Message: messages[kind]}
}

func (e *BookingError) Error() string {
	return e.Message
}

// Class reports the taxonomy bucket of the rejection.
func (e *BookingError) Class() Class {
	switch e.Kind {
	case KindMissingFields, KindBadDateTime:
		return ClassValidation
	case KindSlotFull:
		return ClassCapacity
	default:
		return ClassPolicy
	}
}

// Status maps capacity conflicts to 409 and everything else to 400.
func (e *BookingError) Status() int {
	if e.Class() == ClassCapacity {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// IsKind reports whether err is a BookingError of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *BookingError
	return stderrors.As(err, &be) && be.Kind == kind
}
