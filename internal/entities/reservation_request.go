package entities

// ReservationRequest is the public booking payload. PartySize and
// DurationSlots are pointers so an absent field can be told from zero.
type ReservationRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PartySize     *int   `json:"partySize"`
	DurationSlots *int   `json:"durationSlots"`
}

// ReservationResult is returned after a booking commits.
type ReservationResult struct {
	OK         bool   `json:"ok"`
	Count      int    `json:"count"`
	BookingRef string `json:"bookingRef"`
}
