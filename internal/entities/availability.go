package entities

// AvailabilityQuery carries the parsed query string of an availability call.
type AvailabilityQuery struct {
	Date          string
	PartySize     int
	DurationSlots int
}

// AvailabilityResponse lists the bookable start times in "HH:MM" form.
type AvailabilityResponse struct {
	Slots []string `json:"slots"`
}
