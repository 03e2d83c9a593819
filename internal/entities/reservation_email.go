package entities

// ConfirmationData is everything a notifier needs to tell a guest about a
// committed booking.
type ConfirmationData struct {
	BookingRef     string
	RestaurantName string
	UserName       string
	UserEmail      string
	UserPhone      string
	Date           string
	StartTime      string
	EndTime        string
	PartySize      int
}
