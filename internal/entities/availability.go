package entities

// DateStatus is the availability verdict for a single calendar date.
type DateStatus string

const (
	StatusAvailable     DateStatus = "AVAILABLE"
	StatusPast          DateStatus = "PAST"
	StatusBlockedByHost DateStatus = "BLOCKED_BY_HOST"
	StatusAlreadyBooked DateStatus = "ALREADY_BOOKED"
)

// BookingSeriesItem is one occurrence of a (possibly recurring) booking
// request together with its availability verdict.
type BookingSeriesItem struct {
	Date   string     `json:"date"`
	Status DateStatus `json:"status"`
}

type AvailabilityRequest struct {
	Date            string `json:"date"`
	SelectedDays    int    `json:"selected_days"`
	IsRecurring     bool   `json:"is_recurring"`
	RecurrenceFreq  string `json:"recurrence_freq"`
	RecurrenceCount int    `json:"recurrence_count"`
}

type AvailabilityResponse struct {
	IsOverallAvailable bool                `json:"is_overall_available"`
	Series             []BookingSeriesItem `json:"series"`
	FirstUnavailable   *BookingSeriesItem  `json:"first_unavailable,omitempty"`
}
