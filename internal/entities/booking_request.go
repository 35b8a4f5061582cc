package entities

// Recurrence frequencies.
const (
	FreqDaily  = "daily"
	FreqWeekly = "weekly"
)

// Payment methods a guest can pick at submission.
const (
	PaymentOnline  = "online"
	PaymentDeposit = "deposit"
)

// BookingRequest is the guest's in-progress selection handed to the engine.
// SelectedHours is only meaningful for hourly listings, SelectedDays only for
// nightly/daily ones.
type BookingRequest struct {
	ListingID        int      `json:"listing_id"`
	SelectedDate     string   `json:"selected_date"`
	SelectedHours    []int    `json:"selected_hours,omitempty"`
	SelectedDays     int      `json:"selected_days,omitempty"`
	GuestCount       int      `json:"guest_count"`
	SelectedAddOnIDs []string `json:"selected_add_on_ids,omitempty"`
	IsRecurring      bool     `json:"is_recurring"`
	RecurrenceFreq   string   `json:"recurrence_freq,omitempty"`
	RecurrenceCount  int      `json:"recurrence_count,omitempty"`
	PaymentMethod    string   `json:"payment_method"`
	Language         string   `json:"language,omitempty"`
}

// Occurrences is how many date instances the request implies.
func (r *BookingRequest) Occurrences() int {
	if r.IsRecurring {
		return r.RecurrenceCount
	}
	return 1
}
