package entities

import "time"

type BookingResponse struct {
	Code          string    `json:"code"`
	ListingID     int       `json:"listing_id"`
	ListingTitle  string    `json:"listing_title,omitempty"`
	UserID        int       `json:"user_id"`
	Date          string    `json:"date"`
	Duration      int       `json:"duration"`
	Hours         []int     `json:"hours,omitempty"`
	GuestCount    int       `json:"guest_count"`
	Status        string    `json:"status"`
	TotalCents    int       `json:"total_cents"`
	PaymentStatus string    `json:"payment_status"`
	Language      string    `json:"language,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}

// StripeSessionResponse is returned to the client after a booking has been
// created and a checkout session opened for it.
type StripeSessionResponse struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}
