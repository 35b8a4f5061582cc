package db

import "time"

// Pricing models supported by a listing. The model decides whether a booking
// is sliced by hour or by night/day.
const (
	PricingHourly  = "hourly"
	PricingNightly = "nightly"
	PricingDaily   = "daily"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingStarted   = "started"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingReserved  = "reserved"
)

type AddOn struct {
	ID         string
	ListingID  int
	Name       string
	PriceCents int
}

// Listing is a rentable unit together with the pricing knobs and the
// host-declared calendar the booking engine needs.
//
// Availability maps "YYYY-MM-DD" to the set of open hours on that date.
// A nil map means the host keeps no calendar and every date is open with no
// hour granularity; a non-nil map blocks any date without an entry.
type Listing struct {
	ID                      int
	HostID                  int
	Title                   string
	Description             string
	ImageURL                string
	PricingModel            string
	PriceCents              int
	Capacity                int
	IncludedGuests          int
	PricePerExtraGuestCents int
	CautionFeeCents         int
	AllowRecurring          bool
	RequireIDVerification   bool
	Availability            map[string][]int
	AddOns                  []AddOn
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (l *Listing) IsHourly() bool {
	return l.PricingModel == PricingHourly
}

// Booking is one reserved occurrence. A recurring series produces one row per
// occurrence, all sharing the same code. Hours is only set for hourly
// listings; Duration counts hours or nights depending on the listing's
// pricing model.
type Booking struct {
	ID              int
	Code            string
	ListingID       int
	UserID          int
	Date            string
	Duration        int
	Hours           []int
	GuestCount      int
	AddOnIDs        []string
	Status          string
	TotalCents      int
	PaymentStatus   string
	StripeSessionID string
	Language        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type User struct {
	ID            int
	Name          string
	Email         string
	Phone         string
	PasswordHash  string
	IsHost        bool
	EmailVerified bool
	PhoneVerified bool
	KYCVerified   bool
	Language      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasVerifiedContact reports whether at least one contact channel has been
// confirmed via OTP.
func (u *User) HasVerifiedContact() bool {
	return u.EmailVerified || u.PhoneVerified
}

// BookingDraft is a not-yet-submitted selection auto-saved per user and
// listing so an interrupted flow can be resumed. Distinct from a Reserved
// booking row.
type BookingDraft struct {
	UserID          int
	ListingID       int
	SelectedDate    string
	SelectedHours   []int
	SelectedDays    int
	GuestCount      int
	SelectedAddOns  []string
	IsRecurring     bool
	RecurrenceFreq  string
	RecurrenceCount int
	AgreedToTerms   bool
	ListingTitle    string
	ListingImage    string
	SavedAt         time.Time
}

// OTPCode is a pending verification code. The code itself is stored hashed.
type OTPCode struct {
	ID        int
	UserID    int
	Channel   string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}
