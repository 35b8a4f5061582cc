package entities

// RejectionCode enumerates the typed outcomes of booking validation. These
// are business verdicts, not errors: the engine never panics or returns a Go
// error for any of them.
type RejectionCode string

const (
	RejectNotAuthenticated     RejectionCode = "NOT_AUTHENTICATED"
	RejectUnverifiedContact    RejectionCode = "UNVERIFIED_CONTACT"
	RejectSelfBooking          RejectionCode = "SELF_BOOKING"
	RejectNoHoursSelected      RejectionCode = "NO_HOURS_SELECTED"
	RejectSeriesUnavailable    RejectionCode = "SERIES_UNAVAILABLE"
	RejectHostClosed           RejectionCode = "HOST_CLOSED"
	RejectSlotConflict         RejectionCode = "SLOT_CONFLICT"
	RejectNightUnavailable     RejectionCode = "NIGHT_UNAVAILABLE"
	RejectVerificationRequired RejectionCode = "VERIFICATION_REQUIRED"
)

// Rejection carries the reason a booking request cannot proceed, plus enough
// detail for the caller to point at the offending date, hour or night.
// VERIFICATION_REQUIRED is recoverable: the caller runs a verification flow
// and re-validates with the session flag set.
type Rejection struct {
	Code   RejectionCode `json:"code"`
	Date   string        `json:"date,omitempty"`
	Hour   int           `json:"hour,omitempty"`
	Night  int           `json:"night,omitempty"`
	Status DateStatus    `json:"status,omitempty"`
}

// Recoverable reports whether the caller can resume the flow without
// changing the selection.
func (r *Rejection) Recoverable() bool {
	return r.Code == RejectVerificationRequired
}

// ValidatedBooking is a request that passed every check and is ready for
// payment submission.
type ValidatedBooking struct {
	Dates    []string     `json:"dates"`
	Hours    []int        `json:"hours,omitempty"`
	Duration int          `json:"duration"`
	Fees     FeeBreakdown `json:"fees"`
}
