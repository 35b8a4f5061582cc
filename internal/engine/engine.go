package engine

import (
	"time"

	"spacely/internal/db"
	"spacely/internal/entities"
)

const dateLayout = "2006-01-02"

// DefaultServiceFeeBasisPoints is the marketplace service fee (10%).
const DefaultServiceFeeBasisPoints = 1000

// Engine computes availability verdicts and fee breakdowns over immutable
// snapshots of a listing and its bookings. Every method is a pure function of
// its inputs plus Now; there is no I/O and no shared state, so callers can
// re-run validation as often as they need with fresh snapshots.
type Engine struct {
	Now                   func() time.Time
	ServiceFeeBasisPoints int
}

func New() *Engine {
	return &Engine{
		Now:                   time.Now,
		ServiceFeeBasisPoints: DefaultServiceFeeBasisPoints,
	}
}

// blocks reports whether a booking row counts against availability for the
// requesting user. Cancelled rows never block; a Reserved row blocks everyone
// except its own author (self-drafts must not lock the author out).
func blocks(b *db.Booking, userID int) bool {
	if b.Status == db.BookingCancelled {
		return false
	}
	if b.Status == db.BookingReserved && b.UserID == userID {
		return false
	}
	return true
}

func addDays(date string, n int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}

// CheckDateAvailability returns the availability verdict for a single
// calendar date. For nightly/daily listings a date is taken by any booking
// whose occupied range [date, date+duration) contains it; for hourly listings
// any booking on the same date is a coarse day-level signal and hour
// conflicts are resolved separately by IsSlotBooked.
func (e *Engine) CheckDateAvailability(listing *db.Listing, bookings []db.Booking, userID int, date string) entities.DateStatus {
	today := e.Now().Format(dateLayout)
	if date < today {
		return entities.StatusPast
	}

	if listing.Availability != nil {
		if _, open := listing.Availability[date]; !open {
			return entities.StatusBlockedByHost
		}
	}

	for i := range bookings {
		b := &bookings[i]
		if b.ListingID != listing.ID || !blocks(b, userID) {
			continue
		}
		if listing.IsHourly() {
			if b.Date == date {
				return entities.StatusAlreadyBooked
			}
			continue
		}
		if occupies(b, date) {
			return entities.StatusAlreadyBooked
		}
	}
	return entities.StatusAvailable
}

// occupies reports whether date falls inside the half-open range
// [b.Date, b.Date + b.Duration nights).
func occupies(b *db.Booking, date string) bool {
	start, err := time.Parse(dateLayout, b.Date)
	if err != nil {
		return false
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	nights := b.Duration
	if nights < 1 {
		nights = 1
	}
	return !d.Before(start) && d.Before(start.AddDate(0, 0, nights))
}

// CheckMultiNightAvailability validates nights consecutive days starting at
// start and returns the first non-available verdict, in day-offset order.
func (e *Engine) CheckMultiNightAvailability(listing *db.Listing, bookings []db.Booking, userID int, start string, nights int) entities.DateStatus {
	if nights < 1 {
		nights = 1
	}
	for i := 0; i < nights; i++ {
		status := e.CheckDateAvailability(listing, bookings, userID, addDays(start, i))
		if status != entities.StatusAvailable {
			return status
		}
	}
	return entities.StatusAvailable
}

// IsSlotBooked reports whether another user holds the given hour on the given
// date. Bookings without an hour set are non-hourly and never match.
func (e *Engine) IsSlotBooked(bookings []db.Booking, userID int, date string, hour int) bool {
	for i := range bookings {
		b := &bookings[i]
		if !blocks(b, userID) || b.Date != date {
			continue
		}
		for _, h := range b.Hours {
			if h == hour {
				return true
			}
		}
	}
	return false
}
