package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spacely/internal/db"
	"spacely/internal/entities"
)

func testEngine() *Engine {
	e := New()
	e.Now = func() time.Time {
		return time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func hourlyListing() *db.Listing {
	return &db.Listing{
		ID:           1,
		HostID:       99,
		PricingModel: db.PricingHourly,
		PriceCents:   10000,
		Availability: map[string][]int{
			"2025-06-01": {9, 10, 11},
			"2025-06-02": {9, 10, 11},
		},
	}
}

func nightlyListing() *db.Listing {
	return &db.Listing{
		ID:           2,
		HostID:       99,
		PricingModel: db.PricingNightly,
		PriceCents:   10000,
	}
}

func TestCheckDateAvailabilityPastDate(t *testing.T) {
	e := testEngine()
	// Past wins over everything, including existing bookings and the calendar.
	bookings := []db.Booking{{ListingID: 1, Date: "2025-05-01", Status: db.BookingConfirmed}}
	assert.Equal(t, entities.StatusPast, e.CheckDateAvailability(hourlyListing(), bookings, 1, "2025-05-01"))
	assert.Equal(t, entities.StatusPast, e.CheckDateAvailability(nightlyListing(), nil, 1, "2025-05-29"))
}

func TestCheckDateAvailabilityBlockedByHost(t *testing.T) {
	e := testEngine()
	assert.Equal(t, entities.StatusBlockedByHost, e.CheckDateAvailability(hourlyListing(), nil, 1, "2025-06-03"))

	// No calendar at all means every future date is open.
	assert.Equal(t, entities.StatusAvailable, e.CheckDateAvailability(nightlyListing(), nil, 1, "2025-06-03"))
}

func TestCancelledBookingsNeverBlock(t *testing.T) {
	e := testEngine()
	listing := hourlyListing()
	cancelled := []db.Booking{{ListingID: 1, UserID: 2, Date: "2025-06-01", Hours: []int{10}, Status: db.BookingCancelled}}

	assert.Equal(t, entities.StatusAvailable, e.CheckDateAvailability(listing, cancelled, 1, "2025-06-01"))
	assert.False(t, e.IsSlotBooked(cancelled, 1, "2025-06-01", 10))
}

func TestReservedDraftDoesNotBlockItsOwner(t *testing.T) {
	e := testEngine()
	listing := hourlyListing()
	reserved := []db.Booking{{ListingID: 1, UserID: 7, Date: "2025-06-01", Hours: []int{10}, Status: db.BookingReserved}}

	assert.Equal(t, entities.StatusAvailable, e.CheckDateAvailability(listing, reserved, 7, "2025-06-01"))
	assert.False(t, e.IsSlotBooked(reserved, 7, "2025-06-01", 10))

	// Any other user still sees the hold.
	assert.Equal(t, entities.StatusAlreadyBooked, e.CheckDateAvailability(listing, reserved, 8, "2025-06-01"))
	assert.True(t, e.IsSlotBooked(reserved, 8, "2025-06-01", 10))
}

func TestNightlyOccupiedRangeIsHalfOpen(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	bookings := []db.Booking{{ListingID: 2, UserID: 2, Date: "2025-06-10", Duration: 3, Status: db.BookingConfirmed}}

	assert.Equal(t, entities.StatusAlreadyBooked, e.CheckDateAvailability(listing, bookings, 1, "2025-06-10"))
	assert.Equal(t, entities.StatusAlreadyBooked, e.CheckDateAvailability(listing, bookings, 1, "2025-06-12"))
	// Checkout day is free again.
	assert.Equal(t, entities.StatusAvailable, e.CheckDateAvailability(listing, bookings, 1, "2025-06-13"))
}

func TestIsSlotBookedIgnoresNonHourlyRows(t *testing.T) {
	e := testEngine()
	bookings := []db.Booking{{ListingID: 2, UserID: 2, Date: "2025-06-10", Duration: 2, Status: db.BookingConfirmed}}
	assert.False(t, e.IsSlotBooked(bookings, 1, "2025-06-10", 9))
}

func TestCheckMultiNightShortCircuitsOnFirstConflict(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	bookings := []db.Booking{{ListingID: 2, UserID: 2, Date: "2025-06-12", Duration: 1, Status: db.BookingConfirmed}}

	assert.Equal(t, entities.StatusAlreadyBooked,
		e.CheckMultiNightAvailability(listing, bookings, 1, "2025-06-10", 4))
	assert.Equal(t, entities.StatusAvailable,
		e.CheckMultiNightAvailability(listing, bookings, 1, "2025-06-10", 2))
}

func TestExpandSeriesWeekly(t *testing.T) {
	e := testEngine()
	req := entities.BookingRequest{
		SelectedDate:    "2025-06-01",
		IsRecurring:     true,
		RecurrenceFreq:  entities.FreqWeekly,
		RecurrenceCount: 3,
	}
	series := e.ExpandBookingSeries(nightlyListing(), nil, 1, req)

	dates := make([]string, len(series))
	for i, item := range series {
		dates[i] = item.Date
	}
	assert.Equal(t, []string{"2025-06-01", "2025-06-08", "2025-06-15"}, dates)
	for _, item := range series {
		assert.Equal(t, entities.StatusAvailable, item.Status)
	}
}

func TestExpandSeriesDaily(t *testing.T) {
	e := testEngine()
	req := entities.BookingRequest{
		SelectedDate:    "2025-06-01",
		IsRecurring:     true,
		RecurrenceFreq:  entities.FreqDaily,
		RecurrenceCount: 4,
	}
	series := e.ExpandBookingSeries(nightlyListing(), nil, 1, req)
	assert.Len(t, series, 4)
	assert.Equal(t, "2025-06-04", series[3].Date)
}

func TestExpandSeriesFirstConflictIsEarliest(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	bookings := []db.Booking{
		{ListingID: 2, UserID: 2, Date: "2025-06-15", Duration: 1, Status: db.BookingConfirmed},
		{ListingID: 2, UserID: 2, Date: "2025-06-08", Duration: 1, Status: db.BookingConfirmed},
	}
	req := entities.BookingRequest{
		SelectedDate:    "2025-06-01",
		IsRecurring:     true,
		RecurrenceFreq:  entities.FreqWeekly,
		RecurrenceCount: 3,
	}
	series := e.ExpandBookingSeries(listing, bookings, 1, req)

	var first *entities.BookingSeriesItem
	for i := range series {
		if series[i].Status != entities.StatusAvailable {
			first = &series[i]
			break
		}
	}
	assert.NotNil(t, first)
	assert.Equal(t, "2025-06-08", first.Date)
}

func TestExpandSeriesCountBelowOneYieldsSingleItem(t *testing.T) {
	e := testEngine()
	req := entities.BookingRequest{
		SelectedDate:    "2025-06-01",
		IsRecurring:     true,
		RecurrenceFreq:  entities.FreqDaily,
		RecurrenceCount: 0,
	}
	series := e.ExpandBookingSeries(nightlyListing(), nil, 1, req)
	assert.Len(t, series, 1)
	assert.Equal(t, "2025-06-01", series[0].Date)
}
