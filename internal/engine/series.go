package engine

import (
	"spacely/internal/db"
	"spacely/internal/entities"
)

// ExpandBookingSeries turns a request into its ordered list of occurrences,
// each with a multi-night availability verdict. A non-recurring request
// expands to a single item; a recurrence count below one also yields just the
// first item (the loop bound is exclusive).
func (e *Engine) ExpandBookingSeries(listing *db.Listing, bookings []db.Booking, userID int, req entities.BookingRequest) []entities.BookingSeriesItem {
	nights := 1
	if !listing.IsHourly() && req.SelectedDays > 1 {
		nights = req.SelectedDays
	}

	series := []entities.BookingSeriesItem{{
		Date:   req.SelectedDate,
		Status: e.CheckMultiNightAvailability(listing, bookings, userID, req.SelectedDate, nights),
	}}
	if !req.IsRecurring {
		return series
	}

	step := 1
	if req.RecurrenceFreq == entities.FreqWeekly {
		step = 7
	}
	for i := 1; i < req.RecurrenceCount; i++ {
		date := addDays(req.SelectedDate, i*step)
		series = append(series, entities.BookingSeriesItem{
			Date:   date,
			Status: e.CheckMultiNightAvailability(listing, bookings, userID, date, nights),
		})
	}
	return series
}
