package engine

import (
	"spacely/internal/db"
	"spacely/internal/entities"
)

// ValidateBookingRequest runs the full pre-submission check, short-circuiting
// on the first failure in a fixed precedence order: authentication, verified
// contact, self-booking, hour selection, series availability, slot-level
// conflicts (hourly), per-night re-validation (multi-night), then identity
// verification. It never mutates anything; submission is a separate step and
// callers must re-validate against a fresh snapshot immediately before it.
func (e *Engine) ValidateBookingRequest(listing *db.Listing, bookings []db.Booking, user *db.User, req entities.BookingRequest, sessionVerified bool) (*entities.ValidatedBooking, *entities.Rejection) {
	if user == nil {
		return nil, &entities.Rejection{Code: entities.RejectNotAuthenticated}
	}
	if !user.HasVerifiedContact() {
		return nil, &entities.Rejection{Code: entities.RejectUnverifiedContact}
	}
	if user.ID == listing.HostID {
		return nil, &entities.Rejection{Code: entities.RejectSelfBooking}
	}
	if listing.IsHourly() && len(req.SelectedHours) == 0 {
		return nil, &entities.Rejection{Code: entities.RejectNoHoursSelected}
	}

	series := e.ExpandBookingSeries(listing, bookings, user.ID, req)
	for _, item := range series {
		if item.Status == entities.StatusAvailable {
			continue
		}
		// For hourly listings ALREADY_BOOKED is only the coarse day-level
		// signal: other hours on the date may still be free, and the
		// slot-level walk below decides. PAST and BLOCKED_BY_HOST stay fatal.
		if listing.IsHourly() && item.Status == entities.StatusAlreadyBooked {
			continue
		}
		return nil, &entities.Rejection{
			Code:   entities.RejectSeriesUnavailable,
			Date:   item.Date,
			Status: item.Status,
		}
	}

	if listing.IsHourly() {
		for _, item := range series {
			open, hasCalendar := []int(nil), false
			if listing.Availability != nil {
				open, hasCalendar = listing.Availability[item.Date], true
			}
			for _, hour := range req.SelectedHours {
				if hasCalendar && !containsHour(open, hour) {
					return nil, &entities.Rejection{
						Code: entities.RejectHostClosed,
						Date: item.Date,
						Hour: hour,
					}
				}
				if e.IsSlotBooked(bookings, user.ID, item.Date, hour) {
					return nil, &entities.Rejection{
						Code: entities.RejectSlotConflict,
						Date: item.Date,
						Hour: hour,
					}
				}
			}
		}
	}

	if !listing.IsHourly() && req.SelectedDays > 1 {
		for _, item := range series {
			for night := 0; night < req.SelectedDays; night++ {
				date := addDays(item.Date, night)
				status := e.CheckDateAvailability(listing, bookings, user.ID, date)
				if status != entities.StatusAvailable {
					return nil, &entities.Rejection{
						Code:   entities.RejectNightUnavailable,
						Date:   date,
						Night:  night,
						Status: status,
					}
				}
			}
		}
	}

	if listing.RequireIDVerification && !user.KYCVerified && !sessionVerified {
		return nil, &entities.Rejection{Code: entities.RejectVerificationRequired}
	}

	dates := make([]string, len(series))
	for i, item := range series {
		dates[i] = item.Date
	}
	duration := req.SelectedDays
	if listing.IsHourly() {
		duration = len(req.SelectedHours)
	} else if duration < 1 {
		duration = 1
	}

	return &entities.ValidatedBooking{
		Dates:    dates,
		Hours:    req.SelectedHours,
		Duration: duration,
		Fees:     e.CalculateFees(listing, req),
	}, nil
}

func containsHour(hours []int, hour int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}
