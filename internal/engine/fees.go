package engine

import (
	"spacely/internal/db"
	"spacely/internal/entities"
)

// CalculateFees computes the price breakdown for a request in integer cents.
// The extra-guest surcharge is folded into the per-unit rate before the
// duration multiply, so it applies once per occurrence rather than per
// guest-night. The caution fee is flat and never multiplied by occurrences.
func (e *Engine) CalculateFees(listing *db.Listing, req entities.BookingRequest) entities.FeeBreakdown {
	occurrences := req.Occurrences()
	if occurrences < 1 {
		occurrences = 1
	}

	base := listing.PriceCents
	if req.GuestCount > listing.IncludedGuests && listing.PricePerExtraGuestCents > 0 {
		base += (req.GuestCount - listing.IncludedGuests) * listing.PricePerExtraGuestCents
	}

	var rental int
	if listing.IsHourly() {
		rental = len(req.SelectedHours) * base
	} else {
		days := req.SelectedDays
		if days < 1 {
			days = 1
		}
		rental = days * base
	}

	addOns := 0
	for _, id := range req.SelectedAddOnIDs {
		for _, a := range listing.AddOns {
			if a.ID == id {
				addOns += a.PriceCents
				break
			}
		}
	}

	subtotal := (rental + addOns) * occurrences
	serviceFee := subtotal * e.ServiceFeeBasisPoints / 10000
	caution := listing.CautionFeeCents
	if caution < 0 {
		caution = 0
	}

	return entities.FeeBreakdown{
		SubtotalCents:   subtotal,
		ServiceFeeCents: serviceFee,
		CautionFeeCents: caution,
		TotalCents:      subtotal + serviceFee + caution,
	}
}
