package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spacely/internal/db"
	"spacely/internal/entities"
)

func TestCalculateFeesThreeNightStay(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	listing.CautionFeeCents = 5000

	fees := e.CalculateFees(listing, entities.BookingRequest{
		SelectedDate: "2025-06-01",
		SelectedDays: 3,
		GuestCount:   1,
	})

	assert.Equal(t, 30000, fees.SubtotalCents)
	assert.Equal(t, 3000, fees.ServiceFeeCents)
	assert.Equal(t, 5000, fees.CautionFeeCents)
	assert.Equal(t, 38000, fees.TotalCents)
}

func TestCalculateFeesExtraGuestSurchargePerOccurrence(t *testing.T) {
	e := testEngine()
	listing := hourlyListing()
	listing.IncludedGuests = 1
	listing.PricePerExtraGuestCents = 2000

	fees := e.CalculateFees(listing, entities.BookingRequest{
		SelectedDate:  "2025-06-01",
		SelectedHours: []int{9, 10},
		GuestCount:    3,
	})

	// base 100.00 + 2*20.00 = 140.00 per hour, two hours.
	assert.Equal(t, 28000, fees.SubtotalCents)
}

func TestCalculateFeesAddOnsAndUnknownIDs(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	listing.AddOns = []db.AddOn{
		{ID: "proj", PriceCents: 1500},
		{ID: "cleaning", PriceCents: 2500},
	}

	fees := e.CalculateFees(listing, entities.BookingRequest{
		SelectedDate:     "2025-06-01",
		SelectedDays:     1,
		GuestCount:       1,
		SelectedAddOnIDs: []string{"proj", "nope"},
	})

	assert.Equal(t, 11500, fees.SubtotalCents)
}

func TestCalculateFeesRecurrenceMonotonicity(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()
	listing.CautionFeeCents = 5000

	prev := entities.FeeBreakdown{}
	for count := 2; count <= 8; count++ {
		fees := e.CalculateFees(listing, entities.BookingRequest{
			SelectedDate:    "2025-06-01",
			SelectedDays:    1,
			GuestCount:      1,
			IsRecurring:     true,
			RecurrenceFreq:  entities.FreqWeekly,
			RecurrenceCount: count,
		})
		assert.Greater(t, fees.SubtotalCents, prev.SubtotalCents)
		assert.Greater(t, fees.ServiceFeeCents, prev.ServiceFeeCents)
		assert.Greater(t, fees.TotalCents, prev.TotalCents)
		assert.Equal(t, 5000, fees.CautionFeeCents)
		prev = fees
	}
}

func TestCalculateFeesSubtotalScalesWithOccurrences(t *testing.T) {
	e := testEngine()
	listing := nightlyListing()

	single := e.CalculateFees(listing, entities.BookingRequest{SelectedDays: 2, GuestCount: 1})
	tripled := e.CalculateFees(listing, entities.BookingRequest{
		SelectedDays:    2,
		GuestCount:      1,
		IsRecurring:     true,
		RecurrenceCount: 3,
	})
	assert.Equal(t, 3*single.SubtotalCents, tripled.SubtotalCents)
}
