package service

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacely/internal/db"
	"spacely/internal/entities"
	httperrors "spacely/internal/errors"
)

type fakeListingStore struct {
	listings map[int]*db.Listing
}

func (f *fakeListingStore) GetListingByID(id int) (*db.Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %d not found", id)
	}
	return listing, nil
}

type fakeBookingStore struct {
	byCode        map[string][]db.Booking
	statusUpdates map[string]string
}

func (f *fakeBookingStore) GetBookingsByCode(code string) ([]db.Booking, error) {
	rows, ok := f.byCode[code]
	if !ok {
		return nil, fmt.Errorf("no booking with code %s", code)
	}
	return rows, nil
}

func (f *fakeBookingStore) UpdateStatusByCode(code, status string) (int64, error) {
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]string{}
	}
	f.statusUpdates[code] = status
	return int64(len(f.byCode[code])), nil
}

func (f *fakeBookingStore) GetBookingsForListing(listingID int) ([]db.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) CreateBookingChecked(bookings []*db.Booking, hourly bool) error {
	return nil
}

func (f *fakeBookingStore) GetBookingByStripeSessionID(sessionID string) (*db.Booking, error) {
	return nil, fmt.Errorf("no booking for session %s", sessionID)
}

func (f *fakeBookingStore) UpdateStatusAndPaymentBySessionID(sessionID, status, paymentStatus string) error {
	return nil
}

func (f *fakeBookingStore) ListBookings(listingID, userID int, date, status string, limit, offset int) (*entities.BookingsList, error) {
	return &entities.BookingsList{}, nil
}

func (f *fakeBookingStore) DeleteReservedHolds(userID, listingID int) error {
	return nil
}

type fakeUserStore struct {
	users map[int]*db.User
}

func (f *fakeUserStore) GetByID(id int) (*db.User, error) {
	return f.users[id], nil
}

func cancelTestService(listings *fakeListingStore, bookings *fakeBookingStore, users *fakeUserStore) *BookingService {
	return NewBookingService(nil, listings, bookings, users, nil, nil, NewSenderService())
}

func TestCancelBookingAsHostRejectsForeignListing(t *testing.T) {
	listings := &fakeListingStore{listings: map[int]*db.Listing{
		5: {ID: 5, HostID: 42, Title: "Courtyard studio"},
	}}
	bookings := &fakeBookingStore{byCode: map[string][]db.Booking{
		"CAFEBABE": {{Code: "CAFEBABE", ListingID: 5, UserID: 7, Date: "2099-01-02", Status: db.BookingConfirmed}},
	}}
	svc := cancelTestService(listings, bookings, &fakeUserStore{})

	err := svc.CancelBookingAsHost(99, "CAFEBABE")
	require.Error(t, err)

	var httpErr *httperrors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Empty(t, bookings.statusUpdates)
}

func TestCancelBookingAsHostCancelsOwnListing(t *testing.T) {
	listings := &fakeListingStore{listings: map[int]*db.Listing{
		5: {ID: 5, HostID: 42, Title: "Courtyard studio"},
	}}
	bookings := &fakeBookingStore{byCode: map[string][]db.Booking{
		"CAFEBABE": {{
			Code: "CAFEBABE", ListingID: 5, UserID: 7, Date: "2099-01-02",
			Status: db.BookingConfirmed, PaymentStatus: db.BookingPending,
		}},
	}}
	users := &fakeUserStore{users: map[int]*db.User{
		7: {ID: 7, Name: "Ada", Email: "ada@example.com"},
	}}
	svc := cancelTestService(listings, bookings, users)

	err := svc.CancelBookingAsHost(42, "CAFEBABE")
	require.NoError(t, err)
	assert.Equal(t, db.BookingCancelled, bookings.statusUpdates["CAFEBABE"])
}

func TestNewBookingCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		code, err := newBookingCode()
		require.NoError(t, err)
		require.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), code)
		seen[code] = true
	}
	// 16 draws from a 32-bit space should never all collide.
	assert.Greater(t, len(seen), 1)
}

func TestPaymentAmount(t *testing.T) {
	amount, err := paymentAmount(entities.PaymentOnline, 38000)
	assert.NoError(t, err)
	assert.Equal(t, int64(38000), amount)

	// Empty method defaults to paying in full.
	amount, err = paymentAmount("", 38000)
	assert.NoError(t, err)
	assert.Equal(t, int64(38000), amount)

	amount, err = paymentAmount(entities.PaymentDeposit, 38000)
	assert.NoError(t, err)
	assert.Equal(t, int64(11400), amount)

	_, err = paymentAmount("barter", 38000)
	assert.Error(t, err)
}
