package service

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"

	"spacely/internal/db"
	"spacely/internal/engine"
	"spacely/internal/entities"
	httperrors "spacely/internal/errors"
	"spacely/internal/repository"
)

const (
	depositShare     = 0.3
	cancelCutoff     = 12 * time.Hour
	recurrenceMin    = 2
	recurrenceMax    = 8
	checkoutCurrency = "eur"
)

// ListingStore is the listing lookup the booking flow needs. Implemented by
// repository.ListingRepository.
type ListingStore interface {
	GetListingByID(id int) (*db.Listing, error)
}

// BookingStore is the booking persistence surface. Implemented by
// repository.BookingRepository.
type BookingStore interface {
	GetBookingsForListing(listingID int) ([]db.Booking, error)
	CreateBookingChecked(bookings []*db.Booking, hourly bool) error
	GetBookingsByCode(code string) ([]db.Booking, error)
	GetBookingByStripeSessionID(sessionID string) (*db.Booking, error)
	UpdateStatusByCode(code, status string) (int64, error)
	UpdateStatusAndPaymentBySessionID(sessionID, status, paymentStatus string) error
	ListBookings(listingID, userID int, date, status string, limit, offset int) (*entities.BookingsList, error)
	DeleteReservedHolds(userID, listingID int) error
}

// UserStore looks up guests for validation and notifications. Implemented by
// repository.UserRepository.
type UserStore interface {
	GetByID(id int) (*db.User, error)
}

type BookingService struct {
	Engine        *engine.Engine
	listingRepo   ListingStore
	bookingRepo   BookingStore
	userRepo      UserStore
	drafts        repository.DraftStore
	stripeService *StripeService
	senderService *SenderService
}

func NewBookingService(
	eng *engine.Engine,
	listingRepo ListingStore,
	bookingRepo BookingStore,
	userRepo UserStore,
	drafts repository.DraftStore,
	stripeService *StripeService,
	senderService *SenderService,
) *BookingService {
	return &BookingService{
		Engine:        eng,
		listingRepo:   listingRepo,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		drafts:        drafts,
		stripeService: stripeService,
		senderService: senderService,
	}
}

// CheckAvailability expands the requested series against a fresh snapshot and
// reports per-occurrence verdicts.
func (s *BookingService) CheckAvailability(listingID, userID int, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	listing, err := s.listingRepo.GetListingByID(listingID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.GetBookingsForListing(listingID)
	if err != nil {
		log.Printf("Error loading bookings for listing %d: %v", listingID, err)
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}

	series := s.Engine.ExpandBookingSeries(listing, bookings, userID, entities.BookingRequest{
		SelectedDate:    req.Date,
		SelectedDays:    req.SelectedDays,
		IsRecurring:     req.IsRecurring,
		RecurrenceFreq:  req.RecurrenceFreq,
		RecurrenceCount: req.RecurrenceCount,
	})

	response := &entities.AvailabilityResponse{
		IsOverallAvailable: true,
		Series:             series,
	}
	for i := range series {
		if series[i].Status != entities.StatusAvailable {
			response.IsOverallAvailable = false
			if response.FirstUnavailable == nil {
				item := series[i]
				response.FirstUnavailable = &item
			}
		}
	}
	return response, nil
}

// Quote prices a selection without validating availability.
func (s *BookingService) Quote(listingID int, req entities.BookingRequest) (*entities.FeeBreakdown, error) {
	listing, err := s.listingRepo.GetListingByID(listingID)
	if err != nil {
		return nil, err
	}
	fees := s.Engine.CalculateFees(listing, req)
	return &fees, nil
}

// CreateBooking runs the full pre-submission validation against a snapshot
// loaded in this call, opens a checkout session and persists one pending row
// per occurrence. Validation is deliberately not cached from any earlier
// availability check: other guests may have booked in between. A conflict
// detected by the transactional insert is reported as a series rejection,
// same as one caught by validation.
func (s *BookingService) CreateBooking(userID int, req entities.BookingRequest, sessionVerified bool) (*entities.StripeSessionResponse, *entities.Rejection, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}

	listing, err := s.listingRepo.GetListingByID(req.ListingID)
	if err != nil {
		return nil, nil, err
	}

	if req.IsRecurring {
		if !listing.AllowRecurring {
			return nil, nil, fmt.Errorf("listing %d does not allow recurring bookings", listing.ID)
		}
		if req.RecurrenceCount < recurrenceMin || req.RecurrenceCount > recurrenceMax {
			return nil, nil, fmt.Errorf("recurrence count must be between %d and %d", recurrenceMin, recurrenceMax)
		}
	}
	if listing.Capacity > 0 && req.GuestCount > listing.Capacity {
		return nil, nil, fmt.Errorf("guest count %d exceeds capacity %d", req.GuestCount, listing.Capacity)
	}

	bookings, err := s.bookingRepo.GetBookingsForListing(listing.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("internal error loading bookings: %w", err)
	}

	validated, rejection := s.Engine.ValidateBookingRequest(listing, bookings, user, req, sessionVerified)
	if rejection != nil {
		return nil, rejection, nil
	}

	code, err := newBookingCode()
	if err != nil {
		return nil, nil, err
	}

	amount, err := paymentAmount(req.PaymentMethod, validated.Fees.TotalCents)
	if err != nil {
		return nil, nil, err
	}
	sessionURL, sessionID, err := s.stripeService.CreateCheckoutSession(
		amount, checkoutCurrency, listing.Title, user.Email, req.Language,
	)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	rows := make([]*db.Booking, len(validated.Dates))
	for i, date := range validated.Dates {
		rows[i] = &db.Booking{
			Code:            code,
			ListingID:       listing.ID,
			UserID:          user.ID,
			Date:            date,
			Duration:        validated.Duration,
			Hours:           validated.Hours,
			GuestCount:      req.GuestCount,
			AddOnIDs:        req.SelectedAddOnIDs,
			Status:          db.BookingPending,
			TotalCents:      validated.Fees.TotalCents, // series total, repeated on every occurrence row
			PaymentStatus:   db.BookingPending,
			StripeSessionID: sessionID,
			Language:        req.Language,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	if err := s.bookingRepo.CreateBookingChecked(rows, listing.IsHourly()); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			// Another guest won the race between validation and insert.
			return nil, &entities.Rejection{Code: entities.RejectSeriesUnavailable, Date: validated.Dates[0]}, nil
		}
		log.Printf("Error creating booking in repository: %v", err)
		return nil, nil, err
	}

	if err := s.bookingRepo.DeleteReservedHolds(user.ID, listing.ID); err != nil {
		log.Printf("Could not clear reserved holds for user %d listing %d: %v", user.ID, listing.ID, err)
	}
	if err := s.drafts.Delete(user.ID, listing.ID); err != nil {
		log.Printf("Could not clear draft for user %d listing %d: %v", user.ID, listing.ID, err)
	}

	return &entities.StripeSessionResponse{
		Code:      code,
		URL:       sessionURL,
		SessionID: sessionID,
	}, nil, nil
}

// newBookingCode returns a random 8-hex-char code shared by every occurrence
// row of a series. Random rather than clock-derived so codes cannot collide
// under concurrent submissions.
func newBookingCode() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate booking code: %w", err)
	}
	return fmt.Sprintf("%08X", binary.BigEndian.Uint32(b[:])), nil
}

func paymentAmount(method string, totalCents int) (int64, error) {
	switch method {
	case entities.PaymentOnline, "":
		return int64(totalCents), nil
	case entities.PaymentDeposit:
		return int64(float64(totalCents) * depositShare), nil
	default:
		return 0, fmt.Errorf("unsupported payment method %q", method)
	}
}

// ListUserBookings filters the guest's own bookings for their dashboard.
func (s *BookingService) ListUserBookings(userID int, date, status string, limit, offset int) (*entities.BookingsList, error) {
	return s.bookingRepo.ListBookings(0, userID, date, status, limit, offset)
}

// GetBookingSeries returns every occurrence of a booking code, restricted to
// its owner unless ownerOnly is disabled (host/admin paths).
func (s *BookingService) GetBookingSeries(code string, userID int, ownerOnly bool) ([]entities.BookingResponse, error) {
	rows, err := s.bookingRepo.GetBookingsByCode(code)
	if err != nil {
		return nil, err
	}
	if ownerOnly && rows[0].UserID != userID {
		return nil, httperrors.ErrNotFound(fmt.Sprintf("booking with code '%s' not found", code))
	}
	responses := make([]entities.BookingResponse, len(rows))
	for i := range rows {
		responses[i] = toBookingResponse(&rows[i])
	}
	return responses, nil
}

// CancelBooking cancels a whole series, refunding the payment. Cancellation
// closes more than cancelCutoff before the first occurrence only.
func (s *BookingService) CancelBooking(code string, userID int) error {
	rows, err := s.bookingRepo.GetBookingsByCode(code)
	if err != nil {
		return err
	}
	first := rows[0]
	if userID > 0 && first.UserID != userID {
		return httperrors.ErrNotFound(fmt.Sprintf("booking with code '%s' not found", code))
	}
	if first.Status == db.BookingCancelled {
		return httperrors.ErrConflict(fmt.Sprintf("booking %s is already cancelled", code))
	}

	start, err := time.Parse("2006-01-02", first.Date)
	if err != nil {
		return fmt.Errorf("malformed booking date %q: %w", first.Date, err)
	}
	if time.Until(start) < cancelCutoff {
		log.Printf("Booking %s cancellation rejected inside the %s cutoff", code, cancelCutoff)
		return httperrors.ErrConflict(fmt.Sprintf("bookings can only be cancelled more than %d hours before the first date", int(cancelCutoff.Hours())))
	}

	if first.StripeSessionID != "" && first.PaymentStatus == "succeeded" {
		if err := s.stripeService.RefundPaymentBySessionID(first.StripeSessionID); err != nil {
			return err
		}
	}

	if _, err := s.bookingRepo.UpdateStatusByCode(code, db.BookingCancelled); err != nil {
		return err
	}

	s.notify(&first, db.BookingCancelled)
	return nil
}

// CancelBookingAsHost cancels a series on one of the calling host's own
// listings. Bookings on other hosts' listings are invisible to the caller.
func (s *BookingService) CancelBookingAsHost(hostID int, code string) error {
	rows, err := s.bookingRepo.GetBookingsByCode(code)
	if err != nil {
		return err
	}
	listing, err := s.listingRepo.GetListingByID(rows[0].ListingID)
	if err != nil {
		return err
	}
	if listing.HostID != hostID {
		return httperrors.ErrNotFound(fmt.Sprintf("booking with code '%s' not found", code))
	}
	return s.CancelBooking(code, 0)
}

// ConfirmBySessionID moves a paid series to confirmed and notifies the guest.
// Called from the Stripe webhook.
func (s *BookingService) ConfirmBySessionID(sessionID string) error {
	if err := s.bookingRepo.UpdateStatusAndPaymentBySessionID(sessionID, db.BookingConfirmed, "succeeded"); err != nil {
		return err
	}
	booking, err := s.bookingRepo.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	s.notify(booking, db.BookingConfirmed)
	return nil
}

// ReleaseBySessionID cancels a series whose payment was refunded.
func (s *BookingService) ReleaseBySessionID(sessionID string) error {
	if err := s.bookingRepo.UpdateStatusAndPaymentBySessionID(sessionID, db.BookingCancelled, "refunded"); err != nil {
		return err
	}
	booking, err := s.bookingRepo.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	s.notify(booking, db.BookingCancelled)
	return nil
}

func (s *BookingService) notify(booking *db.Booking, status string) {
	user, err := s.userRepo.GetByID(booking.UserID)
	if err != nil || user == nil {
		log.Printf("Could not load user %d for booking %s notification: %v", booking.UserID, booking.Code, err)
		return
	}
	resp := toBookingResponse(booking)
	translated := s.senderService.StatusTranslation(status, booking.Language)
	if user.Phone != "" {
		s.senderService.SendBookingSMS(resp, user.Phone, translated)
	}
	s.senderService.SendBookingEmail(resp, user.Name, user.Email, translated)
}

func toBookingResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		Code:          b.Code,
		ListingID:     b.ListingID,
		UserID:        b.UserID,
		Date:          b.Date,
		Duration:      b.Duration,
		Hours:         b.Hours,
		GuestCount:    b.GuestCount,
		Status:        b.Status,
		TotalCents:    b.TotalCents,
		PaymentStatus: b.PaymentStatus,
		Language:      b.Language,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
