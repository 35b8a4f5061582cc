package service

import (
	"fmt"
	"log"

	"spacely/internal/db"
	httperrors "spacely/internal/errors"
	"spacely/internal/otp"
	"spacely/internal/repository"
)

// CheckInService runs the arrival handshake: the host asks for a code to be
// delivered to the guest, the guest reads it back on site, and a successful
// match moves the booking to started.
type CheckInService struct {
	bookingRepo *repository.BookingRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
	otp         *otp.Service
}

func NewCheckInService(
	bookingRepo *repository.BookingRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	otpService *otp.Service,
) *CheckInService {
	return &CheckInService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		otp:         otpService,
	}
}

// loadForHost resolves a booking code to its guest, restricted to bookings on
// the host's own listings and to the confirmed/started states.
func (s *CheckInService) loadForHost(hostID int, code string) (*db.Booking, *db.User, error) {
	rows, err := s.bookingRepo.GetBookingsByCode(code)
	if err != nil {
		return nil, nil, err
	}
	first := rows[0]

	listing, err := s.listingRepo.GetListingByID(first.ListingID)
	if err != nil {
		return nil, nil, err
	}
	if listing.HostID != hostID {
		return nil, nil, httperrors.ErrNotFound(fmt.Sprintf("booking with code '%s' not found", code))
	}
	if first.Status != db.BookingConfirmed && first.Status != db.BookingStarted {
		return nil, nil, httperrors.ErrConflict(fmt.Sprintf("booking %s is not confirmed", code))
	}

	user, err := s.userRepo.GetByID(first.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("guest %d for booking %s not found", first.UserID, code)
	}
	return &first, user, nil
}

// SendCode issues a fresh check-in code to the booking's guest.
func (s *CheckInService) SendCode(hostID int, code string) error {
	_, user, err := s.loadForHost(hostID, code)
	if err != nil {
		return err
	}
	return s.otp.IssueCode(user, otp.ChannelCheckIn)
}

// Verify checks the code the guest read back and marks the booking started.
func (s *CheckInService) Verify(hostID int, code, submitted string) error {
	booking, user, err := s.loadForHost(hostID, code)
	if err != nil {
		return err
	}
	if err := s.otp.VerifyCode(user, otp.ChannelCheckIn, submitted); err != nil {
		return err
	}
	if _, err := s.bookingRepo.UpdateStatusByCode(code, db.BookingStarted); err != nil {
		return err
	}
	log.Printf("Booking %s checked in for guest %d", booking.Code, user.ID)
	return nil
}
