package service

import (
	"fmt"

	"spacely/internal/db"
	"spacely/internal/entities"
	"spacely/internal/repository"
)

type ListingService struct {
	listingRepo *repository.ListingRepository
	bookingRepo *repository.BookingRepository
}

func NewListingService(listingRepo *repository.ListingRepository, bookingRepo *repository.BookingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo, bookingRepo: bookingRepo}
}

func (s *ListingService) GetListing(id int) (*db.Listing, error) {
	return s.listingRepo.GetListingByID(id)
}

func (s *ListingService) ListHostListings(hostID int) ([]db.Listing, error) {
	return s.listingRepo.ListListingsByHost(hostID)
}

func (s *ListingService) CreateListing(hostID int, l *db.Listing) error {
	l.HostID = hostID
	if err := validatePricingModel(l.PricingModel); err != nil {
		return err
	}
	return s.listingRepo.CreateListing(l)
}

func (s *ListingService) UpdateListing(hostID int, l *db.Listing) error {
	existing, err := s.listingRepo.GetListingByID(l.ID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return fmt.Errorf("listing %d does not belong to host %d", l.ID, hostID)
	}
	if err := validatePricingModel(l.PricingModel); err != nil {
		return err
	}
	return s.listingRepo.UpdateListing(l)
}

// SetAvailability declares the open hours for one calendar date. An empty
// hour set still opens the date for nightly/daily listings.
func (s *ListingService) SetAvailability(hostID, listingID int, date string, hours []int) error {
	listing, err := s.listingRepo.GetListingByID(listingID)
	if err != nil {
		return err
	}
	if listing.HostID != hostID {
		return fmt.Errorf("listing %d does not belong to host %d", listingID, hostID)
	}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("hour %d out of range", h)
		}
	}
	return s.listingRepo.UpsertAvailability(listingID, date, hours)
}

// BlockDate removes a date from the calendar, blocking it for guests.
func (s *ListingService) BlockDate(hostID, listingID int, date string) error {
	listing, err := s.listingRepo.GetListingByID(listingID)
	if err != nil {
		return err
	}
	if listing.HostID != hostID {
		return fmt.Errorf("listing %d does not belong to host %d", listingID, hostID)
	}
	return s.listingRepo.DeleteAvailability(listingID, date)
}

// ListBookings filters a listing's bookings for the host dashboard.
func (s *ListingService) ListBookings(hostID, listingID int, date, status string, limit, offset int) (*entities.BookingsList, error) {
	listing, err := s.listingRepo.GetListingByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.HostID != hostID {
		return nil, fmt.Errorf("listing %d does not belong to host %d", listingID, hostID)
	}
	return s.bookingRepo.ListBookings(listingID, 0, date, status, limit, offset)
}

func validatePricingModel(model string) error {
	switch model {
	case db.PricingHourly, db.PricingNightly, db.PricingDaily:
		return nil
	}
	return fmt.Errorf("unknown pricing model %q", model)
}
