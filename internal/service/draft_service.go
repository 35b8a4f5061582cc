package service

import (
	"log"

	"spacely/internal/db"
	"spacely/internal/repository"
)

// DraftService auto-saves in-progress booking selections so an interrupted
// flow (payment redirect, verification detour) can be resumed.
type DraftService struct {
	drafts      repository.DraftStore
	listingRepo *repository.ListingRepository
	bookingRepo *repository.BookingRepository
}

func NewDraftService(drafts repository.DraftStore, listingRepo *repository.ListingRepository, bookingRepo *repository.BookingRepository) *DraftService {
	return &DraftService{drafts: drafts, listingRepo: listingRepo, bookingRepo: bookingRepo}
}

// Save stores the draft, denormalizing the listing title and image so the
// dashboard can render saved drafts without extra lookups. A draft with a
// concrete date also refreshes a Reserved hold so the selection survives the
// payment redirect; the hold never blocks its own author.
func (s *DraftService) Save(userID int, draft *db.BookingDraft) error {
	draft.UserID = userID
	listing, err := s.listingRepo.GetListingByID(draft.ListingID)
	if err != nil {
		return err
	}
	draft.ListingTitle = listing.Title
	draft.ListingImage = listing.ImageURL
	if err := s.drafts.Put(draft); err != nil {
		return err
	}

	if draft.SelectedDate != "" {
		if err := s.refreshHold(userID, draft); err != nil {
			log.Printf("Could not refresh reserved hold for user %d listing %d: %v", userID, draft.ListingID, err)
		}
	}
	return nil
}

func (s *DraftService) refreshHold(userID int, draft *db.BookingDraft) error {
	if err := s.bookingRepo.DeleteReservedHolds(userID, draft.ListingID); err != nil {
		return err
	}
	duration := draft.SelectedDays
	if duration < 1 {
		duration = 1
	}
	code, err := newBookingCode()
	if err != nil {
		return err
	}
	hold := &db.Booking{
		Code:       code,
		ListingID:  draft.ListingID,
		UserID:     userID,
		Date:       draft.SelectedDate,
		Duration:   duration,
		Hours:      draft.SelectedHours,
		GuestCount: draft.GuestCount,
		AddOnIDs:   draft.SelectedAddOns,
	}
	return s.bookingRepo.CreateReservedHold(hold)
}

// Restore returns the saved draft for a listing, or nil when there is none.
func (s *DraftService) Restore(userID, listingID int) (*db.BookingDraft, error) {
	return s.drafts.Get(userID, listingID)
}

// Clear removes the draft and any Reserved hold backing it.
func (s *DraftService) Clear(userID, listingID int) error {
	if err := s.bookingRepo.DeleteReservedHolds(userID, listingID); err != nil {
		log.Printf("Could not clear reserved holds for user %d listing %d: %v", userID, listingID, err)
	}
	return s.drafts.Delete(userID, listingID)
}
