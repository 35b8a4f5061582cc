package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"spacely/internal/db"
)

// DraftStore is the explicit persistence collaborator for auto-saved booking
// selections, keyed by (user, listing). One draft per pair.
type DraftStore interface {
	Get(userID, listingID int) (*db.BookingDraft, error)
	Put(draft *db.BookingDraft) error
	Delete(userID, listingID int) error
}

type DraftRepository struct {
	DB *sql.DB
}

func NewDraftRepository(database *sql.DB) *DraftRepository {
	return &DraftRepository{DB: database}
}

func (r *DraftRepository) Get(userID, listingID int) (*db.BookingDraft, error) {
	var d db.BookingDraft
	var hours pq.Int64Array
	var addOns pq.StringArray
	query := `
		SELECT user_id, listing_id, COALESCE(to_char(selected_date, 'YYYY-MM-DD'), ''), selected_hours,
		       selected_days, guest_count, selected_add_ons, is_recurring,
		       recurrence_freq, recurrence_count, agreed_to_terms,
		       listing_title, listing_image, saved_at
		FROM booking_drafts WHERE user_id = $1 AND listing_id = $2`
	err := r.DB.QueryRow(query, userID, listingID).Scan(
		&d.UserID, &d.ListingID, &d.SelectedDate, &hours,
		&d.SelectedDays, &d.GuestCount, &addOns, &d.IsRecurring,
		&d.RecurrenceFreq, &d.RecurrenceCount, &d.AgreedToTerms,
		&d.ListingTitle, &d.ListingImage, &d.SavedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying draft for user %d listing %d: %w", userID, listingID, err)
	}
	d.SelectedHours = make([]int, len(hours))
	for i, h := range hours {
		d.SelectedHours[i] = int(h)
	}
	d.SelectedAddOns = addOns
	return &d, nil
}

func (r *DraftRepository) Put(draft *db.BookingDraft) error {
	hours := make(pq.Int64Array, len(draft.SelectedHours))
	for i, h := range draft.SelectedHours {
		hours[i] = int64(h)
	}
	query := `
		INSERT INTO booking_drafts
		(user_id, listing_id, selected_date, selected_hours, selected_days, guest_count,
		 selected_add_ons, is_recurring, recurrence_freq, recurrence_count,
		 agreed_to_terms, listing_title, listing_image, saved_at)
		VALUES ($1, $2, NULLIF($3, '')::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (user_id, listing_id) DO UPDATE SET
			selected_date = EXCLUDED.selected_date,
			selected_hours = EXCLUDED.selected_hours,
			selected_days = EXCLUDED.selected_days,
			guest_count = EXCLUDED.guest_count,
			selected_add_ons = EXCLUDED.selected_add_ons,
			is_recurring = EXCLUDED.is_recurring,
			recurrence_freq = EXCLUDED.recurrence_freq,
			recurrence_count = EXCLUDED.recurrence_count,
			agreed_to_terms = EXCLUDED.agreed_to_terms,
			listing_title = EXCLUDED.listing_title,
			listing_image = EXCLUDED.listing_image,
			saved_at = NOW()`
	_, err := r.DB.Exec(query,
		draft.UserID, draft.ListingID, draft.SelectedDate, hours, draft.SelectedDays,
		draft.GuestCount, pq.StringArray(draft.SelectedAddOns), draft.IsRecurring,
		draft.RecurrenceFreq, draft.RecurrenceCount, draft.AgreedToTerms,
		draft.ListingTitle, draft.ListingImage,
	)
	if err != nil {
		return fmt.Errorf("error saving draft for user %d listing %d: %w", draft.UserID, draft.ListingID, err)
	}
	return nil
}

func (r *DraftRepository) Delete(userID, listingID int) error {
	_, err := r.DB.Exec(
		`DELETE FROM booking_drafts WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("error deleting draft for user %d listing %d: %w", userID, listingID, err)
	}
	return nil
}
