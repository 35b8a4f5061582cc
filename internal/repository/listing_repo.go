package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"spacely/internal/db"
)

type ListingRepository struct {
	DB *sql.DB
}

func NewListingRepository(database *sql.DB) *ListingRepository {
	return &ListingRepository{DB: database}
}

// GetListingByID loads a listing together with its availability calendar and
// add-ons. The calendar map stays nil when the host keeps no calendar rows,
// which the engine treats as "always open".
func (r *ListingRepository) GetListingByID(id int) (*db.Listing, error) {
	var l db.Listing
	query := `
		SELECT id, host_id, title, description, image_url, pricing_model, price_cents,
		       capacity, included_guests, price_per_extra_guest_cents, caution_fee_cents,
		       allow_recurring, require_id_verification, created_at, updated_at
		FROM listings WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description, &l.ImageURL, &l.PricingModel, &l.PriceCents,
		&l.Capacity, &l.IncludedGuests, &l.PricePerExtraGuestCents, &l.CautionFeeCents,
		&l.AllowRecurring, &l.RequireIDVerification, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying listing %d: %w", id, err)
	}

	availability, err := r.getAvailability(id)
	if err != nil {
		return nil, err
	}
	l.Availability = availability

	addOns, err := r.getAddOns(id)
	if err != nil {
		return nil, err
	}
	l.AddOns = addOns

	return &l, nil
}

func (r *ListingRepository) getAvailability(listingID int) (map[string][]int, error) {
	rows, err := r.DB.Query(
		`SELECT to_char(date, 'YYYY-MM-DD'), hours FROM listing_availability WHERE listing_id = $1 ORDER BY date`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying availability for listing %d: %w", listingID, err)
	}
	defer rows.Close()

	var availability map[string][]int
	for rows.Next() {
		var date string
		var hours pq.Int64Array
		if err := rows.Scan(&date, &hours); err != nil {
			return nil, fmt.Errorf("error scanning availability row: %w", err)
		}
		if availability == nil {
			availability = make(map[string][]int)
		}
		open := make([]int, len(hours))
		for i, h := range hours {
			open[i] = int(h)
		}
		availability[date] = open
	}
	return availability, rows.Err()
}

func (r *ListingRepository) getAddOns(listingID int) ([]db.AddOn, error) {
	rows, err := r.DB.Query(
		`SELECT id, listing_id, name, price_cents FROM listing_add_ons WHERE listing_id = $1 ORDER BY name`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying add-ons for listing %d: %w", listingID, err)
	}
	defer rows.Close()

	var addOns []db.AddOn
	for rows.Next() {
		var a db.AddOn
		if err := rows.Scan(&a.ID, &a.ListingID, &a.Name, &a.PriceCents); err != nil {
			return nil, fmt.Errorf("error scanning add-on row: %w", err)
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

func (r *ListingRepository) ListListingsByHost(hostID int) ([]db.Listing, error) {
	query := `
		SELECT id, host_id, title, description, image_url, pricing_model, price_cents,
		       capacity, included_guests, price_per_extra_guest_cents, caution_fee_cents,
		       allow_recurring, require_id_verification, created_at, updated_at
		FROM listings WHERE host_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, hostID)
	if err != nil {
		return nil, fmt.Errorf("error querying listings for host %d: %w", hostID, err)
	}
	defer rows.Close()

	var listings []db.Listing
	for rows.Next() {
		var l db.Listing
		err := rows.Scan(
			&l.ID, &l.HostID, &l.Title, &l.Description, &l.ImageURL, &l.PricingModel, &l.PriceCents,
			&l.Capacity, &l.IncludedGuests, &l.PricePerExtraGuestCents, &l.CautionFeeCents,
			&l.AllowRecurring, &l.RequireIDVerification, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning listing row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) CreateListing(l *db.Listing) error {
	query := `
		INSERT INTO listings
		(host_id, title, description, image_url, pricing_model, price_cents, capacity,
		 included_guests, price_per_extra_guest_cents, caution_fee_cents,
		 allow_recurring, require_id_verification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		l.HostID, l.Title, l.Description, l.ImageURL, l.PricingModel, l.PriceCents, l.Capacity,
		l.IncludedGuests, l.PricePerExtraGuestCents, l.CautionFeeCents,
		l.AllowRecurring, l.RequireIDVerification,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) UpdateListing(l *db.Listing) error {
	query := `
		UPDATE listings SET
			title = $2, description = $3, image_url = $4, pricing_model = $5,
			price_cents = $6, capacity = $7, included_guests = $8,
			price_per_extra_guest_cents = $9, caution_fee_cents = $10,
			allow_recurring = $11, require_id_verification = $12, updated_at = NOW()
		WHERE id = $1`
	_, err := r.DB.Exec(query,
		l.ID, l.Title, l.Description, l.ImageURL, l.PricingModel,
		l.PriceCents, l.Capacity, l.IncludedGuests,
		l.PricePerExtraGuestCents, l.CautionFeeCents,
		l.AllowRecurring, l.RequireIDVerification,
	)
	if err != nil {
		return fmt.Errorf("error updating listing %d: %w", l.ID, err)
	}
	return nil
}

// UpsertAvailability replaces the open hours for one calendar date.
func (r *ListingRepository) UpsertAvailability(listingID int, date string, hours []int) error {
	arr := make(pq.Int64Array, len(hours))
	for i, h := range hours {
		arr[i] = int64(h)
	}
	query := `
		INSERT INTO listing_availability (listing_id, date, hours)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (listing_id, date) DO UPDATE SET hours = EXCLUDED.hours`
	_, err := r.DB.Exec(query, listingID, date, arr)
	if err != nil {
		return fmt.Errorf("error upserting availability for listing %d on %s: %w", listingID, date, err)
	}
	return nil
}

func (r *ListingRepository) DeleteAvailability(listingID int, date string) error {
	_, err := r.DB.Exec(
		`DELETE FROM listing_availability WHERE listing_id = $1 AND date = $2::date`,
		listingID, date,
	)
	if err != nil {
		return fmt.Errorf("error deleting availability for listing %d on %s: %w", listingID, date, err)
	}
	return nil
}
