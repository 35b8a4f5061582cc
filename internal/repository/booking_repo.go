package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/lib/pq"

	"spacely/internal/db"
	"spacely/internal/entities"
)

// ErrBookingConflict is returned when the transactional re-check inside
// CreateBookingChecked finds that another user won the slot between
// validation and submission. First writer wins at the row level.
var ErrBookingConflict = errors.New("booking conflicts with an existing reservation")

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `
	id, code, listing_id, user_id, to_char(date, 'YYYY-MM-DD'), duration, hours,
	guest_count, add_on_ids, status, total_cents, payment_status,
	COALESCE(stripe_session_id, ''), language, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*db.Booking, error) {
	var b db.Booking
	var hours pq.Int64Array
	var addOnIDs pq.StringArray
	err := row.Scan(
		&b.ID, &b.Code, &b.ListingID, &b.UserID, &b.Date, &b.Duration, &hours,
		&b.GuestCount, &addOnIDs, &b.Status, &b.TotalCents, &b.PaymentStatus,
		&b.StripeSessionID, &b.Language, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Hours = make([]int, len(hours))
	for i, h := range hours {
		b.Hours[i] = int(h)
	}
	b.AddOnIDs = addOnIDs
	return &b, nil
}

// GetBookingsForListing returns every non-deleted booking row for a listing,
// a consistent snapshot for the engine to validate against. Cancelled rows
// are included; the engine decides what blocks.
func (r *BookingRepository) GetBookingsForListing(listingID int) ([]db.Booking, error) {
	rows, err := r.DB.Query(
		`SELECT `+bookingColumns+` FROM bookings WHERE listing_id = $1 ORDER BY date, id`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for listing %d: %w", listingID, err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// CreateBookingChecked inserts one row per occurrence inside a transaction,
// re-checking for conflicting active rows after taking a lock on the
// listing's bookings. A concurrent winner surfaces as ErrBookingConflict and
// nothing is written.
func (r *BookingRepository) CreateBookingChecked(bookings []*db.Booking, hourly bool) error {
	if len(bookings) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize submissions per listing.
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, bookings[0].ListingID); err != nil {
		return fmt.Errorf("error locking listing %d: %w", bookings[0].ListingID, err)
	}

	for _, b := range bookings {
		conflict, err := hasConflict(tx, b, hourly)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
	}

	query := `
		INSERT INTO bookings
		(code, listing_id, user_id, date, duration, hours, guest_count, add_on_ids,
		 status, total_cents, payment_status, stripe_session_id, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	for _, b := range bookings {
		hours := make(pq.Int64Array, len(b.Hours))
		for i, h := range b.Hours {
			hours[i] = int64(h)
		}
		err := tx.QueryRow(query,
			b.Code, b.ListingID, b.UserID, b.Date, b.Duration, hours, b.GuestCount,
			pq.StringArray(b.AddOnIDs), b.Status, b.TotalCents, b.PaymentStatus,
			b.StripeSessionID, b.Language, b.CreatedAt, b.UpdatedAt,
		).Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("error inserting booking occurrence %s: %w", b.Date, err)
		}
	}

	return tx.Commit()
}

func hasConflict(tx *sql.Tx, b *db.Booking, hourly bool) (bool, error) {
	var count int
	if hourly {
		hours := make(pq.Int64Array, len(b.Hours))
		for i, h := range b.Hours {
			hours[i] = int64(h)
		}
		query := `
			SELECT COUNT(*) FROM bookings
			WHERE listing_id = $1 AND date = $2::date
			  AND status NOT IN ('cancelled')
			  AND NOT (status = 'reserved' AND user_id = $3)
			  AND hours && $4`
		if err := tx.QueryRow(query, b.ListingID, b.Date, b.UserID, hours).Scan(&count); err != nil {
			return false, fmt.Errorf("error re-checking hourly conflicts: %w", err)
		}
	} else {
		query := `
			SELECT COUNT(*) FROM bookings
			WHERE listing_id = $1
			  AND status NOT IN ('cancelled')
			  AND NOT (status = 'reserved' AND user_id = $2)
			  AND date < $3::date + $4
			  AND date + GREATEST(duration, 1) > $3::date`
		if err := tx.QueryRow(query, b.ListingID, b.UserID, b.Date, b.Duration).Scan(&count); err != nil {
			return false, fmt.Errorf("error re-checking nightly conflicts: %w", err)
		}
	}
	return count > 0, nil
}

// GetBookingsByCode returns every occurrence row of a series.
func (r *BookingRepository) GetBookingsByCode(code string) ([]db.Booking, error) {
	rows, err := r.DB.Query(
		`SELECT `+bookingColumns+` FROM bookings WHERE code = $1 ORDER BY date`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings with code '%s': %w", code, err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("booking with code '%s' not found: %w", code, sql.ErrNoRows)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) GetBookingByStripeSessionID(sessionID string) (*db.Booking, error) {
	b, err := scanBooking(r.DB.QueryRow(
		`SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1 ORDER BY date LIMIT 1`,
		sessionID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with session '%s' not found: %w", sessionID, err)
		}
		return nil, fmt.Errorf("error querying booking by session: %w", err)
	}
	return b, nil
}

// UpdateStatusByCode moves every occurrence of a series to a new status and
// returns the number of rows touched.
func (r *BookingRepository) UpdateStatusByCode(code, status string) (int64, error) {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE code = $1`,
		code, status,
	)
	if err != nil {
		return 0, fmt.Errorf("error updating status for booking '%s': %w", code, err)
	}
	return result.RowsAffected()
}

// UpdateStatusAndPaymentBySessionID confirms or releases a whole series from
// a checkout session outcome.
func (r *BookingRepository) UpdateStatusAndPaymentBySessionID(sessionID, status, paymentStatus string) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $2, payment_status = $3, updated_at = NOW() WHERE stripe_session_id = $1`,
		sessionID, status, paymentStatus,
	)
	if err != nil {
		return fmt.Errorf("error updating booking for session '%s': %w", sessionID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		log.Printf("No bookings matched stripe session %s", sessionID)
	}
	return nil
}

// ListBookings filters bookings for host and guest dashboards.
func (r *BookingRepository) ListBookings(listingID, userID int, date, status string, limit, offset int) (*entities.BookingsList, error) {
	query := `
		SELECT b.code, b.listing_id, l.title, b.user_id, to_char(b.date, 'YYYY-MM-DD'),
		       b.duration, b.hours, b.guest_count, b.status, b.total_cents,
		       b.payment_status, b.language, b.created_at, b.updated_at,
		       COUNT(*) OVER ()
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if listingID > 0 {
		query += " AND b.listing_id = $" + strconv.Itoa(idx)
		args = append(args, listingID)
		idx++
	}
	if userID > 0 {
		query += " AND b.user_id = $" + strconv.Itoa(idx)
		args = append(args, userID)
		idx++
	}
	if date != "" {
		query += " AND b.date = $" + strconv.Itoa(idx) + "::date"
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND b.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY b.date DESC, b.id DESC LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	list := &entities.BookingsList{Limit: limit, Offset: offset}
	for rows.Next() {
		var resp entities.BookingResponse
		var hours pq.Int64Array
		err := rows.Scan(
			&resp.Code, &resp.ListingID, &resp.ListingTitle, &resp.UserID, &resp.Date,
			&resp.Duration, &hours, &resp.GuestCount, &resp.Status, &resp.TotalCents,
			&resp.PaymentStatus, &resp.Language, &resp.CreatedAt, &resp.UpdatedAt,
			&list.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking list row: %w", err)
		}
		resp.Hours = make([]int, len(hours))
		for i, h := range hours {
			resp.Hours[i] = int(h)
		}
		list.Bookings = append(list.Bookings, resp)
	}
	return list, rows.Err()
}

// DeleteReservedHolds drops a guest's Reserved rows on a listing, so a
// refreshed draft never stacks holds.
func (r *BookingRepository) DeleteReservedHolds(userID, listingID int) error {
	_, err := r.DB.Exec(
		`DELETE FROM bookings WHERE user_id = $1 AND listing_id = $2 AND status = 'reserved'`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("error deleting reserved holds for user %d listing %d: %w", userID, listingID, err)
	}
	return nil
}

// CreateReservedHold writes a short-lived Reserved row so a guest's selection
// survives the payment redirect without blocking the guest themselves.
func (r *BookingRepository) CreateReservedHold(b *db.Booking) error {
	hours := make(pq.Int64Array, len(b.Hours))
	for i, h := range b.Hours {
		hours[i] = int64(h)
	}
	query := `
		INSERT INTO bookings
		(code, listing_id, user_id, date, duration, hours, guest_count, add_on_ids,
		 status, total_cents, payment_status, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, 'reserved', $9, 'pending', $10, $11, $12)
		RETURNING id`
	now := time.Now().UTC()
	return r.DB.QueryRow(query,
		b.Code, b.ListingID, b.UserID, b.Date, b.Duration, hours, b.GuestCount,
		pq.StringArray(b.AddOnIDs), b.TotalCents, b.Language, now, now,
	).Scan(&b.ID)
}
