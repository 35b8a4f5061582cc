package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedBookingIDsPastEnd returns ids of confirmed or started bookings
// whose occupied range has fully elapsed.
func (r *JobRepository) GetConfirmedBookingIDsPastEnd() ([]int, error) {
	query := `
		SELECT id FROM bookings
		WHERE status IN ('confirmed', 'started')
		  AND date + GREATEST(duration, 1) < CURRENT_DATE`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings past end date: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// DeleteExpiredReservedHolds drops Reserved rows older than the given cutoff.
// Holds only exist to carry a selection across the payment redirect.
func (r *JobRepository) DeleteExpiredReservedHolds(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM bookings WHERE status = 'reserved' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired reserved holds: %w", err)
	}
	return result.RowsAffected()
}

// DeleteStaleDrafts drops auto-saved drafts not touched since the cutoff.
func (r *JobRepository) DeleteStaleDrafts(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM booking_drafts WHERE saved_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale drafts: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpiredOTPCodes drops verification codes past their expiry.
func (r *JobRepository) DeleteExpiredOTPCodes() (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM otp_codes WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired otp codes: %w", err)
	}
	return result.RowsAffected()
}
