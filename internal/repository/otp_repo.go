package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"spacely/internal/db"
)

// OTPRepository implements otp.Store over Postgres.
type OTPRepository struct {
	DB *sql.DB
}

func NewOTPRepository(database *sql.DB) *OTPRepository {
	return &OTPRepository{DB: database}
}

func (r *OTPRepository) SaveCode(code *db.OTPCode) error {
	query := `
		INSERT INTO otp_codes (user_id, channel, code_hash, attempts, expires_at, created_at)
		VALUES ($1, $2, $3, 0, $4, NOW())
		RETURNING id, created_at`
	err := r.DB.QueryRow(query, code.UserID, code.Channel, code.CodeHash, code.ExpiresAt).
		Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving otp code for user %d: %w", code.UserID, err)
	}
	return nil
}

func (r *OTPRepository) LatestCode(userID int, channel string) (*db.OTPCode, error) {
	var c db.OTPCode
	query := `
		SELECT id, user_id, channel, code_hash, attempts, expires_at, created_at
		FROM otp_codes
		WHERE user_id = $1 AND channel = $2
		ORDER BY created_at DESC LIMIT 1`
	err := r.DB.QueryRow(query, userID, channel).Scan(
		&c.ID, &c.UserID, &c.Channel, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying otp code for user %d: %w", userID, err)
	}
	return &c, nil
}

func (r *OTPRepository) IncrementAttempts(id int) error {
	_, err := r.DB.Exec(`UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error incrementing otp attempts: %w", err)
	}
	return nil
}

func (r *OTPRepository) DeleteCodes(userID int, channel string) error {
	_, err := r.DB.Exec(
		`DELETE FROM otp_codes WHERE user_id = $1 AND channel = $2`,
		userID, channel,
	)
	if err != nil {
		return fmt.Errorf("error deleting otp codes for user %d: %w", userID, err)
	}
	return nil
}
