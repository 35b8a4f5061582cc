package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"spacely/internal/db"
)

const userColumns = `
	id, name, email, COALESCE(phone, ''), password_hash, is_host,
	email_verified, phone_verified, kyc_verified, language, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsHost,
		&u.EmailVerified, &u.PhoneVerified, &u.KYCVerified, &u.Language,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int) (*db.User, error) {
	return r.scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(email string) (*db.User, error) {
	return r.scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) CreateUser(u *db.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	query := `
		INSERT INTO users (name, email, phone, password_hash, is_host, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query, u.Name, u.Email, u.Phone, string(hashed), u.IsHost, u.Language).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// MarkChannelVerified flips the verification flag for a contact channel after
// a successful OTP check.
func (r *UserRepository) MarkChannelVerified(userID int, channel string) error {
	column := "email_verified"
	if channel == "phone" {
		column = "phone_verified"
	}
	_, err := r.DB.Exec(
		`UPDATE users SET `+column+` = TRUE, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("error marking %s verified for user %d: %w", channel, userID, err)
	}
	return nil
}

func (r *UserRepository) MarkKYCVerified(userID int) error {
	_, err := r.DB.Exec(
		`UPDATE users SET kyc_verified = TRUE, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("error marking KYC verified for user %d: %w", userID, err)
	}
	return nil
}

func (r *UserRepository) AddFavorite(userID, listingID int) error {
	_, err := r.DB.Exec(
		`INSERT INTO favorites (user_id, listing_id, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("error adding favorite %d for user %d: %w", listingID, userID, err)
	}
	return nil
}

func (r *UserRepository) RemoveFavorite(userID, listingID int) error {
	_, err := r.DB.Exec(
		`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("error removing favorite %d for user %d: %w", listingID, userID, err)
	}
	return nil
}

func (r *UserRepository) ListFavoriteListingIDs(userID int) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT listing_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
