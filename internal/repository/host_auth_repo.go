package repository

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type HostCredentials struct {
	ID           int
	Email        string
	PasswordHash string
}

type HostAuthRepository interface {
	GetByEmail(email string) (*HostCredentials, error)
	CreateHost(name, email, password string) error
}

type hostAuthRepository struct {
	db *sql.DB
}

func NewHostAuthRepository(database *sql.DB) HostAuthRepository {
	return &hostAuthRepository{db: database}
}

func (r *hostAuthRepository) GetByEmail(email string) (*HostCredentials, error) {
	var host HostCredentials
	err := r.db.QueryRow(
		"SELECT id, email, password_hash FROM users WHERE email = $1 AND is_host = TRUE",
		email,
	).Scan(&host.ID, &host.Email, &host.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &host, nil
}

func (r *hostAuthRepository) CreateHost(name, email, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (name, email, password_hash, is_host, language, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, 'en', NOW(), NOW())`
	_, err = r.db.Exec(query, name, email, hashedPassword)
	return err
}
