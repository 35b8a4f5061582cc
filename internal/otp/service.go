package otp

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spacely/internal/db"
)

const (
	ChannelEmail = "email"
	ChannelPhone = "phone"

	// ChannelCheckIn carries the arrival handshake code. Delivered over SMS
	// when the guest has a phone on file, otherwise email.
	ChannelCheckIn = "checkin"

	codeTTL     = 10 * time.Minute
	maxAttempts = 5
)

var (
	ErrCodeExpired     = fmt.Errorf("verification code expired")
	ErrCodeMismatch    = fmt.Errorf("verification code does not match")
	ErrTooManyAttempts = fmt.Errorf("too many verification attempts")
	ErrNoCode          = fmt.Errorf("no pending verification code")
)

// Store persists pending codes. Implemented by repository.OTPRepository.
type Store interface {
	SaveCode(code *db.OTPCode) error
	LatestCode(userID int, channel string) (*db.OTPCode, error)
	IncrementAttempts(id int) error
	DeleteCodes(userID int, channel string) error
}

// Sender delivers a code over a contact channel. Implemented by
// service.SenderService on top of SendGrid and Twilio.
type Sender interface {
	SendVerificationEmail(toEmail, toName, code string) error
	SendVerificationSMS(toPhone, code string) error
}

// Service issues and verifies one-time codes for contact verification and
// check-in handshakes. Codes are stored bcrypt-hashed with a short TTL and a
// bounded number of verification attempts.
type Service struct {
	store  Store
	sender Sender
	Now    func() time.Time
}

func NewService(store Store, sender Sender) *Service {
	return &Service{store: store, sender: sender, Now: time.Now}
}

// GenerateCode returns a random numeric code of the default length.
func GenerateCode() (string, error) {
	code := make([]byte, DefaultCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// IssueCode generates a fresh code for the user on the given channel,
// replacing any pending one, and delivers it.
func (s *Service) IssueCode(user *db.User, channel string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	if err := s.store.DeleteCodes(user.ID, channel); err != nil {
		return fmt.Errorf("failed to clear pending codes: %w", err)
	}
	record := &db.OTPCode{
		UserID:    user.ID,
		Channel:   channel,
		CodeHash:  string(hash),
		ExpiresAt: s.Now().Add(codeTTL),
	}
	if err := s.store.SaveCode(record); err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}

	switch {
	case channel == ChannelPhone, channel == ChannelCheckIn && user.Phone != "":
		err = s.sender.SendVerificationSMS(user.Phone, code)
	default:
		err = s.sender.SendVerificationEmail(user.Email, user.Name, code)
	}
	if err != nil {
		log.Printf("Failed to deliver verification code to user %d via %s: %v", user.ID, channel, err)
		return err
	}
	return nil
}

// VerifyCode checks a submitted code against the pending one. A successful
// match consumes the code.
func (s *Service) VerifyCode(user *db.User, channel, code string) error {
	record, err := s.store.LatestCode(user.ID, channel)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrNoCode
	}
	if s.Now().After(record.ExpiresAt) {
		return ErrCodeExpired
	}
	if record.Attempts >= maxAttempts {
		return ErrTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		if err := s.store.IncrementAttempts(record.ID); err != nil {
			log.Printf("Failed to record verification attempt for user %d: %v", user.ID, err)
		}
		return ErrCodeMismatch
	}
	return s.store.DeleteCodes(user.ID, channel)
}
