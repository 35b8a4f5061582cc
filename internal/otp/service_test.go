package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacely/internal/db"
)

type fakeStore struct {
	codes  []*db.OTPCode
	nextID int
}

func (f *fakeStore) SaveCode(code *db.OTPCode) error {
	f.nextID++
	code.ID = f.nextID
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeStore) LatestCode(userID int, channel string) (*db.OTPCode, error) {
	for i := len(f.codes) - 1; i >= 0; i-- {
		if f.codes[i].UserID == userID && f.codes[i].Channel == channel {
			return f.codes[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) IncrementAttempts(id int) error {
	for _, c := range f.codes {
		if c.ID == id {
			c.Attempts++
		}
	}
	return nil
}

func (f *fakeStore) DeleteCodes(userID int, channel string) error {
	var kept []*db.OTPCode
	for _, c := range f.codes {
		if c.UserID != userID || c.Channel != channel {
			kept = append(kept, c)
		}
	}
	f.codes = kept
	return nil
}

type fakeSender struct {
	lastEmailCode string
	lastSMSCode   string
}

func (f *fakeSender) SendVerificationEmail(toEmail, toName, code string) error {
	f.lastEmailCode = code
	return nil
}

func (f *fakeSender) SendVerificationSMS(toPhone, code string) error {
	f.lastSMSCode = code
	return nil
}

func wrongCode(right string) string {
	if right == "000000" {
		return "000001"
	}
	return "000000"
}

func TestIssueAndVerifyCode(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := NewService(store, sender)
	user := &db.User{ID: 1, Email: "g@example.com", Name: "G"}

	require.NoError(t, svc.IssueCode(user, ChannelEmail))
	require.Len(t, sender.lastEmailCode, DefaultCodeLength)

	assert.ErrorIs(t, svc.VerifyCode(user, ChannelEmail, wrongCode(sender.lastEmailCode)), ErrCodeMismatch)
	assert.NoError(t, svc.VerifyCode(user, ChannelEmail, sender.lastEmailCode))

	// Code is consumed on success.
	assert.ErrorIs(t, svc.VerifyCode(user, ChannelEmail, sender.lastEmailCode), ErrNoCode)
}

func TestVerifyCodeExpiry(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := NewService(store, sender)
	user := &db.User{ID: 1, Phone: "+15550100"}

	require.NoError(t, svc.IssueCode(user, ChannelPhone))
	svc.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	assert.ErrorIs(t, svc.VerifyCode(user, ChannelPhone, sender.lastSMSCode), ErrCodeExpired)
}

func TestVerifyCodeAttemptLimit(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	svc := NewService(store, sender)
	user := &db.User{ID: 1, Email: "g@example.com"}

	require.NoError(t, svc.IssueCode(user, ChannelEmail))
	for i := 0; i < maxAttempts; i++ {
		assert.ErrorIs(t, svc.VerifyCode(user, ChannelEmail, wrongCode(sender.lastEmailCode)), ErrCodeMismatch)
	}
	// Even the right code is refused once the limit is hit.
	assert.ErrorIs(t, svc.VerifyCode(user, ChannelEmail, sender.lastEmailCode), ErrTooManyAttempts)
}
