package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendCodeRejectsUnknownChannel(t *testing.T) {
	h := NewVerifyHandler(nil, nil)

	for _, channel := range []string{"checkin", "", "carrier-pigeon"} {
		req := httptest.NewRequest(http.MethodPost, "/api/verify/send", strings.NewReader(`{"channel":"`+channel+`"}`))
		rec := httptest.NewRecorder()
		h.SendCode(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "channel %q", channel)
	}
}

func TestCheckCodeRejectsUnknownChannel(t *testing.T) {
	h := NewVerifyHandler(nil, nil)

	// The check-in handshake channel is host-driven; a guest must not be able
	// to consume its code through the contact verification endpoint.
	for _, channel := range []string{"checkin", "", "carrier-pigeon"} {
		req := httptest.NewRequest(http.MethodPost, "/api/verify/check", strings.NewReader(`{"channel":"`+channel+`","code":"1234"}`))
		rec := httptest.NewRecorder()
		h.CheckCode(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "channel %q", channel)
	}
}
