package api

import (
	"encoding/json"
	"net/http"

	"spacely/internal/auth"
	"spacely/internal/otp"
	"spacely/internal/repository"
)

type VerifyHandler struct {
	OTP      *otp.Service
	UserRepo *repository.UserRepository
}

func NewVerifyHandler(otpService *otp.Service, userRepo *repository.UserRepository) *VerifyHandler {
	return &VerifyHandler{OTP: otpService, UserRepo: userRepo}
}

// SendCode issues a fresh verification code over the requested channel.
func (h *VerifyHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Channel != otp.ChannelEmail && req.Channel != otp.ChannelPhone {
		http.Error(w, "channel must be 'email' or 'phone'", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByID(auth.UserID(r))
	if err != nil || user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if req.Channel == otp.ChannelPhone && user.Phone == "" {
		http.Error(w, "No phone number on file", http.StatusBadRequest)
		return
	}

	if err := h.OTP.IssueCode(user, req.Channel); err != nil {
		http.Error(w, "Could not send verification code", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Verification code sent"})
}

// CheckCode verifies a submitted code and marks the channel verified.
func (h *VerifyHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Channel != otp.ChannelEmail && req.Channel != otp.ChannelPhone {
		http.Error(w, "channel must be 'email' or 'phone'", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByID(auth.UserID(r))
	if err != nil || user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if err := h.OTP.VerifyCode(user, req.Channel, req.Code); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err := h.UserRepo.MarkChannelVerified(user.ID, req.Channel); err != nil {
		http.Error(w, "Could not update verification status", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Verified"})
}
