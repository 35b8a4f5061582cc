package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"spacely/internal/auth"
	"spacely/internal/db"
	"spacely/internal/service"
)

type HostHandler struct {
	Listings *service.ListingService
	Bookings *service.BookingService
	CheckIn  *service.CheckInService
}

func NewHostHandler(listings *service.ListingService, bookings *service.BookingService, checkIn *service.CheckInService) *HostHandler {
	return &HostHandler{Listings: listings, Bookings: bookings, CheckIn: checkIn}
}

func (h *HostHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Listings.ListHostListings(auth.HostID(r))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}

func (h *HostHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var listing db.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Listings.CreateListing(auth.HostID(r), &listing); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *HostHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	var listing db.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	listing.ID = id
	if err := h.Listings.UpdateListing(auth.HostID(r), &listing); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Listing updated"})
}

// SetAvailability opens a calendar date with the given hours.
func (h *HostHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Date  string `json:"date"`
		Hours []int  `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Listings.SetAvailability(auth.HostID(r), id, req.Date, req.Hours); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Availability updated"})
}

// BlockDate closes a calendar date for guests.
func (h *HostHandler) BlockDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Listings.BlockDate(auth.HostID(r), id, vars["date"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Date blocked"})
}

func (h *HostHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := h.Listings.ListBookings(auth.HostID(r), id, q.Get("date"), q.Get("status"), limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// CancelBooking lets a host cancel a booking on one of their own listings.
func (h *HostHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.Bookings.CancelBookingAsHost(auth.HostID(r), code); err != nil {
		writeServiceError(w, err, http.StatusConflict)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking cancelled"})
}

// SendCheckInCode delivers an arrival code to the booking's guest.
func (h *HostHandler) SendCheckInCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.CheckIn.SendCode(auth.HostID(r), code); err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Check-in code sent"})
}

// VerifyCheckIn confirms the code the guest read back and starts the booking.
func (h *HostHandler) VerifyCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.CheckIn.Verify(auth.HostID(r), mux.Vars(r)["code"], req.Code); err != nil {
		writeServiceError(w, err, http.StatusUnauthorized)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Guest checked in"})
}
