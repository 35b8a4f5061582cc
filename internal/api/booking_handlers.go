package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"spacely/internal/auth"
	"spacely/internal/db"
	"spacely/internal/entities"
	httperrors "spacely/internal/errors"
	"spacely/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
	Drafts  *service.DraftService
}

func NewBookingHandler(svc *service.BookingService, drafts *service.DraftService) *BookingHandler {
	return &BookingHandler{Service: svc, Drafts: drafts}
}

// writeServiceError unwraps typed service errors into their HTTP status,
// falling back to the given status for plain errors.
func writeServiceError(w http.ResponseWriter, err error, fallback int) {
	var httpErr *httperrors.HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Message, httpErr.Code)
		return
	}
	http.Error(w, err.Error(), fallback)
}

// rejectionStatus maps a typed business rejection to an HTTP status. The
// rejection itself travels in the response body either way.
func rejectionStatus(rej *entities.Rejection) int {
	switch rej.Code {
	case entities.RejectNotAuthenticated:
		return http.StatusUnauthorized
	case entities.RejectVerificationRequired:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CheckAvailability(listingID, auth.UserID(r), req)
	if err != nil {
		http.Error(w, "Error checking availability", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.ListingID = listingID
	fees, err := h.Service.Quote(listingID, req)
	if err != nil {
		http.Error(w, "Could not compute quote", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fees)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		entities.BookingRequest
		SessionVerified bool `json:"session_verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.SelectedDate == "" || req.ListingID == 0 {
		http.Error(w, "listing_id and selected_date are required", http.StatusBadRequest)
		return
	}

	session, rejection, err := h.Service.CreateBooking(auth.UserID(r), req.BookingRequest, req.SessionVerified)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rejection != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rejectionStatus(rejection))
		json.NewEncoder(w).Encode(map[string]interface{}{"rejection": rejection})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := h.Service.ListUserBookings(auth.UserID(r), q.Get("date"), q.Get("status"), limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	series, err := h.Service.GetBookingSeries(code, auth.UserID(r), true)
	if err != nil {
		writeServiceError(w, err, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(series)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.Service.CancelBooking(code, auth.UserID(r)); err != nil {
		writeServiceError(w, err, http.StatusConflict)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking cancelled"})
}

func (h *BookingHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft db.BookingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Drafts.Save(auth.UserID(r), &draft); err != nil {
		http.Error(w, "Could not save draft", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Draft saved"})
}

func (h *BookingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	draft, err := h.Drafts.Restore(auth.UserID(r), listingID)
	if err != nil {
		http.Error(w, "Could not load draft", http.StatusInternalServerError)
		return
	}
	if draft == nil {
		http.Error(w, "No draft", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

func (h *BookingHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Drafts.Clear(auth.UserID(r), listingID); err != nil {
		http.Error(w, "Could not delete draft", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Draft deleted"})
}
