package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"spacely/internal/auth"
	"spacely/internal/db"
	"spacely/internal/repository"
	"spacely/internal/service"
)

type UserHandler struct {
	Users    *repository.UserRepository
	Listings *service.ListingService
}

func NewUserHandler(users *repository.UserRepository, listings *service.ListingService) *UserHandler {
	return &UserHandler{Users: users, Listings: listings}
}

// GetListing serves the public listing detail view.
func (h *UserHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	listing, err := h.Listings.GetListing(id)
	if err != nil {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Users.AddFavorite(auth.UserID(r), id); err != nil {
		http.Error(w, "Could not save favorite", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Favorite added"})
}

func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Users.RemoveFavorite(auth.UserID(r), id); err != nil {
		http.Error(w, "Could not remove favorite", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Favorite removed"})
}

func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Users.ListFavoriteListingIDs(auth.UserID(r))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	listings := make([]db.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := h.Listings.GetListing(id)
		if err != nil {
			log.Printf("Skipping favorite listing %d: %v", id, err)
			continue
		}
		listings = append(listings, *listing)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}
