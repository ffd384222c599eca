// internal/handlers/deck.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/duelyard/duelyard/internal/database"
	"github.com/duelyard/duelyard/internal/game"
	"github.com/duelyard/duelyard/internal/middleware"
)

// CreateDeckHandler stores a new deck for the authenticated user. A deck
// references exactly ten catalog cards; order is preserved.
func CreateDeckHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name    string  `json:"name"`
		CardIDs []int64 `json:"cardIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "deck name is required", http.StatusBadRequest)
		return
	}
	if len(req.CardIDs) != game.DeckSize {
		http.Error(w, "a deck must contain exactly 10 cards", http.StatusBadRequest)
		return
	}

	deck, err := database.CreateDeck(r.Context(), identity.UserID, req.Name, req.CardIDs)
	if err != nil {
		http.Error(w, "error creating deck", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(deck)
}

// ListDecksHandler returns the authenticated user's decks.
func ListDecksHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	decks, err := database.ListDecksByUser(r.Context(), identity.UserID)
	if err != nil {
		http.Error(w, "error listing decks", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(decks)
}

// GetDeckHandler returns one of the authenticated user's decks with its
// cards.
func GetDeckHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	deckID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid deck id", http.StatusBadRequest)
		return
	}

	dw, found, err := database.GetDeckWithCards(r.Context(), deckID)
	if err != nil {
		http.Error(w, "error fetching deck", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "deck not found", http.StatusNotFound)
		return
	}
	if dw.Deck.UserID != identity.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	json.NewEncoder(w).Encode(dw)
}

// DeleteDeckHandler removes one of the authenticated user's decks.
func DeleteDeckHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	deckID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid deck id", http.StatusBadRequest)
		return
	}

	deleted, err := database.DeleteDeck(r.Context(), deckID, identity.UserID)
	if err != nil {
		http.Error(w, "error deleting deck", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "deck not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
