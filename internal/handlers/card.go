// internal/handlers/card.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/duelyard/duelyard/internal/database"
)

// ListCardsHandler returns the full card catalog.
func ListCardsHandler(w http.ResponseWriter, r *http.Request) {
	cards, err := database.ListCards(r.Context())
	if err != nil {
		http.Error(w, "error listing cards", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(cards)
}
