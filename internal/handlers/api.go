// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wizard-cards/wizard-service/internal/game"
)

// PingHandler is a trivial liveness probe.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// DeckHandler exposes the static deck composition: 60 cards, four of each
// wild plus ranks 1..13 in the four colors.
func DeckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game.NewDeck())
}
