package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
)

// SessionStateProvider returns a point-in-time copy of the session state.
type SessionStateProvider interface {
	StateSnapshot() *types.SessionState
}

type healthResponse struct {
	Status string `json:"status"`
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			log.Error("Failed to encode health response: %v", err)
		}
	}
}

type sessionResponse struct {
	Phase   string              `json:"phase"`
	Players int                 `json:"players"`
	State   *types.SessionState `json:"state"`
}

func HandleGetSession(provider SessionStateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := provider.StateSnapshot()
		w.Header().Set("Content-Type", "application/json")
		response := sessionResponse{
			Phase:   snapshot.Phase().String(),
			Players: len(snapshot.Players),
			State:   snapshot,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("Failed to encode session response: %v", err)
			http.Error(w, "Failed to encode session response", http.StatusInternalServerError)
			return
		}
	}
}
