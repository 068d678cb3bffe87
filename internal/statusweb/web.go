// Package statusweb serves one read-only /status endpoint reporting
// bucket occupancy and the live-game count as plain JSON. There is no
// template or leaderboard here — this is an operational probe, not a
// player-facing page.
package statusweb

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fpc-server/internal/config"
	"fpc-server/internal/peer"
	"fpc-server/internal/registry"
)

// Status is the JSON body served at /status.
type Status struct {
	Idle      int `json:"idle"`
	MMQueue   int `json:"matchmaking_queue"`
	HbWait    int `json:"heartbeat_wait"`
	HbReady   int `json:"heartbeat_ready"`
	InGame    int `json:"in_game"`
	LiveGames int `json:"live_games"`
}

// snapshot reads the bucket sizes plus the live-game count; InGame is
// derived from GameCount rather than a bucket, since a peer's InGame
// state is reached by a direct WithState transition in the dispatcher
// that has no corresponding bucket to cache it in.
func snapshot(reg *registry.Registry) Status {
	games := reg.GameCount()
	return Status{
		Idle:      len(reg.Bucket(peer.Idle)),
		MMQueue:   len(reg.Bucket(peer.MMQueue)),
		HbWait:    len(reg.Bucket(peer.HbWait)),
		HbReady:   len(reg.Bucket(peer.HbReady)),
		InGame:    games * 4,
		LiveGames: games,
	}
}

// Handler serves GET /status as application/json; any other method is
// rejected with 405.
func Handler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot(reg)); err != nil {
			config.Log.Print(err)
		}
	}
}

// ListenAndServe starts the status HTTP server, blocking until it
// exits.
func ListenAndServe(reg *registry.Registry, host string, port uint) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", Handler(reg))

	addr := fmt.Sprintf("%s:%d", host, port)
	config.Log.Printf("status endpoint listening on http://%s/status", addr)
	return http.ListenAndServe(addr, mux)
}
