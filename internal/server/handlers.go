// Package server exposes the chat HTTP handlers: WebSocket upgrades, the
// liveness text and occupancy stats.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

const healthText = "LAN chat server is running\n"

// WebSocketHandler upgrades the request and hands the connection to the hub.
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	h.Serve(conn, r.RemoteAddr)
}

// RootHandler accepts WebSocket upgrades on "/" and answers plain requests
// with the liveness text.
func (h *Hub) RootHandler(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.WebSocketHandler(w, r)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	HealthHandler(w, r)
}

// StatsHandler reports the current occupancy as JSON.
func (h *Hub) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"clients": h.Count()}); err != nil {
		h.logger.Warn("writing stats response", "error", err)
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, healthText)
}
