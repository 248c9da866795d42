// Package server wires HTTP handlers into a ServeMux for the chat server.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with the chat routes.
func SetupRoutes(h *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.RootHandler)
	mux.HandleFunc("/ws", h.WebSocketHandler)
	mux.HandleFunc("/stats", h.StatsHandler)
	return mux
}
