// Package server wires HTTP handlers into a ServeMux for the lobby server
// via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application routes.
// It sets up handlers for health check, WebSocket endpoint, status report, and test page.
func SetupRoutes(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HealthHandler)
	mux.HandleFunc("/ws", s.WebSocketHandler)
	mux.HandleFunc("/status", s.StatusHandler)
	mux.HandleFunc("/test", s.TestPageHandler)
	return mux
}
