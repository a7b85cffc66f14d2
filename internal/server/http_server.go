// Package server constructs the HTTP service that carries the lobby's
// WebSocket endpoint.
package server

import (
	"net/http"
	"time"
)

// CreateServer creates and configures an HTTP server with the specified address
// and handler. The timeouts bound the HTTP handshake only; upgraded
// connections clear them and use the session deadlines instead.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
