// Package server defines shared utility helpers that are reused across
// session and server logic.
package server

import (
	"errors"
	"strings"
)

// ErrServerStopped is returned when a session tries to join a server that
// is not running.
var ErrServerStopped = errors.New("server: not running")

// unknownNickname is the display name of a session before LOGIN.
const unknownNickname = "UNKNOWN"

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
