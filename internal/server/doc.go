// Package server implements the lobby server: WebSocket sessions, the
// session set, broadcast to the lobby, and the operator start/stop lifecycle.
//
// The implementation is organized into specialized files for configuration,
// sessions, message dispatch, the session set, routing, and HTTP handlers.
// Room state lives in the lobby package and the wire vocabulary in the
// protocol package.
package server
