// Package testhelpers provides common utilities and helper functions for testing the lobby server.
//
// This package contains reusable test utilities that are shared across package and integration
// tests. It provides functions for dialing the WebSocket endpoint, exchanging protocol messages,
// and waiting for asynchronous server state to settle.
package testhelpers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// MessageTimeout bounds every wait for an expected message.
const MessageTimeout = 2 * time.Second

// WebSocketURL builds the lobby endpoint URL for a listen address such as
// "127.0.0.1:5555" or "[::]:5555".
func WebSocketURL(addr string) string {
	if strings.HasPrefix(addr, "[::]") {
		addr = "127.0.0.1" + strings.TrimPrefix(addr, "[::]")
	}
	return "ws://" + addr + "/ws"
}

// MakeRequest creates and executes an HTTP request, returning the response.
// It includes a 5-second timeout and fails the test if the request cannot be
// created or executed successfully.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// ConnectWebSocket creates a WebSocket connection to the specified URL.
// It returns the connection or an error if connection fails.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	return ConnectWebSocketWithHeader(url, http.Header{})
}

// ConnectWebSocketWithHeader dials with extra request headers, such as Origin.
func ConnectWebSocketWithHeader(url string, header http.Header) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	conn, resp, err := dialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// MustConnect dials url and fails the test on error. The connection is
// closed when the test ends.
func MustConnect(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, err := ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// Send writes one protocol message and fails the test on error.
func Send(t *testing.T, conn *websocket.Conn, mode protocol.Mode, user, text string) {
	t.Helper()
	if err := conn.WriteJSON(protocol.New(mode, user, text)); err != nil {
		t.Fatalf("Failed to send %s: %v", mode, err)
	}
}

// ReceiveMessage reads the next protocol message, waiting at most timeout.
// A timed out connection cannot be read again.
func ReceiveMessage(conn *websocket.Conn, timeout time.Duration) (protocol.Message, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return protocol.Message{}, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return protocol.Message{}, err
	}
	return protocol.Decode(data)
}

// ExpectNext asserts that the very next message equals want.
func ExpectNext(t *testing.T, conn *websocket.Conn, want protocol.Message) {
	t.Helper()
	got, err := ReceiveMessage(conn, MessageTimeout)
	if err != nil {
		t.Fatalf("Expected %+v, got error: %v", want, err)
	}
	if got != want {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}
}

// ExpectMessage reads until a message equal to want arrives, skipping
// anything else, and fails the test if none arrives in time.
func ExpectMessage(t *testing.T, conn *websocket.Conn, want protocol.Message) {
	t.Helper()
	deadline := time.Now().Add(MessageTimeout)
	var skipped []protocol.Message
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("Timed out waiting for %+v; skipped %+v", want, skipped)
		}
		got, err := ReceiveMessage(conn, remaining)
		if err != nil {
			t.Fatalf("Waiting for %+v: %v (skipped %+v)", want, err, skipped)
		}
		if got == want {
			return
		}
		skipped = append(skipped, got)
	}
}

// Login sends LOGIN and consumes the LOGIN_OK and ROOM_LIST replies,
// returning the room listing.
func Login(t *testing.T, conn *websocket.Conn, nickname string) string {
	t.Helper()
	Send(t, conn, protocol.ModeLogin, nickname, "")
	ExpectNext(t, conn, protocol.FromServer(protocol.ModeLoginOK, ""))

	msg, err := ReceiveMessage(conn, MessageTimeout)
	if err != nil {
		t.Fatalf("Expected ROOM_LIST after login: %v", err)
	}
	if msg.Mode != protocol.ModeRoomList {
		t.Fatalf("Expected ROOM_LIST after login, got %+v", msg)
	}
	return msg.Text
}

// ExpectClosed asserts that the server closes the connection.
func ExpectClosed(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	deadline := time.Now().Add(MessageTimeout)
	for time.Now().Before(deadline) {
		if _, err := ReceiveMessage(conn, time.Until(deadline)); err != nil {
			if strings.Contains(err.Error(), "timeout") {
				t.Fatal("Connection still open after timeout")
			}
			return
		}
	}
	t.Fatal("Connection still open after timeout")
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

// Eventually polls cond until it holds or the timeout expires.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within %s: %s", timeout, msg)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
