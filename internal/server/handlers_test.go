package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tyrowin/lobby-server/internal/protocol"
	"github.com/Tyrowin/lobby-server/test/testhelpers"
)

// TestHealthHandler verifies the plain text health report.
func TestHealthHandler(t *testing.T) {
	srv := NewServer(nil, quietLogger())
	srv.Registry().CreateRoom("a")

	rr := httptest.NewRecorder()
	srv.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Expected content type text/plain, got %s", ct)
	}
	want := "Lobby server is running! sessions=0 rooms=1"
	if rr.Body.String() != want {
		t.Errorf("handler returned unexpected body: got %q want %q", rr.Body.String(), want)
	}
}

// TestWebSocketHandlerRejectsNonGet verifies that only GET may upgrade.
func TestWebSocketHandlerRejectsNonGet(t *testing.T) {
	srv := NewServer(nil, quietLogger())
	mux := SetupRoutes(srv)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, "/ws", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /ws: got %d, want %d", method, rr.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestTestPageHandler(t *testing.T) {
	srv := NewServer(nil, quietLogger())

	rr := httptest.NewRecorder()
	SetupRoutes(srv).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if ct := rr.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Expected content type text/html, got %s", ct)
	}
	if !strings.Contains(rr.Body.String(), "ROOM_CREATE") {
		t.Error("test page should drive the lobby protocol")
	}
}

// TestStatusHandlerReportsLobby checks the JSON snapshot against live sessions.
func TestStatusHandlerReportsLobby(t *testing.T) {
	srv, url := startTestServer(t, nil)

	conn := testhelpers.MustConnect(t, url)
	testhelpers.Login(t, conn, "alice")
	testhelpers.Send(t, conn, protocol.ModeRoomCreate, "alice", "lobby1")
	testhelpers.ExpectNext(t, conn, roomUpdate("alice"))

	resp := testhelpers.MakeRequest(t, http.MethodGet, "http://"+srv.Addr()+"/status")
	defer func() { _ = resp.Body.Close() }()

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}

	if !status.Running {
		t.Error("Expected running=true")
	}
	if len(status.Rooms) != 1 || status.Rooms[0].Name != "lobby1" || status.Rooms[0].ID != 1 {
		t.Fatalf("Unexpected rooms %+v", status.Rooms)
	}
	if len(status.Rooms[0].Players) != 1 || status.Rooms[0].Players[0] != "alice" {
		t.Errorf("Unexpected players %v", status.Rooms[0].Players)
	}
	if len(status.Sessions) != 1 {
		t.Fatalf("Unexpected sessions %+v", status.Sessions)
	}
	if s := status.Sessions[0]; s.Nickname != "alice" || s.Room != "lobby1" || len(s.ID) != 36 {
		t.Errorf("Unexpected session %+v", s)
	}
}

func TestDisallowedOriginIsRefused(t *testing.T) {
	srv, url := startTestServer(t, func(cfg *Config) {
		cfg.AllowedOrigins = []string{"http://good.example"}
	})

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	if conn, err := testhelpers.ConnectWebSocketWithHeader(url, header); err == nil {
		_ = conn.Close()
		t.Fatal("Expected upgrade from a disallowed origin to fail")
	}

	header.Set("Origin", "http://good.example")
	conn, err := testhelpers.ConnectWebSocketWithHeader(url, header)
	if err != nil {
		t.Fatalf("Expected allowed origin to connect: %v", err)
	}
	defer func() { _ = conn.Close() }()
	testhelpers.Login(t, conn, "browser")

	if srv.SessionCount() != 1 {
		t.Errorf("Expected 1 session, got %d", srv.SessionCount())
	}
}
