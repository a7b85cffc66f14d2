package integration

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/lobby-server/internal/protocol"
	"github.com/Tyrowin/lobby-server/internal/server"
	"github.com/Tyrowin/lobby-server/test/testhelpers"
)

// TestGracefulShutdownWithClients verifies that active sessions are closed
// and room state is cleared when the operator stops the server.
func TestGracefulShutdownWithClients(t *testing.T) {
	srv, url := startServer(t)

	numClients := 5
	clients := joinRoom(t, url, "doomed", numClients)

	performShutdown(t, srv)
	verifyClientsDisconnected(t, clients)

	if srv.SessionCount() != 0 {
		t.Errorf("Expected no sessions after shutdown, got %d", srv.SessionCount())
	}
	if srv.Registry().Len() != 0 {
		t.Errorf("Expected no rooms after shutdown, got %v", srv.Registry().Names())
	}
}

// TestShutdownWithoutClients verifies that an idle server stops promptly.
func TestShutdownWithoutClients(t *testing.T) {
	srv := server.NewServer(nil, log.New(io.Discard, "", 0))
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	performShutdown(t, srv)
}

// TestRestartAfterShutdown verifies that a stopped server can be started
// again and serves a fresh lobby.
func TestRestartAfterShutdown(t *testing.T) {
	srv, url := startServer(t)

	conn := testhelpers.MustConnect(t, url)
	testhelpers.Login(t, conn, "before")
	testhelpers.Send(t, conn, protocol.ModeRoomCreate, "", "old")
	testhelpers.ExpectMessage(t, conn, protocol.FromServer(protocol.ModeRoomList, "old"))

	performShutdown(t, srv)

	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	conn = testhelpers.MustConnect(t, testhelpers.WebSocketURL(srv.Addr()))
	if rooms := testhelpers.Login(t, conn, "after"); rooms != "" {
		t.Errorf("Expected an empty lobby after restart, got %q", rooms)
	}
}

// performShutdown stops the server and fails the test if that takes too long.
func performShutdown(t *testing.T, srv *server.Server) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		srv.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("Shutdown timeout exceeded")
	}

	if srv.Running() {
		t.Error("Server still running after Stop")
	}
}

// verifyClientsDisconnected checks that every client connection was closed
// by the server.
func verifyClientsDisconnected(t *testing.T, clients []*websocket.Conn) {
	t.Helper()
	for _, conn := range clients {
		testhelpers.ExpectClosed(t, conn)
	}
}
