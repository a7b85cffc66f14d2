// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, the lobby status report, and the built-in test page.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WebSocketHandler upgrades the request, registers a new session, and runs
// its receive loop on the request's goroutine until the session ends.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sess := newSession(conn, s, r.RemoteAddr)
	if err := s.addSession(sess); err != nil {
		s.logger.Printf("Rejecting connection from %s: %v", r.RemoteAddr, err)
		sess.Close()
		return
	}

	defer s.wg.Done()
	sess.run()
}

// HealthHandler provides a simple health check endpoint that returns server status.
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Lobby server is running! sessions=%d rooms=%d", s.SessionCount(), s.registry.Len())
}

// RoomStatus describes one room in the status report.
type RoomStatus struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// SessionStatus describes one session in the status report.
type SessionStatus struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Addr     string `json:"addr"`
	Room     string `json:"room,omitempty"`
}

// Status is the JSON document served at /status.
type Status struct {
	Running  bool            `json:"running"`
	Sessions []SessionStatus `json:"sessions"`
	Rooms    []RoomStatus    `json:"rooms"`
}

// Snapshot collects the current lobby state for operators.
func (s *Server) Snapshot() Status {
	status := Status{
		Running:  s.Running(),
		Sessions: []SessionStatus{},
		Rooms:    []RoomStatus{},
	}

	for _, room := range s.registry.Rooms() {
		members := room.Members()
		players := make([]string, len(members))
		for i, m := range members {
			players[i] = m.Nickname()
		}
		status.Rooms = append(status.Rooms, RoomStatus{ID: room.ID(), Name: room.Name(), Players: players})
	}

	for _, sess := range s.Sessions() {
		entry := SessionStatus{ID: sess.ID().String(), Nickname: sess.Nickname(), Addr: sess.Addr()}
		if room, ok := s.registry.CurrentRoom(sess); ok {
			entry.Room = room.Name()
		}
		status.Sessions = append(status.Sessions, entry)
	}

	return status
}

// StatusHandler serves the lobby snapshot as JSON.
func (s *Server) StatusHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		s.logger.Printf("Error writing status response: %v", err)
	}
}

// TestPageHandler serves an HTML page for exercising the lobby protocol from
// a browser.
func (s *Server) TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPage); err != nil {
		s.logger.Printf("Error writing HTML response: %v", err)
	}
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <title>Lobby Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #log { border: 1px solid #ccc; height: 300px; padding: 10px; overflow-y: scroll; background: #f9f9f9; }
        input[type="text"] { width: 200px; padding: 5px; margin-right: 5px; }
        button { padding: 5px 10px; margin-right: 5px; }
        .panel { margin: 8px 0; }
    </style>
</head>
<body>
    <h1>Lobby Test</h1>
    <div class="panel">
        <input type="text" id="nick" placeholder="Nickname">
        <button onclick="connect()">Connect</button>
    </div>
    <div class="panel">
        <input type="text" id="room" placeholder="Room name">
        <button onclick="send('ROOM_CREATE', room.value)">Create</button>
        <button onclick="send('ROOM_ENTER', room.value)">Enter</button>
        <button onclick="send('ROOM_LEAVE', '')">Leave</button>
        <button onclick="send('GAME_START', '')">Start game</button>
    </div>
    <div class="panel">
        <input type="text" id="chat" placeholder="Say something...">
        <button onclick="send('CHAT', chat.value); chat.value = ''">Send</button>
    </div>
    <div class="panel">Rooms: <span id="rooms">(none)</span></div>
    <div class="panel">Players: <span id="players">(none)</span></div>
    <div id="log"></div>

    <script>
        let ws = null;
        const nick = document.getElementById('nick');
        const room = document.getElementById('room');
        const chat = document.getElementById('chat');

        function show(line) {
            const el = document.createElement('div');
            el.textContent = line;
            const log = document.getElementById('log');
            log.appendChild(el);
            log.scrollTop = log.scrollHeight;
        }

        function listing(text) {
            return text ? text.split('|').join(', ') : '(none)';
        }

        function send(mode, text) {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({mode: mode, user: nick.value, text: text}));
            }
        }

        function connect() {
            ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
            ws.onopen = () => send('LOGIN', '');
            ws.onclose = () => show('Connection closed');
            ws.onmessage = (event) => {
                const msg = JSON.parse(event.data);
                switch (msg.mode) {
                case 'ROOM_LIST':
                    document.getElementById('rooms').textContent = listing(msg.text || '');
                    break;
                case 'ROOM_UPDATE':
                    document.getElementById('players').textContent = listing(msg.text || '');
                    break;
                case 'CHAT':
                    show(msg.user + ': ' + msg.text);
                    break;
                default:
                    show(msg.mode + ' from ' + msg.user);
                }
            };
        }
    </script>
</body>
</html>`
