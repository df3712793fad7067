// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, room statistics, and the built-in test page.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// WebSocketHandler returns a handler that upgrades GET requests to websocket
// connections and hands them to hub.
func WebSocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		conn, err := hub.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr)

		// The hub launches the pump goroutines once the client is registered.
		if !hub.join(client) {
			_ = conn.Close()
		}
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "roomchat server is running!")
}

// RoomsHandler reports live connection, session and per-room member counts as JSON.
func RoomsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.Stats()); err != nil {
			log.Printf("Error writing rooms response: %v", err)
		}
	}
}

// TestPageHandler serves a bare HTML page for exercising the websocket
// protocol by hand: join a room, send messages, leave.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPage); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <title>roomchat test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #log { border: 1px solid #ccc; height: 300px; padding: 10px; overflow-y: scroll; margin: 10px 0; }
        .system { color: gray; font-style: italic; }
    </style>
</head>
<body>
    <h1>roomchat test</h1>
    <div>
        <input id="username" placeholder="username">
        <input id="room" placeholder="room" value="lobby">
        <button onclick="join()">Join</button>
        <button onclick="leave()">Leave</button>
    </div>
    <div id="log"></div>
    <div>
        <input id="message" placeholder="message" size="40">
        <button onclick="send()">Send</button>
    </div>
    <script>
        const log = document.getElementById('log');
        const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');

        function line(text, cls) {
            const el = document.createElement('div');
            if (cls) el.className = cls;
            el.textContent = text;
            log.appendChild(el);
            log.scrollTop = log.scrollHeight;
        }

        function render(ev) {
            switch (ev.type) {
            case 'roster': line('in room: ' + (ev.usernames.join(', ') || 'nobody else'), 'system'); break;
            case 'peer-joined': line(ev.username + ' joined', 'system'); break;
            case 'peer-left': line(ev.username + ' left', 'system'); break;
            case 'message': line(ev.from + ': ' + ev.message); break;
            case 'error': line('error: ' + ev.error, 'system'); break;
            }
        }

        ws.onmessage = (e) => e.data.split('\n').filter(Boolean).forEach((f) => render(JSON.parse(f)));
        ws.onclose = () => line('connection closed', 'system');

        function join() {
            ws.send(JSON.stringify({type: 'join', username: document.getElementById('username').value, room: document.getElementById('room').value}));
        }
        function leave() { ws.send(JSON.stringify({type: 'leave'})); }
        function send() {
            const input = document.getElementById('message');
            if (!input.value) return;
            ws.send(JSON.stringify({type: 'send', message: input.value}));
            line('me: ' + input.value);
            input.value = '';
        }
    </script>
</body>
</html>`
