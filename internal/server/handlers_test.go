package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HealthHandler(rr, httptest.NewRequest(method, "/", http.NoBody))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
			assert.Equal(t, "roomchat server is running!", rr.Body.String())
		})
	}
}

func TestWebSocketHandlerRejectsNonGet(t *testing.T) {
	hub := NewHub(*NewConfig())
	rr := httptest.NewRecorder()

	WebSocketHandler(hub)(rr, httptest.NewRequest(http.MethodPost, "/ws", http.NoBody))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoomsHandler(t *testing.T) {
	hub := NewHub(*NewConfig())
	c := NewClient(nil, hub, "test")
	hub.handleRegister(c)
	hub.Handler().HandleFrame(c.ID(), []byte(`{"type":"join","username":"alice","room":"lobby"}`))

	rr := httptest.NewRecorder()
	RoomsHandler(hub)(rr, httptest.NewRequest(http.MethodGet, "/rooms", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var stats Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, Stats{Connections: 1, Sessions: 1, Rooms: map[string]int{"lobby": 1}}, stats)

	rr = httptest.NewRecorder()
	RoomsHandler(hub)(rr, httptest.NewRequest(http.MethodDelete, "/rooms", http.NoBody))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestTestPageHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	TestPageHandler(rr, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "/ws")
}
