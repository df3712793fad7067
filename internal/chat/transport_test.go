package chat

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingTransport captures decoded frames per connection. Connections in
// gone behave like sockets that have already closed.
type recordingTransport struct {
	mu     sync.Mutex
	frames map[string][]Event
	gone   map[string]bool
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		frames: make(map[string][]Event),
		gone:   make(map[string]bool),
	}
}

func (t *recordingTransport) Deliver(connID string, frame []byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gone[connID] {
		return false
	}
	var ev Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		panic(err)
	}
	t.frames[connID] = append(t.frames[connID], ev)
	return true
}

func (t *recordingTransport) markGone(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gone[connID] = true
}

// take returns and clears everything recorded for connID.
func (t *recordingTransport) take(connID string) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.frames[connID]
	delete(t.frames, connID)
	return out
}

func frame(t *testing.T, v map[string]string) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func joinFrame(t *testing.T, username, room string) []byte {
	return frame(t, map[string]string{"type": TypeJoin, "username": username, "room": room})
}

func sendFrame(t *testing.T, message string) []byte {
	return frame(t, map[string]string{"type": TypeSend, "message": message})
}

func leaveFrame(t *testing.T) []byte {
	return frame(t, map[string]string{"type": TypeLeave})
}
