package chat

import (
	"encoding/json"
	"log"
)

// Transport delivers encoded frames to live connections. Deliver returns
// false when the connection is gone or cannot accept more frames; it must
// not block.
type Transport interface {
	Deliver(connID string, frame []byte) bool
}

// Router fans events out to room members through a Transport.
type Router struct {
	directory Directory
	transport Transport
	logger    *log.Logger
}

// NewRouter creates a Router. A nil logger falls back to log.Default().
func NewRouter(directory Directory, transport Transport, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		directory: directory,
		transport: transport,
		logger:    logger,
	}
}

// BroadcastToRoom delivers event to every member of room except exclude.
// An empty exclude delivers to all members. It returns the number of
// successful deliveries.
func (r *Router) BroadcastToRoom(room string, event Event, exclude string) int {
	frame, err := json.Marshal(event)
	if err != nil {
		r.logger.Printf("Error encoding %s event for room %q: %v", event.Type, room, err)
		return 0
	}

	targets := r.directory.MembersExcept(room, exclude)
	delivered := 0
	for _, connID := range targets {
		if r.transport.Deliver(connID, frame) {
			delivered++
			continue
		}
		r.logger.Printf("Dropped %s event for %s in room %q", event.Type, connID, room)
	}
	return delivered
}

// SendToConnection delivers event to exactly one connection.
func (r *Router) SendToConnection(connID string, event Event) bool {
	frame, err := json.Marshal(event)
	if err != nil {
		r.logger.Printf("Error encoding %s event for %s: %v", event.Type, connID, err)
		return false
	}
	if !r.transport.Deliver(connID, frame) {
		r.logger.Printf("Dropped %s event for %s", event.Type, connID)
		return false
	}
	return true
}
