// Package server coordinates websocket connection registration, inbound
// event dispatch, and outbound delivery for roomchat via the Hub type.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Tyrowin/roomchat/internal/chat"
)

// Hub owns every live websocket connection. Its Run loop is the single event
// loop of the process: connects, inbound frames and disconnects are handed to
// the chat handler one at a time. Hub implements chat.Transport.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader
	handler  *chat.Handler

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	mutex      sync.RWMutex

	dropMu  sync.Mutex
	dropped []string

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a Hub using cfg. Options are passed through to the chat
// handler, e.g. to swap the session registry or room directory.
func NewHub(cfg Config, opts ...chat.Option) *Hub {
	cfg = cfg.Sanitize()
	ctx, cancel := context.WithCancel(context.Background())
	policy := newOriginPolicy(cfg.AllowedOrigins)

	h := &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     policy.checkOrigin,
		},
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame, 64),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	h.handler = chat.NewHandler(h, opts...)
	return h
}

// Handler returns the chat handler driven by the hub.
func (h *Hub) Handler() *chat.Handler {
	return h.handler
}

// Deliver implements chat.Transport. It never blocks: a client whose send
// queue is full is scheduled for removal and the frame is dropped.
func (h *Hub) Deliver(connID string, frame []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in Deliver: %v", r)
		}
	}()

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	client, exists := h.clients[connID]
	if !exists || client.closed {
		return false
	}

	select {
	case client.send <- frame:
		return true
	default:
		h.dropMu.Lock()
		h.dropped = append(h.dropped, connID)
		h.dropMu.Unlock()
		return false
	}
}

// Run starts the hub's event loop. It returns after Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case in := <-h.inbound:
			h.handler.HandleFrame(in.client.id, in.data)
		}

		h.removeFailedClients()
	}
}

func (h *Hub) handleRegister(client *Client) {
	if client == nil {
		log.Printf("Received nil client registration; skipping")
		return
	}

	h.mutex.Lock()
	client.closed = false
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mutex.Unlock()

	h.handler.Connect(client.id)
	log.Printf("Client %s registered from %s. Total clients: %d", client.id, client.addr, clientCount)

	if client.conn == nil {
		return
	}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// handleUnregister is the transport disconnect notification. The chat
// handler tears down the session even if the client was already dropped for
// being slow.
func (h *Hub) handleUnregister(client *Client) {
	if client == nil {
		return
	}

	h.mutex.Lock()
	if existing, ok := h.clients[client.id]; ok && existing == client {
		delete(h.clients, client.id)
		client.closed = true
		clientCount := len(h.clients)
		h.mutex.Unlock()
		// Close the channel after releasing the lock
		close(client.send)
		log.Printf("Client %s unregistered from %s. Total clients: %d", client.id, client.addr, clientCount)
	} else {
		h.mutex.Unlock()
	}

	h.handler.Disconnect(client.id)
}

// removeFailedClients drops clients whose send queue overflowed. Their write
// pump closes the socket. The chat handler forgets the connection right away,
// so frames still in flight from it are ignored and roommates see peer-left
// now rather than when the read pump notices. Teardown broadcasts can
// overflow further queues, so this repeats until nothing is left to drop.
func (h *Hub) removeFailedClients() {
	for {
		h.dropMu.Lock()
		ids := h.dropped
		h.dropped = nil
		h.dropMu.Unlock()

		if len(ids) == 0 {
			return
		}

		h.mutex.Lock()
		var removed []*Client
		for _, id := range ids {
			client, exists := h.clients[id]
			if !exists {
				continue
			}
			delete(h.clients, id)
			client.closed = true
			removed = append(removed, client)
			log.Printf("Client %s from %s removed due to full send buffer", client.id, client.addr)
		}
		h.mutex.Unlock()

		for _, client := range removed {
			close(client.send)
			h.handler.Disconnect(client.id)
		}
	}
}

// Stats reports current connection, session and room counts.
func (h *Hub) Stats() Stats {
	h.mutex.RLock()
	connections := len(h.clients)
	h.mutex.RUnlock()

	return Stats{
		Connections: connections,
		Sessions:    h.handler.Registry().Len(),
		Rooms:       h.handler.Directory().Rooms(),
	}
}

// submit hands an inbound frame to the event loop unless the hub is stopping.
func (h *Hub) submit(client *Client, data []byte) bool {
	select {
	case h.inbound <- inboundFrame{client: client, data: data}:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// leave reports a client's disconnect to the event loop unless the hub is stopping.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// join hands a newly upgraded client to the event loop.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// shutdownClients closes all active client connections. Closing each send
// channel lets the write pump exit immediately instead of waiting for the
// next ping tick.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		delete(h.clients, id)
		client.closed = true
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		close(client.send)
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error closing client connection from %s: %v", client.addr, err)
				}
			}
		}
	}

	log.Printf("Closed %d client connections", len(clients))
}

// Shutdown stops the event loop and waits for all client goroutines to finish,
// or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}

func newConnectionID() string {
	return uuid.NewString()
}
