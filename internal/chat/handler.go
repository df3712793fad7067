package chat

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// State is the protocol state of a single connection.
type State int

// Connection states.
const (
	StateDisconnected State = iota
	StateConnected
	StateInRoom
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateInRoom:
		return "in-room"
	default:
		return "disconnected"
	}
}

// Handler runs the per-connection protocol state machine. Every method runs
// to completion under a single lock, so registry and directory updates and
// the broadcasts that follow them are never interleaved.
type Handler struct {
	mu        sync.Mutex
	conns     map[string]struct{}
	registry  Registry
	directory Directory
	router    *Router
	logger    *log.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithRegistry replaces the default in-memory session registry.
func WithRegistry(r Registry) Option {
	return func(h *Handler) { h.registry = r }
}

// WithDirectory replaces the default in-memory room directory.
func WithDirectory(d Directory) Option {
	return func(h *Handler) { h.directory = d }
}

// WithLogger sets the logger used by the handler and its router.
func WithLogger(l *log.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler builds a Handler delivering through transport.
func NewHandler(transport Transport, opts ...Option) *Handler {
	h := &Handler{
		conns:  make(map[string]struct{}),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = NewMemoryRegistry()
	}
	if h.directory == nil {
		h.directory = NewMemoryDirectory()
	}
	h.router = NewRouter(h.directory, transport, h.logger)
	return h
}

// Registry returns the session registry backing the handler.
func (h *Handler) Registry() Registry { return h.registry }

// Directory returns the room directory backing the handler.
func (h *Handler) Directory() Directory { return h.directory }

// State reports the protocol state of connID.
func (h *Handler) State(connID string) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked(connID)
}

func (h *Handler) stateLocked(connID string) State {
	if _, ok := h.conns[connID]; !ok {
		return StateDisconnected
	}
	if _, ok := h.registry.Lookup(connID); ok {
		return StateInRoom
	}
	return StateConnected
}

// Connect records a new transport connection with no session.
func (h *Handler) Connect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connID] = struct{}{}
}

// Disconnect tears down any session held by connID and forgets the
// connection. Calling it twice is harmless.
func (h *Handler) Disconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.teardownSession(connID)
	delete(h.conns, connID)
}

// HandleFrame decodes and applies one inbound client frame. Malformed frames
// are logged and dropped; protocol errors are answered with an error event.
func (h *Handler) HandleFrame(connID string, raw []byte) {
	in, err := DecodeInbound(raw)
	if err != nil {
		h.logger.Printf("Dropping frame from %s: %v", connID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		h.logger.Printf("Dropping %s from unknown connection %s", in.Type, connID)
		return
	}

	switch in.Type {
	case TypeJoin:
		err = h.join(connID, in.Username, in.Room)
	case TypeSend:
		err = h.send(connID, in.Message)
	case TypeLeave:
		h.teardownSession(connID)
	}

	if err != nil {
		h.logger.Printf("Rejected %s from %s: %v", in.Type, connID, err)
		h.router.SendToConnection(connID, ErrorEvent(err))
	}
}

func (h *Handler) join(connID, username, room string) error {
	if err := h.registry.Register(Session{ConnectionID: connID, Username: username, Room: room}); err != nil {
		if errors.Is(err, ErrAlreadyJoined) {
			current, _ := h.registry.Lookup(connID)
			return fmt.Errorf("%w %q", ErrAlreadyJoined, current.Room)
		}
		return err
	}
	h.directory.Join(room, connID)

	h.router.BroadcastToRoom(room, PeerJoinedEvent(username), connID)
	h.router.SendToConnection(connID, RosterEvent(h.roster(room, connID)))

	h.logger.Printf("%s joined room %q as %q", connID, room, username)
	return nil
}

func (h *Handler) send(connID, message string) error {
	s, ok := h.registry.Lookup(connID)
	if !ok {
		return ErrNotInRoom
	}
	h.router.BroadcastToRoom(s.Room, MessageEvent(message, s.Username), connID)
	return nil
}

// teardownSession is the single cleanup path for explicit leave and for
// disconnect. It is a no-op when connID holds no session.
func (h *Handler) teardownSession(connID string) {
	s, ok := h.registry.Remove(connID)
	if !ok {
		return
	}
	h.directory.Leave(s.Room, connID)
	h.router.BroadcastToRoom(s.Room, PeerLeftEvent(s.Username), connID)

	h.logger.Printf("%s left room %q (%q)", connID, s.Room, s.Username)
}

// roster resolves the other members of room to usernames, sorted.
func (h *Handler) roster(room, connID string) []string {
	ids := h.directory.MembersExcept(room, connID)
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := h.registry.Lookup(id); ok && s.Room == room {
			names = append(names, s.Username)
		}
	}
	sort.Strings(names)
	return names
}
