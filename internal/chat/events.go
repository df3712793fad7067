package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client to server event types.
const (
	TypeJoin  = "join"
	TypeSend  = "send"
	TypeLeave = "leave"
)

// Server to client event types.
const (
	TypeRoster     = "roster"
	TypePeerJoined = "peer-joined"
	TypeMessage    = "message"
	TypePeerLeft   = "peer-left"
	TypeError      = "error"
)

var (
	// ErrAlreadyJoined is returned when a connection with a session tries to join again.
	ErrAlreadyJoined = errors.New("already in a room")
	// ErrNotInRoom is returned for events that need a session when none exists.
	ErrNotInRoom = errors.New("not in a room")
	// ErrMalformedFrame marks frames that are not valid JSON or miss required fields.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnknownEvent marks frames with an unrecognised type.
	ErrUnknownEvent = errors.New("unknown event type")
)

// Inbound is the JSON envelope clients send. Room and Username on send and
// leave frames are accepted but ignored; the session is authoritative.
type Inbound struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Event is the JSON envelope the server sends.
type Event struct {
	Type      string   `json:"type"`
	Username  string   `json:"username,omitempty"`
	Usernames []string `json:"usernames,omitempty"`
	Message   string   `json:"message,omitempty"`
	From      string   `json:"from,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// MarshalJSON gives roster and message events a fixed shape: usernames is
// always an array, and message and from are present even when empty.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	switch e.Type {
	case TypeRoster:
		usernames := e.Usernames
		if usernames == nil {
			usernames = []string{}
		}
		return json.Marshal(struct {
			Type      string   `json:"type"`
			Usernames []string `json:"usernames"`
		}{Type: e.Type, Usernames: usernames})
	case TypeMessage:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
			From    string `json:"from"`
		}{Type: e.Type, Message: e.Message, From: e.From})
	default:
		return json.Marshal(plain(e))
	}
}

// RosterEvent lists the usernames already in a room.
func RosterEvent(usernames []string) Event {
	return Event{Type: TypeRoster, Usernames: usernames}
}

// PeerJoinedEvent announces a new member.
func PeerJoinedEvent(username string) Event {
	return Event{Type: TypePeerJoined, Username: username}
}

// MessageEvent carries chat text.
func MessageEvent(message, from string) Event {
	return Event{Type: TypeMessage, Message: message, From: from}
}

// PeerLeftEvent announces a departed member.
func PeerLeftEvent(username string) Event {
	return Event{Type: TypePeerLeft, Username: username}
}

// ErrorEvent reports a rejected request back to its sender.
func ErrorEvent(err error) Event {
	return Event{Type: TypeError, Error: err.Error()}
}

// DecodeInbound parses and validates a client frame.
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch in.Type {
	case TypeJoin:
		if in.Username == "" || in.Room == "" {
			return Inbound{}, fmt.Errorf("%w: join requires username and room", ErrMalformedFrame)
		}
	case TypeSend, TypeLeave:
	case "":
		return Inbound{}, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownEvent, in.Type)
	}
	return in, nil
}
