// Package chat implements room membership and message fan-out for the
// roomchat relay.
//
// The package is transport agnostic. A Handler receives lifecycle
// notifications (connect, inbound frame, disconnect) keyed by an opaque
// connection ID and drives a session Registry, a room Directory and a Router
// that hands encoded frames to a Transport. The websocket hub in
// internal/server is the production Transport.
package chat
