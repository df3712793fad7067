// Package server implements the HTTP and WebSocket transport for roomchat.
//
// The implementation is organized into specialized files for configuration,
// origin policy, the hub event loop, clients, routing, and HTTP handlers. Room
// membership and fan-out live in internal/chat; this package only moves
// frames between sockets and the chat handler.
package server
