// Package server defines shared transport types and utility helpers that
// are reused across client and hub logic.
package server

import "strings"

// inboundFrame is a raw client frame queued for the hub's event loop.
type inboundFrame struct {
	client *Client
	data   []byte
}

// Stats is a point-in-time view of connections, sessions and rooms.
type Stats struct {
	Connections int            `json:"connections"`
	Sessions    int            `json:"sessions"`
	Rooms       map[string]int `json:"rooms"`
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
