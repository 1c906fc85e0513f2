// Package websocket provides the WebSocket transport for the puzzle
// server.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Board state broadcasting on changes
//   - Ordered solution feeds for animation clients
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages
// all WebSocket connections. Each client connection is handled by a
// pair of goroutines that manage reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded. Every message names its session and an
// event type. "state_update" messages carry the board snapshot after
// each change; "solution" messages additionally carry the ordered
// move list of a solver run so viewers can animate it step by step.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12)
// when establishing the connection. Updates are broadcast only to
// clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
