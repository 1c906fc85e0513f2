// Package api provides HTTP REST API handlers for the sliding-block
// puzzle server.
//
// The api package implements:
//   - RESTful endpoints for board operations
//   - Session management endpoints
//   - Configuration listing and upload
//   - Solver invocation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Board Operations:
//   - GET /api/sessions/{id}/state - Get current board state
//   - POST /api/sessions/{id}/move - Slide a piece
//   - POST /api/sessions/{id}/solve - Run the solver from the current position
//   - POST /api/sessions/{id}/reset - Rebuild the board from its configuration
//   - GET /api/sessions/{id}/history - Get move history with pagination
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a new configuration
//   - GET /api/configs/{name} - Get a specific configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with a
// JSON body:
//
//	{
//	  "piece": "b",
//	  "direction": "up|down|left|right",
//	  "distance": 1 // optional, defaults to 1
//	}
//
// Solve accepts optional solver knobs:
//
//	{
//	  "depth_weight": 2.5, // optional
//	  "max_nodes": 500000  // optional
//	}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(puzzleService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
