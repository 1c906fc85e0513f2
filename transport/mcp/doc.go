// Package mcp provides a Model Context Protocol server for the
// sliding-block puzzle.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for puzzle operations
//   - Session-aware command execution
//
// The server is a thin client: every tool call is proxied to the REST
// API, so the MCP process carries no puzzle state of its own and can be
// restarted freely.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - board_state: Get current board state with grid visualization
//   - move_piece: Slide a piece in a direction by a distance
//   - solve: Run the solver and return the winning move sequence
//   - reset_board: Reset the board to its initial configuration
//   - move_history: Retrieve move history with pagination
//   - create_session: Create new puzzle session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available puzzle configurations
//   - puzzle_instructions: Get comprehensive puzzle rules
//   - describe_piece: Inspect a single piece's cells and legal slides
//
// Session Management:
//
// All board tools require a session_id parameter. AI agents can manage
// multiple concurrent puzzle sessions independently.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Play puzzles move by move
//   - Ask the solver for a full solution and replay it
//   - Inspect individual pieces before committing to a plan
//   - Manage multiple puzzle sessions
package mcp
