// Package service defines the application-facing operations of the
// puzzle server and their result types.
//
// PuzzleService is the single entry point used by every transport
// (REST, WebSocket, MCP, CLI). It manages sessions, validates and
// applies manual moves, and runs the solver against a session's
// current board. Storage concerns are abstracted behind the
// SessionManager and ConfigManager interfaces, implemented by the
// session and config packages.
package service
