// Package engine provides the core board model for sliding-block puzzles.
//
// The engine package implements the puzzle mechanics including:
//   - Grid representation with wall, empty, and piece cells
//   - Slide legality (maximal obstruction-free run per direction)
//   - In-place move application with exact inverse for simulation
//   - Canonical state hashing with interchangeable-piece grouping
//   - Goal detection and pluggable heuristic scoring
//   - Configuration loading and validation
//
// Core Types:
//
// Board owns the grid and the per-piece coordinate lists. PuzzleConfig
// defines a puzzle layout loaded from JSON. Move is a
// (piece, direction, distance) triple.
//
// Usage:
//
//	cfg, err := engine.LoadConfigFile("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := engine.NewBoard(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	runs := board.PossibleMoves()
//	err = board.Apply(engine.Move{Piece: "b", Direction: engine.Down, Distance: 1})
//
// Boards are mutated in place; callers that need to keep a state around
// must Clone first. Simulate applies a move, captures (hash, goal), and
// restores the board before returning, so it is safe to call while
// enumerating candidates.
package engine
