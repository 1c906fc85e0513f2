package engine

import "errors"

// Sentinel errors for the engine's failure conditions. Use errors.Is
// to distinguish rejected requests from malformed configurations.
var (
	// ErrUnknownPiece indicates a move referencing a label not on the board.
	ErrUnknownPiece = errors.New("unknown piece")

	// ErrIllegalMove indicates a move rejected by slide legality.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidConfig indicates a malformed puzzle configuration.
	ErrInvalidConfig = errors.New("invalid puzzle configuration")
)
