package engine

import "fmt"

// Grid cell markers. Any lowercase letter is a piece label; everything
// outside the grid reads as a wall.
const (
	WallCell  = 'O'
	EmptyCell = '0'

	// Validation constants
	MinGridSize   = 2
	MaxGridSize   = 64
	MaxPieceCount = 26
)

// Direction is one of the four axis directions a piece can slide in.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists the four slide directions in a fixed order so move
// enumeration is deterministic.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit grid offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the inverse direction, used to undo a slide.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// IsValid reports whether d is one of the four slide directions.
func (d Direction) IsValid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Position represents x,y grid coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move is a single slide: a piece, a direction, and how many cells it
// travels. Distance is always at least 1 for a playable move.
type Move struct {
	Piece     string    `json:"piece"`
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s %d", m.Piece, m.Direction, m.Distance)
}

// Inverse returns the move that exactly undoes m.
func (m Move) Inverse() Move {
	return Move{Piece: m.Piece, Direction: m.Direction.Opposite(), Distance: m.Distance}
}

// StateHash is the canonical identity of a board configuration. Two
// boards that differ only by swapping interchangeable pieces share a
// hash; the search layer treats equal hashes as equal states.
type StateHash uint64

// PuzzleConfig represents a puzzle definition loaded from JSON.
type PuzzleConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Layout      []string          `json:"layout"`
	GoalPiece   string            `json:"goal_piece"`
	Target      Position          `json:"target"`
	Legend      map[string]string `json:"legend,omitempty"`
}
