package main

import (
	"fmt"
	"math/rand"
	"time"
)

// GreedyStrategy picks moves from the server-reported legal set, preferring
// slides that bring the goal piece closer to the target. It remembers which
// moves it already took from each board hash so repeated visits to the same
// position try something new instead of looping.
type GreedyStrategy struct {
	rng     *rand.Rand
	visited map[uint64]int
	tried   map[uint64]map[string]bool
}

type candidate struct {
	move  Move
	score float64
}

func NewGreedyStrategy(state *BoardState) *GreedyStrategy {
	return &GreedyStrategy{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		visited: make(map[uint64]int),
		tried:   make(map[uint64]map[string]bool),
	}
}

// NextMove returns the next move to try from the given state, or false when
// every legal move from this position has already been taken.
func (s *GreedyStrategy) NextMove(state *BoardState) (Move, bool) {
	s.visited[state.Hash]++

	tried := s.tried[state.Hash]
	if tried == nil {
		tried = make(map[string]bool)
		s.tried[state.Hash] = tried
	}

	var candidates []candidate
	for piece, dirs := range state.PossibleMoves {
		for dir, run := range dirs {
			for distance := 1; distance <= run; distance++ {
				m := Move{Piece: piece, Direction: dir, Distance: distance}
				if tried[moveKey(m)] {
					continue
				}
				candidates = append(candidates, candidate{
					move:  m,
					score: s.scoreMove(state, m),
				})
			}
		}
	}

	if len(candidates) == 0 {
		// Everything from this hash was tried; allow repeats rather than
		// stalling, since intervening moves may have changed the position.
		for piece, dirs := range state.PossibleMoves {
			for dir, run := range dirs {
				for distance := 1; distance <= run; distance++ {
					m := Move{Piece: piece, Direction: dir, Distance: distance}
					candidates = append(candidates, candidate{
						move:  m,
						score: s.scoreMove(state, m),
					})
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Move{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	tried[moveKey(best.move)] = true
	return best.move, true
}

// scoreMove favors goal-piece slides that shrink the Manhattan distance
// between the piece anchor and the target. Other pieces get a flat base
// score with random jitter so blockers still get shuffled out of the way.
func (s *GreedyStrategy) scoreMove(state *BoardState, m Move) float64 {
	score := s.rng.Float64()

	if m.Piece != state.GoalPiece {
		return score
	}

	anchor, ok := pieceAnchor(state, m.Piece)
	if !ok {
		return score
	}

	dx, dy := directionDelta(m.Direction)
	moved := Position{X: anchor.X + dx*m.Distance, Y: anchor.Y + dy*m.Distance}

	before := manhattan(anchor, state.Target)
	after := manhattan(moved, state.Target)

	// Ten points per cell of progress dominates the jitter; regressions
	// score below every blocker move.
	return score + float64(before-after)*10.0
}

// StatesSeen reports how many distinct board hashes this attempt touched.
func (s *GreedyStrategy) StatesSeen() int {
	return len(s.visited)
}

// Reset clears per-attempt memory. The random source is kept so successive
// attempts explore different lines.
func (s *GreedyStrategy) Reset() {
	s.visited = make(map[uint64]int)
	s.tried = make(map[uint64]map[string]bool)
}

func moveKey(m Move) string {
	return fmt.Sprintf("%s:%s:%d", m.Piece, m.Direction, m.Distance)
}

// pieceAnchor returns the topmost-leftmost cell of a piece.
func pieceAnchor(state *BoardState, piece string) (Position, bool) {
	cells, ok := state.Pieces[piece]
	if !ok || len(cells) == 0 {
		return Position{}, false
	}
	anchor := cells[0]
	for _, cell := range cells[1:] {
		if cell.Y < anchor.Y || (cell.Y == anchor.Y && cell.X < anchor.X) {
			anchor = cell
		}
	}
	return anchor, true
}

func directionDelta(dir string) (int, int) {
	switch dir {
	case "up":
		return 0, -1
	case "down":
		return 0, 1
	case "left":
		return -1, 0
	case "right":
		return 1, 0
	}
	return 0, 0
}

func manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
