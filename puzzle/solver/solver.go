package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/vxm/ppz/puzzle/engine"
)

// Options tune the search ordering. The zero value is not useful; use
// DefaultOptions as a base.
type Options struct {
	// DepthWeight scales how much traversal depth counts against a
	// node. Small values let the heuristic dominate; zero degrades
	// into pure greedy search.
	DepthWeight float64

	// SamePieceDiscount ranks a move that continues sliding the piece
	// the parent just moved one level shallower, favoring multi-step
	// maneuvers of a single piece over ping-ponging between pieces.
	SamePieceDiscount bool

	// MaxNodes caps how many nodes may be expanded before the run
	// gives up. Zero means unlimited.
	MaxNodes int

	// Heuristic overrides the board's scoring function for this run.
	// Nil keeps whatever the board already uses.
	Heuristic engine.HeuristicFunc
}

// DefaultOptions returns the tuning used by the CLI and the service.
func DefaultOptions() Options {
	return Options{
		DepthWeight:       0.5,
		SamePieceDiscount: true,
	}
}

// Result reports the outcome of one search run. Solved false with
// LimitReached false means the reachable state space was exhausted
// without finding the goal: the puzzle has no solution from the given
// position.
type Result struct {
	Solved       bool          `json:"solved"`
	LimitReached bool          `json:"limit_reached,omitempty"`
	Moves        []engine.Move `json:"moves,omitempty"`
	Expanded     int           `json:"expanded"`
	Visited      int           `json:"visited"`
	Duration     time.Duration `json:"duration"`

	// Final is the goal board when Solved, nil otherwise.
	Final *engine.Board `json:"-"`
}

// Solver runs best-first searches. It is cheap to construct and holds
// only options; all per-run state lives inside Solve.
type Solver struct {
	opts Options
}

// New creates a solver with the given options.
func New(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Solve searches for a move sequence that brings the board's goal
// piece onto its target. The input board is cloned up front and never
// mutated. The returned move list replays cleanly from the input
// position; an unsolvable position yields Solved == false and no
// error. Cancelling the context aborts the search.
func (s *Solver) Solve(ctx context.Context, root *engine.Board) (*Result, error) {
	if root == nil {
		return nil, fmt.Errorf("solver: board is nil")
	}
	start := time.Now()

	board := root.Clone()
	if s.opts.Heuristic != nil {
		board.SetHeuristic(s.opts.Heuristic)
	}

	if board.IsGoal() {
		return &Result{
			Solved:   true,
			Moves:    []engine.Move{},
			Visited:  1,
			Final:    board,
			Duration: time.Since(start),
		}, nil
	}

	// Per-run state: nothing here survives or is shared across runs.
	visited := map[engine.StateHash]struct{}{board.Hash(): {}}
	arena := []searchNode{{board: board, parent: -1, penalty: board.Heuristic()}}
	front := newFrontier()
	front.PushNode(0, arena[0].penalty, 0)

	expanded := 0
	for {
		// Cancellation is polled every 64 expansions to keep the
		// check off the hot path.
		if expanded&0x3f == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		idx, ok := front.PopMin()
		if !ok {
			// Reachable space exhausted: a normal "no solution" end.
			return &Result{
				Expanded: expanded,
				Visited:  len(visited),
				Duration: time.Since(start),
			}, nil
		}

		if s.opts.MaxNodes > 0 && expanded >= s.opts.MaxNodes {
			return &Result{
				LimitReached: true,
				Expanded:     expanded,
				Visited:      len(visited),
				Duration:     time.Since(start),
			}, nil
		}
		expanded++

		for _, piece := range arena[idx].board.Pieces() {
			for _, dir := range engine.Directions {
				run := arena[idx].board.LegalRun(piece, dir)
				for k := 1; k <= run; k++ {
					move := engine.Move{Piece: piece, Direction: dir, Distance: k}

					hash, goal, err := arena[idx].board.Simulate(move)
					if err != nil {
						return nil, fmt.Errorf("solver: simulate %v: %w", move, err)
					}

					if goal {
						final := arena[idx].board.Clone()
						if err := final.Apply(move); err != nil {
							return nil, fmt.Errorf("solver: apply winning move %v: %w", move, err)
						}
						return &Result{
							Solved:   true,
							Moves:    pathTo(arena, idx, move),
							Expanded: expanded,
							Visited:  len(visited),
							Final:    final,
							Duration: time.Since(start),
						}, nil
					}

					if _, seen := visited[hash]; seen {
						continue
					}
					visited[hash] = struct{}{}

					child := arena[idx].board.Clone()
					if err := child.Apply(move); err != nil {
						return nil, fmt.Errorf("solver: apply %v: %w", move, err)
					}

					rank := arena[idx].rank + 1
					if s.opts.SamePieceDiscount && arena[idx].parent != -1 && arena[idx].move.Piece == piece {
						rank--
					}
					depth := arena[idx].depth + 1
					penalty := s.opts.DepthWeight*float64(rank) + child.Heuristic()

					arena = append(arena, searchNode{
						board:   child,
						parent:  idx,
						move:    move,
						depth:   depth,
						rank:    rank,
						penalty: penalty,
					})
					front.PushNode(len(arena)-1, penalty, depth)
				}
			}
		}
	}
}
