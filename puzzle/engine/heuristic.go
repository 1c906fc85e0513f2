package engine

import "math"

// HeuristicFunc scores how far a board is from the goal. It must
// return 0 exactly at the goal, stay positive everywhere else, and
// decrease as the goal piece approaches its target. The exact formula
// is a tuning choice; the solver works with any function honoring that
// contract.
type HeuristicFunc func(b *Board) float64

// SetHeuristic replaces the scoring function and drops the cached
// value.
func (b *Board) SetHeuristic(fn HeuristicFunc) {
	if fn == nil {
		fn = EuclideanDistance
	}
	b.heuristic = fn
	b.defectOK = false
}

// Heuristic returns the current board's score, caching it until the
// next Apply.
func (b *Board) Heuristic() float64 {
	if !b.defectOK {
		b.defect = b.heuristic(b)
		b.defectOK = true
	}
	return b.defect
}

// IsGoal reports whether the goal piece's anchor sits exactly on the
// target cell. This is an exact check, independent of the heuristic.
func (b *Board) IsGoal() bool {
	anchor, ok := b.Anchor(b.goalPiece)
	return ok && anchor == b.target
}

// EuclideanDistance is the default heuristic: straight-line distance
// from the goal piece's anchor to the target cell.
func EuclideanDistance(b *Board) float64 {
	anchor, ok := b.Anchor(b.goalPiece)
	if !ok {
		return 0
	}
	dx := float64(b.target.X - anchor.X)
	dy := float64(b.target.Y - anchor.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanWithBlocking scores the weighted Manhattan distance to the
// target plus a small penalty for every foreign piece cell inside the
// corridor the goal piece still has to cross. The penalty keeps the
// contract intact (it is zero when the distance is zero) while steering
// the search toward clearing the path first.
func ManhattanWithBlocking(b *Board) float64 {
	anchor, ok := b.Anchor(b.goalPiece)
	if !ok {
		return 0
	}
	dx := abs(b.target.X - anchor.X)
	dy := abs(b.target.Y - anchor.Y)
	dist := float64(dx + dy)
	if dist == 0 {
		return 0
	}

	blocking := 0
	minX, maxX := min(anchor.X, b.target.X), max(anchor.X, b.target.X)
	minY, maxY := min(anchor.Y, b.target.Y), max(anchor.Y, b.target.Y)
	for _, label := range b.order {
		if label == b.goalPiece {
			continue
		}
		for _, c := range b.pieces[label] {
			if c.X >= minX && c.X <= maxX && c.Y >= minY && c.Y <= maxY {
				blocking++
			}
		}
	}
	return dist + 0.25*float64(blocking)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
