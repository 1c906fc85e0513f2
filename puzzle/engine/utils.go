package engine

// MovablePieces returns the labels of pieces with at least one legal
// slide, in scan order.
func (b *Board) MovablePieces() []string {
	var movable []string
	for _, label := range b.order {
		for _, dir := range Directions {
			if b.LegalRun(label, dir) > 0 {
				movable = append(movable, label)
				break
			}
		}
	}
	return movable
}

// CountEmpty returns the number of empty cells on the board.
func (b *Board) CountEmpty() int {
	count := 0
	for _, row := range b.grid {
		for _, cell := range row {
			if cell == EmptyCell {
				count++
			}
		}
	}
	return count
}

// EstimateSearchSpace gives a rough feel for how hard a configuration
// is: the branching factor (movable pieces times an average of usable
// directions) and a capped exponential extrapolation down to the
// heuristic depth estimate. Only used for reporting; the solver does
// not consult it.
func (b *Board) EstimateSearchSpace() (branching float64, depth int, states float64) {
	const avgDirections = 2.5
	branching = float64(len(b.MovablePieces())) * avgDirections
	depth = int(b.Heuristic())

	states = 1.0
	for i := 0; i < depth && i < 20; i++ {
		states *= branching
	}
	return branching, depth, states
}
