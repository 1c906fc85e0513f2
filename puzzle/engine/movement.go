package engine

import "fmt"

// LegalRun returns the maximal distance the piece can slide in the
// given direction: the largest d such that every piece cell shifted d
// steps lands on an empty cell or on another cell of the same piece.
// Unknown pieces and invalid directions yield 0.
func (b *Board) LegalRun(label string, dir Direction) int {
	cells, ok := b.pieces[label]
	if !ok || !dir.IsValid() {
		return 0
	}
	dx, dy := dir.Delta()
	piece := rune(label[0])
	run := 0
	for {
		d := run + 1
		for _, c := range cells {
			cell := b.At(c.X+dx*d, c.Y+dy*d)
			if cell != EmptyCell && cell != piece {
				return run
			}
		}
		run = d
	}
}

// PossibleMoves returns, for every piece that can move at all, the
// maximal legal distance in each movable direction.
func (b *Board) PossibleMoves() map[string]map[Direction]int {
	moves := make(map[string]map[Direction]int)
	for _, label := range b.order {
		for _, dir := range Directions {
			run := b.LegalRun(label, dir)
			if run == 0 {
				continue
			}
			if moves[label] == nil {
				moves[label] = make(map[Direction]int)
			}
			moves[label][dir] = run
		}
	}
	return moves
}

// ValidateMove checks a move against the current board without
// mutating anything. It distinguishes unknown pieces and directions
// from moves that are merely blocked.
func (b *Board) ValidateMove(m Move) error {
	if _, ok := b.pieces[m.Piece]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPiece, m.Piece)
	}
	if !m.Direction.IsValid() {
		return fmt.Errorf("%w: unknown direction %q", ErrIllegalMove, string(m.Direction))
	}
	if m.Distance < 1 {
		return fmt.Errorf("%w: distance %d < 1", ErrIllegalMove, m.Distance)
	}
	if run := b.LegalRun(m.Piece, m.Direction); m.Distance > run {
		return fmt.Errorf("%w: %s by %d exceeds legal run %d", ErrIllegalMove, m.Piece+" "+string(m.Direction), m.Distance, run)
	}
	return nil
}

// Apply executes a move in place. The move is validated first; on any
// error the board is untouched. Applying a move and then its Inverse
// restores the board exactly, including piece coordinate order.
func (b *Board) Apply(m Move) error {
	if err := b.ValidateMove(m); err != nil {
		return err
	}
	b.translate(m)
	return nil
}

// translate shifts the piece without validation. Callers must have
// established legality; an illegal translate corrupts the grid.
func (b *Board) translate(m Move) {
	cells := b.pieces[m.Piece]
	piece := rune(m.Piece[0])
	dx, dy := m.Direction.Delta()
	dx, dy = dx*m.Distance, dy*m.Distance

	for _, c := range cells {
		b.grid[c.Y][c.X] = EmptyCell
	}
	for i := range cells {
		cells[i].X += dx
		cells[i].Y += dy
	}
	for _, c := range cells {
		b.grid[c.Y][c.X] = piece
	}

	b.fps[m.Piece] = b.pieceFingerprint(m.Piece)
	b.defectOK = false
}

// Simulate applies the move, captures the resulting hash and goal
// status, and restores the board before returning. The undo runs on
// every exit path, so the board is bit-identical afterwards even if a
// capture step panics.
func (b *Board) Simulate(m Move) (hash StateHash, goal bool, err error) {
	if err := b.ValidateMove(m); err != nil {
		return 0, false, err
	}
	b.translate(m)
	defer b.translate(m.Inverse())
	return b.Hash(), b.IsGoal(), nil
}
