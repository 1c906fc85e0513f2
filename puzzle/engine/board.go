package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Board is the mutable puzzle state: the grid plus the coordinate list
// of every piece. A Board is built once from a PuzzleConfig and then
// mutated in place by Apply; search code clones it whenever a state
// must outlive the next mutation.
type Board struct {
	grid   [][]rune
	width  int
	height int

	pieces map[string][]Position
	order  []string          // piece labels in first-seen scan order
	groups map[string]string // piece label -> interchangeability group key
	fps    map[string]uint64 // cached positional fingerprints

	goalPiece string
	target    Position

	heuristic HeuristicFunc
	defect    float64
	defectOK  bool
}

// NewBoard constructs a Board from a validated configuration. It scans
// the layout row-major, so each piece's coordinate list starts at its
// top-left-most cell; that first coordinate anchors both the hash
// fingerprint and the goal check.
func NewBoard(cfg *PuzzleConfig) (*Board, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	height := len(cfg.Layout)
	width := len(cfg.Layout[0])

	b := &Board{
		grid:      make([][]rune, height),
		width:     width,
		height:    height,
		pieces:    make(map[string][]Position),
		groups:    make(map[string]string),
		fps:       make(map[string]uint64),
		goalPiece: cfg.GoalPiece,
		target:    cfg.Target,
		heuristic: EuclideanDistance,
	}

	for y, row := range cfg.Layout {
		b.grid[y] = []rune(row)
		for x, cell := range b.grid[y] {
			if !isPieceCell(cell) {
				continue
			}
			label := string(cell)
			if _, seen := b.pieces[label]; !seen {
				b.order = append(b.order, label)
			}
			b.pieces[label] = append(b.pieces[label], Position{X: x, Y: y})
		}
	}

	b.assignGroups()
	for _, label := range b.order {
		b.fps[label] = b.pieceFingerprint(label)
	}
	return b, nil
}

func isPieceCell(cell rune) bool {
	return cell >= 'a' && cell <= 'z'
}

// At returns the cell content at (x, y). Coordinates outside the grid
// read as walls, so slide legality needs no separate bounds handling.
func (b *Board) At(x, y int) rune {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return WallCell
	}
	return b.grid[y][x]
}

// IsEmpty reports whether (x, y) is an in-grid empty cell.
func (b *Board) IsEmpty(x, y int) bool {
	return b.At(x, y) == EmptyCell
}

// Width returns the grid width in cells.
func (b *Board) Width() int { return b.width }

// Height returns the grid height in cells.
func (b *Board) Height() int { return b.height }

// GoalPiece returns the label of the designated piece.
func (b *Board) GoalPiece() string { return b.goalPiece }

// Target returns the anchor cell the goal piece must reach.
func (b *Board) Target() Position { return b.target }

// Pieces returns the piece labels in deterministic scan order.
func (b *Board) Pieces() []string {
	labels := make([]string, len(b.order))
	copy(labels, b.order)
	return labels
}

// PieceCells returns a copy of the piece's occupied cells in their
// stable scan order, or nil for an unknown label.
func (b *Board) PieceCells(label string) []Position {
	cells, ok := b.pieces[label]
	if !ok {
		return nil
	}
	out := make([]Position, len(cells))
	copy(out, cells)
	return out
}

// Anchor returns the first coordinate of the piece, the positional
// fingerprint used by the hash and the goal check.
func (b *Board) Anchor(label string) (Position, bool) {
	cells, ok := b.pieces[label]
	if !ok || len(cells) == 0 {
		return Position{}, false
	}
	return cells[0], true
}

// Clone returns an independent deep copy. The clone shares nothing
// mutable with the receiver, so sibling search branches cannot corrupt
// each other through it.
func (b *Board) Clone() *Board {
	clone := &Board{
		grid:      make([][]rune, b.height),
		width:     b.width,
		height:    b.height,
		pieces:    make(map[string][]Position, len(b.pieces)),
		order:     append([]string(nil), b.order...),
		groups:    b.groups, // immutable after construction
		fps:       make(map[string]uint64, len(b.fps)),
		goalPiece: b.goalPiece,
		target:    b.target,
		heuristic: b.heuristic,
		defect:    b.defect,
		defectOK:  b.defectOK,
	}
	for y := range b.grid {
		clone.grid[y] = append([]rune(nil), b.grid[y]...)
	}
	for label, cells := range b.pieces {
		clone.pieces[label] = append([]Position(nil), cells...)
	}
	for label, fp := range b.fps {
		clone.fps[label] = fp
	}
	return clone
}

// String renders the grid one row per line, for logs and debugging.
func (b *Board) String() string {
	var sb strings.Builder
	for y, row := range b.grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

// CheckInvariant verifies that the grid and the piece coordinate lists
// agree exactly: every piece cell appears once in its piece's list and
// every listed coordinate holds its piece's label. Used by tests and
// debug paths; a failure means a move corrupted the board.
func (b *Board) CheckInvariant() error {
	counted := make(map[string]int)
	for y, row := range b.grid {
		for x, cell := range row {
			if !isPieceCell(cell) {
				continue
			}
			label := string(cell)
			found := false
			for _, p := range b.pieces[label] {
				if p.X == x && p.Y == y {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("board invariant: grid cell (%d,%d)=%s missing from piece list", x, y, label)
			}
			counted[label]++
		}
	}
	for label, cells := range b.pieces {
		if counted[label] != len(cells) {
			return fmt.Errorf("board invariant: piece %s has %d grid cells but %d listed", label, counted[label], len(cells))
		}
		for _, p := range cells {
			if b.At(p.X, p.Y) != rune(label[0]) {
				return fmt.Errorf("board invariant: piece %s lists (%d,%d) but grid holds %q", label, p.X, p.Y, string(b.At(p.X, p.Y)))
			}
		}
	}
	return nil
}

// assignGroups buckets pieces into interchangeability groups by their
// normalized shape. Two pieces with identical shapes occupy equivalent
// roles anywhere on the board, except the goal piece, which is always
// its own group regardless of shape.
func (b *Board) assignGroups() {
	for _, label := range b.order {
		sig := shapeSignature(b.pieces[label])
		if label == b.goalPiece {
			sig = "goal:" + sig
		}
		b.groups[label] = sig
	}
}

// shapeSignature encodes a piece's cell offsets relative to its anchor.
// Pieces never rotate, so equal signatures mean equal footprints.
func shapeSignature(cells []Position) string {
	if len(cells) == 0 {
		return ""
	}
	anchor := cells[0]
	offsets := make([]string, len(cells))
	for i, c := range cells {
		offsets[i] = fmt.Sprintf("%d,%d", c.X-anchor.X, c.Y-anchor.Y)
	}
	sort.Strings(offsets)
	return strings.Join(offsets, ";")
}
