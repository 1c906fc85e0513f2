package solver

import "github.com/vxm/ppz/puzzle/engine"

// searchNode is one explored state. Nodes live in a flat arena and
// point at their parent by index, so path reconstruction is a simple
// walk and no back-pointer cycles can form. The arena never frees
// entries; the explored space is bounded per run by the visited set.
type searchNode struct {
	board   *engine.Board // independently owned snapshot
	parent  int           // arena index of the parent, -1 for the root
	move    engine.Move   // move that produced this state (zero for the root)
	depth   int           // moves from the root
	rank    int           // ordering depth, may sit below depth via the same-piece discount
	penalty float64
}

// pathTo reconstructs the chronological move list leading to the node
// at idx, with final appended as the last step.
func pathTo(arena []searchNode, idx int, final engine.Move) []engine.Move {
	var reversed []engine.Move
	for i := idx; arena[i].parent != -1; i = arena[i].parent {
		reversed = append(reversed, arena[i].move)
	}

	moves := make([]engine.Move, 0, len(reversed)+1)
	for i := len(reversed) - 1; i >= 0; i-- {
		moves = append(moves, reversed[i])
	}
	return append(moves, final)
}
