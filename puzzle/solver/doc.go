// Package solver implements best-first search over puzzle board
// states.
//
// Each Solve run owns its entire working state: a node arena (board
// snapshots linked by parent indices), a penalty-ordered frontier, and
// a visited set of canonical state hashes. Nothing is shared between
// runs, so concurrent or repeated solves never poison each other's
// pruning.
//
// The search is weighted best-first, not admissible A*: the penalty
// mixes a depth weight with the board heuristic, so it converges to a
// solution whenever one is reachable but makes no shortest-path
// promise. An exhausted frontier is a normal outcome meaning the
// puzzle has no solution from the given position.
//
// Usage:
//
//	board, _ := engine.NewBoard(cfg)
//	result, err := solver.New(solver.DefaultOptions()).Solve(board)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Solved {
//		log.Println("no solution from this position")
//	}
//	for _, move := range result.Moves {
//		fmt.Println(move)
//	}
package solver
