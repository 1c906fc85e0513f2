// Command analyze prints quick, human-readable heuristics about puzzle
// configuration files in the project's configs directory. It summarizes
// dimensions, piece and empty-cell counts, which pieces can move from the
// start position, and a rough estimate of the search space the solver
// would face.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vxm/ppz/puzzle/engine"
)

func main() {
	configs := []string{
		"boxed.json",
		"classic.json",
		"starter.json",
	}

	for _, configFile := range configs {
		fmt.Printf("\n=== Analyzing %s ===\n", configFile)
		analyzeConfig(filepath.Join("configs", configFile))
	}
}

func analyzeConfig(path string) {
	cfg, err := engine.LoadConfigFile(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	board, err := engine.NewBoard(cfg)
	if err != nil {
		fmt.Printf("Error building board: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", cfg.Name)
	fmt.Printf("Grid Size: %d x %d\n", board.Width(), board.Height())
	fmt.Printf("Pieces: %d\n", len(board.Pieces()))
	fmt.Printf("Empty Cells: %d\n", board.CountEmpty())
	fmt.Printf("Goal: piece %q to (%d, %d)\n", board.GoalPiece(), board.Target().X, board.Target().Y)

	movable := board.MovablePieces()
	if len(movable) > 0 {
		fmt.Printf("Movable Pieces: %d (%s)\n", len(movable), strings.Join(movable, ", "))
	} else {
		fmt.Printf("⚠️  WARNING: no piece can move from the start position!\n")
		return
	}

	goalMovable := false
	for _, label := range movable {
		if label == board.GoalPiece() {
			goalMovable = true
			break
		}
	}
	if !goalMovable {
		fmt.Printf("⚠️  Goal piece %q is boxed in at the start; other pieces must move first\n", board.GoalPiece())
	}

	fmt.Printf("Heuristic Distance: %.1f\n", board.Heuristic())

	branching, depth, states := board.EstimateSearchSpace()
	fmt.Printf("Estimated Branching Factor: %.1f\n", branching)
	fmt.Printf("Estimated Depth: %d\n", depth)
	if states >= 1e6 {
		fmt.Printf("⚠️  Estimated Search Space: %.2e states - expect the solver to lean on its visited set\n", states)
	} else {
		fmt.Printf("✅ Estimated Search Space: %.0f states - well within a default node budget\n", states)
	}
}
