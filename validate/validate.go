// Command validate provides a small CLI that validates puzzle configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid consistency and allowed characters (O, 0, a-z)
//   - Goal piece presence and target bounds
//   - Piece contiguity (the board constructor rejects split pieces)
//   - Mobility: at least one piece has a legal slide from the start position
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vxm/ppz/puzzle/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks via the engine validator, builds a board
// to catch contiguity errors, and runs a mobility check on the result.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
		Notes: []string{},
	}

	cfg, err := engine.LoadConfigFile(filePath)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	board, err := engine.NewBoard(cfg)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Board construction failed: %v", err))
		return result
	}

	mobility := validateMobility(board)
	result.Notes = append(result.Notes, mobility.Notes...)
	if !mobility.Valid {
		result.Valid = false
		return result
	}

	pieceSizes := make(map[int]int)
	for _, label := range board.Pieces() {
		pieceSizes[len(board.PieceCells(label))]++
	}
	var sizes []int
	for size := range pieceSizes {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	var sizeParts []string
	for _, size := range sizes {
		sizeParts = append(sizeParts, fmt.Sprintf("%dx %d-cell", pieceSizes[size], size))
	}

	result.Notes = append(result.Notes, fmt.Sprintf("✓ Name: %s", cfg.Name))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Grid: %dx%d", board.Width(), board.Height()))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Pieces: %d (%s)", len(board.Pieces()), strings.Join(sizeParts, ", ")))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Empty cells: %d", board.CountEmpty()))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Goal: piece %q to (%d,%d)", board.GoalPiece(), board.Target().X, board.Target().Y))

	return result
}

// validateMobility checks that the start position is not frozen solid and
// that the goal piece is not already sitting on the target. A board where
// nothing can move is almost certainly a configuration mistake.
func validateMobility(board *engine.Board) ValidationResult {
	result := ValidationResult{
		Valid: true,
		Notes: []string{},
	}

	movable := board.MovablePieces()
	if len(movable) == 0 {
		result.Valid = false
		result.Notes = append(result.Notes, "Mobility failure: no piece has a legal slide from the start position")
		return result
	}

	if board.IsGoal() {
		result.Notes = append(result.Notes, "⚠ Goal piece already on target; puzzle is trivially solved")
	}

	goalMovable := false
	for _, label := range movable {
		if label == board.GoalPiece() {
			goalMovable = true
			break
		}
	}
	if goalMovable {
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Mobility: %d/%d pieces movable, goal piece among them", len(movable), len(board.Pieces())))
	} else {
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Mobility: %d/%d pieces movable (goal piece currently boxed in)", len(movable), len(board.Pieces())))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, note := range result.Notes {
				if !strings.HasPrefix(note, "✓") {
					fmt.Println("  ❌ " + note)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
