package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateConfig validates a puzzle configuration for structural
// correctness. It fails fast on anything the board constructor could
// not represent: ragged rows, unknown characters, a missing goal
// piece, or an out-of-bounds target. Solvability is not checked here;
// an unsolvable puzzle is a legitimate configuration that the solver
// reports as having no solution.
func ValidateConfig(cfg *PuzzleConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if cfg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if len(cfg.Layout) < MinGridSize {
		return fmt.Errorf("%w: layout must have at least %d rows, got %d", ErrInvalidConfig, MinGridSize, len(cfg.Layout))
	}
	if len(cfg.Layout) > MaxGridSize {
		return fmt.Errorf("%w: layout must have at most %d rows, got %d", ErrInvalidConfig, MaxGridSize, len(cfg.Layout))
	}

	width := len(cfg.Layout[0])
	if width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("%w: row width must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, width)
	}

	labels := make(map[rune]bool)
	for i, row := range cfg.Layout {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidConfig, i+1, len(row), width)
		}
		for j, cell := range row {
			switch {
			case cell == WallCell || cell == EmptyCell:
			case isPieceCell(cell):
				labels[cell] = true
			default:
				return fmt.Errorf("%w: invalid character %q at row %d, col %d", ErrInvalidConfig, string(cell), i+1, j+1)
			}
		}
	}

	if len(labels) == 0 {
		return fmt.Errorf("%w: layout contains no pieces", ErrInvalidConfig)
	}
	if len(labels) > MaxPieceCount {
		return fmt.Errorf("%w: layout has %d pieces, at most %d supported", ErrInvalidConfig, len(labels), MaxPieceCount)
	}

	if len(cfg.GoalPiece) != 1 || !isPieceCell(rune(cfg.GoalPiece[0])) {
		return fmt.Errorf("%w: goal_piece must be a single lowercase letter, got %q", ErrInvalidConfig, cfg.GoalPiece)
	}
	if !labels[rune(cfg.GoalPiece[0])] {
		return fmt.Errorf("%w: goal_piece %q does not occur in the layout", ErrInvalidConfig, cfg.GoalPiece)
	}

	if cfg.Target.X < 0 || cfg.Target.X >= width || cfg.Target.Y < 0 || cfg.Target.Y >= len(cfg.Layout) {
		return fmt.Errorf("%w: target (%d,%d) is outside the %dx%d grid", ErrInvalidConfig, cfg.Target.X, cfg.Target.Y, width, len(cfg.Layout))
	}

	return nil
}

// LoadConfigFile reads and validates a puzzle configuration from a
// JSON file.
func LoadConfigFile(path string) (*PuzzleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg PuzzleConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfigFile validates and writes a puzzle configuration as JSON.
func SaveConfigFile(path string, cfg *PuzzleConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
