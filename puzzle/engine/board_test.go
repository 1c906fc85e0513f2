package engine

import (
	"testing"

	"github.com/vxm/ppz/internal/testutil"
)

// classicTestConfig is the traditional 5x6 interior layout where the
// wide goal piece must reach the bottom-centre exit.
func classicTestConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "Classic",
		Description: "Traditional layout, big block exits at the bottom",
		Layout: []string{
			"OOOOOOO",
			"OabbbcO",
			"OaadccO",
			"OeedggO",
			"OjjhffO",
			"OiihkkO",
			"Ol000mO",
			"OOOOOOO",
		},
		GoalPiece: "b",
		Target:    Position{X: 2, Y: 6},
	}
}

// starterTestConfig is a small solvable board: one 2x1 piece that has
// to reach the bottom-left interior cell past two 1x1 blockers.
func starterTestConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "Starter",
		Description: "Small warm-up board",
		Layout: []string{
			"OOOOOO",
			"Oaa00O",
			"O0b00O",
			"O00c0O",
			"O0000O",
			"O0000O",
			"OOOOOO",
		},
		GoalPiece: "a",
		Target:    Position{X: 1, Y: 5},
	}
}

// boxedTestConfig encloses the goal piece in walls so no move sequence
// can ever free it.
func boxedTestConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "Boxed",
		Description: "Goal piece walled in, unsolvable",
		Layout: []string{
			"OOOOO",
			"ObO0O",
			"OOOaO",
			"OOOOO",
		},
		GoalPiece: "b",
		Target:    Position{X: 3, Y: 1},
	}
}

func mustBoard(t *testing.T, cfg *PuzzleConfig) *Board {
	t.Helper()
	b, err := NewBoard(cfg)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestNewBoardScansPieces(t *testing.T) {
	b := mustBoard(t, classicTestConfig())

	wantLabels := []string{"a", "b", "c", "d", "e", "g", "j", "h", "f", "i", "k", "l", "m"}
	testutil.AssertEqual(t, b.Pieces(), wantLabels)

	wantGoal := []Position{{X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1}}
	testutil.AssertEqual(t, b.PieceCells("b"), wantGoal)

	anchor, ok := b.Anchor("b")
	if !ok || anchor != (Position{X: 2, Y: 1}) {
		t.Fatalf("anchor of b: got %v ok=%v, want (2,1)", anchor, ok)
	}
}

func TestAtTreatsOutOfGridAsWall(t *testing.T) {
	b := mustBoard(t, starterTestConfig())

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"interior empty", 3, 1, EmptyCell},
		{"piece cell", 1, 1, 'a'},
		{"border wall", 0, 0, WallCell},
		{"negative x", -1, 2, WallCell},
		{"negative y", 2, -5, WallCell},
		{"past width", 6, 2, WallCell},
		{"past height", 2, 7, WallCell},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := b.At(test.x, test.y); got != test.want {
				t.Errorf("At(%d,%d) = %q, want %q", test.x, test.y, string(got), string(test.want))
			}
			if b.IsEmpty(test.x, test.y) != (test.want == EmptyCell) {
				t.Errorf("IsEmpty(%d,%d) disagrees with At", test.x, test.y)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := mustBoard(t, starterTestConfig())
	clone := b.Clone()

	if err := clone.Apply(Move{Piece: "b", Direction: Right, Distance: 1}); err != nil {
		t.Fatalf("Apply on clone: %v", err)
	}

	if b.At(2, 2) != 'b' {
		t.Error("mutating the clone changed the original grid")
	}
	if clone.At(2, 2) != EmptyCell || clone.At(3, 2) != 'b' {
		t.Error("clone did not record its own move")
	}
	if b.Hash() == clone.Hash() {
		t.Error("expected diverged boards to hash differently")
	}
	testutil.AssertNoError(t, b.CheckInvariant())
	testutil.AssertNoError(t, clone.CheckInvariant())
}

func TestCheckInvariantDetectsCorruption(t *testing.T) {
	b := mustBoard(t, starterTestConfig())
	testutil.AssertNoError(t, b.CheckInvariant())

	// Stomp a piece cell behind the board's back.
	b.grid[2][2] = EmptyCell
	testutil.AssertError(t, b.CheckInvariant())
}

func TestStringRendersLayout(t *testing.T) {
	cfg := boxedTestConfig()
	b := mustBoard(t, cfg)
	want := "OOOOO\nObO0O\nOOOaO\nOOOOO"
	testutil.AssertEqual(t, b.String(), want)
}
