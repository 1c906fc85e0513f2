package service

import (
	"time"

	"github.com/vxm/ppz/puzzle/engine"
	"github.com/vxm/ppz/puzzle/solver"
)

// BoardState is the transport-friendly snapshot of a session's board.
type BoardState struct {
	Grid          []string                            `json:"grid"`
	Pieces        map[string][]engine.Position        `json:"pieces"`
	GoalPiece     string                              `json:"goal_piece"`
	Target        engine.Position                     `json:"target"`
	AtGoal        bool                                `json:"at_goal"`
	MoveCount     int                                 `json:"move_count"`
	Hash          uint64                              `json:"hash"`
	PossibleMoves map[string]map[engine.Direction]int `json:"possible_moves,omitempty"`
}

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	State          *BoardState          `json:"state"`
	Config         *engine.PuzzleConfig `json:"config"`
}

// MoveResult contains the result of a manual move operation
type MoveResult struct {
	Success bool          `json:"success"`
	State   *BoardState   `json:"state"`
	Message string        `json:"message"`
	Events  []PuzzleEvent `json:"events,omitempty"`
}

// SolveResult reports the outcome of running the solver against a
// session's current position.
type SolveResult struct {
	Solved       bool          `json:"solved"`
	LimitReached bool          `json:"limit_reached"`
	Moves        []engine.Move `json:"moves"`
	Expanded     int           `json:"expanded"`
	Visited      int           `json:"visited"`
	DurationMS   int64         `json:"duration_ms"`
	State        *BoardState   `json:"state"`
}

// PuzzleEvent represents an event that occurred during play
type PuzzleEvent struct {
	Type      string          `json:"type"` // "move", "goal", "reset", "solved"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.Move `json:"moves"`
	TotalMoves  int           `json:"total_moves"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PieceCount  int    `json:"piece_count"`
}

// SolveOptions exposes the solver knobs a caller may tune per request.
// Zero values fall back to solver.DefaultOptions.
type SolveOptions struct {
	DepthWeight float64 `json:"depth_weight,omitempty"`
	MaxNodes    int     `json:"max_nodes,omitempty"`
}

func (o SolveOptions) toSolverOptions() solver.Options {
	opts := solver.DefaultOptions()
	if o.DepthWeight > 0 {
		opts.DepthWeight = o.DepthWeight
	}
	if o.MaxNodes > 0 {
		opts.MaxNodes = o.MaxNodes
	}
	return opts
}
