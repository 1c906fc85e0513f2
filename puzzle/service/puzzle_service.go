package service

import (
	"context"
	"time"

	"github.com/vxm/ppz/puzzle/engine"
)

// PuzzleService defines all puzzle-related operations
type PuzzleService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Operations
	Move(ctx context.Context, sessionID string, move engine.Move) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*BoardState, error)
	Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error)

	// Board State
	GetState(ctx context.Context, sessionID string) (*BoardState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.PuzzleConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.PuzzleConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles puzzle configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.PuzzleConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.PuzzleConfig
	SaveConfig(name string, config *engine.PuzzleConfig) error
}

// Session represents an active puzzle session
type Session struct {
	ID             string
	Board          *engine.Board
	Config         *engine.PuzzleConfig
	Moves          []engine.Move
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Reset rebuilds the session's board from its configuration and clears
// the move log.
func (s *Session) Reset() error {
	board, err := engine.NewBoard(s.Config)
	if err != nil {
		return err
	}
	s.Board = board
	s.Moves = s.Moves[:0]
	return nil
}
