package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/vxm/ppz/puzzle/engine"
	"github.com/vxm/ppz/puzzle/solver"
)

// puzzleServiceImpl implements the PuzzleService interface
type puzzleServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewPuzzleService creates a new puzzle service instance
func NewPuzzleService(sessions SessionManager, configs ConfigManager) PuzzleService {
	return &puzzleServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *puzzleServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// stateOf builds a transport snapshot from a session's board.
func stateOf(sess *Session) *BoardState {
	b := sess.Board
	pieces := make(map[string][]engine.Position, len(b.Pieces()))
	for _, label := range b.Pieces() {
		pieces[label] = b.PieceCells(label)
	}
	return &BoardState{
		Grid:          strings.Split(b.String(), "\n"),
		Pieces:        pieces,
		GoalPiece:     b.GoalPiece(),
		Target:        b.Target(),
		AtGoal:        b.IsGoal(),
		MoveCount:     len(sess.Moves),
		Hash:          uint64(b.Hash()),
		PossibleMoves: b.PossibleMoves(),
	}
}

// CreateSession creates a new puzzle session
func (s *puzzleServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.PuzzleConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          stateOf(session),
		Config:         session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *puzzleServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          stateOf(session),
		Config:         session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *puzzleServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			State:          stateOf(sess),
			Config:         sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *puzzleServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move applies a single manual move to a session's board
func (s *puzzleServiceImpl) Move(ctx context.Context, sessionID string, move engine.Move) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []PuzzleEvent{}

	if err := sess.Board.Apply(move); err != nil {
		if errors.Is(err, engine.ErrUnknownPiece) || errors.Is(err, engine.ErrIllegalMove) {
			return &MoveResult{
				Success: false,
				State:   stateOf(sess),
				Message: err.Error(),
			}, nil
		}
		return nil, err
	}

	sess.Moves = append(sess.Moves, move)
	anchor, _ := sess.Board.Anchor(move.Piece)
	events = append(events, PuzzleEvent{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s", move),
		Timestamp: time.Now(),
		Position:  anchor,
	})

	result := &MoveResult{
		Success: true,
		State:   stateOf(sess),
		Message: fmt.Sprintf("Moved %s", move),
		Events:  events,
	}

	if sess.Board.IsGoal() {
		result.Message = fmt.Sprintf("Goal reached in %d moves", len(sess.Moves))
		result.Events = append(result.Events, PuzzleEvent{
			Type:      "goal",
			Message:   result.Message,
			Timestamp: time.Now(),
			Position:  sess.Board.Target(),
		})
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after move: %v", sessionID, err)
	}

	return result, nil
}

// Reset rebuilds a session's board from its configuration
func (s *puzzleServiceImpl) Reset(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if err := sess.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after reset: %v", sessionID, err)
	}

	return stateOf(sess), nil
}

// Solve runs the solver against a session's current position. The
// session board itself is not mutated; the returned moves can be
// replayed through Move.
func (s *puzzleServiceImpl) Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	res, err := solver.New(opts.toSolverOptions()).Solve(ctx, sess.Board)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	moves := res.Moves
	if moves == nil {
		moves = []engine.Move{}
	}
	return &SolveResult{
		Solved:       res.Solved,
		LimitReached: res.LimitReached,
		Moves:        moves,
		Expanded:     res.Expanded,
		Visited:      res.Visited,
		DurationMS:   res.Duration.Milliseconds(),
		State:        stateOf(sess),
	}, nil
}

// GetState retrieves the current board state
func (s *puzzleServiceImpl) GetState(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return stateOf(sess), nil
}

// GetMoveHistory returns paginated move history
func (s *puzzleServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Moves
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.Move
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		if start < total {
			moves = history[start:end]
		}
	}
	if moves == nil {
		moves = []engine.Move{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available puzzle configurations
func (s *puzzleServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *puzzleServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *puzzleServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}
