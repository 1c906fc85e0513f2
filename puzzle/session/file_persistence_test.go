package session

import (
	"errors"
	"testing"
	"time"

	"github.com/vxm/ppz/puzzle/engine"
	"github.com/vxm/ppz/puzzle/service"
)

// stubConfigManager serves a fixed set of configs from memory.
type stubConfigManager struct {
	configs map[string]*engine.PuzzleConfig
}

func newStubConfigManager() *stubConfigManager {
	return &stubConfigManager{
		configs: map[string]*engine.PuzzleConfig{
			"test": createTestConfig(),
		},
	}
}

func (s *stubConfigManager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	cfg, ok := s.configs[name]
	if !ok {
		return nil, errors.New("configuration not found")
	}
	return cfg, nil
}

func (s *stubConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for id, cfg := range s.configs {
		infos = append(infos, &service.ConfigInfo{
			ConfigID: id,
			Filename: id + ".json",
			Name:     cfg.Name,
		})
	}
	return infos, nil
}

func (s *stubConfigManager) GetDefault() *engine.PuzzleConfig {
	return s.configs["test"]
}

func (s *stubConfigManager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	s.configs[name] = config
	return nil
}

func newTestPersistence(t *testing.T) *FilePersistence {
	t.Helper()

	fp, err := NewFilePersistence(t.TempDir(), newStubConfigManager())
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	return fp
}

func makeTestSession(t *testing.T, id string, moves []engine.Move) *service.Session {
	t.Helper()

	config := createTestConfig()
	board, err := engine.NewBoard(config)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	for _, m := range moves {
		if err := board.Apply(m); err != nil {
			t.Fatalf("Failed to apply move %s: %v", m, err)
		}
	}

	return &service.Session{
		ID:             id,
		Board:          board,
		Config:         config,
		Moves:          moves,
		CreatedAt:      time.Now().Add(-time.Minute),
		LastAccessedAt: time.Now(),
	}
}

func TestFilePersistence_SaveLoad(t *testing.T) {
	fp := newTestPersistence(t)

	moves := []engine.Move{
		{Piece: "b", Direction: engine.Right, Distance: 2},
		{Piece: "a", Direction: engine.Down, Distance: 1},
	}
	sess := makeTestSession(t, "replay-test", moves)

	if err := fp.Save(sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if !fp.Exists("replay-test") {
		t.Fatal("Expected session file to exist after save")
	}

	loaded, err := fp.Load("replay-test")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	if loaded.ID != sess.ID {
		t.Errorf("Expected ID '%s', got '%s'", sess.ID, loaded.ID)
	}
	if len(loaded.Moves) != len(moves) {
		t.Fatalf("Expected %d moves, got %d", len(moves), len(loaded.Moves))
	}
	if loaded.Board.String() != sess.Board.String() {
		t.Errorf("Replayed board differs:\n%s\nwant:\n%s", loaded.Board, sess.Board)
	}
	if loaded.Board.Hash() != sess.Board.Hash() {
		t.Error("Replayed board hash differs from original")
	}
}

func TestFilePersistence_LoadMissing(t *testing.T) {
	fp := newTestPersistence(t)

	if _, err := fp.Load("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestFilePersistence_Delete(t *testing.T) {
	fp := newTestPersistence(t)

	sess := makeTestSession(t, "doomed", nil)
	if err := fp.Save(sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if err := fp.Delete("doomed"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if fp.Exists("doomed") {
		t.Error("Expected session file to be gone")
	}
	if err := fp.Delete("doomed"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for double delete, got %v", err)
	}
}

func TestFilePersistence_ListAll(t *testing.T) {
	fp := newTestPersistence(t)

	for _, id := range []string{"aa11", "bb22", "cc33"} {
		if err := fp.Save(makeTestSession(t, id, nil)); err != nil {
			t.Fatalf("Failed to save session %s: %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 session IDs, got %d", len(ids))
	}
}

func TestManagerWithPersistence_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	configs := newStubConfigManager()

	fp, err := NewFilePersistence(dir, configs)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	manager := NewManagerWithPersistence(fp)
	sess, err := manager.Create("warm", configs.GetDefault())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	move := engine.Move{Piece: "b", Direction: engine.Right, Distance: 1}
	if err := sess.Board.Apply(move); err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	sess.Moves = append(sess.Moves, move)
	if err := manager.Save("warm"); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// A fresh manager sharing the same storage sees the session
	cold := NewManagerWithPersistence(fp)
	if err := cold.LoadPersistedSessions(); err != nil {
		t.Fatalf("Failed to load persisted sessions: %v", err)
	}

	restored, err := cold.Get("warm")
	if err != nil {
		t.Fatalf("Failed to get restored session: %v", err)
	}
	if restored.Board.String() != sess.Board.String() {
		t.Error("Restored board differs from the saved one")
	}
}
