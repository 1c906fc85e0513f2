package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type BoardState struct {
	Grid          []string                  `json:"grid"`
	Pieces        map[string][]Position     `json:"pieces"`
	GoalPiece     string                    `json:"goal_piece"`
	Target        Position                  `json:"target"`
	AtGoal        bool                      `json:"at_goal"`
	MoveCount     int                       `json:"move_count"`
	Hash          uint64                    `json:"hash"`
	PossibleMoves map[string]map[string]int `json:"possible_moves"`
}

type SessionResponse struct {
	ID         string      `json:"id"`
	ConfigName string      `json:"config_name"`
	State      *BoardState `json:"state"`
}

type Move struct {
	Piece     string `json:"piece"`
	Direction string `json:"direction"`
	Distance  int    `json:"distance"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateSession(configID string) (*BoardState, error) {
	var reqBody []byte
	var err error

	if configID != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.State, nil
}

func (c *Client) GetState() (*BoardState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state BoardState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

type MoveResponse struct {
	Success bool        `json:"success"`
	State   *BoardState `json:"state"`
	Message string      `json:"message"`
}

func (c *Client) Move(m Move) (*BoardState, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal move: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/move", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("execute move: %w", err)
	}
	defer resp.Body.Close()

	var moveResp MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&moveResp); err != nil {
		return nil, fmt.Errorf("parse move response: %w", err)
	}

	if !moveResp.Success {
		return moveResp.State, fmt.Errorf("move rejected: %s", moveResp.Message)
	}

	return moveResp.State, nil
}

type ResetResponse struct {
	Message string      `json:"message"`
	State   *BoardState `json:"state"`
}

func (c *Client) Reset() (*BoardState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

type SolveResponse struct {
	Solved       bool   `json:"solved"`
	LimitReached bool   `json:"limit_reached"`
	Moves        []Move `json:"moves"`
	Expanded     int    `json:"expanded"`
	Visited      int    `json:"visited"`
	DurationMS   int64  `json:"duration_ms"`
}

func (c *Client) Solve(maxNodes int) (*SolveResponse, error) {
	body, err := json.Marshal(map[string]int{"max_nodes": maxNodes})
	if err != nil {
		return nil, fmt.Errorf("marshal solve request: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/solve", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("solve failed: %s - %s", resp.Status, string(respBody))
	}

	var solveResp SolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&solveResp); err != nil {
		return nil, fmt.Errorf("parse solve response: %w", err)
	}

	return &solveResp, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Puzzle server URL")
	configID := flag.String("config", "", "Puzzle configuration ID (classic, starter, boxed)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxMoves := flag.Int("max-moves", 5000, "Maximum moves per attempt")
	maxAttempts := flag.Int("max-attempts", 20, "Maximum greedy attempts before giving up")
	useSolver := flag.Bool("solver", false, "Ask the server to solve and replay the plan instead of greedy play")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to puzzle server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *BoardState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s", client.sessionID)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	log.Printf("Board: %dx%d, goal piece %q to (%d,%d)",
		len(state.Grid[0]), len(state.Grid), state.GoalPiece, state.Target.X, state.Target.Y)

	log.Printf("Resetting board...")
	state, err = client.Reset()
	if err != nil {
		log.Fatalf("Failed to reset board: %v", err)
	}

	if *useSolver {
		runWithSolver(client, state, *delayMs)
		return
	}

	strategy := NewGreedyStrategy(state)

	attemptNum := 0
	for attemptNum < *maxAttempts {
		attemptNum++

		if attemptNum > 1 {
			state, err = client.Reset()
			if err != nil {
				log.Printf("Failed to reset: %v", err)
				break
			}
		}

		strategy.Reset()

		log.Printf("\n=== Attempt %d/%d ===", attemptNum, *maxAttempts)

		moveCount := 0
		for !state.AtGoal && moveCount < *maxMoves {
			if *verbose && moveCount%100 == 0 && moveCount > 0 {
				log.Printf("Moves: %d, distinct states seen: %d", moveCount, strategy.StatesSeen())
			}

			move, ok := strategy.NextMove(state)
			if !ok {
				log.Printf("No untried moves available from this state")
				break
			}

			newState, err := client.Move(move)
			if err != nil {
				if *verbose {
					log.Printf("Move %s %s %d failed: %v", move.Piece, move.Direction, move.Distance, err)
				}
				if newState != nil {
					state = newState
				}
				continue
			}
			state = newState
			moveCount++

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: %d moves, %d distinct states", attemptNum, moveCount, strategy.StatesSeen())

		if state.AtGoal {
			log.Printf("\nSOLVED! Goal reached in attempt %d after %d moves", attemptNum, moveCount)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\nFailed to solve after %d attempts", attemptNum)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}

// runWithSolver asks the server for a winning line and replays it move by
// move, verifying the goal flag at the end.
func runWithSolver(client *Client, state *BoardState, delayMs int) {
	log.Printf("Requesting solution from server...")
	solution, err := client.Solve(0)
	if err != nil {
		log.Fatalf("Solve request failed: %v", err)
	}

	if !solution.Solved {
		if solution.LimitReached {
			log.Fatalf("Server hit its node budget after expanding %d nodes", solution.Expanded)
		}
		log.Fatalf("No solution exists from the start position (%d nodes expanded)", solution.Expanded)
	}

	log.Printf("Server found a %d-move solution in %dms (%d nodes expanded, %d states visited)",
		len(solution.Moves), solution.DurationMS, solution.Expanded, solution.Visited)

	for i, move := range solution.Moves {
		state, err = client.Move(move)
		if err != nil {
			log.Fatalf("Replay failed at move %d (%s %s %d): %v", i+1, move.Piece, move.Direction, move.Distance, err)
		}
		log.Printf("Move %d/%d: %s %s %d", i+1, len(solution.Moves), move.Piece, move.Direction, move.Distance)

		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}

	if !state.AtGoal {
		log.Fatalf("Replayed the full plan but the goal flag is not set")
	}

	log.Printf("\nSOLVED! Replayed %d moves, goal piece on target", len(solution.Moves))
	os.Exit(0)
}
