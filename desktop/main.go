// Command desktop is an Ebiten viewer and controller for the sliding block
// puzzle server. It renders the board of one session, accepts keyboard
// input to slide pieces, and follows live state over the server's
// WebSocket feed. Pressing space asks the server to solve the puzzle and
// replays the winning line move by move.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellSize       = 56
	headerHeight   = 72
	footerHeight   = 40
	replayInterval = 350 * time.Millisecond
)

// pieceColors is indexed by piece letter minus 'a'. The palette repeats
// for boards with more pieces than colors.
var pieceColors = []color.RGBA{
	{231, 76, 60, 255},   // red
	{46, 204, 113, 255},  // green
	{52, 152, 219, 255},  // blue
	{241, 196, 15, 255},  // yellow
	{155, 89, 182, 255},  // purple
	{230, 126, 34, 255},  // orange
	{26, 188, 156, 255},  // teal
	{236, 112, 99, 255},  // salmon
	{93, 173, 226, 255},  // light blue
	{88, 214, 141, 255},  // light green
	{244, 208, 63, 255},  // light yellow
	{175, 122, 197, 255}, // light purple
	{235, 152, 78, 255},  // light orange
	{118, 215, 196, 255}, // light teal
}

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

type MoveResponse struct {
	Success bool        `json:"success"`
	State   *BoardState `json:"state"`
	Message string      `json:"message"`
}

type SolutionPayload struct {
	Moves    []Move `json:"moves"`
	Expanded int    `json:"expanded"`
	Visited  int    `json:"visited"`
}

// WSMessage mirrors the hub's broadcast envelope.
type WSMessage struct {
	SessionID string          `json:"session_id"`
	State     *BoardState     `json:"state"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
}

type Game struct {
	baseURL    string
	sessionID  string
	configName string

	stateMutex sync.Mutex
	state      *BoardState
	lastUpdate time.Time
	statusMsg  string

	wsConn *websocket.Conn

	// Ordered piece labels for Tab cycling.
	pieceOrder []string
	selected   int

	// Solver replay queue; moves are sent one by one on a timer.
	replayQueue []Move
	lastReplay  time.Time
	solving     bool
}

func NewGame(baseURL, sessionID, configName string) *Game {
	return &Game{
		baseURL:    baseURL,
		sessionID:  sessionID,
		configName: configName,
		statusMsg:  "Tab: select piece | Arrows: slide | R: reset | Space: solve",
	}
}

// createSession asks the server for a new session, optionally with a
// named configuration.
func (g *Game) createSession() error {
	var reqBody []byte
	var err error
	if g.configName != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": g.configName})
		if err != nil {
			return err
		}
	}

	resp, err := http.Post(g.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return err
	}

	g.sessionID = session.ID
	g.setState(session.State)
	return nil
}

func (g *Game) connectWebSocket() error {
	serverURL, err := url.Parse(g.baseURL)
	if err != nil {
		return err
	}

	wsURL := url.URL{Scheme: "ws", Host: serverURL.Host, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", g.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	g.wsConn = conn
	log.Printf("WebSocket connected for session %s", g.sessionID)
	return nil
}

// listenWebSocket follows hub broadcasts. The hub may join queued
// messages with newlines, so each frame is split before decoding.
func (g *Game) listenWebSocket() {
	defer func() {
		if g.wsConn != nil {
			g.wsConn.Close()
		}
	}()

	for {
		_, message, err := g.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			return
		}

		for _, part := range bytes.Split(message, []byte{'\n'}) {
			if len(part) == 0 {
				continue
			}

			var wsMsg WSMessage
			if err := json.Unmarshal(part, &wsMsg); err != nil {
				log.Printf("WebSocket JSON parse error: %v", err)
				continue
			}

			if wsMsg.State != nil {
				g.setState(wsMsg.State)
			}

			if wsMsg.Event == "solution" && len(wsMsg.Data) > 0 {
				var payload SolutionPayload
				if err := json.Unmarshal(wsMsg.Data, &payload); err != nil {
					log.Printf("Solution payload parse error: %v", err)
					continue
				}
				g.startReplay(payload)
			}
		}
	}
}

// fetchState polls the REST endpoint, used until the WebSocket is up.
func (g *Game) fetchState() error {
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/state", g.baseURL, g.sessionID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state BoardState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse state: %v", err)
	}

	g.setState(&state)
	return nil
}

func (g *Game) setState(state *BoardState) {
	if state == nil {
		return
	}

	g.stateMutex.Lock()
	defer g.stateMutex.Unlock()

	g.state = state
	g.lastUpdate = time.Now()

	labels := make([]string, 0, len(state.Pieces))
	for label := range state.Pieces {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	g.pieceOrder = labels
	if g.selected >= len(labels) {
		g.selected = 0
	}
}

func (g *Game) sendMove(m Move) {
	body, err := json.Marshal(m)
	if err != nil {
		return
	}

	resp, err := http.Post(
		fmt.Sprintf("%s/api/sessions/%s/move", g.baseURL, g.sessionID),
		"application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Move request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	var moveResp MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&moveResp); err != nil {
		return
	}

	g.stateMutex.Lock()
	if moveResp.Success {
		g.statusMsg = fmt.Sprintf("Moved %s %s %d", m.Piece, m.Direction, m.Distance)
	} else {
		g.statusMsg = moveResp.Message
	}
	g.stateMutex.Unlock()

	if moveResp.State != nil {
		g.setState(moveResp.State)
	}
}

func (g *Game) sendReset() {
	resp, err := http.Post(
		fmt.Sprintf("%s/api/sessions/%s/reset", g.baseURL, g.sessionID),
		"application/json", nil)
	if err != nil {
		log.Printf("Reset request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	var resetResp struct {
		Message string      `json:"message"`
		State   *BoardState `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return
	}

	g.stateMutex.Lock()
	g.replayQueue = nil
	g.solving = false
	g.statusMsg = "Board reset"
	g.stateMutex.Unlock()

	g.setState(resetResp.State)
}

// requestSolve runs in its own goroutine; the solution arrives over the
// WebSocket as a broadcast and feeds the replay queue.
func (g *Game) requestSolve() {
	g.stateMutex.Lock()
	if g.solving {
		g.stateMutex.Unlock()
		return
	}
	g.solving = true
	g.statusMsg = "Solving..."
	g.stateMutex.Unlock()

	go func() {
		resp, err := http.Post(
			fmt.Sprintf("%s/api/sessions/%s/solve", g.baseURL, g.sessionID),
			"application/json", bytes.NewBufferString("{}"))
		if err != nil {
			log.Printf("Solve request failed: %v", err)
			g.stateMutex.Lock()
			g.solving = false
			g.statusMsg = "Solve request failed"
			g.stateMutex.Unlock()
			return
		}
		defer resp.Body.Close()

		var result struct {
			Solved       bool   `json:"solved"`
			LimitReached bool   `json:"limit_reached"`
			Moves        []Move `json:"moves"`
			Expanded     int    `json:"expanded"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			g.stateMutex.Lock()
			g.solving = false
			g.statusMsg = "Solve response unreadable"
			g.stateMutex.Unlock()
			return
		}

		g.stateMutex.Lock()
		defer g.stateMutex.Unlock()
		g.solving = false

		switch {
		case result.Solved:
			// The WebSocket broadcast usually beats this response; only
			// start a replay if one is not already running.
			if len(g.replayQueue) == 0 {
				g.replayQueue = result.Moves
				g.lastReplay = time.Now()
			}
			g.statusMsg = fmt.Sprintf("Solution found: %d moves, replaying...", len(result.Moves))
		case result.LimitReached:
			g.statusMsg = fmt.Sprintf("Node budget exhausted after %d nodes", result.Expanded)
		default:
			g.statusMsg = "No solution exists from this position"
		}
	}()
}

func (g *Game) startReplay(payload SolutionPayload) {
	g.stateMutex.Lock()
	defer g.stateMutex.Unlock()

	if len(g.replayQueue) > 0 {
		return
	}
	g.replayQueue = payload.Moves
	g.lastReplay = time.Now()
	g.statusMsg = fmt.Sprintf("Solution found: %d moves, replaying...", len(payload.Moves))
}

func (g *Game) Update() error {
	// Poll until the WebSocket is connected.
	if g.wsConn == nil {
		if g.state == nil || time.Since(g.lastUpdate) > 500*time.Millisecond {
			if err := g.fetchState(); err != nil {
				log.Printf("Error fetching state: %v", err)
			}
		}
	}

	// Drain the replay queue on a timer.
	g.stateMutex.Lock()
	var replayMove *Move
	if len(g.replayQueue) > 0 && time.Since(g.lastReplay) >= replayInterval {
		m := g.replayQueue[0]
		g.replayQueue = g.replayQueue[1:]
		g.lastReplay = time.Now()
		replayMove = &m
	}
	replaying := len(g.replayQueue) > 0 || replayMove != nil
	g.stateMutex.Unlock()

	if replayMove != nil {
		go g.sendMove(*replayMove)
	}
	if replaying {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.stateMutex.Lock()
		if len(g.pieceOrder) > 0 {
			g.selected = (g.selected + 1) % len(g.pieceOrder)
			g.statusMsg = fmt.Sprintf("Selected piece %s", g.pieceOrder[g.selected])
		}
		g.stateMutex.Unlock()
	}

	if dir := pressedDirection(); dir != "" {
		g.stateMutex.Lock()
		var piece string
		if len(g.pieceOrder) > 0 {
			piece = g.pieceOrder[g.selected]
		}
		g.stateMutex.Unlock()

		if piece != "" {
			go g.sendMove(Move{Piece: piece, Direction: dir, Distance: 1})
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		go g.sendReset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.requestSolve()
	}

	return nil
}

func pressedDirection() string {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return "up"
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return "down"
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		return "left"
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		return "right"
	}
	return ""
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	g.stateMutex.Lock()
	state := g.state
	statusMsg := g.statusMsg
	var selectedPiece string
	if len(g.pieceOrder) > 0 {
		selectedPiece = g.pieceOrder[g.selected]
	}
	g.stateMutex.Unlock()

	if state == nil {
		ebitenutil.DebugPrintAt(screen, "Connecting to server...", 20, 20)
		return
	}

	header := fmt.Sprintf("Session: %s | Goal: %s to (%d,%d) | Moves: %d",
		g.sessionID, state.GoalPiece, state.Target.X, state.Target.Y, state.MoveCount)
	ebitenutil.DebugPrintAt(screen, header, 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Selected: %s", selectedPiece), 10, 28)
	if state.AtGoal {
		ebitenutil.DebugPrintAt(screen, "*** SOLVED! Goal piece is on the target ***", 10, 46)
	}

	offsetY := headerHeight
	for y, row := range state.Grid {
		for x, cell := range row {
			drawX := float64(x * cellSize)
			drawY := float64(offsetY + y*cellSize)

			ebitenutil.DrawRect(screen, drawX, drawY, cellSize, cellSize, getCellColor(cell))

			// Cell border
			border := color.RGBA{40, 40, 50, 255}
			ebitenutil.DrawRect(screen, drawX, drawY, cellSize, 1, border)
			ebitenutil.DrawRect(screen, drawX, drawY, 1, cellSize, border)

			if cell != 'O' && cell != '0' && string(cell) == selectedPiece {
				highlight := color.RGBA{255, 255, 255, 70}
				ebitenutil.DrawRect(screen, drawX, drawY, cellSize, cellSize, highlight)
			}
		}
	}

	// Target marker
	tx := float64(state.Target.X * cellSize)
	ty := float64(offsetY + state.Target.Y*cellSize)
	marker := color.RGBA{255, 255, 255, 255}
	ebitenutil.DrawRect(screen, tx, ty, cellSize, 3, marker)
	ebitenutil.DrawRect(screen, tx, ty+cellSize-3, cellSize, 3, marker)
	ebitenutil.DrawRect(screen, tx, ty, 3, cellSize, marker)
	ebitenutil.DrawRect(screen, tx+cellSize-3, ty, 3, cellSize, marker)

	footerY := offsetY + len(state.Grid)*cellSize + 10
	ebitenutil.DebugPrintAt(screen, statusMsg, 10, footerY)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.stateMutex.Lock()
	defer g.stateMutex.Unlock()

	width := 480
	height := 480
	if g.state != nil && len(g.state.Grid) > 0 {
		width = len(g.state.Grid[0]) * cellSize
		height = headerHeight + len(g.state.Grid)*cellSize + footerHeight
	}
	if width < 480 {
		width = 480
	}
	return width, height
}

func getCellColor(cell rune) color.Color {
	switch {
	case cell == 'O':
		return color.RGBA{70, 70, 80, 255}
	case cell == '0':
		return color.RGBA{30, 30, 40, 255}
	case cell >= 'a' && cell <= 'z':
		return pieceColors[int(cell-'a')%len(pieceColors)]
	}
	return color.RGBA{30, 30, 40, 255}
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Puzzle server URL")
	sessionID := flag.String("session", "", "Attach to an existing session instead of creating one")
	configID := flag.String("config", "", "Puzzle configuration ID for new sessions")
	flag.Parse()

	game := NewGame(*serverURL, *sessionID, *configID)

	if game.sessionID == "" {
		if err := game.createSession(); err != nil {
			log.Printf("Failed to create session: %v", err)
			os.Exit(1)
		}
		log.Printf("Session created: %s", game.sessionID)
	} else if err := game.fetchState(); err != nil {
		log.Printf("Failed to attach to session %s: %v", game.sessionID, err)
		os.Exit(1)
	}

	if err := game.connectWebSocket(); err != nil {
		log.Printf("WebSocket unavailable, falling back to polling: %v", err)
	} else {
		go game.listenWebSocket()
	}

	ebiten.SetWindowSize(640, 640)
	ebiten.SetWindowTitle("Sliding Block Puzzle")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
