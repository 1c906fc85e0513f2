package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vxm/ppz/puzzle/engine"
	"github.com/vxm/ppz/puzzle/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sliding Block Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sliding Block Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PUZZLE OBJECTIVE:
Slide pieces around the board until the goal piece's anchor (its top-left
cell) reaches the target position. Pieces slide along rows and columns and
may never overlap each other or the walls (O).

AVAILABLE TOOLS:
- board_state: Get current board state
- move_piece: Slide a piece (up/down/left/right) by a distance
- solve: Run the solver from the current position
- reset_board: Rebuild the board from its configuration
- move_history: View past moves
- create_session: Create new puzzle session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available configurations
- puzzle_instructions: Get comprehensive puzzle rules
- describe_piece: Get detailed info about a specific piece`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Board operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Slide a piece in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"piece": map[string]interface{}{
					"type":        "string",
					"description": "Label of the piece to slide (a single lowercase letter)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
				"distance": map[string]interface{}{
					"type":        "integer",
					"description": "Number of cells to slide (defaults to 1)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "piece", "direction"},
		},
	}, c.handleMovePiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve",
		Description: "Run the solver from the current position and return the winning move sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"depth_weight": map[string]interface{}{
					"type":        "number",
					"description": "Penalty added per move of depth; higher values favor shorter solutions (optional)",
				},
				"max_nodes": map[string]interface{}{
					"type":        "integer",
					"description": "Node expansion budget before the solver gives up (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Reset the board to its initial configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzle configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_instructions",
		Description: "Get comprehensive puzzle instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handlePuzzleInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_piece",
		Description: "Get detailed information about a specific piece: its cells, shape, and the directions it can currently slide in.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"piece": map[string]interface{}{
					"type":        "string",
					"description": "Label of the piece to describe",
				},
			},
			Required: []string{"session_id", "piece"},
		},
	}, c.handleDescribePiece)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatBoardState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.BoardState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatBoardState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMovePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	piece, _ := args["piece"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	distance := 1
	if d, ok := args["distance"].(float64); ok && d > 0 {
		distance = int(d)
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"piece":     piece,
		"direction": direction,
		"distance":  distance,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if dw, ok := args["depth_weight"].(float64); ok && dw > 0 {
		body["depth_weight"] = dw
	}
	if mn, ok := args["max_nodes"].(float64); ok && mn > 0 {
		body["max_nodes"] = int(mn)
	}

	var result service.SolveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatSolveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string              `json:"message"`
		State   *service.BoardState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatBoardState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d, Pieces: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Width, config.Height, config.PieceCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePuzzleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Sliding Block Puzzle - Complete Instructions

PUZZLE OBJECTIVE:
Slide pieces around the board until the goal piece's anchor (its top-left
cell) sits on the target position.

BOARD MECHANICS:
• Pieces are groups of identically-lettered cells and slide as rigid units
• A slide moves a piece one or more cells along a row or column
• A slide is legal only if every swept cell is empty for the whole run
• Pieces never overlap each other, walls, or leave the board
• Victory: the goal piece's anchor reaches the target position

GRID LEGEND:
• O - Wall (impassable, forms the border and interior obstacles)
• 0 - Empty cell (pieces slide through these)
• a-z - Piece cells; equal letters belong to the same piece
• The goal piece is named in the configuration (often 'a' or 'b')

COORDINATES:
• x is the column (0-based, left to right)
• y is the row (0-based, top to bottom)
• A piece's anchor is its topmost-leftmost cell

STRATEGY NOTES:
• Think of empty cells as the resource you shuffle around: a piece can
  only move into space another piece has vacated
• Same-shaped pieces are interchangeable; swapping two identical pieces
  never changes what is reachable
• Work backwards from the target: which pieces occupy the goal piece's
  path, and where can they go?
• When stuck, use the solve tool to get the full winning sequence and
  replay it with move_piece

MOVEMENT COMMANDS:
- move_piece with piece, direction (up/down/left/right), distance
- distance defaults to 1; multi-cell slides count as one move
- reset_board restarts from the initial layout

SOLVER:
- solve runs a best-first search from the current position
- depth_weight tunes how strongly shorter solutions are preferred
- max_nodes caps the search effort; limit_reached=true means the budget
  ran out before a solution was found

SESSION MANAGEMENT:
- Multiple puzzle sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent board state and configuration`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	piece, _ := args["piece"].(string)

	var state service.BoardState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cells, ok := state.Pieces[piece]
	if !ok {
		known := make([]string, 0, len(state.Pieces))
		for label := range state.Pieces {
			known = append(known, label)
		}
		sort.Strings(known)
		return mcp.NewToolResultError(fmt.Sprintf("no piece %q on the board. Known pieces: %s",
			piece, strings.Join(known, ", "))), nil
	}

	anchor := cells[0]
	for _, cell := range cells[1:] {
		if cell.Y < anchor.Y || (cell.Y == anchor.Y && cell.X < anchor.X) {
			anchor = cell
		}
	}

	var cellList []string
	for _, cell := range cells {
		cellList = append(cellList, fmt.Sprintf("(%d,%d)", cell.X, cell.Y))
	}

	result := fmt.Sprintf("Piece %q:\nCells: %s\nAnchor: (%d,%d)\nSize: %d cells\n",
		piece, strings.Join(cellList, " "), anchor.X, anchor.Y, len(cells))

	if piece == state.GoalPiece {
		result += fmt.Sprintf("This is the GOAL piece. It must reach target (%d,%d).\n",
			state.Target.X, state.Target.Y)
	}

	if runs, ok := state.PossibleMoves[piece]; ok && len(runs) > 0 {
		var moves []string
		for _, dir := range engine.Directions {
			if run, ok := runs[dir]; ok {
				moves = append(moves, fmt.Sprintf("%s (up to %d)", dir, run))
			}
		}
		result += "Legal slides: " + strings.Join(moves, ", ") + "\n"
	} else {
		result += "Legal slides: none (the piece is boxed in)\n"
	}

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.State))
}

func formatBoardState(state *service.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Goal piece: %s → target (%d,%d) | Moves: %d\n\n",
		state.GoalPiece, state.Target.X, state.Target.Y, state.MoveCount))

	for _, row := range state.Grid {
		result.WriteString(row)
		result.WriteString("\n")
	}

	if len(state.PossibleMoves) > 0 {
		labels := make([]string, 0, len(state.PossibleMoves))
		for label := range state.PossibleMoves {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		result.WriteString("\nPossible moves:\n")
		for _, label := range labels {
			var moves []string
			for _, dir := range engine.Directions {
				if run, ok := state.PossibleMoves[label][dir]; ok {
					moves = append(moves, fmt.Sprintf("%s:%d", dir, run))
				}
			}
			result.WriteString(fmt.Sprintf("  %s: %s\n", label, strings.Join(moves, " ")))
		}
	}

	if state.AtGoal {
		result.WriteString("\n🎉 SOLVED! The goal piece is on the target.")
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Move successful\n"
	} else {
		response = "✗ Move failed\n"
	}

	if result.Message != "" {
		response += fmt.Sprintf("Message: %s\n", result.Message)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatBoardState(result.State)
	return response
}

func formatSolveResult(result *service.SolveResult) string {
	var b strings.Builder

	if result.Solved {
		b.WriteString(fmt.Sprintf("✓ Solved in %d moves\n", len(result.Moves)))
	} else if result.LimitReached {
		b.WriteString("✗ Node budget exhausted before a solution was found\n")
	} else {
		b.WriteString("✗ No solution exists from this position\n")
	}

	b.WriteString(fmt.Sprintf("Expanded: %d nodes | Visited: %d states | Time: %dms\n",
		result.Expanded, result.Visited, result.DurationMS))

	if len(result.Moves) > 0 {
		b.WriteString("\nWinning sequence:\n")
		for i, move := range result.Moves {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, move))
		}
	}

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) — Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for i, move := range history.Moves {
		num := (history.Page-1)*history.PageSize + i + 1
		result += fmt.Sprintf("%d. %s\n", num, move)
	}

	return result
}
