// Command ppz starts the sliding-block puzzle server.
//
// It exposes four subcommands:
//   - "serve" (default) runs the HTTP server with the REST API, the
//     WebSocket feed, and an /mcp HTTP endpoint
//   - "mcp" runs an MCP stdio server, spinning up an internal HTTP API
//     if no external one is reachable
//   - "solve" runs the solver against a configuration and prints the
//     winning move sequence
//   - "configs" lists the available puzzle configurations
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/vxm/ppz/api"
	"github.com/vxm/ppz/puzzle/config"
	"github.com/vxm/ppz/puzzle/engine"
	"github.com/vxm/ppz/puzzle/service"
	"github.com/vxm/ppz/puzzle/session"
	"github.com/vxm/ppz/puzzle/solver"
	"github.com/vxm/ppz/transport/mcp"
	"github.com/vxm/ppz/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Sliding Block Puzzle Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "ppz",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Value:   8080,
						Usage:   "HTTP server port",
						Sources: cli.EnvVars("PORT"),
					},
					&cli.StringFlag{
						Name:  "host",
						Value: "localhost",
						Usage: "HTTP server host",
					},
				},
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "Run an MCP stdio server (starts an internal HTTP API if none is reachable)",
				Action:  runStdioMCP,
			},
			{
				Name:  "solve",
				Usage: "Solve a configuration and print the winning move sequence",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Configuration ID to solve (defaults to the default config)",
					},
					&cli.FloatFlag{
						Name:  "depth-weight",
						Usage: "Penalty added per move of depth (0 uses the solver default)",
					},
					&cli.IntFlag{
						Name:  "max-nodes",
						Usage: "Node expansion budget (0 means unlimited)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Abort the search after this duration (0 means no timeout)",
					},
				},
				Action: runSolve,
			},
			{
				Name:   "configs",
				Usage:  "List the available puzzle configurations",
				Action: runListConfigs,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// runServe wires the services and starts the HTTP server.
func runServe(ctx context.Context, cmd *cli.Command) error {
	puzzleService, sessionManager, persistence, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Start session cleanup routine
	go sessionCleanupRoutine(sessionManager)

	// Start filesystem sync routine
	go filesystemSyncRoutine(sessionManager, persistence)

	runHTTPServer(puzzleService, cmd.String("host"), int(cmd.Int("port")))
	return nil
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint, then blocks until a shutdown signal arrives.
func runHTTPServer(puzzleService service.PuzzleService, host string, port int) {
	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Create API server
	apiServer := api.NewServer(puzzleService, hub)

	addr := fmt.Sprintf("%s:%d", host, port)

	// Create MCP client for the /mcp endpoint
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	// Main router combines API and MCP
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// initializeServices wires session/config managers and the puzzle service.
func initializeServices(configDir string) (service.PuzzleService, *session.Manager, session.SessionPersistence, error) {
	// Config manager first (needed for persistence)
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	// Session persistence
	sessionsDir := "sessions"
	persistence, err := session.NewFilePersistence(sessionsDir, configManager)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	// Session manager with persistence
	sessionManager := session.NewManagerWithPersistence(persistence)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	puzzleService := service.NewPuzzleService(sessionManager, configManager)
	return puzzleService, sessionManager, persistence, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with
// filesystem state, dropping sessions whose record files were deleted.
func filesystemSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if persistence == nil {
			continue
		}

		pruned := 0
		for _, sess := range manager.List() {
			if !persistence.Exists(sess.ID) {
				if err := manager.DeleteFromMemory(sess.ID); err == nil {
					pruned++
					log.Printf("Pruned session %s from memory (file deleted)", sess.ID)
				}
			}
		}

		if pruned > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runStdioMCP runs an MCP stdio server. It tries to reuse an external API
// at http://localhost:8080; if unavailable, it starts a minimal internal
// HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	puzzleService, sessionManager, persistence, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	go sessionCleanupRoutine(sessionManager)
	go filesystemSyncRoutine(sessionManager, persistence)

	var baseURL string

	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		apiServer := api.NewServer(puzzleService, hub)
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Give the server a moment to come up
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := mcpserver.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runSolve loads a configuration, runs the solver, and prints the result.
func runSolve(ctx context.Context, cmd *cli.Command) error {
	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	var cfg *engine.PuzzleConfig
	if name := cmd.String("config"); name != "" {
		cfg, err = configManager.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("failed to load config %q: %w", name, err)
		}
	} else {
		cfg = configManager.GetDefault()
		if cfg == nil {
			return fmt.Errorf("no default configuration available")
		}
	}

	board, err := engine.NewBoard(cfg)
	if err != nil {
		return fmt.Errorf("failed to build board: %w", err)
	}

	opts := solver.DefaultOptions()
	if dw := cmd.Float("depth-weight"); dw > 0 {
		opts.DepthWeight = dw
	}
	if mn := int(cmd.Int("max-nodes")); mn > 0 {
		opts.MaxNodes = mn
	}

	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Printf("Solving %q (%s)\n\n%s\n", cfg.Name, cfg.Description, board)

	result, err := solver.New(opts).Solve(ctx, board)
	if err != nil {
		return fmt.Errorf("solver aborted: %w", err)
	}

	fmt.Printf("\nExpanded %d nodes, visited %d states in %s\n",
		result.Expanded, result.Visited, result.Duration.Round(time.Millisecond))

	switch {
	case result.Solved:
		fmt.Printf("Solved in %d moves:\n", len(result.Moves))
		for i, move := range result.Moves {
			fmt.Printf("%3d. %s\n", i+1, move)
		}
	case result.LimitReached:
		fmt.Println("Node budget exhausted before a solution was found. Raise --max-nodes.")
	default:
		fmt.Println("No solution exists from the starting position.")
	}

	return nil
}

// runListConfigs prints the available configurations.
func runListConfigs(ctx context.Context, cmd *cli.Command) error {
	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	configs, err := configManager.ListConfigs()
	if err != nil {
		return fmt.Errorf("failed to list configs: %w", err)
	}

	fmt.Printf("Available configurations (%d):\n\n", len(configs))
	for _, info := range configs {
		fmt.Printf("  %-16s %dx%d, %d pieces\n", info.ConfigID, info.Width, info.Height, info.PieceCount)
		if info.Description != "" {
			fmt.Printf("  %-16s %s\n", "", info.Description)
		}
	}

	return nil
}
