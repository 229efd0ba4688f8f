package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mouthfix/internal/assets"
	"github.com/vovakirdan/mouthfix/internal/leaderboard"
	"github.com/vovakirdan/mouthfix/internal/platform/tui"
)

var (
	flagAddr        string
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the leaderboard server",
	Long: `Start an HTTP server that stores scores in the local database and
pushes live updates to subscribers.

Endpoints:
  GET  /healthz
  GET  /api/scores?limit=N
  POST /api/scores            {"name": "...", "score": N, "levelsCompleted": N}
  GET  /api/scores/ws?limit=N (websocket, live updates)

Examples:
  mouthfix serve
  mouthfix serve --addr :9000

Players then use:
  mouthfix play --leaderboard http://localhost:8420`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the game over SSH",
	Long: `Start an SSH server that runs the game for every connection.

Each public key gets its own profile in the server database. Scores go to
the configured leaderboard (the server's local one by default).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key in the data directory

Examples:
  mouthfix ssh                          # Listen on :23235
  mouthfix ssh --ssh :2222 --host-key ./host_key

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8420", "HTTP listen address (host:port)")

	sshCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	// The server is the source of truth; it never proxies to another one.
	server := leaderboard.NewServer(leaderboard.NewLocalClient(rt.db, rt.logger), rt.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Leaderboard server on %s\n", flagAddr)
	fmt.Println("Press Ctrl+C to stop")
	if err := server.ListenAndServe(ctx, flagAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func runSSH(_ *cobra.Command, _ []string) {
	rt := mustSetup()
	defer rt.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	server, err := tui.NewSSHServer(cfg, tui.SSHDeps{
		Config:      rt.cfg,
		DB:          rt.db,
		Pack:        rt.pack,
		Fetcher:     assets.NewSourceFetcher(rt.pack.FS),
		Leaderboard: rt.board,
		Logger:      newLogger(os.Stderr, "mouthfix-ssh"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting mouthfix SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
