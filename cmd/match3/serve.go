package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/platform/tui"
	"github.com/vovakirdan/match3-arcade/internal/platform/ws"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
	flagNoSSH       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host games over SSH and websockets",
	Long: `Start an SSH server that lets users connect and play in their terminal,
and optionally a websocket server that streams engine events as JSON.

Each SSH connection gets its own session with a variant picker menu.
Each websocket connection plays one engine session; see /ws?seed=&variant=&sync=.
Scores are stored per server (all players share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  match3 serve                           # SSH on :23234
  match3 serve --ssh :2222               # SSH on port 2222
  match3 serve --ws :8080                # SSH plus websockets on :8080
  match3 serve --no-ssh --ws :8080       # Websockets only
  match3 serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket server address (host:port), empty disables it")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Do not start the SSH server")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagNoSSH && flagWSAddr == "" {
		return errors.New("nothing to serve: --no-ssh needs --ws")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsDone := make(chan error, 1)
	if flagWSAddr != "" {
		server, store, err := newWSServer()
		if err != nil {
			return err
		}
		defer func() {
			if store != nil {
				store.Close()
			}
		}()
		fmt.Printf("Starting websocket server on %s\n", server.Addr())
		go func() { wsDone <- server.ListenAndServe(ctx) }()
	} else {
		close(wsDone)
	}

	if !flagNoSSH {
		if err := serveSSH(); err != nil {
			stop()
			<-wsDone
			return err
		}
		stop()
	}

	if err := <-wsDone; err != nil {
		return fmt.Errorf("websocket server: %w", err)
	}
	return nil
}

// serveSSH blocks until the SSH server is interrupted.
func serveSSH() error {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Logger:      logger.WithPrefix("match3-ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("cannot create SSH server: %w", err)
	}

	fmt.Printf("Starting SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("SSH server: %w", err)
	}
	return nil
}

func newWSServer() (*ws.Server, *storage.Store, error) {
	cfg, err := engineConfig(match3.VariantClassic)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}

	server, err := ws.NewServer(ws.Config{
		Address:      flagWSAddr,
		Engine:       cfg.Engine(),
		HintInterval: 250 * time.Millisecond,
		Logger:       logger.WithPrefix("match3-ws"),
	}, store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, fmt.Errorf("cannot create websocket server: %w", err)
	}
	return server, store, nil
}

// portOf returns the port of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
