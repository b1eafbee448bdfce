// Package ws serves match-3 sessions over websockets. Each connection plays
// its own engine session and receives the engine events as JSON.
//
// Connect to /ws with the optional query parameters seed, variant
// (match3 or match3_endless) and sync. With sync=1 tile motion is resolved
// immediately; otherwise the client plays back every tile_moved event and
// acknowledges it with a done request before the engine continues.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/match3-arcade/internal/engine"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// Variant names accepted in the variant query parameter.
const (
	VariantClassic = "match3"
	VariantEndless = "match3_endless"
)

// Config holds configuration for the websocket server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Engine is the rule set of classic sessions. Endless sessions drop its
	// turn limit and win threshold.
	Engine engine.Config

	// HintInterval is how often the hint timer of a session is checked.
	HintInterval time.Duration

	// Logger receives connection events. Nil means a timestamped stderr logger.
	Logger *log.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		Engine:       engine.DefaultConfig(),
		HintInterval: 250 * time.Millisecond,
	}
}

// Server hosts websocket sessions.
type Server struct {
	config   Config
	store    *storage.Store
	logger   *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer creates a server. The store may be nil, in which case results
// are not recorded.
func NewServer(cfg Config, store *storage.Store) (*Server, error) {
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("ws: %w", err)
	}
	if cfg.HintInterval <= 0 {
		cfg.HintInterval = DefaultConfig().HintInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "match3-ws",
		})
	}

	s := &Server{
		config: cfg,
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// sessionParams reads the session options from the query string.
func (s *Server) sessionParams(r *http.Request) (variant string, cfg engine.Config, seed int64, syncMode bool, err error) {
	q := r.URL.Query()

	variant = q.Get("variant")
	cfg = s.config.Engine
	switch variant {
	case "", VariantClassic:
		variant = VariantClassic
	case VariantEndless:
		cfg.TurnsPerGame = 0
		cfg.ScoreToWin = 0
	default:
		return "", cfg, 0, false, fmt.Errorf("unknown variant %q", variant)
	}

	if v := q.Get("seed"); v != "" {
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", cfg, 0, false, fmt.Errorf("invalid seed %q", v)
		}
	}

	if v := q.Get("sync"); v != "" {
		syncMode, err = strconv.ParseBool(v)
		if err != nil {
			return "", cfg, 0, false, fmt.Errorf("invalid sync %q", v)
		}
	}
	return variant, cfg, seed, syncMode, nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	variant, cfg, seed, syncMode, err := s.sessionParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		server:  s,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  s.logger.With("remote", r.RemoteAddr),
		variant: variant,
		cfg:     cfg,
		sync:    syncMode,
	}

	c.mu.Lock()
	err = c.start(seed)
	var hello Reply
	if err == nil {
		hello = c.flush()
	}
	c.mu.Unlock()
	if err != nil {
		s.logger.Error("could not start session", "err", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session failed"))
		_ = conn.Close()
		return
	}

	s.track(c)
	start := time.Now()
	c.logger.Info("connection opened", "variant", variant, "sync", syncMode)

	go c.writePump()
	c.queue(hello)
	if cfg.HintAfter > 0 {
		go c.hintLoop(s.config.HintInterval)
	}
	c.readPump()

	c.mu.Lock()
	c.recordAbandoned()
	c.mu.Unlock()
	s.untrack(c)
	c.logger.Info("connection closed", "duration", time.Since(start).Round(time.Second))
}

func (s *Server) track(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

// untrack forgets c and stops its goroutines. It is safe to call twice.
func (s *Server) untrack(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.done)
}

// Connections returns the number of open sessions.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting websocket server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down...")
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
	return s.Shutdown()
}

// Shutdown stops accepting connections and closes the open ones.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		close(c.done)
		delete(s.clients, c)
	}
	s.mu.Unlock()
	return err
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
