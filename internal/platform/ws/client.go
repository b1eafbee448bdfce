package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/match3-arcade/internal/engine"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// client is one connection playing one session.
type client struct {
	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	stopped chan struct{} // Closed when writePump exits
	logger  *log.Logger
	variant string
	cfg     engine.Config
	sync    bool

	mu      sync.Mutex // Guards everything below
	session *engine.Session
	seed    int64
	started time.Time
	pending []Event
	saved   bool
}

// OnEvent collects events of the command being processed. It runs with
// c.mu held.
func (c *client) OnEvent(e engine.Event) {
	if ev := encodeEvent(e); ev.Type != "" {
		c.pending = append(c.pending, ev)
	}
}

// start creates a new session. Caller holds c.mu.
func (c *client) start(seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []engine.Option{
		engine.WithSeed(seed),
		engine.WithListener(c),
		engine.WithLogger(c.logger),
	}
	if !c.sync {
		opts = append(opts, engine.WithAnimation())
	}
	session, err := engine.NewSession(c.cfg, opts...)
	if err != nil {
		return fmt.Errorf("ws: start session: %w", err)
	}
	c.session = session
	c.seed = seed
	c.started = time.Now()
	c.pending = nil
	c.saved = false
	c.logger.Debug("session started", "seed", seed, "variant", c.variant, "sync", c.sync)
	return nil
}

// snapshot builds the wire snapshot. Caller holds c.mu.
func (c *client) snapshot() *Snapshot {
	return encodeSnapshot(c.variant, c.seed, c.session.Snapshot())
}

// handle applies one request and builds its reply.
func (c *client) handle(raw []byte) Reply {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Reply{Type: ReplyError, Error: fmt.Sprintf("ws: bad request: %v", err)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	switch req.Type {
	case RequestSelect:
		if req.At == nil {
			return Reply{Type: ReplyError, Error: "ws: select needs at"}
		}
		err = c.session.Select(req.At.engine())

	case RequestSwap:
		if req.A == nil || req.B == nil {
			return Reply{Type: ReplyError, Error: "ws: swap needs a and b"}
		}
		err = c.session.RequestSwap(req.A.engine(), req.B.engine())

	case RequestDone:
		for _, id := range req.Tiles {
			c.session.MoveDone(id)
		}

	case RequestHint:
		swap, ok := c.session.Hint()
		if !ok {
			return Reply{Type: ReplyError, Error: "ws: no hint available"}
		}
		return Reply{Type: ReplyHint, Swap: ptr(wireSwap(swap))}

	case RequestSnapshot:

	case RequestRestart:
		c.recordAbandoned()
		err = c.start(req.Seed)

	default:
		return Reply{Type: ReplyError, Error: fmt.Sprintf("ws: unknown request %q", req.Type)}
	}

	reply := c.flush()
	if err != nil {
		reply.Type = ReplyError
		reply.Error = err.Error()
		if !errors.Is(err, engine.ErrInvalidSwap) && !errors.Is(err, engine.ErrBusy) {
			c.logger.Debug("request failed", "type", req.Type, "err", err)
		}
	}
	return reply
}

// tick drives the hint timer and returns an update when it produced events.
func (c *client) tick(now time.Time) (Reply, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Tick(now)
	if len(c.pending) == 0 {
		return Reply{}, false
	}
	return c.flush(), true
}

// flush takes the collected events and stores a finished game. Caller holds
// c.mu.
func (c *client) flush() Reply {
	reply := Reply{Type: ReplyUpdate, Events: c.pending, Snapshot: c.snapshot()}
	c.pending = nil
	if c.session.State().Terminal() && !c.saved {
		c.saveResult()
	}
	return reply
}

func (c *client) result() storage.GameResult {
	stats := c.session.Stats()
	outcome := storage.OutcomeAbandoned
	switch {
	case c.session.Won():
		outcome = storage.OutcomeWon
	case c.session.Lost():
		outcome = storage.OutcomeLost
	}
	return storage.GameResult{
		Variant:        c.variant,
		Seed:           c.seed,
		Outcome:        outcome,
		Score:          c.session.Score(),
		TurnsUsed:      stats.Swaps,
		TilesDestroyed: stats.TilesDestroyed,
		Cascades:       stats.Cascades,
		Shuffles:       stats.Shuffles,
		Duration:       time.Since(c.started),
	}
}

// saveResult stores the finished game. Caller holds c.mu.
func (c *client) saveResult() {
	c.saved = true
	store := c.server.store
	if store == nil {
		return
	}
	res := c.result()
	if res.Score > 0 {
		if _, err := store.SaveScore(c.variant, res.Score); err != nil {
			c.logger.Warn("could not save score", "err", err)
		}
	}
	if _, err := store.SaveGameResult(res); err != nil {
		c.logger.Warn("could not save result", "err", err)
	}
	c.logger.Info("game finished", "outcome", res.Outcome, "score", res.Score, "turns", res.TurnsUsed)
}

// recordAbandoned stores a game left before it was decided. Caller holds
// c.mu.
func (c *client) recordAbandoned() {
	if c.saved || c.session == nil || c.session.Stats().Swaps == 0 {
		return
	}
	c.saved = true
	if c.server.store == nil {
		return
	}
	if _, err := c.server.store.SaveGameResult(c.result()); err != nil {
		c.logger.Warn("could not save result", "err", err)
	}
}

// queue hands a reply to the writer. It gives up once the connection is
// closing or the writer has exited.
func (c *client) queue(reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		c.logger.Error("could not encode reply", "err", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	case <-c.stopped:
	}
}

// readPump processes requests until the connection fails.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "err", err)
			}
			return
		}
		c.queue(c.handle(msg))
	}
}

// writePump sends replies and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.stopped)
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// hintLoop runs the hint timer of the session.
func (c *client) hintLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if reply, ok := c.tick(now); ok {
				c.queue(reply)
			}
		case <-c.done:
			return
		case <-c.stopped:
			return
		}
	}
}
