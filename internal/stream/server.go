package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/attractor/internal/sim"
)

const (
	writeWait   = 5 * time.Second
	sendBacklog = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	needField bool
}

type clientCommand struct {
	from *client
	cmd  Command
}

// Hub owns a simulation, advances it at a fixed rate and fans encoded frames
// out to websocket clients. Only the Run goroutine touches the simulation.
type Hub struct {
	sim    *sim.Simulation
	fps    int
	logger *slog.Logger

	register   chan *client
	unregister chan *client
	commands   chan clientCommand
	clients    map[*client]struct{}
	done       chan struct{}
}

func NewHub(s *sim.Simulation, fps int, logger *slog.Logger) *Hub {
	if fps <= 0 {
		fps = 60
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sim:        s,
		fps:        fps,
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		commands:   make(chan clientCommand, 16),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run drives the simulation until ctx is cancelled. It must be called once.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer ticker.Stop()
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.register:
			c.needField = true
			h.clients[c] = struct{}{}
			h.logger.Info("client connected", "remote", c.conn.RemoteAddr().String(), "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("client disconnected", "clients", len(h.clients))
			}
		case cc := <-h.commands:
			h.apply(cc)
		case <-ticker.C:
			if err := h.broadcast(h.sim.AdvanceFrame()); err != nil {
				return err
			}
		}
	}
}

func (h *Hub) apply(cc clientCommand) {
	restarted, err := cc.cmd.Apply(h.sim)
	if err != nil {
		h.logger.Debug("command rejected", "cmd", cc.cmd.Cmd, "err", err)
		msg, _ := json.Marshal(ErrorMessage{Type: "error", Error: err.Error()})
		h.trySend(cc.from, msg)
		return
	}
	h.logger.Debug("command applied", "cmd", cc.cmd.Cmd)
	if restarted {
		for c := range h.clients {
			c.needField = true
		}
	}
}

func (h *Hub) broadcast(f *sim.Frame) error {
	if len(h.clients) == 0 {
		return nil
	}
	needFull, needLean := false, false
	for c := range h.clients {
		if c.needField {
			needFull = true
		} else {
			needLean = true
		}
	}
	full, lean, err := encodeFrame(f, needFull, needLean)
	if err != nil {
		return err
	}
	for c := range h.clients {
		msg := lean
		if c.needField {
			msg = full
		}
		if h.trySend(c, msg) {
			c.needField = false
		}
	}
	return nil
}

// trySend queues msg without blocking the frame loop. Slow clients miss
// frames.
func (h *Hub) trySend(c *client, msg []byte) bool {
	if c == nil {
		return false
	}
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBacklog)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read failed", "err", err)
			}
			return
		}
		select {
		case h.commands <- clientCommand{from: c, cmd: cmd}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ListenAndServe serves the hub at /ws on addr and runs it until ctx ends.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 2)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { errc <- h.Run(runCtx) }()
	go func() { errc <- srv.ListenAndServe() }()
	h.logger.Info("streaming", "addr", addr, "fps", h.fps)

	err := <-errc
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), writeWait)
	defer stop()
	srv.Shutdown(shutdownCtx)
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
