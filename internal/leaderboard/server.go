package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	serverTimeout = 10 * time.Second
	writeWait     = 10 * time.Second
	maxBodyBytes  = 4 << 10

	// MaxNameLength bounds submitted player names in runes.
	MaxNameLength = 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes a Client over HTTP and pushes ranking changes to
// websocket subscribers.
type Server struct {
	client Client
	logger *log.Logger
	router *httprouter.Router
}

// NewServer returns a server backed by client.
func NewServer(client Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{client: client, logger: logger, router: httprouter.New()}

	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.Error("panic serving request", "path", r.URL.Path, "panic", v)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	s.router.GET("/healthz", s.serveHealth)
	s.router.GET("/api/scores", s.serveTop)
	s.router.POST("/api/scores", s.serveSubmit)
	s.router.GET("/api/scores/ws", s.serveSubscribe)
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       serverTimeout,
		ReadHeaderTimeout: serverTimeout,
		WriteTimeout:      serverTimeout,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("leaderboard listening", "addr", ln.Addr().String())

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("leaderboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ok\n"))
}

func (s *Server) serveTop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	entries, err := s.client.Top(r.Context(), limit)
	if err != nil {
		s.logger.Error("cannot list scores", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot list scores")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) serveSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var sub submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if utf8.RuneCountInString(sub.Name) > MaxNameLength {
		writeError(w, http.StatusBadRequest, "name is too long")
		return
	}

	e, err := s.client.Submit(r.Context(), sub.Name, sub.Score, sub.LevelsCompleted)
	switch {
	case errors.Is(err, ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("cannot save score", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot save score")
		return
	}
	s.logger.Info("score saved", "id", e.ID, "name", e.Name, "score", e.Score, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusCreated, e)
}

// wsClient is one websocket subscriber.
type wsClient struct {
	conn *websocket.Conn
	send chan []Entry
	done chan struct{}
}

func (s *Server) serveSubscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	c := &wsClient{
		send: make(chan []Entry, 8),
		done: make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The feed must be attached before the handshake completes.
	unsubscribe, err := s.client.Subscribe(ctx, limit, c.push)
	if err != nil {
		s.logger.Error("cannot subscribe", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot subscribe")
		return
	}
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c.conn = conn

	go c.writePump()
	c.readPump()
}

// push queues entries for writing. When the client falls behind the oldest
// queued update is replaced.
func (c *wsClient) push(entries []Entry) {
	select {
	case <-c.done:
		return
	case c.send <- entries:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- entries:
	default:
	}
}

// readPump discards client messages and returns when the connection closes.
func (c *wsClient) readPump() {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	// Hijacked connections keep the server's request deadline.
	_ = c.conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for {
		select {
		case entries := <-c.send:
			if entries == nil {
				entries = []Entry{}
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(scoresMessage{Type: messageScores, Entries: entries}); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(n, MaxLimit), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
