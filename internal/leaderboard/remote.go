package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// ErrRemote wraps failures talking to a leaderboard server.
var ErrRemote = errors.New("leaderboard: remote error")

// submission is the body of POST /api/scores.
type submission struct {
	Name            string `json:"name"`
	Score           int    `json:"score"`
	LevelsCompleted int    `json:"levelsCompleted"`
}

// scoresMessage is pushed to websocket subscribers.
type scoresMessage struct {
	Type    string  `json:"type"`
	Entries []Entry `json:"entries"`
}

const messageScores = "scores"

// RemoteClient talks to a leaderboard Server over HTTP and websockets.
type RemoteClient struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer
	logger *log.Logger
}

// NewRemoteClient returns a client for the server at baseURL.
func NewRemoteClient(baseURL string, timeout time.Duration, logger *log.Logger) (*RemoteClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: bad url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("leaderboard: bad url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RemoteClient{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		dialer: &websocket.Dialer{HandshakeTimeout: timeout},
		logger: logger,
	}, nil
}

func (c *RemoteClient) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *RemoteClient) Submit(ctx context.Context, name string, score, levels int) (Entry, error) {
	name, err := validate(name, score, levels)
	if err != nil {
		return Entry{}, err
	}
	body, err := json.Marshal(submission{Name: name, Score: score, LevelsCompleted: levels})
	if err != nil {
		return Entry{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/scores", nil), bytes.NewReader(body))
	if err != nil {
		return Entry{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var e Entry
	if err := c.do(req, http.StatusCreated, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (c *RemoteClient) Top(ctx context.Context, limit int) ([]Entry, error) {
	q := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/scores", q), nil)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := c.do(req, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func (c *RemoteClient) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %s: %s", ErrRemote, req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRemote, err)
	}
	return nil
}

// Subscribe opens a websocket to the server. fn runs on the reader
// goroutine; the subscription ends when the connection drops.
func (c *RemoteClient) Subscribe(ctx context.Context, limit int, fn func([]Entry)) (func(), error) {
	u := *c.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = c.base.Path + "/api/scores/ws"
	u.RawQuery = url.Values{"limit": {strconv.Itoa(clampLimit(limit))}}.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %w", ErrRemote, err)
	}

	var (
		once   sync.Once
		closed = make(chan struct{})
	)
	unsubscribe := func() {
		once.Do(func() {
			close(closed)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-closed:
		}
	}()

	go func() {
		defer unsubscribe()
		for {
			var msg scoresMessage
			if err := conn.ReadJSON(&msg); err != nil {
				select {
				case <-closed:
				default:
					if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
						c.logger.Warn("leaderboard subscription dropped", "err", err)
					}
				}
				return
			}
			if msg.Type == messageScores {
				fn(msg.Entries)
			}
		}
	}()
	return unsubscribe, nil
}
