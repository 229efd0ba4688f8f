package leaderboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// LocalIDPrefix marks entries that only exist in the fallback list.
const LocalIDPrefix = "local-"

// FallbackClient prefers a remote leaderboard and falls back to an
// in-memory list when the remote fails. Failures never surface as errors;
// Offline reports whether the last call had to fall back.
type FallbackClient struct {
	remote  Client
	logger  *log.Logger
	offline atomic.Bool
	now     func() time.Time

	mu      sync.Mutex
	entries []Entry
	feed    *feed
}

// NewFallbackClient wraps remote. A nil remote always uses the local list.
func NewFallbackClient(remote Client, logger *log.Logger) *FallbackClient {
	if logger == nil {
		logger = log.Default()
	}
	return &FallbackClient{remote: remote, logger: logger, feed: newFeed(), now: time.Now}
}

// Offline reports whether the most recent remote call failed.
func (c *FallbackClient) Offline() bool { return c.offline.Load() }

func (c *FallbackClient) Submit(ctx context.Context, name string, score, levels int) (Entry, error) {
	name, err := validate(name, score, levels)
	if err != nil {
		return Entry{}, err
	}
	if c.remote != nil {
		e, err := c.remote.Submit(ctx, name, score, levels)
		if err == nil {
			c.offline.Store(false)
			return e, nil
		}
		c.logger.Warn("leaderboard unavailable, keeping score locally", "err", err)
	}
	c.offline.Store(true)

	e := Entry{
		ID:              LocalIDPrefix + uuid.NewString(),
		Name:            name,
		Score:           score,
		LevelsCompleted: levels,
		Timestamp:       c.now().UTC(),
	}
	c.mu.Lock()
	c.entries = append(c.entries, e)
	sortEntries(c.entries)
	if len(c.entries) > MaxLimit {
		c.entries = c.entries[:MaxLimit]
	}
	top := c.localTop(MaxLimit)
	c.mu.Unlock()

	c.feed.publish(top)
	return e, nil
}

func (c *FallbackClient) Top(ctx context.Context, limit int) ([]Entry, error) {
	if c.remote != nil {
		entries, err := c.remote.Top(ctx, limit)
		if err == nil {
			c.offline.Store(false)
			return entries, nil
		}
		c.logger.Warn("leaderboard unavailable, showing local scores", "err", err)
	}
	c.offline.Store(true)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localTop(limit), nil
}

// Subscribe uses the remote feed when it can be opened, otherwise the
// local list.
func (c *FallbackClient) Subscribe(ctx context.Context, limit int, fn func([]Entry)) (func(), error) {
	if c.remote != nil {
		unsub, err := c.remote.Subscribe(ctx, limit, fn)
		if err == nil {
			c.offline.Store(false)
			return unsub, nil
		}
		c.logger.Warn("leaderboard feed unavailable, watching local scores", "err", err)
	}
	c.offline.Store(true)

	c.mu.Lock()
	initial := c.localTop(limit)
	c.mu.Unlock()
	return c.feed.attach(ctx, limit, initial, fn), nil
}

// localTop returns a copy of the best limit local entries. c.mu must be held.
func (c *FallbackClient) localTop(limit int) []Entry {
	limit = clampLimit(limit)
	n := min(limit, len(c.entries))
	out := make([]Entry, n)
	copy(out, c.entries[:n])
	return out
}
