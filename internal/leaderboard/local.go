package leaderboard

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/storage"
)

// LocalClient keeps the leaderboard in a SQLite store and notifies
// in-process subscribers after each submission.
type LocalClient struct {
	store  *storage.Store
	feed   *feed
	logger *log.Logger
}

// NewLocalClient returns a leaderboard backed by store.
func NewLocalClient(store *storage.Store, logger *log.Logger) *LocalClient {
	if logger == nil {
		logger = log.Default()
	}
	return &LocalClient{store: store, feed: newFeed(), logger: logger}
}

func (c *LocalClient) Submit(ctx context.Context, name string, score, levels int) (Entry, error) {
	name, err := validate(name, score, levels)
	if err != nil {
		return Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	saved, err := c.store.SaveScore(name, score, levels)
	if err != nil {
		return Entry{}, err
	}
	c.logger.Debug("score submitted", "name", name, "score", score, "levels", levels)

	if n := c.feed.maxLimit(); n > 0 {
		top, err := c.Top(ctx, n)
		if err != nil {
			c.logger.Warn("cannot refresh leaderboard subscribers", "err", err)
		} else {
			c.feed.publish(top)
		}
	}
	return fromScore(saved), nil
}

func (c *LocalClient) Top(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := c.store.TopScores(clampLimit(limit))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, fromScore(r))
	}
	return entries, nil
}

func (c *LocalClient) Subscribe(ctx context.Context, limit int, fn func([]Entry)) (func(), error) {
	initial, err := c.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	return c.feed.attach(ctx, limit, initial, fn), nil
}

// Subscribers reports how many subscriptions are open.
func (c *LocalClient) Subscribers() int {
	return c.feed.count()
}

func fromScore(s storage.ScoreEntry) Entry {
	return Entry{
		ID:              strconv.FormatInt(s.ID, 10),
		Name:            s.PlayerName,
		Score:           s.Score,
		LevelsCompleted: s.LevelsCompleted,
		Timestamp:       s.CreatedAt,
	}
}
