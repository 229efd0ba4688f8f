// Package leaderboard submits scores to and reads rankings from a shared
// leaderboard: a local SQLite board, a remote HTTP service, or a remote
// service with a local fallback.
package leaderboard

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/vovakirdan/mouthfix/internal/progress"
)

// DefaultLimit is the number of entries shown when no limit is given.
const DefaultLimit = 10

// MaxLimit caps any query.
const MaxLimit = 100

// ErrInvalidEntry is returned for submissions with an empty name or
// negative numbers.
var ErrInvalidEntry = errors.New("leaderboard: invalid entry")

// Entry is one leaderboard row.
type Entry struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Score           int       `json:"score"`
	LevelsCompleted int       `json:"levelsCompleted"`
	Timestamp       time.Time `json:"timestamp"`
}

// Client is a leaderboard. Top returns entries by descending score, older
// entries first among equal scores. Subscribe calls fn with the current top
// entries and again after every change until the returned function is
// called or ctx ends.
type Client interface {
	Submit(ctx context.Context, name string, score, levelsCompleted int) (Entry, error)
	Top(ctx context.Context, limit int) ([]Entry, error)
	Subscribe(ctx context.Context, limit int, fn func([]Entry)) (unsubscribe func(), error)
}

// SubmitProgress posts the player's total score and completed level count.
// It does nothing and returns false when the name is empty or the total is
// zero.
func SubmitProgress(ctx context.Context, c Client, name string, p progress.Progress) (Entry, bool, error) {
	name = strings.TrimSpace(name)
	if c == nil || name == "" || p.TotalScore == 0 {
		return Entry{}, false, nil
	}
	e, err := c.Submit(ctx, name, p.TotalScore, len(p.CompletedLevels))
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func validate(name string, score, levels int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Join(ErrInvalidEntry, errors.New("name is required"))
	}
	if score < 0 || levels < 0 {
		return "", errors.Join(ErrInvalidEntry, errors.New("score and levels must not be negative"))
	}
	return name, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// sortEntries orders by score descending, then timestamp ascending.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}
