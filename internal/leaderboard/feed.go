package leaderboard

import (
	"context"
	"sync"
)

// subscriber receives ranking updates over a small buffered channel.
type subscriber struct {
	id       uint64
	limit    int
	events   chan []Entry
	done     chan struct{}
	doneOnce sync.Once
}

// send delivers entries without blocking. When the buffer is full the
// oldest update is dropped; only the latest ranking matters.
func (s *subscriber) send(entries []Entry) {
	select {
	case <-s.done:
		return
	default:
	}

	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	select {
	case s.events <- entries:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- entries:
		default:
		}
	}
}

func (s *subscriber) close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// feed tracks subscribers and fans updates out to them.
type feed struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]*subscriber
}

func newFeed() *feed {
	return &feed{subs: make(map[uint64]*subscriber)}
}

func (f *feed) subscribe(limit int) *subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	s := &subscriber{
		id:     f.next,
		limit:  clampLimit(limit),
		events: make(chan []Entry, 4),
		done:   make(chan struct{}),
	}
	f.subs[s.id] = s
	return s
}

func (f *feed) unsubscribe(s *subscriber) {
	f.mu.Lock()
	delete(f.subs, s.id)
	f.mu.Unlock()
	s.close()
}

// publish sends entries, best first, to every subscriber.
func (f *feed) publish(entries []Entry) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.subs {
		s.send(entries)
	}
}

// maxLimit returns the largest limit any subscriber asked for, or 0.
func (f *feed) maxLimit() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, s := range f.subs {
		n = max(n, s.limit)
	}
	return n
}

func (f *feed) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// attach subscribes fn, seeds it with initial, and forwards updates until
// unsubscribed or ctx ends.
func (f *feed) attach(ctx context.Context, limit int, initial []Entry, fn func([]Entry)) func() {
	s := f.subscribe(limit)
	s.send(initial)

	var once sync.Once
	unsubscribe := func() { once.Do(func() { f.unsubscribe(s) }) }

	go func() {
		for {
			select {
			case entries := <-s.events:
				fn(entries)
			case <-s.done:
				return
			case <-ctx.Done():
				unsubscribe()
				return
			}
		}
	}()
	return unsubscribe
}
