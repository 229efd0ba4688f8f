package assets

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/mouthfix/internal/level"
)

// maxConcurrentFetches caps parallel image loads per preload.
const maxConcurrentFetches = 6

// Progress reports how many of a preload's images have settled.
type Progress struct {
	Loaded  int
	Total   int
	Percent int
}

func newProgress(loaded, total int) Progress {
	if total == 0 {
		return Progress{Percent: 100}
	}
	pct := int(math.Round(100 * float64(loaded) / float64(total)))
	if loaded < total {
		pct = min(pct, 99)
	}
	return Progress{Loaded: loaded, Total: total, Percent: pct}
}

// load is one running preload of the active level.
type load struct {
	done chan struct{}
}

// Preloader fetches level images ahead of play and keeps them for the life
// of the process. Only the active level index gates readiness.
type Preloader struct {
	fetcher Fetcher
	logger  *log.Logger

	mu       sync.Mutex
	cache    map[string]image.Image
	active   int
	ready    bool
	progress Progress
	inflight *load
}

// NewPreloader returns a preloader with no active level.
func NewPreloader(fetcher Fetcher, logger *log.Logger) *Preloader {
	if logger == nil {
		logger = log.Default()
	}
	return &Preloader{
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]image.Image),
		active:  -1,
	}
}

// PreloadLevel makes index the active level and loads every image of lvl,
// calling onProgress as each one settles. It returns when all have settled.
// Failed images are logged and skipped. Calling it again for the active
// index while it is loading joins that load; once loaded it returns at once.
func (p *Preloader) PreloadLevel(ctx context.Context, index int, lvl level.Level, onProgress func(Progress)) {
	p.mu.Lock()
	if index == p.active {
		if p.ready {
			p.mu.Unlock()
			return
		}
		if ld := p.inflight; ld != nil {
			p.mu.Unlock()
			<-ld.done
			return
		}
	}

	ld := &load{done: make(chan struct{})}
	p.active = index
	p.ready = false
	p.inflight = ld
	pending := p.missing(lvl.Images())
	p.progress = newProgress(0, len(pending))
	p.mu.Unlock()

	var notifyMu sync.Mutex
	loaded := 0
	p.fetchAll(ctx, pending, func() {
		notifyMu.Lock()
		defer notifyMu.Unlock()

		p.mu.Lock()
		loaded++
		current := p.inflight == ld
		prog := newProgress(loaded, len(pending))
		if current {
			p.progress = prog
		}
		p.mu.Unlock()

		if current && onProgress != nil {
			onProgress(prog)
		}
	})

	p.mu.Lock()
	if p.inflight == ld {
		p.ready = true
		p.inflight = nil
		p.progress = newProgress(len(pending), len(pending))
	}
	p.mu.Unlock()
	close(ld.done)

	p.logger.Debug("assets: level ready", "index", index, "images", len(pending))
}

// PreloadAhead caches the images of lvl without touching readiness.
func (p *Preloader) PreloadAhead(ctx context.Context, lvl level.Level) {
	p.mu.Lock()
	pending := p.missing(lvl.Images())
	p.mu.Unlock()
	p.fetchAll(ctx, pending, nil)
}

// missing filters out cached paths. Callers hold p.mu.
func (p *Preloader) missing(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := p.cache[path]; !ok {
			out = append(out, path)
		}
	}
	return out
}

// fetchAll loads paths concurrently into the cache. settled is called after
// each path finishes, successfully or not.
func (p *Preloader) fetchAll(ctx context.Context, paths []string, settled func()) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for _, path := range paths {
		g.Go(func() error {
			img, err := p.fetcher.Fetch(ctx, path)

			p.mu.Lock()
			if err != nil {
				p.logger.Warn("assets: image failed to load", "path", path, "error", err)
			} else {
				p.cache[path] = img
			}
			p.mu.Unlock()

			if settled != nil {
				settled()
			}
			return nil
		})
	}
	_ = g.Wait()
}

// IsReady reports whether the active level has finished preloading.
func (p *Preloader) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Active returns the active level index, or -1 before the first preload.
func (p *Preloader) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Progress returns the active preload's progress.
func (p *Preloader) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Image returns a cached image.
func (p *Preloader) Image(path string) (image.Image, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, ok := p.cache[path]
	return img, ok
}
