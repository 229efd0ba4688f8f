package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mouthfix/internal/level"
)

// fakeFetcher returns a 1x1 image per path. Paths listed in gates block
// until their channel is closed; paths in fail return an error.
type fakeFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fail  map[string]bool
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		gates: map[string]chan struct{}{},
		fail:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeFetcher) gate(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		f.gates[p] = make(chan struct{})
	}
}

func (f *fakeFetcher) release(path string) {
	f.mu.Lock()
	ch := f.gates[path]
	f.mu.Unlock()
	close(ch)
}

func (f *fakeFetcher) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	f.mu.Lock()
	f.calls[path]++
	gate := f.gates[path]
	fail := f.fail[path]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func testLevel(id int, prefix string) level.Level {
	opts := make([]level.Option, level.OptionCount)
	for i := range opts {
		opts[i] = level.Option{ID: fmt.Sprint(i), Image: fmt.Sprintf("%s-opt%d.png", prefix, i)}
	}
	return level.Level{
		ID:              id,
		BaseImage:       prefix + "-base.png",
		CompletedImage:  prefix + "-done.png",
		Options:         opts,
		CorrectOptionID: "0",
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// waitFor polls cond for up to two seconds.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreloadReadyOnlyAfterAllSettle(t *testing.T) {
	fetcher := newFakeFetcher()
	lvl := testLevel(1, "l1")
	paths := lvl.Images()
	if len(paths) != 6 {
		t.Fatalf("test level has %d images, want 6", len(paths))
	}
	fetcher.gate(paths...)
	p := NewPreloader(fetcher, quietLogger())

	var mu sync.Mutex
	var reports []Progress
	done := make(chan struct{})
	go func() {
		p.PreloadLevel(context.Background(), 0, lvl, func(pr Progress) {
			mu.Lock()
			reports = append(reports, pr)
			mu.Unlock()
		})
		close(done)
	}()

	reported := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(reports)
	}

	for i, path := range paths[:5] {
		fetcher.release(path)
		waitFor(t, fmt.Sprintf("report %d", i+1), func() bool { return reported() == i+1 })
		if p.IsReady() {
			t.Fatalf("ready after %d of 6 images", i+1)
		}
	}

	fetcher.release(paths[5])
	<-done

	if !p.IsReady() {
		t.Fatal("not ready after all images settled")
	}
	if len(reports) != 6 {
		t.Fatalf("got %d progress reports, want 6", len(reports))
	}
	for i, pr := range reports[:5] {
		if pr.Percent >= 100 || pr.Loaded != i+1 || pr.Total != 6 {
			t.Errorf("report %d = %+v", i, pr)
		}
	}
	if last := reports[5]; last.Percent != 100 || last.Loaded != 6 {
		t.Errorf("last report = %+v, want 100%%", last)
	}
}

func TestPreloadFailureDoesNotBlock(t *testing.T) {
	fetcher := newFakeFetcher()
	lvl := testLevel(1, "l1")
	fetcher.fail[lvl.Options[2].Image] = true
	p := NewPreloader(fetcher, quietLogger())

	p.PreloadLevel(context.Background(), 0, lvl, nil)

	if !p.IsReady() {
		t.Fatal("a failed image blocked readiness")
	}
	if got := p.Progress(); got.Percent != 100 || got.Loaded != 6 {
		t.Errorf("Progress() = %+v", got)
	}
	if _, ok := p.Image(lvl.Options[2].Image); ok {
		t.Error("failed image should not be cached")
	}
	if _, ok := p.Image(lvl.BaseImage); !ok {
		t.Error("base image missing from cache")
	}
}

func TestPreloadSameIndexJoinsInFlight(t *testing.T) {
	fetcher := newFakeFetcher()
	lvl := testLevel(1, "l1")
	fetcher.gate(lvl.BaseImage)
	p := NewPreloader(fetcher, quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.PreloadLevel(context.Background(), 0, lvl, nil)
	}()
	waitFor(t, "first fetch", func() bool { return fetcher.count(lvl.BaseImage) == 1 })

	wg.Add(1)
	joined := make(chan struct{})
	go func() {
		defer wg.Done()
		p.PreloadLevel(context.Background(), 0, lvl, nil)
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("second call returned before the first load finished")
	case <-time.After(20 * time.Millisecond):
	}

	fetcher.release(lvl.BaseImage)
	wg.Wait()

	for _, path := range lvl.Images() {
		if n := fetcher.count(path); n != 1 {
			t.Errorf("%s fetched %d times, want 1", path, n)
		}
	}
	if !p.IsReady() {
		t.Error("not ready after joined load")
	}
}

func TestPreloadLoadedIndexDoesNotRestart(t *testing.T) {
	fetcher := newFakeFetcher()
	lvl := testLevel(1, "l1")
	p := NewPreloader(fetcher, quietLogger())

	p.PreloadLevel(context.Background(), 0, lvl, nil)
	before := fetcher.total()

	called := false
	p.PreloadLevel(context.Background(), 0, lvl, func(Progress) { called = true })

	if fetcher.total() != before {
		t.Errorf("fetches went from %d to %d on a redundant call", before, fetcher.total())
	}
	if called {
		t.Error("redundant call reported progress")
	}
	if !p.IsReady() {
		t.Error("redundant call cleared readiness")
	}
}

func TestSwitchingIndexResetsReadiness(t *testing.T) {
	fetcher := newFakeFetcher()
	first := testLevel(1, "l1")
	second := testLevel(2, "l2")
	p := NewPreloader(fetcher, quietLogger())
	p.PreloadLevel(context.Background(), 0, first, nil)

	fetcher.gate(second.BaseImage)
	done := make(chan struct{})
	go func() {
		p.PreloadLevel(context.Background(), 1, second, nil)
		close(done)
	}()

	waitFor(t, "index switch", func() bool { return p.Active() == 1 })
	if p.IsReady() {
		t.Error("ready while the new level is loading")
	}

	fetcher.release(second.BaseImage)
	<-done
	if !p.IsReady() {
		t.Error("not ready after the new level loaded")
	}
}

func TestCachedImagesAreNotRefetched(t *testing.T) {
	fetcher := newFakeFetcher()
	lvl := testLevel(1, "l1")
	p := NewPreloader(fetcher, quietLogger())

	p.PreloadAhead(context.Background(), lvl)
	if p.IsReady() || p.Active() != -1 {
		t.Error("PreloadAhead changed readiness")
	}
	if _, ok := p.Image(lvl.CompletedImage); !ok {
		t.Error("PreloadAhead did not cache images")
	}

	var reports []Progress
	p.PreloadLevel(context.Background(), 0, lvl, func(pr Progress) { reports = append(reports, pr) })

	if fetcher.total() != 6 {
		t.Errorf("fetched %d images, want 6", fetcher.total())
	}
	if len(reports) != 0 {
		t.Errorf("got %d reports for a fully cached level", len(reports))
	}
	if got := p.Progress(); got.Percent != 100 {
		t.Errorf("Progress() = %+v, want 100%%", got)
	}
	if !p.IsReady() {
		t.Error("fully cached level not ready")
	}
}

func TestNewProgress(t *testing.T) {
	tests := []struct {
		loaded, total, want int
	}{
		{0, 6, 0},
		{1, 6, 17},
		{3, 6, 50},
		{5, 6, 83},
		{6, 6, 100},
		{199, 200, 99},
		{0, 0, 100},
	}
	for _, tt := range tests {
		if got := newProgress(tt.loaded, tt.total).Percent; got != tt.want {
			t.Errorf("newProgress(%d, %d) = %d%%, want %d%%", tt.loaded, tt.total, got, tt.want)
		}
	}
}
