package player

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

type seekCall struct {
	seconds        float64
	allowSeekAhead bool
}

type fakeBinding struct {
	mu          sync.Mutex
	currentTime float64
	duration    float64
	state       State
	plays       int
	pauses      int
	seeks       []seekCall
	tags        []string
	failPlay    bool
}

func (f *fakeBinding) Play(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	if f.failPlay {
		return errors.New("widget gone")
	}
	return nil
}

func (f *fakeBinding) Pause(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return nil
}

func (f *fakeBinding) Seek(_ context.Context, seconds float64, allowSeekAhead bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, seekCall{seconds: seconds, allowSeekAhead: allowSeekAhead})
	return nil
}

func (f *fakeBinding) Tag(_ context.Context, marker string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, marker)
	return nil
}

func (f *fakeBinding) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentTime
}

func (f *fakeBinding) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeBinding) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeBinding) set(currentTime, duration float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentTime = currentTime
	f.duration = duration
}

func (f *fakeBinding) lastSeek() (seekCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.seeks) == 0 {
		return seekCall{}, false
	}
	return f.seeks[len(f.seeks)-1], true
}

func (f *fakeBinding) counts() (plays, pauses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays, f.pauses
}

// gatedFetcher blocks each lookup until its video id is released.
type gatedFetcher struct {
	mu     sync.Mutex
	titles map[string]string
	gates  map[string]chan struct{}
	calls  map[string]int
}

func newGatedFetcher(titles map[string]string) *gatedFetcher {
	return &gatedFetcher{
		titles: titles,
		gates:  make(map[string]chan struct{}),
		calls:  make(map[string]int),
	}
}

func (f *gatedFetcher) gate(videoID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[videoID]
	if !ok {
		g = make(chan struct{})
		f.gates[videoID] = g
	}
	return g
}

func (f *gatedFetcher) release(videoID string) {
	close(f.gate(videoID))
}

func (f *gatedFetcher) FetchTitle(_ context.Context, videoID string) (string, bool) {
	f.mu.Lock()
	f.calls[videoID]++
	f.mu.Unlock()

	<-f.gate(videoID)

	f.mu.Lock()
	defer f.mu.Unlock()
	title, ok := f.titles[videoID]
	return title, ok
}

func (f *gatedFetcher) callCount(videoID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[videoID]
}

type staticFetcher map[string]string

func (f staticFetcher) FetchTitle(_ context.Context, videoID string) (string, bool) {
	title, ok := f[videoID]
	return title, ok
}

type fakeClipboard struct {
	text string
	err  error
}

func (c fakeClipboard) ReadText(context.Context) (string, error) {
	return c.text, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
