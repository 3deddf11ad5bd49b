package player

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often a playing video's position is sampled.
const DefaultPollInterval = 100 * time.Millisecond

// Progress is one sample of the bound player's position.
type Progress struct {
	Percent     float64 `json:"progress_percent"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

// NewProgress derives the percentage from a position sample. A non-positive
// duration yields zero progress.
func NewProgress(currentTime, duration float64) Progress {
	p := Progress{
		CurrentTime: max(currentTime, 0),
		Duration:    max(duration, 0),
	}
	if p.Duration > 0 {
		p.Percent = min(p.CurrentTime/p.Duration*100, 100)
	}

	return p
}

// Tracker owns the single polling loop that samples a Binding while it plays.
type Tracker struct {
	interval time.Duration
	publish  func(Binding, Progress)

	mu      sync.Mutex
	loop    *pollLoop
	running atomic.Int32
}

type pollLoop struct {
	stop chan struct{}
	done chan struct{}
}

// NewTracker returns a stopped Tracker. publish receives every sample along
// with the binding it was read from. publish must not call Start or Stop.
func NewTracker(interval time.Duration, publish func(Binding, Progress)) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Tracker{
		interval: interval,
		publish:  publish,
	}
}

// Start begins sampling b, stopping any loop that is already running.
func (t *Tracker) Start(b Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if b == nil {
		return
	}

	l := &pollLoop{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	t.loop = l
	t.running.Add(1)

	go func() {
		defer close(l.done)
		defer t.running.Add(-1)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p := NewProgress(b.CurrentTime(), b.Duration())
				select {
				case <-l.stop:
					return
				default:
				}
				t.publish(b, p)
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop cancels the running loop and waits for it to exit, so no sample is
// published once Stop returns. It is safe to call when nothing runs. The
// caller must not hold a lock that publish acquires.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

// Active reports whether a loop has been started and not stopped.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.loop != nil
}

// loops counts polling goroutines that have not exited yet.
func (t *Tracker) loops() int {
	return int(t.running.Load())
}

func (t *Tracker) stopLocked() {
	if t.loop == nil {
		return
	}

	close(t.loop.stop)
	<-t.loop.done
	t.loop = nil
}
