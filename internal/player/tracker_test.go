package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProgress(t *testing.T) {
	assert.Equal(t, Progress{Percent: 25, CurrentTime: 25, Duration: 100}, NewProgress(25, 100))
	assert.Equal(t, Progress{Percent: 0, CurrentTime: 12, Duration: 0}, NewProgress(12, 0))
	assert.Equal(t, 100.0, NewProgress(120, 100).Percent)
	assert.Equal(t, Progress{}, NewProgress(-1, -5))
}

type progressLog struct {
	mu      sync.Mutex
	samples []Progress
}

func (l *progressLog) publish(_ Binding, p Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = append(l.samples, p)
}

func (l *progressLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}

func (l *progressLog) last() Progress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.samples[len(l.samples)-1]
}

func TestTrackerPublishesSamples(t *testing.T) {
	log := &progressLog{}
	tr := NewTracker(5*time.Millisecond, log.publish)
	b := &fakeBinding{currentTime: 30, duration: 60}

	tr.Start(b)
	defer tr.Stop()

	assert.Eventually(t, func() bool { return log.len() > 0 }, time.Second, time.Millisecond)
	assert.Equal(t, Progress{Percent: 50, CurrentTime: 30, Duration: 60}, log.last())
	assert.True(t, tr.Active())
}

func TestTrackerStartTwiceLeavesOneLoop(t *testing.T) {
	tr := NewTracker(5*time.Millisecond, (&progressLog{}).publish)
	b := &fakeBinding{duration: 10}

	tr.Start(b)
	tr.Start(b)
	defer tr.Stop()

	assert.Eventually(t, func() bool { return tr.loops() == 1 }, time.Second, time.Millisecond)
	assert.Never(t, func() bool { return tr.loops() != 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestTrackerStopHaltsPublishing(t *testing.T) {
	log := &progressLog{}
	tr := NewTracker(5*time.Millisecond, log.publish)

	tr.Start(&fakeBinding{duration: 10})
	assert.Eventually(t, func() bool { return log.len() > 0 }, time.Second, time.Millisecond)

	tr.Stop()
	assert.False(t, tr.Active())
	assert.Eventually(t, func() bool { return tr.loops() == 0 }, time.Second, time.Millisecond)

	n := log.len()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, log.len())
}

func TestTrackerStopWithoutStartIsNoop(t *testing.T) {
	tr := NewTracker(0, (&progressLog{}).publish)

	assert.NotPanics(t, func() {
		tr.Stop()
		tr.Stop()
	})
	assert.Equal(t, DefaultPollInterval, tr.interval)
}

func TestTrackerStopWaitsForInFlightSample(t *testing.T) {
	var (
		mu        sync.Mutex
		published int
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	tr := NewTracker(time.Millisecond, func(Binding, Progress) {
		mu.Lock()
		published++
		first := published == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
	})

	tr.Start(&fakeBinding{duration: 10})
	<-entered

	stopped := make(chan struct{})
	go func() {
		tr.Stop()
		close(stopped)
	}()

	assert.Never(t, func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, 20*time.Millisecond, time.Millisecond, "stop returned while a sample was being published")

	close(release)
	assert.Eventually(t, func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.Zero(t, tr.loops())

	mu.Lock()
	n := published
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, n, published)
}
