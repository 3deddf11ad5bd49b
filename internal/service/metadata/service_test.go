package metadata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	titleRedis "github.com/youpure/server/internal/repository/title/redis"
	"github.com/youpure/server/pkg/ytvideodata"
)

type fakeProvider struct {
	titles map[string]string
	calls  atomic.Int32
	delay  time.Duration
}

func (p *fakeProvider) Title(ctx context.Context, videoId string) (string, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	videoTitle, ok := p.titles[videoId]
	if !ok {
		return "", ytvideodata.ErrVideoNotFound
	}
	return videoTitle, nil
}

func newTitleRepo(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })
	return s, rc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchTitle(t *testing.T) {
	provider := &fakeProvider{titles: map[string]string{"dQw4w9WgXcQ": "Rick"}}
	s := NewService(provider, nil, time.Second, discardLogger())

	got, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
	assert.True(t, ok)
	assert.Equal(t, "Rick", got)

	got, ok = s.FetchTitle(context.Background(), "9bZkp7q19f0")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestFetchTitleUsesCache(t *testing.T) {
	_, rc := newTitleRepo(t)
	provider := &fakeProvider{titles: map[string]string{"dQw4w9WgXcQ": "Rick"}}
	s := NewService(provider, titleRedis.NewRepo(rc, time.Hour), time.Second, discardLogger())

	for i := 0; i < 3; i++ {
		got, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
		require.True(t, ok)
		assert.Equal(t, "Rick", got)
	}
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestFetchTitleIgnoresBrokenCache(t *testing.T) {
	mr, rc := newTitleRepo(t)
	mr.Close()

	provider := &fakeProvider{titles: map[string]string{"dQw4w9WgXcQ": "Rick"}}
	s := NewService(provider, titleRedis.NewRepo(rc, time.Hour), time.Second, discardLogger())

	got, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
	assert.True(t, ok)
	assert.Equal(t, "Rick", got)
}

func TestFetchTitleSharesConcurrentLookups(t *testing.T) {
	provider := &fakeProvider{titles: map[string]string{"dQw4w9WgXcQ": "Rick"}, delay: 50 * time.Millisecond}
	s := NewService(provider, nil, time.Second, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
			assert.True(t, ok)
			assert.Equal(t, "Rick", got)
		}()
	}
	wg.Wait()

	assert.Less(t, provider.calls.Load(), int32(5))
}

func TestFetchTitleTimesOut(t *testing.T) {
	provider := &fakeProvider{titles: map[string]string{"dQw4w9WgXcQ": "Rick"}, delay: 30 * time.Millisecond}
	s := NewService(provider, nil, 10*time.Millisecond, discardLogger())

	_, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
	assert.False(t, ok)
}

func TestFetchTitleProviderError(t *testing.T) {
	s := NewService(providerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}), nil, time.Second, discardLogger())

	_, ok := s.FetchTitle(context.Background(), "dQw4w9WgXcQ")
	assert.False(t, ok)
}

type providerFunc func(ctx context.Context, videoId string) (string, error)

func (f providerFunc) Title(ctx context.Context, videoId string) (string, error) {
	return f(ctx, videoId)
}
