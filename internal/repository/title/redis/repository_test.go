package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpure/server/internal/repository/title"
)

func TestTitleRepo(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rc.Close()

	repo := NewRepo(rc, time.Hour)
	ctx := context.Background()

	_, err := repo.GetTitle(ctx, "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, title.ErrTitleNotFound)

	require.NoError(t, repo.SetTitle(ctx, "dQw4w9WgXcQ", "Never Gonna Give You Up"))

	got, err := repo.GetTitle(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", got)
	assert.Equal(t, time.Hour, s.TTL("video:dQw4w9WgXcQ:title"))

	s.FastForward(2 * time.Hour)
	_, err = repo.GetTitle(ctx, "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, title.ErrTitleNotFound)
}
