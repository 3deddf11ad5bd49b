package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/youpure/server/internal/repository/title"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getTitleKey(videoId string) string {
	return "video:" + videoId + ":title"
}

func (r repo) GetTitle(ctx context.Context, videoId string) (string, error) {
	res, err := r.rc.Get(ctx, r.getTitleKey(videoId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", title.ErrTitleNotFound
		}

		return "", fmt.Errorf("failed to get title: %w", err)
	}

	return res, nil
}

func (r repo) SetTitle(ctx context.Context, videoId string, videoTitle string) error {
	if err := r.rc.Set(ctx, r.getTitleKey(videoId), videoTitle, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}

	return nil
}
