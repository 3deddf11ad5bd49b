package metadata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/youpure/server/internal/repository/title"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 10 * time.Second

type iProvider interface {
	Title(ctx context.Context, videoId string) (string, error)
}

type iTitleRepo interface {
	GetTitle(ctx context.Context, videoId string) (string, error)
	SetTitle(ctx context.Context, videoId string, title string) error
}

type service struct {
	provider  iProvider
	titleRepo iTitleRepo
	group     singleflight.Group
	timeout   time.Duration
	logger    *slog.Logger
}

// NewService returns a title fetcher backed by provider. titleRepo may be nil
// to disable caching.
func NewService(provider iProvider, titleRepo iTitleRepo, timeout time.Duration, logger *slog.Logger) *service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{
		provider:  provider,
		titleRepo: titleRepo,
		timeout:   timeout,
		logger:    logger,
	}
}

// FetchTitle never fails: any lookup problem is logged and reported as a
// missing title.
func (s *service) FetchTitle(ctx context.Context, videoId string) (string, bool) {
	if cached, ok := s.getCached(ctx, videoId); ok {
		return cached, true
	}

	res, err, shared := s.group.Do(videoId, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		videoTitle, err := s.provider.Title(lookupCtx, videoId)
		if err != nil {
			return "", err
		}

		s.setCached(lookupCtx, videoId, videoTitle)
		return videoTitle, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch title", "video_id", videoId, "error", err)
		return "", false
	}

	s.logger.DebugContext(ctx, "title fetched", "video_id", videoId, "shared", shared)
	return res.(string), true
}

func (s *service) getCached(ctx context.Context, videoId string) (string, bool) {
	if s.titleRepo == nil {
		return "", false
	}

	cached, err := s.titleRepo.GetTitle(ctx, videoId)
	if err != nil {
		if !errors.Is(err, title.ErrTitleNotFound) {
			s.logger.WarnContext(ctx, "failed to read title cache", "video_id", videoId, "error", err)
		}
		return "", false
	}

	return cached, true
}

func (s *service) setCached(ctx context.Context, videoId, videoTitle string) {
	if s.titleRepo == nil {
		return
	}

	if err := s.titleRepo.SetTitle(ctx, videoId, videoTitle); err != nil {
		s.logger.WarnContext(ctx, "failed to write title cache", "video_id", videoId, "error", err)
	}
}
