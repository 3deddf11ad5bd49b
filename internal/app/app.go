package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/youpure/server/internal/controller"
	"github.com/youpure/server/internal/player"
	"github.com/youpure/server/internal/repository/connection/inmemory"
	titleRedis "github.com/youpure/server/internal/repository/title/redis"
	"github.com/youpure/server/internal/service/metadata"
	"github.com/youpure/server/internal/service/session"
	"github.com/youpure/server/pkg/ctxlogger"
	"github.com/youpure/server/pkg/redisclient"
	"github.com/youpure/server/pkg/validator"
	"github.com/youpure/server/pkg/ytvideodata"
)

type AppConfig struct {
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"gt=0,lte=65535"`
	LogLevel string `json:"log_level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// RedisHost left empty disables the title cache.
	RedisHost     string        `json:"redis_host"`
	RedisPort     int           `json:"redis_port" validate:"gte=0,lte=65535"`
	RedisPassword string        `json:"-"`
	RedisDB       int           `json:"redis_db" validate:"gte=0"`
	TitleCacheTTL time.Duration `json:"title_cache_ttl" validate:"gte=0"`

	YouTubeAPIKey     string        `json:"-"`
	MetadataTimeout   time.Duration `json:"metadata_timeout" validate:"gt=0"`
	MetadataRPS       float64       `json:"metadata_rps" validate:"gte=0"`
	MetadataBurst     int           `json:"metadata_burst" validate:"gte=0"`
	PollInterval      time.Duration `json:"poll_interval" validate:"gt=0"`
	SkipStep          float64       `json:"skip_step" validate:"gt=0"`
	WriteTimeout      time.Duration `json:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" validate:"gt=0"`
	PlayerAutoplay    bool          `json:"player_autoplay"`
	PlayerLoop        bool          `json:"player_loop"`
	PlayerControls    bool          `json:"player_controls"`
	PlayerFullscreen  bool          `json:"player_fullscreen"`
	PlayerRelated     bool          `json:"player_related"`
}

func (cfg *AppConfig) Validate() error {
	if errs, ok := validator.NewValidator().Validate(cfg); !ok {
		return fmt.Errorf("invalid config: %w", validator.Error(errs))
	}

	return nil
}

func (cfg *AppConfig) playerConfig() player.Config {
	return player.Config{
		Autoplay:        cfg.PlayerAutoplay,
		Loop:            cfg.PlayerLoop,
		ShowControls:    cfg.PlayerControls,
		AllowFullscreen: cfg.PlayerFullscreen,
		RelatedVideos:   cfg.PlayerRelated,
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

type titleCache interface {
	GetTitle(ctx context.Context, videoId string) (string, error)
	SetTitle(ctx context.Context, videoId string, videoTitle string) error
}

type sessionShutdowner interface {
	Shutdown(ctx context.Context)
}

// server is everything Run needs after wiring.
type server struct {
	handler  http.Handler
	sessions sessionShutdowner
	closers  []func() error
}

func (s *server) close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func newServer(ctx context.Context, cfg *AppConfig, rc *redis.Client, logger *slog.Logger) *server {
	var srv server

	var cache titleCache
	if rc != nil {
		cache = titleRedis.NewRepo(rc, cfg.TitleCacheTTL)
	}

	videoData := ytvideodata.NewClient(&ytvideodata.Config{
		APIKey:            cfg.YouTubeAPIKey,
		RequestsPerSecond: cfg.MetadataRPS,
		Burst:             cfg.MetadataBurst,
		Timeout:           cfg.MetadataTimeout,
	})
	metadataService := metadata.NewService(videoData, cache, cfg.MetadataTimeout, logger)

	connectionRepo := inmemory.NewRepo(logger)
	sessionService := session.NewService(connectionRepo, metadataService, &session.Config{
		Player:       cfg.playerConfig(),
		PollInterval: cfg.PollInterval,
		SkipStep:     cfg.SkipStep,
		WriteTimeout: cfg.WriteTimeout,
	}, logger)

	srv.handler = controller.NewController(sessionService, metadataService, logger).GetMux()
	srv.sessions = sessionService

	logger.InfoContext(ctx, "server wired", "title_cache", cache != nil, "data_api", cfg.YouTubeAPIKey != "")

	return &srv
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	var rc *redis.Client
	if cfg.RedisHost != "" {
		rc, err = redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
	}

	srv := newServer(ctx, cfg, rc, logger)
	if rc != nil {
		srv.closers = append(srv.closers, rc.Close)
	}
	defer func() {
		if err := srv.close(); err != nil {
			logger.WarnContext(ctx, "failed to release resources", "error", err)
		}
	}()

	httpServer := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: srv.handler}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, cfg.ShutdownTimeout)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		// hijacked websocket connections are not tracked by http.Server
		srv.sessions.Shutdown(shutdownCtx)

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
