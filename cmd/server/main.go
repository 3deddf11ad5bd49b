package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/youpure/server/internal/app"
	"github.com/youpure/server/internal/player"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
		usage:        "Server port",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	writeTimeout = configVar[time.Duration]{
		envKey:       "SERVER_WRITE_TIMEOUT",
		flagKey:      "write-timeout",
		defaultValue: 5 * time.Second,
		usage:        "Websocket write timeout",
	}
	shutdownTimeout = configVar[time.Duration]{
		envKey:       "SERVER_SHUTDOWN_TIMEOUT",
		flagKey:      "shutdown-timeout",
		defaultValue: 30 * time.Second,
		usage:        "Graceful shutdown timeout",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
		usage:        "Redis host, empty disables the title cache",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	redisDB = configVar[int]{
		envKey:       "REDIS_DB",
		flagKey:      "redis-db",
		defaultValue: 0,
		usage:        "Redis database",
	}
	titleCacheTTL = configVar[time.Duration]{
		envKey:       "REDIS_TITLE_TTL",
		flagKey:      "title-cache-ttl",
		defaultValue: 24 * time.Hour,
		usage:        "How long fetched titles stay cached",
	}
	youtubeAPIKey = configVar[string]{
		envKey:       "YOUTUBE_API_KEY",
		flagKey:      "youtube-api-key",
		defaultValue: "",
		usage:        "YouTube Data API key, empty falls back to oEmbed",
	}
	metadataTimeout = configVar[time.Duration]{
		envKey:       "YOUTUBE_TIMEOUT",
		flagKey:      "metadata-timeout",
		defaultValue: 5 * time.Second,
		usage:        "Timeout of a single title lookup",
	}
	metadataRPS = configVar[float64]{
		envKey:       "YOUTUBE_RPS",
		flagKey:      "metadata-rps",
		defaultValue: 5,
		usage:        "Title lookups per second, 0 disables the limit",
	}
	metadataBurst = configVar[int]{
		envKey:       "YOUTUBE_BURST",
		flagKey:      "metadata-burst",
		defaultValue: 10,
		usage:        "Title lookup burst",
	}
	pollInterval = configVar[time.Duration]{
		envKey:       "PLAYER_POLL_INTERVAL",
		flagKey:      "poll-interval",
		defaultValue: player.DefaultPollInterval,
		usage:        "Progress polling interval",
	}
	skipStep = configVar[float64]{
		envKey:       "PLAYER_SKIP_STEP",
		flagKey:      "skip-step",
		defaultValue: player.DefaultSkipStep,
		usage:        "Seconds moved by a skip",
	}
	autoplay = configVar[bool]{
		envKey:       "PLAYER_AUTOPLAY",
		flagKey:      "autoplay",
		defaultValue: true,
		usage:        "Start playback once the player is ready",
	}
	loop = configVar[bool]{
		envKey:       "PLAYER_LOOP",
		flagKey:      "loop",
		defaultValue: true,
		usage:        "Loop the video",
	}
	controls = configVar[bool]{
		envKey:       "PLAYER_CONTROLS",
		flagKey:      "controls",
		defaultValue: true,
		usage:        "Show native player controls",
	}
	fullscreen = configVar[bool]{
		envKey:       "PLAYER_FULLSCREEN",
		flagKey:      "fullscreen",
		defaultValue: true,
		usage:        "Allow fullscreen",
	}
	related = configVar[bool]{
		envKey:       "PLAYER_RELATED",
		flagKey:      "related",
		defaultValue: false,
		usage:        "Show related videos at the end",
	}
)

func (v configVar[T]) bind(register func(name string, value T, usage string) *T) {
	register(v.flagKey, v.defaultValue, v.usage)
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	host.bind(pflag.String)
	port.bind(pflag.Int)
	logLevel.bind(pflag.String)
	writeTimeout.bind(pflag.Duration)
	shutdownTimeout.bind(pflag.Duration)
	redisHost.bind(pflag.String)
	redisPort.bind(pflag.Int)
	redisPassword.bind(pflag.String)
	redisDB.bind(pflag.Int)
	titleCacheTTL.bind(pflag.Duration)
	youtubeAPIKey.bind(pflag.String)
	metadataTimeout.bind(pflag.Duration)
	metadataRPS.bind(pflag.Float64)
	metadataBurst.bind(pflag.Int)
	pollInterval.bind(pflag.Duration)
	skipStep.bind(pflag.Float64)
	autoplay.bind(pflag.Bool)
	loop.bind(pflag.Bool)
	controls.bind(pflag.Bool)
	fullscreen.bind(pflag.Bool)
	related.bind(pflag.Bool)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	return &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		WriteTimeout:     viper.GetDuration(writeTimeout.flagKey),
		ShutdownTimeout:  viper.GetDuration(shutdownTimeout.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
		RedisDB:          viper.GetInt(redisDB.flagKey),
		TitleCacheTTL:    viper.GetDuration(titleCacheTTL.flagKey),
		YouTubeAPIKey:    viper.GetString(youtubeAPIKey.flagKey),
		MetadataTimeout:  viper.GetDuration(metadataTimeout.flagKey),
		MetadataRPS:      viper.GetFloat64(metadataRPS.flagKey),
		MetadataBurst:    viper.GetInt(metadataBurst.flagKey),
		PollInterval:     viper.GetDuration(pollInterval.flagKey),
		SkipStep:         viper.GetFloat64(skipStep.flagKey),
		PlayerAutoplay:   viper.GetBool(autoplay.flagKey),
		PlayerLoop:       viper.GetBool(loop.flagKey),
		PlayerControls:   viper.GetBool(controls.flagKey),
		PlayerFullscreen: viper.GetBool(fullscreen.flagKey),
		PlayerRelated:    viper.GetBool(related.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
