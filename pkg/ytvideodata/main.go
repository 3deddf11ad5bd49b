package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
	ErrMalformedResponse  = errors.New("malformed response")
)

const (
	defaultDataAPIURL = "https://www.googleapis.com/youtube/v3"
	defaultOEmbedURL  = "https://www.youtube.com/oembed"
	defaultPageURL    = "https://youtu.be/"
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Config struct {
	// APIKey enables the Data API. Without it lookups go through oEmbed.
	APIKey string
	// RequestsPerSecond limits outgoing lookups. Zero disables the limit.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	DataAPIURL string
	OEmbedURL  string
	PageURL    string
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	dataAPIURL string
	oembedURL  string
	pageURL    string
}

func NewClient(cfg *Config) *Client {
	c := Client{
		httpClient: cfg.HTTPClient,
		apiKey:     cfg.APIKey,
		dataAPIURL: cfg.DataAPIURL,
		oembedURL:  cfg.OEmbedURL,
		pageURL:    cfg.PageURL,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}

	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.dataAPIURL == "" {
		c.dataAPIURL = defaultDataAPIURL
	}
	if c.oembedURL == "" {
		c.oembedURL = defaultOEmbedURL
	}
	if c.pageURL == "" {
		c.pageURL = defaultPageURL
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &c
}

// Get looks the video up with the Data API when an API key is configured,
// otherwise with oEmbed and, for videos that refuse embedding, the watch page.
func (c *Client) Get(ctx context.Context, videoId string) (*VideoData, error) {
	if c.apiKey != "" {
		videoData, err := c.getFromDataAPI(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from data api: %w", err)
		}

		return videoData, nil
	}

	videoData, err := c.getVideoWithEmbed(ctx, videoId)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}

func (c *Client) Title(ctx context.Context, videoId string) (string, error) {
	videoData, err := c.Get(ctx, videoId)
	if err != nil {
		return "", err
	}

	if videoData.Title == "" {
		return "", ErrVideoNotFound
	}

	return videoData.Title, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}
