package ytvideodata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type dataAPIResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *Client) getFromDataAPI(ctx context.Context, videoId string) (*VideoData, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoId)
	query.Set("key", c.apiKey)

	resp, err := c.do(ctx, c.dataAPIURL+"/videos?"+query.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result dataAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(result.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	snippet := result.Items[0].Snippet
	videoData := VideoData{
		Title:      snippet.Title,
		AuthorName: snippet.ChannelTitle,
	}
	if thumbnail, ok := snippet.Thumbnails["high"]; ok {
		videoData.ThumbnailUrl = thumbnail.URL
	}

	return &videoData, nil
}
