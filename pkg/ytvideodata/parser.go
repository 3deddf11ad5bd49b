package ytvideodata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const pageTitleSuffix = " - YouTube"

func (c *Client) getFromPage(ctx context.Context, videoId string) (*VideoData, error) {
	resp, err := c.do(ctx, c.pageURL+videoId)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	var videoData VideoData
	videoData.Title = strings.TrimSuffix(getTitle(doc), pageTitleSuffix)
	videoData.ThumbnailUrl = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoId)
	videoData.AuthorName = getLinkContent(doc)
	return &videoData, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild == nil {
			return ""
		}
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func getLinkContent(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		for _, attr := range n.Attr {
			if attr.Key == "itemprop" && attr.Val == "name" {
				for _, attr := range n.Attr {
					if attr.Key == "content" {
						return attr.Val
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getLinkContent(c); content != "" {
			return content
		}
	}
	return ""
}
