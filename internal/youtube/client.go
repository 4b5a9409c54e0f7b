package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type snippet struct {
	Title      string               `json:"title"`
	Thumbnails map[string]Thumbnail `json:"thumbnails"`
}

type videoListResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

// VideoDetails is the resolved metadata for a single video: its title plus
// the big/small thumbnails picked from the provider's variant set.
type VideoDetails struct {
	Title    string `json:"title"`
	BigImg   string `json:"big_img"`
	SmallImg string `json:"small_img"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// GetVideoDetails fetches title and thumbnails for a video ID. The provider
// returns thumbnail variants of varying width; SelectThumbnails picks the
// big/small pair from them.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (*VideoDetails, error) {
	params := url.Values{}
	params.Add("part", "snippet")
	params.Add("id", videoID)
	params.Add("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube: video request failed with status %d", resp.StatusCode)
	}

	var videoResp videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&videoResp); err != nil {
		return nil, err
	}

	if len(videoResp.Items) == 0 {
		return nil, fmt.Errorf("youtube: video %s not found", videoID)
	}

	snip := videoResp.Items[0].Snippet

	variants := make([]Thumbnail, 0, len(snip.Thumbnails))
	for _, t := range snip.Thumbnails {
		variants = append(variants, t)
	}

	big, small := SelectThumbnails(variants)

	return &VideoDetails{
		Title:    snip.Title,
		BigImg:   big,
		SmallImg: small,
	}, nil
}

// SelectThumbnails sorts the variants ascending by width and returns the
// widest as the big thumbnail and the second-widest as the small one. A
// single variant serves as both. The sort is total (URL breaks width ties)
// so the selection is reproducible regardless of input order.
func SelectThumbnails(variants []Thumbnail) (big, small string) {
	if len(variants) == 0 {
		return "", ""
	}

	sort.Slice(variants, func(i, j int) bool {
		if variants[i].Width != variants[j].Width {
			return variants[i].Width < variants[j].Width
		}
		return variants[i].URL < variants[j].URL
	})

	big = variants[len(variants)-1].URL
	if len(variants) > 1 {
		small = variants[len(variants)-2].URL
	} else {
		small = big
	}
	return big, small
}
